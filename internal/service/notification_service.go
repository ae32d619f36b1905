package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/course_app/internal/delivery"
	"github.com/Freeeeeet/course_app/internal/model"
)

// NotificationListLimit caps the notification list of one user.
const NotificationListLimit = 50

// MessageBuilder renders the in-app message for one recipient.
type MessageBuilder func(u *model.User) string

// MailBuilder renders the delivery message for one recipient, or nil to skip delivery.
type MailBuilder func(u *model.User) *delivery.Message

// StaticMessage returns a MessageBuilder that ignores the recipient.
func StaticMessage(msg string) MessageBuilder {
	return func(*model.User) string { return msg }
}

func recipientOf(u *model.User) delivery.Recipient {
	return delivery.Recipient{
		Name:           u.Name,
		Email:          u.Email,
		TelegramChatID: u.TelegramChatID,
	}
}

type NotificationService struct {
	enrollments   EnrollmentRepository
	notifications NotificationRepository
	dispatcher    Dispatcher
	logger        *zap.Logger
}

func NewNotificationService(
	enrollments EnrollmentRepository,
	notifications NotificationRepository,
	dispatcher Dispatcher,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		enrollments:   enrollments,
		notifications: notifications,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// NotifyCourseEnrollees stores one notification per enrolled user in a single batch
// and queues their deliveries. It returns the number of notifications created.
func (s *NotificationService) NotifyCourseEnrollees(
	ctx context.Context,
	courseID int64,
	build MessageBuilder,
	notificationType model.NotificationType,
	link string,
	mail MailBuilder,
) (int, error) {
	users, err := s.enrollments.ListUsersByCourse(ctx, courseID)
	if err != nil {
		return 0, fmt.Errorf("list course enrollees: %w", err)
	}
	if len(users) == 0 {
		s.logger.Debug("No enrollees to notify", zap.Int64("course_id", courseID))
		return 0, nil
	}

	batchID := uuid.New()
	notifications := make([]*model.Notification, 0, len(users))
	for _, u := range users {
		notifications = append(notifications, &model.Notification{
			UserID:  u.ID,
			Message: build(u),
			Type:    notificationType,
			Link:    link,
			BatchID: batchID,
		})
	}

	if err := s.notifications.CreateBatch(ctx, notifications); err != nil {
		return 0, fmt.Errorf("create notification batch: %w", err)
	}

	if mail != nil {
		msgs := make([]*delivery.Message, 0, len(users))
		for i, u := range users {
			if msg := mail(u); msg != nil {
				msg.Text = notifications[i].Message
				msg.Link = link
				msgs = append(msgs, msg)
			}
		}
		s.dispatcher.Enqueue(msgs...)
	}

	s.logger.Info("Course enrollees notified",
		zap.Int64("course_id", courseID),
		zap.String("type", string(notificationType)),
		zap.String("batch_id", batchID.String()),
		zap.Int("count", len(notifications)),
	)
	return len(notifications), nil
}

// NotifyUser stores a single notification and queues its delivery.
func (s *NotificationService) NotifyUser(
	ctx context.Context,
	user *model.User,
	notificationType model.NotificationType,
	message, link string,
	mail *delivery.Message,
) error {
	n := &model.Notification{
		UserID:  user.ID,
		Message: message,
		Type:    notificationType,
		Link:    link,
		BatchID: uuid.New(),
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	if mail != nil {
		mail.Text = message
		mail.Link = link
		s.dispatcher.Enqueue(mail)
	}

	s.logger.Info("User notified",
		zap.Int64("user_id", user.ID),
		zap.String("type", string(notificationType)),
	)
	return nil
}

// List returns the caller's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, session *Session) ([]*model.Notification, error) {
	if err := requireAny(session); err != nil {
		return nil, err
	}
	list, err := s.notifications.ListByUser(ctx, session.UserID, NotificationListLimit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

func (s *NotificationService) UnreadCount(ctx context.Context, session *Session) (int, error) {
	if err := requireAny(session); err != nil {
		return 0, err
	}
	n, err := s.notifications.CountUnread(ctx, session.UserID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return n, nil
}

// MarkRead flags one notification of the caller as read.
func (s *NotificationService) MarkRead(ctx context.Context, session *Session, id int64) error {
	if err := requireAny(session); err != nil {
		return err
	}
	ok, err := s.notifications.MarkRead(ctx, session.UserID, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead flags every notification of the caller as read and returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, session *Session) (int64, error) {
	if err := requireAny(session); err != nil {
		return 0, err
	}
	n, err := s.notifications.MarkAllRead(ctx, session.UserID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return n, nil
}
