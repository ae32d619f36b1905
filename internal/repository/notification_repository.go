package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const notificationColumns = `id, user_id, message, type, link, read, batch_id, created_at`

type NotificationRepository struct {
	*base.Repository
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{Repository: base.NewRepository(pool)}
}

// Create inserts a single notification
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (user_id, message, type, link, read, batch_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.Pool().QueryRow(ctx, query, n.UserID, n.Message, n.Type, n.Link, n.Read, n.BatchID).
		Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

// CreateBatch copies all notifications in one statement: either every row lands or none.
func (r *NotificationRepository) CreateBatch(ctx context.Context, notifications []*model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	columns := []string{"user_id", "message", "type", "link", "read", "batch_id"}
	source := pgx.CopyFromSlice(len(notifications), func(i int) ([]any, error) {
		n := notifications[i]
		return []any{n.UserID, n.Message, string(n.Type), n.Link, n.Read, n.BatchID}, nil
	})

	copied, err := r.Pool().CopyFrom(ctx, pgx.Identifier{"notifications"}, columns, source)
	if err != nil {
		return fmt.Errorf("copy notifications: %w", err)
	}
	if copied != int64(len(notifications)) {
		return fmt.Errorf("copy notifications: copied %d of %d rows", copied, len(notifications))
	}

	return nil
}

// ListByUser returns the user's notifications, newest first
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]*model.Notification, error) {
	query := `SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.Pool().Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		var n model.Notification
		err := rows.Scan(&n.ID, &n.UserID, &n.Message, &n.Type, &n.Link, &n.Read, &n.BatchID, &n.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notifications: %w", err)
	}

	return notifications, nil
}

// CountUnread counts the user's unread notifications
func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT read`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flips one notification owned by the user; false when nothing matched
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id int64) (bool, error) {
	affected, err := base.ExecAffected(ctx, r.Pool(),
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	return affected > 0, nil
}

// MarkAllRead flips every unread notification of the user
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	affected, err := base.ExecAffected(ctx, r.Pool(),
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND NOT read`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}
	return affected, nil
}
