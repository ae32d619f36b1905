package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/course_app/internal/delivery"
	"github.com/Freeeeeet/course_app/internal/formatting"
	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/repository"
)

// Links of the extra class pages.
const (
	AdminRequestsLink   = "/admin/extra-class-requests"
	StudentRequestsLink = "/extra-class"
)

type SubmitExtraClassInput struct {
	CourseID      int64  `json:"courseId" form:"courseId" validate:"required,gt=0"`
	PreferredDate string `json:"preferredDate" form:"preferredDate" validate:"required,isodate"`
	AvailableFrom string `json:"availableFrom" form:"availableFrom" validate:"required,clock"`
	AvailableTo   string `json:"availableTo" form:"availableTo" validate:"required,clock"`
	Topic         string `json:"topic" form:"topic" validate:"required,max=200"`
	Description   string `json:"description" form:"description" validate:"max=2000"`
}

type ApproveExtraClassInput struct {
	RequestID   int64      `json:"-" param:"id" validate:"required,gt=0"`
	ScheduledAt *time.Time `json:"scheduledAt" form:"-"`
	MeetLink    string     `json:"meetLink" form:"meetLink" validate:"omitempty,url"`
}

type RejectExtraClassInput struct {
	RequestID       int64  `json:"-" param:"id" validate:"required,gt=0"`
	RejectionReason string `json:"rejectionReason" form:"rejectionReason" validate:"max=1000"`
}

type ExtraClassService struct {
	repos       Repositories
	notifier    *NotificationService
	instructors *instructorDirectory
	logger      *zap.Logger
}

func NewExtraClassService(
	repos Repositories,
	notifier *NotificationService,
	instructorEmail string,
	logger *zap.Logger,
) *ExtraClassService {
	return &ExtraClassService{
		repos:    repos,
		notifier: notifier,
		instructors: &instructorDirectory{
			users:  repos.Users,
			email:  instructorEmail,
			logger: logger,
		},
		logger: logger,
	}
}

// Submit stores a pending request from an enrolled student and notifies the instructor.
func (s *ExtraClassService) Submit(ctx context.Context, session *Session, input SubmitExtraClassInput) (*model.ExtraClassRequest, error) {
	if err := requireStudent(session); err != nil {
		return nil, err
	}
	input.Topic = strings.TrimSpace(input.Topic)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	preferred, _ := time.Parse(model.DateLayout, input.PreferredDate)
	from, _ := time.Parse(model.ClockTimeLayout, input.AvailableFrom)
	to, _ := time.Parse(model.ClockTimeLayout, input.AvailableTo)
	if !to.After(from) {
		return nil, NewFieldError("availableTo", "availableTo must be after availableFrom")
	}

	course, err := s.repos.Courses.GetByID(ctx, input.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, ErrNotEnrolled
	}
	enrolled, err := s.repos.Enrollments.Exists(ctx, session.UserID, input.CourseID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}
	if !enrolled {
		return nil, ErrNotEnrolled
	}

	req := &model.ExtraClassRequest{
		StudentID:     session.UserID,
		CourseID:      input.CourseID,
		PreferredDate: preferred,
		AvailableFrom: input.AvailableFrom,
		AvailableTo:   input.AvailableTo,
		Topic:         input.Topic,
		Description:   strings.TrimSpace(input.Description),
	}
	if err := s.repos.Requests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create extra class request: %w", err)
	}

	s.logger.Info("Extra class request created",
		zap.Int64("request_id", req.ID),
		zap.Int64("student_id", session.UserID),
		zap.Int64("course_id", course.ID),
	)

	s.notifyInstructors(ctx, session, req, course)
	return req, nil
}

// notifyInstructors is best effort; the request is already stored.
func (s *ExtraClassService) notifyInstructors(ctx context.Context, session *Session, req *model.ExtraClassRequest, course *model.Course) {
	instructors, err := s.instructors.Recipients(ctx)
	if err != nil {
		s.logger.Error("Failed to resolve instructors", zap.Error(err))
		return
	}
	if len(instructors) == 0 {
		s.logger.Warn("No instructor to notify about extra class request", zap.Int64("request_id", req.ID))
		return
	}

	message := fmt.Sprintf("Extra class requested by %s: %s - %s", session.Name, req.Topic, course.Title)
	for _, instructor := range instructors {
		mail := delivery.ExtraClassRequested(recipientOf(instructor), delivery.RequestData{
			StudentName:   session.Name,
			CourseName:    course.Title,
			Topic:         req.Topic,
			PreferredDate: formatting.FormatDateWithWeekday(req.PreferredDate),
			TimeRange:     req.TimeRange(),
		})
		err := s.notifier.NotifyUser(ctx, instructor, model.NotificationExtraClassRequested, message, AdminRequestsLink, mail)
		if err != nil {
			s.logger.Error("Failed to notify instructor",
				zap.Int64("instructor_id", instructor.ID),
				zap.Int64("request_id", req.ID),
				zap.Error(err),
			)
		}
	}
}

// Approve turns a pending request into a lesson and announces it.
func (s *ExtraClassService) Approve(ctx context.Context, session *Session, input ApproveExtraClassInput) (*model.Lesson, error) {
	if err := requireInstructor(session); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	req, student, course, err := s.loadPending(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}

	scheduledAt := time.Time{}
	if input.ScheduledAt != nil && !input.ScheduledAt.IsZero() {
		scheduledAt = *input.ScheduledAt
	} else {
		scheduledAt, err = req.DefaultSchedule(student.Location())
		if err != nil {
			return nil, fmt.Errorf("default schedule: %w", err)
		}
	}

	lesson := &model.Lesson{
		CourseID:    req.CourseID,
		Title:       model.ExtraLessonPrefix + req.Topic,
		Description: req.Description,
		ScheduledAt: scheduledAt.UTC(),
		MeetLink:    input.MeetLink,
		Status:      model.LessonStatusScheduled,
	}
	if err := s.repos.Requests.Approve(ctx, req.ID, lesson); err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			return nil, ErrNotFoundOrResolved
		}
		return nil, fmt.Errorf("approve extra class request: %w", err)
	}

	s.logger.Info("Extra class request approved",
		zap.Int64("request_id", req.ID),
		zap.Int64("lesson_id", lesson.ID),
	)

	message := fmt.Sprintf("Your extra class request \"%s\" has been approved!", req.Topic)
	mail := delivery.ExtraClassDecision(recipientOf(student), delivery.DecisionData{
		StudentName: student.Name,
		CourseName:  course.Title,
		Topic:       req.Topic,
		Approved:    true,
		ScheduledAt: formatting.InZone(lesson.ScheduledAt, student.Timezone),
		MeetLink:    lesson.MeetLink,
	})
	if err := s.notifier.NotifyUser(ctx, student, model.NotificationExtraClassApproved, message, course.Link(), mail); err != nil {
		s.logger.Error("Failed to notify student of approval", zap.Int64("request_id", req.ID), zap.Error(err))
	}

	if _, err := announceLesson(ctx, s.notifier, changeScheduled, lesson, course); err != nil {
		s.logger.Error("Failed to announce extra class", zap.Int64("lesson_id", lesson.ID), zap.Error(err))
	}
	return lesson, nil
}

// Reject resolves a pending request and notifies only the student.
func (s *ExtraClassService) Reject(ctx context.Context, session *Session, input RejectExtraClassInput) error {
	if err := requireInstructor(session); err != nil {
		return err
	}
	if err := validateInput(input); err != nil {
		return err
	}

	req, student, course, err := s.loadPending(ctx, input.RequestID)
	if err != nil {
		return err
	}

	reason := strings.TrimSpace(input.RejectionReason)
	if err := s.repos.Requests.Reject(ctx, req.ID, reason); err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			return ErrNotFoundOrResolved
		}
		return fmt.Errorf("reject extra class request: %w", err)
	}

	s.logger.Info("Extra class request rejected", zap.Int64("request_id", req.ID))

	message := fmt.Sprintf("Your extra class request \"%s\" has been rejected.", req.Topic)
	if reason != "" {
		message += " Reason: " + reason
	}
	mail := delivery.ExtraClassDecision(recipientOf(student), delivery.DecisionData{
		StudentName:     student.Name,
		CourseName:      course.Title,
		Topic:           req.Topic,
		RejectionReason: reason,
	})
	if err := s.notifier.NotifyUser(ctx, student, model.NotificationExtraClassRejected, message, StudentRequestsLink, mail); err != nil {
		s.logger.Error("Failed to notify student of rejection", zap.Int64("request_id", req.ID), zap.Error(err))
	}
	return nil
}

func (s *ExtraClassService) loadPending(ctx context.Context, id int64) (*model.ExtraClassRequest, *model.User, *model.Course, error) {
	req, err := s.repos.Requests.GetByID(ctx, id)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("get extra class request: %w", err)
	}
	if req == nil || !req.IsPending() {
		return nil, nil, nil, ErrNotFoundOrResolved
	}

	student, err := s.repos.Users.GetByID(ctx, req.StudentID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("get student: %w", err)
	}
	course, err := s.repos.Courses.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("get course: %w", err)
	}
	if student == nil || course == nil {
		return nil, nil, nil, ErrNotFoundOrResolved
	}
	return req, student, course, nil
}

// ListForStudent returns the caller's own requests, newest first.
func (s *ExtraClassService) ListForStudent(ctx context.Context, session *Session) ([]*model.ExtraClassRequestView, error) {
	if err := requireStudent(session); err != nil {
		return nil, err
	}
	list, err := s.repos.Requests.ListByStudent(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("list student requests: %w", err)
	}
	return list, nil
}

// ListAll returns every request with its student and course, newest first.
func (s *ExtraClassService) ListAll(ctx context.Context, session *Session) ([]*model.ExtraClassRequestView, error) {
	if err := requireInstructor(session); err != nil {
		return nil, err
	}
	list, err := s.repos.Requests.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list extra class requests: %w", err)
	}
	return list, nil
}
