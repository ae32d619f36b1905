package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/repository"
)

// Dashboard window of upcoming lessons.
const (
	UpcomingWindow = 7 * 24 * time.Hour
	UpcomingLimit  = 5
)

type ScheduleLessonInput struct {
	CourseID    int64     `json:"courseId" form:"courseId" validate:"required,gt=0"`
	Title       string    `json:"title" form:"title" validate:"required,max=200"`
	Description string    `json:"description" form:"description" validate:"max=5000"`
	ScheduledAt time.Time `json:"scheduledAt" form:"-" validate:"required"`
	MeetLink    string    `json:"meetLink" form:"meetLink" validate:"omitempty,url"`
}

// UpdateLessonInput changes only the non-nil fields.
type UpdateLessonInput struct {
	LessonID      int64      `json:"-" param:"id" validate:"required,gt=0"`
	Title         *string    `json:"title" form:"title" validate:"omitempty,min=1,max=200"`
	Description   *string    `json:"description" form:"description" validate:"omitempty,max=5000"`
	ScheduledAt   *time.Time `json:"scheduledAt" form:"-"`
	MeetLink      *string    `json:"meetLink" form:"meetLink" validate:"omitempty,url"`
	RecordingLink *string    `json:"recordingLink" form:"recordingLink" validate:"omitempty,url"`
	Status        *string    `json:"status" form:"status" validate:"omitempty,lessonstatus"`
}

type LessonService struct {
	lessons  LessonRepository
	courses  CourseRepository
	notifier *NotificationService
	logger   *zap.Logger
}

func NewLessonService(
	lessons LessonRepository,
	courses CourseRepository,
	notifier *NotificationService,
	logger *zap.Logger,
) *LessonService {
	return &LessonService{
		lessons:  lessons,
		courses:  courses,
		notifier: notifier,
		logger:   logger,
	}
}

// Schedule creates a lesson and announces it to the course.
func (s *LessonService) Schedule(ctx context.Context, session *Session, input ScheduleLessonInput) (*model.Lesson, error) {
	if err := requireInstructor(session); err != nil {
		return nil, err
	}
	input.Title = strings.TrimSpace(input.Title)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, input.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, ErrNotFound
	}

	lesson := &model.Lesson{
		CourseID:    course.ID,
		Title:       input.Title,
		Description: strings.TrimSpace(input.Description),
		ScheduledAt: input.ScheduledAt.UTC(),
		MeetLink:    input.MeetLink,
		Status:      model.LessonStatusScheduled,
	}
	if err := s.lessons.Create(ctx, lesson); err != nil {
		return nil, fmt.Errorf("create lesson: %w", err)
	}

	s.logger.Info("Lesson scheduled",
		zap.Int64("lesson_id", lesson.ID),
		zap.Int64("course_id", course.ID),
		zap.Time("scheduled_at", lesson.ScheduledAt),
	)

	if _, err := announceLesson(ctx, s.notifier, changeScheduled, lesson, course); err != nil {
		return lesson, fmt.Errorf("announce lesson: %w", err)
	}
	return lesson, nil
}

// Update applies a partial change and announces at most one event.
func (s *LessonService) Update(ctx context.Context, session *Session, input UpdateLessonInput) (*model.Lesson, error) {
	if err := requireInstructor(session); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	before, err := s.lessons.GetByID(ctx, input.LessonID)
	if err != nil {
		return nil, fmt.Errorf("get lesson: %w", err)
	}
	if before == nil {
		return nil, ErrNotFound
	}

	after := *before
	if input.Title != nil {
		after.Title = strings.TrimSpace(*input.Title)
		if after.Title == "" {
			return nil, NewFieldError("title", "title must not be empty")
		}
	}
	if input.Description != nil {
		after.Description = strings.TrimSpace(*input.Description)
	}
	if input.ScheduledAt != nil {
		after.ScheduledAt = input.ScheduledAt.UTC()
	}
	if input.MeetLink != nil {
		after.MeetLink = strings.TrimSpace(*input.MeetLink)
	}
	if input.RecordingLink != nil {
		after.RecordingLink = strings.TrimSpace(*input.RecordingLink)
	}
	if input.Status != nil {
		status, err := model.ParseLessonStatus(*input.Status)
		if err != nil {
			return nil, NewFieldError("status", err.Error())
		}
		after.Status = status
	}

	if err := s.lessons.Update(ctx, &after); err != nil {
		return nil, fmt.Errorf("update lesson: %w", err)
	}

	change := classifyLessonChange(before, &after)
	s.logger.Info("Lesson updated",
		zap.Int64("lesson_id", after.ID),
		zap.Stringer("change", change),
	)
	if change == changeNone {
		return &after, nil
	}

	course, err := s.courses.GetByID(ctx, after.CourseID)
	if err != nil {
		return &after, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return &after, nil
	}
	if _, err := announceLesson(ctx, s.notifier, change, &after, course); err != nil {
		return &after, fmt.Errorf("announce lesson update: %w", err)
	}
	return &after, nil
}

// ListAll returns every lesson with its course, latest first.
func (s *LessonService) ListAll(ctx context.Context, session *Session) ([]*model.LessonWithCourse, error) {
	if err := requireInstructor(session); err != nil {
		return nil, err
	}
	list, err := s.lessons.ListWithCourse(ctx, repository.LessonFilter{Descending: true})
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return list, nil
}

// Upcoming returns the next scheduled lessons within the dashboard window.
func (s *LessonService) Upcoming(ctx context.Context, now time.Time) ([]*model.LessonWithCourse, error) {
	from := now.UTC()
	to := from.Add(UpcomingWindow)
	list, err := s.lessons.ListWithCourse(ctx, repository.LessonFilter{
		From:   &from,
		To:     &to,
		Status: model.LessonStatusScheduled,
		Limit:  UpcomingLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("list upcoming lessons: %w", err)
	}
	return list, nil
}

// Calendar returns lessons as calendar events ordered by start. Both bounds or neither must be set.
func (s *LessonService) Calendar(ctx context.Context, session *Session, start, end *time.Time) ([]model.CalendarEvent, error) {
	if err := requireAny(session); err != nil {
		return nil, err
	}
	if (start == nil) != (end == nil) {
		return nil, NewValidationError("start and end must be given together")
	}

	filter := repository.LessonFilter{}
	if start != nil {
		from, to := start.UTC(), end.UTC()
		filter.From, filter.To = &from, &to
	}
	lessons, err := s.lessons.ListWithCourse(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list calendar lessons: %w", err)
	}

	events := make([]model.CalendarEvent, 0, len(lessons))
	for _, l := range lessons {
		events = append(events, model.NewCalendarEvent(l))
	}
	return events, nil
}
