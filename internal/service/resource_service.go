package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Freeeeeet/course_app/internal/delivery"
	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/repository"
)

// RecentResourcesLimit caps the dashboard list of new resources.
const RecentResourcesLimit = 5

type AddResourceInput struct {
	CourseID int64  `json:"courseId" form:"courseId" validate:"required,gt=0"`
	LessonID *int64 `json:"lessonId" form:"lessonId" validate:"omitempty,gt=0"`
	Title    string `json:"title" form:"title" validate:"required,max=200"`
	Type     string `json:"type" form:"type" validate:"required,resourcetype"`
	URL      string `json:"url" form:"url" validate:"required,url"`
}

type ResourceService struct {
	resources ResourceRepository
	lessons   LessonRepository
	courses   CourseRepository
	notifier  *NotificationService
	logger    *zap.Logger
}

func NewResourceService(
	resources ResourceRepository,
	lessons LessonRepository,
	courses CourseRepository,
	notifier *NotificationService,
	logger *zap.Logger,
) *ResourceService {
	return &ResourceService{
		resources: resources,
		lessons:   lessons,
		courses:   courses,
		notifier:  notifier,
		logger:    logger,
	}
}

// Add stores a resource and announces it to the course.
func (s *ResourceService) Add(ctx context.Context, session *Session, input AddResourceInput) (*model.Resource, error) {
	if err := requireInstructor(session); err != nil {
		return nil, err
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Type = strings.ToUpper(strings.TrimSpace(input.Type))
	input.LessonID = optionalID(input.LessonID)
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
	if input.LessonID != nil {
		if err := s.checkLesson(ctx, *input.LessonID, course.ID); err != nil {
			return nil, err
		}
	}

	resType, _ := model.ParseResourceType(input.Type)
	res := &model.Resource{
		CourseID: course.ID,
		LessonID: input.LessonID,
		Title:    input.Title,
		Type:     resType,
		URL:      input.URL,
	}
	if err := s.resources.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	s.logger.Info("Resource added",
		zap.Int64("resource_id", res.ID),
		zap.Int64("course_id", course.ID),
		zap.String("type", string(res.Type)),
	)

	message := fmt.Sprintf("New resource: %s - %s", res.Title, course.Title)
	mail := func(u *model.User) *delivery.Message {
		return delivery.ResourceAdded(recipientOf(u), delivery.ResourceData{
			StudentName:   u.Name,
			ResourceTitle: res.Title,
			CourseName:    course.Title,
			ResourceType:  string(res.Type),
		})
	}
	_, err = s.notifier.NotifyCourseEnrollees(ctx, course.ID, StaticMessage(message),
		model.NotificationResourceAdded, course.Link(), mail)
	if err != nil {
		return res, fmt.Errorf("announce resource: %w", err)
	}
	return res, nil
}

// Move attaches a resource to a lesson of its course, or back to the general list when lessonID is nil.
func (s *ResourceService) Move(ctx context.Context, session *Session, resourceID int64, lessonID *int64) (*model.Resource, error) {
	if err := requireInstructor(session); err != nil {
		return nil, err
	}

	res, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("get resource: %w", err)
	}
	if res == nil {
		return nil, ErrNotFound
	}
	lessonID = optionalID(lessonID)
	if lessonID != nil {
		if err := s.checkLesson(ctx, *lessonID, res.CourseID); err != nil {
			return nil, err
		}
	}

	if err := s.resources.SetLesson(ctx, res.ID, lessonID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("move resource: %w", err)
	}
	res.LessonID = lessonID

	s.logger.Info("Resource moved", zap.Int64("resource_id", res.ID), zap.Bool("general", res.IsGeneral()))
	return res, nil
}

// optionalID maps an empty form value, bound as 0, to "no lesson".
func optionalID(id *int64) *int64 {
	if id == nil || *id <= 0 {
		return nil
	}
	return id
}

// Recent returns the newest resources across all courses.
func (s *ResourceService) Recent(ctx context.Context) ([]*model.ResourceWithCourse, error) {
	list, err := s.resources.ListRecent(ctx, RecentResourcesLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent resources: %w", err)
	}
	return list, nil
}

func (s *ResourceService) checkLesson(ctx context.Context, lessonID, courseID int64) error {
	lesson, err := s.lessons.GetByID(ctx, lessonID)
	if err != nil {
		return fmt.Errorf("get lesson: %w", err)
	}
	if lesson == nil || lesson.CourseID != courseID {
		return NewFieldError("lessonId", "lesson does not belong to this course")
	}
	return nil
}
