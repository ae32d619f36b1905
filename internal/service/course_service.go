package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/course_app/internal/formatting"
	"github.com/Freeeeeet/course_app/internal/model"
)

// CourseDetail is a course page: lessons newest first with their resources, plus general resources.
type CourseDetail struct {
	Course           *model.Course                `json:"course"`
	Lessons          []*model.LessonWithResources `json:"lessons"`
	GeneralResources []*model.Resource            `json:"generalResources"`
}

type Dashboard struct {
	Today           string                      `json:"today"`
	UpcomingLessons []*model.LessonWithCourse   `json:"upcomingLessons"`
	RecentResources []*model.ResourceWithCourse `json:"recentResources"`
	UnreadCount     int                         `json:"unreadCount"`
}

type CourseService struct {
	courses       CourseRepository
	lessons       *LessonService
	lessonRepo    LessonRepository
	resources     *ResourceService
	resourceRepo  ResourceRepository
	notifications *NotificationService
	now           func() time.Time
	logger        *zap.Logger
}

func NewCourseService(
	repos Repositories,
	lessons *LessonService,
	resources *ResourceService,
	notifications *NotificationService,
	logger *zap.Logger,
) *CourseService {
	return &CourseService{
		courses:       repos.Courses,
		lessons:       lessons,
		lessonRepo:    repos.Lessons,
		resources:     resources,
		resourceRepo:  repos.Resources,
		notifications: notifications,
		now:           time.Now,
		logger:        logger,
	}
}

// SetClock replaces the time source.
func (s *CourseService) SetClock(now func() time.Time) {
	s.now = now
}

// List returns every course with its lesson and resource counts.
func (s *CourseService) List(ctx context.Context, session *Session) ([]*model.CourseSummary, error) {
	if err := requireAny(session); err != nil {
		return nil, err
	}
	list, err := s.courses.ListSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return list, nil
}

func (s *CourseService) Detail(ctx context.Context, session *Session, slug string) (*CourseDetail, error) {
	if err := requireAny(session); err != nil {
		return nil, err
	}

	course, err := s.courses.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get course: %w", err)
	}
	if course == nil {
		return nil, ErrNotFound
	}

	lessons, err := s.lessonRepo.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("list course lessons: %w", err)
	}
	resources, err := s.resourceRepo.ListByCourse(ctx, course.ID)
	if err != nil {
		return nil, fmt.Errorf("list course resources: %w", err)
	}

	byLesson := make(map[int64][]*model.Resource)
	detail := &CourseDetail{
		Course:           course,
		Lessons:          make([]*model.LessonWithResources, 0, len(lessons)),
		GeneralResources: []*model.Resource{},
	}
	for _, r := range resources {
		if r.IsGeneral() {
			detail.GeneralResources = append(detail.GeneralResources, r)
			continue
		}
		byLesson[*r.LessonID] = append(byLesson[*r.LessonID], r)
	}
	for _, l := range lessons {
		attached := byLesson[l.ID]
		if attached == nil {
			attached = []*model.Resource{}
		}
		detail.Lessons = append(detail.Lessons, &model.LessonWithResources{Lesson: *l, Resources: attached})
	}
	return detail, nil
}

// Dashboard collects the home page for the caller, with today's date in their timezone.
func (s *CourseService) Dashboard(ctx context.Context, session *Session) (*Dashboard, error) {
	if err := requireAny(session); err != nil {
		return nil, err
	}
	now := s.now()

	upcoming, err := s.lessons.Upcoming(ctx, now)
	if err != nil {
		return nil, err
	}
	recent, err := s.resources.Recent(ctx)
	if err != nil {
		return nil, err
	}
	unread, err := s.notifications.UnreadCount(ctx, session)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Today:           formatting.FormatDateWithWeekday(now.In(model.LoadLocation(session.Timezone))),
		UpcomingLessons: upcoming,
		RecentResources: recent,
		UnreadCount:     unread,
	}, nil
}
