package service

import (
	"context"

	"github.com/Freeeeeet/course_app/internal/delivery"
	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/repository"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ListByRole(ctx context.Context, role model.Role) ([]*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

type CourseRepository interface {
	Create(ctx context.Context, course *model.Course) error
	GetByID(ctx context.Context, id int64) (*model.Course, error)
	GetBySlug(ctx context.Context, slug string) (*model.Course, error)
	List(ctx context.Context) ([]*model.Course, error)
	ListSummaries(ctx context.Context) ([]*model.CourseSummary, error)
}

type EnrollmentRepository interface {
	Create(ctx context.Context, userID, courseID int64) (bool, error)
	Exists(ctx context.Context, userID, courseID int64) (bool, error)
	ListUsersByCourse(ctx context.Context, courseID int64) ([]*model.User, error)
	ListCoursesByUser(ctx context.Context, userID int64) ([]*model.Course, error)
}

type LessonRepository interface {
	Create(ctx context.Context, lesson *model.Lesson) error
	GetByID(ctx context.Context, id int64) (*model.Lesson, error)
	Update(ctx context.Context, lesson *model.Lesson) error
	ListByCourse(ctx context.Context, courseID int64) ([]*model.Lesson, error)
	ListWithCourse(ctx context.Context, f repository.LessonFilter) ([]*model.LessonWithCourse, error)
}

type ResourceRepository interface {
	Create(ctx context.Context, res *model.Resource) error
	GetByID(ctx context.Context, id int64) (*model.Resource, error)
	SetLesson(ctx context.Context, id int64, lessonID *int64) error
	ListByCourse(ctx context.Context, courseID int64) ([]*model.Resource, error)
	ListRecent(ctx context.Context, limit int) ([]*model.ResourceWithCourse, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	CreateBatch(ctx context.Context, notifications []*model.Notification) error
	ListByUser(ctx context.Context, userID int64, limit int) ([]*model.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, userID, id int64) (bool, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

type ExtraClassRequestRepository interface {
	Create(ctx context.Context, req *model.ExtraClassRequest) error
	GetByID(ctx context.Context, id int64) (*model.ExtraClassRequest, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*model.ExtraClassRequestView, error)
	ListAll(ctx context.Context) ([]*model.ExtraClassRequestView, error)
	// Approve inserts the lesson and resolves the request atomically, or returns repository.ErrNotPending.
	Approve(ctx context.Context, id int64, lesson *model.Lesson) error
	// Reject resolves a pending request, or returns repository.ErrNotPending.
	Reject(ctx context.Context, id int64, reason string) error
}

// Dispatcher accepts messages for background delivery.
type Dispatcher interface {
	Enqueue(messages ...*delivery.Message)
}

// Repositories groups the storage dependencies of the services.
type Repositories struct {
	Users         UserRepository
	Courses       CourseRepository
	Enrollments   EnrollmentRepository
	Lessons       LessonRepository
	Resources     ResourceRepository
	Notifications NotificationRepository
	Requests      ExtraClassRequestRepository
}
