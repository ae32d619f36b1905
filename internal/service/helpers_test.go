package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/Freeeeeet/course_app/internal/delivery"
	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/repository/memory"
)

type recordingDispatcher struct {
	mu   sync.Mutex
	msgs []*delivery.Message
}

func (d *recordingDispatcher) Enqueue(msgs ...*delivery.Message) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.msgs = append(d.msgs, msgs...)
}

func (d *recordingDispatcher) Messages() []*delivery.Message {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*delivery.Message(nil), d.msgs...)
}

func (d *recordingDispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.msgs = nil
}

type testEnv struct {
	store         *memory.Store
	repos         Repositories
	notifRepo     *memory.NotificationRepository
	dispatcher    *recordingDispatcher
	notifications *NotificationService
	lessons       *LessonService
	resources     *ResourceService
	requests      *ExtraClassService
	users         *UserService
	courses       *CourseService
	logger        *zap.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewStore()
	store.SetClock(func() time.Time { return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC) })
	notifRepo := memory.NewNotificationRepository(store)
	repos := Repositories{
		Users:         memory.NewUserRepository(store),
		Courses:       memory.NewCourseRepository(store),
		Enrollments:   memory.NewEnrollmentRepository(store),
		Lessons:       memory.NewLessonRepository(store),
		Resources:     memory.NewResourceRepository(store),
		Notifications: notifRepo,
		Requests:      memory.NewExtraClassRequestRepository(store),
	}
	logger := zaptest.NewLogger(t)
	dispatcher := &recordingDispatcher{}

	notifications := NewNotificationService(repos.Enrollments, repos.Notifications, dispatcher, logger)
	lessons := NewLessonService(repos.Lessons, repos.Courses, notifications, logger)
	resources := NewResourceService(repos.Resources, repos.Lessons, repos.Courses, notifications, logger)

	return &testEnv{
		store:         store,
		repos:         repos,
		notifRepo:     notifRepo,
		dispatcher:    dispatcher,
		notifications: notifications,
		lessons:       lessons,
		resources:     resources,
		requests:      NewExtraClassService(repos, notifications, "", logger),
		users:         NewUserService(repos.Users, repos.Courses, repos.Enrollments, logger),
		courses:       NewCourseService(repos, lessons, resources, notifications, logger),
		logger:        logger,
	}
}

func (e *testEnv) course(t *testing.T, title, slug string) *model.Course {
	t.Helper()
	c := &model.Course{Title: title, Slug: slug, Color: "#3B82F6"}
	require.NoError(t, e.repos.Courses.Create(context.Background(), c))
	return c
}

func (e *testEnv) user(t *testing.T, name string, role model.Role, tz string, courses ...*model.Course) (*model.User, *Session) {
	t.Helper()
	ctx := context.Background()
	u := &model.User{Name: name, Email: name + "@example.com", Role: role, Timezone: tz}
	require.NoError(t, e.repos.Users.Create(ctx, u))
	for _, c := range courses {
		_, err := e.repos.Enrollments.Create(ctx, u.ID, c.ID)
		require.NoError(t, err)
	}
	return u, NewSession(u)
}

func (e *testEnv) notificationsOf(t *testing.T, userID int64) []*model.Notification {
	t.Helper()
	list, err := e.repos.Notifications.ListByUser(context.Background(), userID, 100)
	require.NoError(t, err)
	return list
}

func ptr[T any](v T) *T { return &v }
