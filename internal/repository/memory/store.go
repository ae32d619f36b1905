// Package memory keeps every table in process memory. It backs the
// STORAGE=memory mode and the service tests.
package memory

import (
	"sync"
	"time"

	"github.com/Freeeeeet/course_app/internal/model"
)

// Store is a single lock over all tables so multi-table writes stay atomic.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	seq           int64
	users         []*model.User
	courses       []*model.Course
	enrollments   []*model.Enrollment
	lessons       []*model.Lesson
	resources     []*model.Resource
	notifications []*model.Notification
	requests      []*model.ExtraClassRequest
}

func NewStore() *Store {
	return &Store{now: time.Now}
}

// SetClock overrides the timestamp source.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Reset drops every row.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = nil
	s.courses = nil
	s.enrollments = nil
	s.lessons = nil
	s.resources = nil
	s.notifications = nil
	s.requests = nil
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

func cloneInt64(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (s *Store) findUser(id int64) *model.User {
	for _, u := range s.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (s *Store) findCourse(id int64) *model.Course {
	for _, c := range s.courses {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (s *Store) findLesson(id int64) *model.Lesson {
	for _, l := range s.lessons {
		if l.ID == id {
			return l
		}
	}
	return nil
}

func (s *Store) findRequest(id int64) *model.ExtraClassRequest {
	for _, r := range s.requests {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// NotificationCount returns the number of stored notifications.
func (s *Store) NotificationCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notifications)
}

// RequestCount returns the number of stored extra class requests.
func (s *Store) RequestCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.requests)
}

// LessonCount returns the number of stored lessons.
func (s *Store) LessonCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lessons)
}
