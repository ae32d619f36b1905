package memory

import (
	"context"
	"sort"

	"github.com/Freeeeeet/course_app/internal/model"
)

type EnrollmentRepository struct {
	s *Store
}

func NewEnrollmentRepository(s *Store) *EnrollmentRepository {
	return &EnrollmentRepository{s: s}
}

func (r *EnrollmentRepository) Create(_ context.Context, userID, courseID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, e := range r.s.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			return false, nil
		}
	}
	r.s.enrollments = append(r.s.enrollments, &model.Enrollment{
		ID:        r.s.nextID(),
		UserID:    userID,
		CourseID:  courseID,
		CreatedAt: r.s.timestamp(),
	})
	return true, nil
}

func (r *EnrollmentRepository) Exists(_ context.Context, userID, courseID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, e := range r.s.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			return true, nil
		}
	}
	return false, nil
}

func (r *EnrollmentRepository) ListUsersByCourse(_ context.Context, courseID int64) ([]*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var users []*model.User
	for _, e := range r.s.enrollments {
		if e.CourseID != courseID {
			continue
		}
		if u := r.s.findUser(e.UserID); u != nil {
			users = append(users, clone(u))
		}
	}
	return users, nil
}

func (r *EnrollmentRepository) ListCoursesByUser(_ context.Context, userID int64) ([]*model.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var courses []*model.Course
	for _, e := range r.s.enrollments {
		if e.UserID != userID {
			continue
		}
		if c := r.s.findCourse(e.CourseID); c != nil {
			courses = append(courses, clone(c))
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}
