package memory

import (
	"context"

	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/repository"
)

type CourseRepository struct {
	s *Store
}

func NewCourseRepository(s *Store) *CourseRepository {
	return &CourseRepository{s: s}
}

func (r *CourseRepository) Create(_ context.Context, course *model.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.courses {
		if c.Slug == course.Slug {
			return repository.ErrDuplicate
		}
	}

	course.ID = r.s.nextID()
	course.CreatedAt = r.s.timestamp()
	r.s.courses = append(r.s.courses, clone(course))
	return nil
}

func (r *CourseRepository) GetByID(_ context.Context, id int64) (*model.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if c := r.s.findCourse(id); c != nil {
		return clone(c), nil
	}
	return nil, nil
}

func (r *CourseRepository) GetBySlug(_ context.Context, slug string) (*model.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, c := range r.s.courses {
		if c.Slug == slug {
			return clone(c), nil
		}
	}
	return nil, nil
}

func (r *CourseRepository) List(_ context.Context) ([]*model.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	courses := make([]*model.Course, 0, len(r.s.courses))
	for _, c := range r.s.courses {
		courses = append(courses, clone(c))
	}
	return courses, nil
}

func (r *CourseRepository) ListSummaries(_ context.Context) ([]*model.CourseSummary, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	summaries := make([]*model.CourseSummary, 0, len(r.s.courses))
	for _, c := range r.s.courses {
		sum := &model.CourseSummary{Course: *c}
		for _, l := range r.s.lessons {
			if l.CourseID == c.ID {
				sum.LessonCount++
			}
		}
		for _, res := range r.s.resources {
			if res.CourseID == c.ID {
				sum.ResourceCount++
			}
		}
		summaries = append(summaries, sum)
	}
	return summaries, nil
}
