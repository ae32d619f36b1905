package memory

import (
	"context"
	"sort"

	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/repository"
)

type LessonRepository struct {
	s *Store
}

func NewLessonRepository(s *Store) *LessonRepository {
	return &LessonRepository{s: s}
}

// insertLesson expects the caller to hold the write lock.
func (s *Store) insertLesson(lesson *model.Lesson) {
	if lesson.Status == "" {
		lesson.Status = model.LessonStatusScheduled
	}
	now := s.timestamp()
	lesson.ID = s.nextID()
	lesson.ScheduledAt = lesson.ScheduledAt.UTC()
	lesson.CreatedAt = now
	lesson.UpdatedAt = now
	s.lessons = append(s.lessons, clone(lesson))
}

func (r *LessonRepository) Create(_ context.Context, lesson *model.Lesson) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.insertLesson(lesson)
	return nil
}

func (r *LessonRepository) GetByID(_ context.Context, id int64) (*model.Lesson, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if l := r.s.findLesson(id); l != nil {
		return clone(l), nil
	}
	return nil, nil
}

func (r *LessonRepository) Update(_ context.Context, lesson *model.Lesson) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	l := r.s.findLesson(lesson.ID)
	if l == nil {
		return repository.ErrNotFound
	}
	l.Title = lesson.Title
	l.Description = lesson.Description
	l.ScheduledAt = lesson.ScheduledAt.UTC()
	l.MeetLink = lesson.MeetLink
	l.RecordingLink = lesson.RecordingLink
	l.Status = lesson.Status
	l.UpdatedAt = r.s.timestamp()
	lesson.UpdatedAt = l.UpdatedAt
	return nil
}

func (r *LessonRepository) ListByCourse(_ context.Context, courseID int64) ([]*model.Lesson, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var lessons []*model.Lesson
	for _, l := range r.s.lessons {
		if l.CourseID == courseID {
			lessons = append(lessons, clone(l))
		}
	}
	sort.SliceStable(lessons, func(i, j int) bool {
		if lessons[i].ScheduledAt.Equal(lessons[j].ScheduledAt) {
			return lessons[i].ID > lessons[j].ID
		}
		return lessons[i].ScheduledAt.After(lessons[j].ScheduledAt)
	})
	return lessons, nil
}

func (r *LessonRepository) ListWithCourse(_ context.Context, f repository.LessonFilter) ([]*model.LessonWithCourse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var lessons []*model.LessonWithCourse
	for _, l := range r.s.lessons {
		if f.From != nil && l.ScheduledAt.Before(*f.From) {
			continue
		}
		if f.To != nil && l.ScheduledAt.After(*f.To) {
			continue
		}
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		c := r.s.findCourse(l.CourseID)
		if c == nil {
			continue
		}
		lessons = append(lessons, &model.LessonWithCourse{Lesson: *l, Course: clone(c)})
	}

	sort.SliceStable(lessons, func(i, j int) bool {
		a, b := lessons[i], lessons[j]
		if f.Descending {
			a, b = b, a
		}
		if a.ScheduledAt.Equal(b.ScheduledAt) {
			return a.ID < b.ID
		}
		return a.ScheduledAt.Before(b.ScheduledAt)
	})

	if f.Limit > 0 && len(lessons) > f.Limit {
		lessons = lessons[:f.Limit]
	}
	return lessons, nil
}
