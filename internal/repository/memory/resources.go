package memory

import (
	"context"
	"sort"

	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/repository"
)

type ResourceRepository struct {
	s *Store
}

func NewResourceRepository(s *Store) *ResourceRepository {
	return &ResourceRepository{s: s}
}

func (r *ResourceRepository) Create(_ context.Context, res *model.Resource) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res.ID = r.s.nextID()
	res.CreatedAt = r.s.timestamp()
	stored := clone(res)
	stored.LessonID = cloneInt64(res.LessonID)
	r.s.resources = append(r.s.resources, stored)
	return nil
}

func (r *ResourceRepository) GetByID(_ context.Context, id int64) (*model.Resource, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, res := range r.s.resources {
		if res.ID == id {
			c := clone(res)
			c.LessonID = cloneInt64(res.LessonID)
			return c, nil
		}
	}
	return nil, nil
}

func (r *ResourceRepository) SetLesson(_ context.Context, id int64, lessonID *int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, res := range r.s.resources {
		if res.ID == id {
			res.LessonID = cloneInt64(lessonID)
			return nil
		}
	}
	return repository.ErrNotFound
}

func newestResourcesFirst(resources []*model.Resource) {
	sort.SliceStable(resources, func(i, j int) bool {
		if resources[i].CreatedAt.Equal(resources[j].CreatedAt) {
			return resources[i].ID > resources[j].ID
		}
		return resources[i].CreatedAt.After(resources[j].CreatedAt)
	})
}

func (r *ResourceRepository) ListByCourse(_ context.Context, courseID int64) ([]*model.Resource, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var resources []*model.Resource
	for _, res := range r.s.resources {
		if res.CourseID == courseID {
			c := clone(res)
			c.LessonID = cloneInt64(res.LessonID)
			resources = append(resources, c)
		}
	}
	newestResourcesFirst(resources)
	return resources, nil
}

func (r *ResourceRepository) ListRecent(_ context.Context, limit int) ([]*model.ResourceWithCourse, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	all := make([]*model.Resource, 0, len(r.s.resources))
	for _, res := range r.s.resources {
		c := clone(res)
		c.LessonID = cloneInt64(res.LessonID)
		all = append(all, c)
	}
	newestResourcesFirst(all)
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	out := make([]*model.ResourceWithCourse, 0, len(all))
	for _, res := range all {
		if c := r.s.findCourse(res.CourseID); c != nil {
			out = append(out, &model.ResourceWithCourse{Resource: *res, Course: clone(c)})
		}
	}
	return out, nil
}
