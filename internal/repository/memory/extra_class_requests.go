package memory

import (
	"context"
	"sort"

	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/repository"
)

type ExtraClassRequestRepository struct {
	s *Store
}

func NewExtraClassRequestRepository(s *Store) *ExtraClassRequestRepository {
	return &ExtraClassRequestRepository{s: s}
}

func (r *ExtraClassRequestRepository) Create(_ context.Context, req *model.ExtraClassRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.timestamp()
	req.ID = r.s.nextID()
	req.Status = model.RequestStatusPending
	req.CreatedAt = now
	req.UpdatedAt = now
	r.s.requests = append(r.s.requests, clone(req))
	return nil
}

func (r *ExtraClassRequestRepository) GetByID(_ context.Context, id int64) (*model.ExtraClassRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if req := r.s.findRequest(id); req != nil {
		c := clone(req)
		c.LessonID = cloneInt64(req.LessonID)
		return c, nil
	}
	return nil, nil
}

func (r *ExtraClassRequestRepository) ListByStudent(_ context.Context, studentID int64) ([]*model.ExtraClassRequestView, error) {
	return r.list(func(req *model.ExtraClassRequest) bool { return req.StudentID == studentID }), nil
}

func (r *ExtraClassRequestRepository) ListAll(_ context.Context) ([]*model.ExtraClassRequestView, error) {
	return r.list(func(*model.ExtraClassRequest) bool { return true }), nil
}

func (r *ExtraClassRequestRepository) list(match func(*model.ExtraClassRequest) bool) []*model.ExtraClassRequestView {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var views []*model.ExtraClassRequestView
	for _, req := range r.s.requests {
		if !match(req) {
			continue
		}
		student, course := r.s.findUser(req.StudentID), r.s.findCourse(req.CourseID)
		if student == nil || course == nil {
			continue
		}
		v := &model.ExtraClassRequestView{ExtraClassRequest: *req, Student: clone(student), Course: clone(course)}
		v.LessonID = cloneInt64(req.LessonID)
		views = append(views, v)
	}
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].CreatedAt.Equal(views[j].CreatedAt) {
			return views[i].ID > views[j].ID
		}
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	return views
}

// Approve holds the store lock across the status check and the lesson insert.
func (r *ExtraClassRequestRepository) Approve(_ context.Context, id int64, lesson *model.Lesson) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req := r.s.findRequest(id)
	if req == nil || !req.IsPending() {
		return repository.ErrNotPending
	}

	r.s.insertLesson(lesson)
	lessonID := lesson.ID
	req.Status = model.RequestStatusApproved
	req.LessonID = &lessonID
	req.UpdatedAt = r.s.timestamp()
	return nil
}

func (r *ExtraClassRequestRepository) Reject(_ context.Context, id int64, reason string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	req := r.s.findRequest(id)
	if req == nil || !req.IsPending() {
		return repository.ErrNotPending
	}

	req.Status = model.RequestStatusRejected
	req.RejectionReason = reason
	req.UpdatedAt = r.s.timestamp()
	return nil
}
