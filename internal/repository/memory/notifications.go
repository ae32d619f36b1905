package memory

import (
	"context"
	"sort"

	"github.com/Freeeeeet/course_app/internal/model"
)

type NotificationRepository struct {
	s *Store

	batchCalls int
	failNext   error
}

func NewNotificationRepository(s *Store) *NotificationRepository {
	return &NotificationRepository{s: s}
}

// FailNext makes the next write return err without storing anything.
func (r *NotificationRepository) FailNext(err error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.failNext = err
}

// BatchCalls reports how many times CreateBatch reached the store.
func (r *NotificationRepository) BatchCalls() int {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.batchCalls
}

func (r *NotificationRepository) takeFailure() error {
	err := r.failNext
	r.failNext = nil
	return err
}

func (r *NotificationRepository) Create(_ context.Context, n *model.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.takeFailure(); err != nil {
		return err
	}
	n.ID = r.s.nextID()
	n.CreatedAt = r.s.timestamp()
	r.s.notifications = append(r.s.notifications, clone(n))
	return nil
}

func (r *NotificationRepository) CreateBatch(_ context.Context, notifications []*model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.batchCalls++
	if err := r.takeFailure(); err != nil {
		return err
	}

	now := r.s.timestamp()
	for _, n := range notifications {
		n.ID = r.s.nextID()
		n.CreatedAt = now
		r.s.notifications = append(r.s.notifications, clone(n))
	}
	return nil
}

func (r *NotificationRepository) ListByUser(_ context.Context, userID int64, limit int) ([]*model.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*model.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			out = append(out, clone(n))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(_ context.Context, userID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, userID, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, n := range r.s.notifications {
		if n.ID == id && n.UserID == userID {
			n.Read = true
			return true, nil
		}
	}
	return false, nil
}

func (r *NotificationRepository) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var affected int64
	for _, n := range r.s.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			affected++
		}
	}
	return affected, nil
}
