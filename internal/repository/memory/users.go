package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/Freeeeeet/course_app/internal/model"
	"github.com/Freeeeeet/course_app/internal/repository"
)

type UserRepository struct {
	s *Store
}

func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{s: s}
}

func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	email := strings.ToLower(user.Email)
	for _, u := range r.s.users {
		if u.Email == email {
			return repository.ErrDuplicate
		}
	}

	user.ID = r.s.nextID()
	user.Email = email
	user.CreatedAt = r.s.timestamp()
	r.s.users = append(r.s.users, clone(user))
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	if u := r.s.findUser(id); u != nil {
		return clone(u), nil
	}
	return nil, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	email = strings.ToLower(email)
	for _, u := range r.s.users {
		if u.Email == email {
			return clone(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepository) ListByRole(_ context.Context, role model.Role) ([]*model.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var users []*model.User
	for _, u := range r.s.users {
		if u.Role == role {
			users = append(users, clone(u))
		}
	}
	sort.SliceStable(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *UserRepository) Update(_ context.Context, user *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u := r.s.findUser(user.ID)
	if u == nil {
		return repository.ErrNotFound
	}
	u.Name = user.Name
	u.PasswordHash = user.PasswordHash
	u.Role = user.Role
	u.Timezone = user.Timezone
	u.TelegramChatID = cloneInt64(user.TelegramChatID)
	return nil
}
