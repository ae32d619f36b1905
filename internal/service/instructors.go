package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Freeeeeet/course_app/internal/model"
)

// instructorDirectory resolves who receives instructor notices.
type instructorDirectory struct {
	users  UserRepository
	email  string
	logger *zap.Logger
}

// Recipients returns the configured instructor, or every instructor when none is configured.
func (d *instructorDirectory) Recipients(ctx context.Context) ([]*model.User, error) {
	if d.email != "" {
		u, err := d.users.GetByEmail(ctx, strings.ToLower(d.email))
		if err != nil {
			return nil, fmt.Errorf("get instructor by email: %w", err)
		}
		if u != nil && u.IsInstructor() {
			return []*model.User{u}, nil
		}
		d.logger.Warn("Configured instructor not found, notifying all instructors",
			zap.String("email", d.email))
	}

	list, err := d.users.ListByRole(ctx, model.RoleInstructor)
	if err != nil {
		return nil, fmt.Errorf("list instructors: %w", err)
	}
	if len(list) > 1 {
		d.logger.Warn("Multiple instructors found, notifying all", zap.Int("count", len(list)))
	}
	return list, nil
}
