package service

import "github.com/Freeeeeet/course_app/internal/model"

// Session is the authenticated caller of an operation.
type Session struct {
	UserID   int64      `json:"userId"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Role     model.Role `json:"role"`
	Timezone string     `json:"timezone"`
}

// NewSession builds the session of a stored user.
func NewSession(u *model.User) *Session {
	return &Session{
		UserID:   u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Role:     u.Role,
		Timezone: u.Timezone,
	}
}

// requireRole checks that a session exists and carries the wanted role.
func requireRole(s *Session, want model.Role) error {
	if s == nil || s.UserID == 0 {
		return ErrUnauthorized
	}
	switch s.Role {
	case model.RoleStudent, model.RoleInstructor:
		if s.Role != want {
			return ErrForbidden
		}
		return nil
	default:
		return ErrUnauthorized
	}
}

func requireInstructor(s *Session) error { return requireRole(s, model.RoleInstructor) }

func requireStudent(s *Session) error { return requireRole(s, model.RoleStudent) }

// requireAny accepts any authenticated role.
func requireAny(s *Session) error {
	if s == nil || s.UserID == 0 {
		return ErrUnauthorized
	}
	switch s.Role {
	case model.RoleStudent, model.RoleInstructor:
		return nil
	default:
		return ErrUnauthorized
	}
}
