package model

import (
	"fmt"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleStudent    Role = "STUDENT"
	RoleInstructor Role = "INSTRUCTOR"
)

// ParseRole converts an untyped value into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleStudent, RoleInstructor:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

type User struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   []byte    `json:"-"`
	Role           Role      `json:"role"`
	Timezone       string    `json:"timezone"`
	TelegramChatID *int64    `json:"telegramChatId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// DefaultTimezone is used when a user has no valid zone stored.
const DefaultTimezone = "UTC"

// IsInstructor checks if user is the instructor
func (u *User) IsInstructor() bool {
	return u.Role == RoleInstructor
}

// IsStudent checks if user is a student
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// Location resolves the stored timezone, falling back to UTC.
func (u *User) Location() *time.Location {
	return LoadLocation(u.Timezone)
}

// LoadLocation returns the named zone or UTC when the name is empty or unknown.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}
