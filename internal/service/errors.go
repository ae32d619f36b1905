package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthorized means there is no valid session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means the session role may not perform the operation.
	ErrForbidden = fmt.Errorf("%w: insufficient role", ErrUnauthorized)
	// ErrNotEnrolled means the student is not enrolled in the target course.
	ErrNotEnrolled = errors.New("you are not enrolled in this course")
	// ErrNotFoundOrResolved means the request is missing or already processed.
	ErrNotFoundOrResolved = errors.New("request not found or already processed")
	// ErrNotFound means a referenced record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials means email and password do not match.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// FieldError is a validation failure of one input field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError reports bad input, either as a whole or per field.
type ValidationError struct {
	Err    string
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Err
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	msg := strings.Join(parts, "; ")
	if e.Err != "" {
		msg = e.Err + ": " + msg
	}
	return msg
}

// NewValidationError builds a ValidationError without field details.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Err: msg}
}

// NewFieldError builds a ValidationError for a single field.
func NewFieldError(field, msg string) *ValidationError {
	return &ValidationError{Err: "invalid input", Fields: []FieldError{{Field: field, Error: msg}}}
}
