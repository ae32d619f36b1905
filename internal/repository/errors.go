package repository

import "errors"

var (
	// ErrNotPending is returned when a conditional status update matched no pending row.
	ErrNotPending = errors.New("extra class request is not pending")
	// ErrDuplicate is returned when a unique constraint rejects an insert.
	ErrDuplicate = errors.New("duplicate record")
	// ErrNotFound is returned by updates that matched no row.
	ErrNotFound = errors.New("record not found")
)
