package repository

import "errors"

// ErrNotFound is returned by every store when no row matches. Callers
// test with errors.Is so the GORM error type never leaks upward.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is returned when a unique index rejects an insert.
var ErrDuplicate = errors.New("duplicate record")
