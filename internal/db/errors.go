package db

import "errors"

// Sentinel errors for database operations.
var (
	ErrKeyNotFound = errors.New("db: key not found")
	ErrUnavailable = errors.New("db: store unavailable")
)

// Op names a store operation for error context and metrics labels.
const (
	OpInsert    = "insert"
	OpFind      = "find"
	OpUpdate    = "update"
	OpAggregate = "aggregate"
	OpPing      = "ping"
	OpConnect   = "connect"
)

// Error wraps an underlying error with the operation name for diagnostics.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
