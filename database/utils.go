package database

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when a lookup matches no document
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict is returned when a versioned write lost a race with
	// another writer. The caller should reload and retry.
	ErrVersionConflict = errors.New("document was modified concurrently")

	// ErrDuplicate is returned when a unique index rejects a write
	ErrDuplicate = errors.New("duplicate key")
)

// ContextWithTimeout creates a context with timeout and cancel function
func ContextWithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// Common timeout durations for database operations
const (
	// ShortTimeout for single document reads and writes
	ShortTimeout = 5 * time.Second

	// MediumTimeout for multi-document queries
	MediumTimeout = 10 * time.Second

	// LongTimeout for bulk operations such as backups
	LongTimeout = 30 * time.Second
)

func WithShortTimeout() (context.Context, context.CancelFunc) {
	return ContextWithTimeout(ShortTimeout)
}

func WithMediumTimeout() (context.Context, context.CancelFunc) {
	return ContextWithTimeout(MediumTimeout)
}

// bounded derives a context from parent capped at timeout
func bounded(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, timeout)
}

// translate maps driver errors onto the package sentinels
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return ErrDuplicate
	default:
		return err
	}
}
