package apperr

import (
	"errors"
	"fmt"
)

// Sentinel errors classifying every failure the core can report. Handlers
// map these to HTTP statuses; nothing here is retried.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("already exists")
	ErrValidation = errors.New("validation failed")
)

// NotFound wraps ErrNotFound with the missing key.
func NotFound(what, key string) error {
	return fmt.Errorf("%s %q: %w", what, key, ErrNotFound)
}

// Conflict wraps ErrConflict with the duplicated key.
func Conflict(what, key string) error {
	return fmt.Errorf("%s %q: %w", what, key, ErrConflict)
}

// Validation wraps ErrValidation with a caller-facing message.
func Validation(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrValidation)...)
}

// Store wraps an underlying persistence failure, preserving its message.
func Store(op string, err error) error {
	return fmt.Errorf("store: %s: %w", op, err)
}
