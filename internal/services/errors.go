package services

import (
	"errors"
	"fmt"
	"log/slog"
)

// Error kinds returned by every service. Messages of validation, conflict and
// forbidden errors are safe to show to the caller; server errors are not.
var (
	ErrValidation         = errors.New("validation error")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid name or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrServer             = errors.New("internal server error")
)

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

// storeFailure logs the underlying cause and returns an ErrServer that still
// wraps it for error reporting.
func storeFailure(op string, err error, attrs ...any) error {
	slog.Error(op+" failed", append([]any{"error", err}, attrs...)...)
	return fmt.Errorf("%w: %s: %w", ErrServer, op, err)
}

func requireID(id uint) error {
	if id == 0 {
		return invalid("id must be a positive integer")
	}
	return nil
}
