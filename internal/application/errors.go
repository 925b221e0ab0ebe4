package application

import (
	"errors"
	"fmt"

	"prompttree/internal/domain"
)

// Sentinel errors for common conditions
var (
	ErrNotFound         = errors.New("not found")
	ErrNoTree           = errors.New("no tree loaded")
	ErrInvalidImport    = errors.New("invalid import")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrCorruptData      = errors.New("corrupt stored data")
)

// ValidationError represents a validation failure with details
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ImportError represents a rejected tree import
type ImportError struct {
	Reason string
	Err    error
}

func (e *ImportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid tree: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid tree: %s", e.Reason)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

func (e *ImportError) Is(target error) bool {
	return target == ErrInvalidImport
}

// MoveError represents a move-related failure
type MoveError struct {
	SourceID string
	DestID   string
	Reason   string
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("cannot move %s to %s: %s", e.SourceID, e.DestID, e.Reason)
}

func (e *MoveError) Is(target error) bool {
	return target == ErrInvalidOperation
}

// StatusError converts a non-applied primitive outcome into an error.
// Applied yields nil.
func StatusError(op, id string, status domain.Status) error {
	switch status {
	case domain.Applied:
		return nil
	case domain.NotFound:
		return fmt.Errorf("%s %s: %w", op, id, ErrNotFound)
	default:
		return fmt.Errorf("%s %s: %w", op, id, ErrInvalidOperation)
	}
}
