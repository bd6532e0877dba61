package models

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")

	// ErrStateMismatch is returned when a record exists but is in the wrong lifecycle state.
	ErrStateMismatch = errors.New("record in wrong state")

	// ErrIntegrity is returned when the store rejects a write on a constraint.
	ErrIntegrity = errors.New("data integrity violation")

	// ErrInvariantViolation signals a record vanished right after it was updated.
	// It is never retried.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrValidation is returned for malformed input.
	ErrValidation = errors.New("validation failed")
)

// NotFoundError names the resource kind and id that could not be found.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: id=%d", e.Resource, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// StateMismatchError carries the state the record was required to be in.
type StateMismatchError struct {
	Resource     string
	ID           int64
	WantArchived bool
}

func (e *StateMismatchError) Error() string {
	return fmt.Sprintf("the '%s' with id %d is not %s", e.Resource, e.ID, StateName(e.WantArchived))
}

func (e *StateMismatchError) Is(target error) bool { return target == ErrStateMismatch }
