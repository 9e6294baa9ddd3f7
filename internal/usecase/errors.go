package usecase

import (
	"errors"
	"fmt"
)

// ValidationError means the event itself was malformed. Nothing was written;
// the caller sees a 4xx and the upstream provider must not retry.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// ConflictError is a creation race the idempotency protocol could not settle
// even after re-reading: the insert hit a unique constraint but the winning
// row could not be read back. It is transient and surfaces wrapped in a
// PersistenceError so the event gets redelivered.
type ConflictError struct {
	Key string
	Err error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("unresolved creation race for %q: %v", e.Key, e.Err)
}

func (e *ConflictError) Unwrap() error { return e.Err }

// PersistenceError means the transaction could not commit. The event is
// not processed; webhook callers answer non-2xx so the provider retries.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func IsPersistenceError(err error) bool {
	var p *PersistenceError
	return errors.As(err, &p)
}
