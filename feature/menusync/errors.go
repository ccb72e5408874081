package menusync

import (
	"errors"
	"fmt"
)

// ErrMalformedSnapshot marks a document that cannot be parsed at all or
// carries no restaurant identifier.
var ErrMalformedSnapshot = errors.New("malformed snapshot document")

// ValidationError marks a malformed snapshot: a non-deleted entity
// references a parent that exists nowhere in the snapshot. Processors
// collect every such error across a full pass before aborting, so one
// round trip reports every offending record.
type ValidationError struct {
	// Entity is the entity type of the offending candidate.
	Entity string
	// Name is the candidate's display name.
	Name string
	// Reference is the unresolvable parent external id.
	Reference string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %q references unknown parent %q", e.Entity, e.Name, e.Reference)
}

// NotFoundError means the restaurant named by the snapshot cannot be
// resolved. It is raised before a transaction is opened.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// PersistenceError wraps a storage statement failure. The surrounding
// transaction is rolled back and the error re-thrown; retry is the
// caller's decision, safe because the sync is atomic.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsValidation reports whether err is (or wraps/combines) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}

func persistErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PersistenceError{Op: op, Err: err}
}
