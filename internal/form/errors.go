package form

import (
	"errors"
	"fmt"
)

var (
	// ErrFormInvalid is returned by Submit when any field has a violation.
	ErrFormInvalid = errors.New("form has invalid fields")

	// ErrSubmitInFlight is returned by Submit while a previous submission is pending.
	ErrSubmitInFlight = errors.New("submission already in progress")

	// ErrFieldLocked is returned when changing the identifier of a record being edited.
	ErrFieldLocked = errors.New("field is locked")
)

// RemoteError wraps a failure of the record service.
type RemoteError struct {
	Operation string // create, update or verify
	Err       error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("failed to %s product: %v", e.Operation, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
