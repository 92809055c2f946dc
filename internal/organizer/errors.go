package organizer

import (
	"errors"
	"fmt"

	"github.com/black-lotus-01/data-organizer/internal/model"
)

// ErrNoLocationSelected is returned when execution is started without a
// target workspace. The run is not started; no step is touched.
var ErrNoLocationSelected = errors.New("no target location selected")

// ClassificationParseError indicates the classifier response did not match
// the expected shape. The analysis attempt is aborted, no partial plan is
// produced, and the caller must not retry with the same payload.
type ClassificationParseError struct {
	Reason string
	Err    error
}

func (e *ClassificationParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parsing classification: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("parsing classification: %s", e.Reason)
}

func (e *ClassificationParseError) Unwrap() error { return e.Err }

// OperationFailure records a single failed plan step. Step failures are
// isolated: the batch continues with the remaining steps.
type OperationFailure struct {
	Index int
	Kind  model.OperationKind
	Err   error
}

func (e *OperationFailure) Error() string {
	return fmt.Sprintf("operation %d (%s) failed: %v", e.Index, e.Kind, e.Err)
}

func (e *OperationFailure) Unwrap() error { return e.Err }

// StorageError wraps a persistence failure. Callers log it and behave as
// if no snapshot existed; it never blocks the session.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("state store %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
