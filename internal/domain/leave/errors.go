package leave

import (
	"errors"
	"fmt"
)

var (
	ErrLeaveNotFound       = errors.New("Leave request not found")
	ErrInvalidTransition   = errors.New("invalid leave transition")
	ErrForbidden           = errors.New("You are not the supervisor assigned to this leave request")
	ErrNotAuthorized       = errors.New("You are not allowed to perform this action on this leave request")
	ErrInsufficientBalance = errors.New("Insufficient leave balance")
	ErrCapacityExceeded    = errors.New("Too many employees of the department are already on leave for this period")
	ErrInvalidRange        = errors.New("Start date must be before or equal to end date")
	ErrNoSupervisor        = errors.New("Employee has no assigned supervisor")
	ErrVersionConflict     = errors.New("Leave request was modified concurrently, reload and retry")
	ErrPersistence         = errors.New("Failed to persist leave request")
	ErrInvalidStatus       = errors.New("Unknown leave status")
)

// TransitionError is returned when an operation is not legal from the
// record's current state.
type TransitionError struct {
	Operation Operation
	From      Status
	Reason    string
}

func (e *TransitionError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return fmt.Sprintf("cannot %s a leave request in status %s", e.Operation, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
