package leave

import (
	"fmt"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/leave"
)

// State is the closed set of canonical lifecycle states. pending_supervisor
// is a routing sub-status of statePending.
type State int

const (
	StatePending State = iota
	StateApproved
	StateRejected
	StateCancelled
)

// StateOf resolves the canonical state of a stored status. The second result
// is false for statuses outside the known set, which resolve to StatePending.
func StateOf(status leave.Status) (State, bool) {
	switch status {
	case leave.StatusPending, leave.StatusPendingSupervisor:
		return StatePending, true
	case leave.StatusApproved:
		return StateApproved, true
	case leave.StatusRejected:
		return StateRejected, true
	case leave.StatusCancelled:
		return StateCancelled, true
	default:
		return StatePending, false
	}
}

// Name returns the status stored for the state.
func (s State) Name() leave.Status {
	switch s {
	case StatePending:
		return leave.StatusPending
	case StateApproved:
		return leave.StatusApproved
	case StateRejected:
		return leave.StatusRejected
	case StateCancelled:
		return leave.StatusCancelled
	default:
		panic(fmt.Sprintf("leave: unknown state %d", int(s)))
	}
}

// IsTerminal reports whether no transition leaves the state.
func (s State) IsTerminal() bool {
	return len(s.Transitions()) == 0
}

// Transitions returns every legal operation from s and the status it leads to.
func (s State) Transitions() map[leave.Operation]leave.Status {
	switch s {
	case StatePending:
		return map[leave.Operation]leave.Status{
			leave.OpApprove: leave.StatusApproved,
			leave.OpReject:  leave.StatusRejected,
			leave.OpCancel:  leave.StatusCancelled,
		}
	case StateApproved:
		return map[leave.Operation]leave.Status{
			leave.OpCancel: leave.StatusCancelled,
		}
	case StateRejected, StateCancelled:
		return map[leave.Operation]leave.Status{}
	default:
		panic(fmt.Sprintf("leave: unknown state %d", int(s)))
	}
}

// Target returns the status op leads to from s, or false when op is not legal.
func (s State) Target(op leave.Operation) (leave.Status, bool) {
	target, ok := s.Transitions()[op]
	return target, ok
}

// Refusal is the human readable reason op is not legal from s.
func (s State) Refusal(op leave.Operation) string {
	switch s {
	case StatePending:
		if op == leave.OpSubmit {
			return "This request has already been submitted and is awaiting a decision."
		}
		return fmt.Sprintf("This request cannot be %s while it is pending.", pastTense(op))
	case StateApproved:
		if op == leave.OpSubmit {
			return "This request cannot be submitted again because it is already approved."
		}
		return fmt.Sprintf("This request cannot be %s because it is already approved.", pastTense(op))
	case StateRejected:
		return fmt.Sprintf("This request cannot be %s because it has been rejected.", pastTense(op))
	case StateCancelled:
		return fmt.Sprintf("This request cannot be %s because it has been cancelled.", pastTense(op))
	default:
		panic(fmt.Sprintf("leave: unknown state %d", int(s)))
	}
}

func pastTense(op leave.Operation) string {
	switch op {
	case leave.OpApprove:
		return "approved"
	case leave.OpReject:
		return "rejected"
	case leave.OpCancel:
		return "cancelled"
	case leave.OpSubmit:
		return "submitted"
	default:
		return string(op) + "ed"
	}
}
