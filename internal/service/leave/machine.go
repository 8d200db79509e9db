package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/balance"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/database"
)

const noReason = "No reason provided"

// Machine is the only component allowed to change the status of a leave
// record. It never returns an error: every outcome is a TransitionResult.
type Machine struct {
	tx       database.Transactor
	leaves   leave.LeaveRepository
	ledger   balance.Ledger
	notifier notification.Gateway
	now      func() time.Time
}

func NewMachine(tx database.Transactor, leaves leave.LeaveRepository, ledger balance.Ledger, notifier notification.Gateway) *Machine {
	return &Machine{
		tx:       tx,
		leaves:   leaves,
		ledger:   ledger,
		notifier: notifier,
		now:      time.Now,
	}
}

// AllowedTransitions returns the operations legal from the record's status.
func (m *Machine) AllowedTransitions(status leave.Status) map[leave.Operation]leave.Status {
	state, _ := StateOf(status)
	return state.Transitions()
}

// Apply runs op on l on behalf of actorID. On success l holds the persisted
// record; on failure l is left exactly as it was passed in.
func (m *Machine) Apply(ctx context.Context, l *leave.Leave, op leave.Operation, actorID int64, reason string) leave.TransitionResult {
	state, known := StateOf(l.Status)
	if !known {
		slog.Warn("Unknown leave status, treating as pending", "leave_id", l.ID, "status", l.Status)
	}

	target, ok := state.Target(op)
	if !ok {
		terr := &leave.TransitionError{Operation: op, From: l.Status, Reason: state.Refusal(op)}
		return m.failure(l, terr.Reason, terr)
	}

	before := *l
	m.mutate(l, op, target, actorID, reason)

	err := m.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := m.leaves.UpdateState(txCtx, *l, before.Version); err != nil {
			return err
		}

		switch {
		case op == leave.OpApprove:
			if _, err := m.ledger.Deduct(txCtx, l.EmployeeID, l.Days()); err != nil {
				return err
			}
		case op == leave.OpCancel && before.Status == leave.StatusApproved:
			if _, err := m.ledger.Restore(txCtx, l.EmployeeID, l.Days()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		*l = before
		slog.Error("Leave transition failed", "leave_id", l.ID, "operation", op, "error", err)
		return m.persistenceFailure(l, err)
	}

	m.notifyTransition(ctx, before, *l, op, actorID, reason)

	return leave.TransitionResult{
		Success:            true,
		Message:            successMessage(op),
		LeaveID:            l.ID,
		CurrentState:       l.Status,
		AllowedTransitions: m.AllowedTransitions(l.Status),
	}
}

// Forward routes a pending request to supervisorID. The record stays in the
// pending state under the pending_supervisor status.
func (m *Machine) Forward(ctx context.Context, l *leave.Leave, supervisorID int64) leave.TransitionResult {
	if l.Status != leave.StatusPending {
		state, _ := StateOf(l.Status)
		reason := "Only requests awaiting an administrator review can be forwarded to a supervisor."
		if state != StatePending {
			reason = state.Refusal(leave.OpForward)
		}
		terr := &leave.TransitionError{Operation: leave.OpForward, From: l.Status, Reason: reason}
		return m.failure(l, reason, terr)
	}

	before := *l
	l.Status = leave.StatusPendingSupervisor
	l.AdminApproved = true
	l.SupervisorID = &supervisorID
	l.Version = before.Version + 1
	l.UpdatedAt = m.now()

	err := m.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		return m.leaves.UpdateState(txCtx, *l, before.Version)
	})
	if err != nil {
		*l = before
		slog.Error("Leave forward failed", "leave_id", l.ID, "error", err)
		return m.persistenceFailure(l, err)
	}

	m.notifier.Send(ctx, supervisorID, fmt.Sprintf(
		"Leave request #%d of employee #%d from %s to %s is awaiting your decision.",
		l.ID, l.EmployeeID, formatDate(l.StartDate), formatDate(l.EndDate),
	), notification.ChannelInApp)

	return leave.TransitionResult{
		Success:            true,
		Message:            "Leave request forwarded to the supervisor",
		LeaveID:            l.ID,
		CurrentState:       l.Status,
		AllowedTransitions: m.AllowedTransitions(l.Status),
	}
}

func (m *Machine) mutate(l *leave.Leave, op leave.Operation, target leave.Status, actorID int64, reason string) {
	now := m.now()
	actor := actorID

	switch op {
	case leave.OpApprove:
		l.ApprovedBy = &actor
		l.ApprovedAt = &now
		if reason != "" {
			comment := reason
			l.SupervisorComment = &comment
		}
	case leave.OpReject:
		text := orDefault(reason)
		l.RejectedBy = &actor
		l.RejectedAt = &now
		l.RejectionReason = &text
	case leave.OpCancel:
		text := orDefault(reason)
		l.CancelledBy = &actor
		l.CancelledAt = &now
		l.CancellationReason = &text
	}

	l.Status = target
	l.Version++
	l.UpdatedAt = now
}

func (m *Machine) notifyTransition(ctx context.Context, before, after leave.Leave, op leave.Operation, actorID int64, reason string) {
	period := fmt.Sprintf("from %s to %s", formatDate(after.StartDate), formatDate(after.EndDate))

	switch op {
	case leave.OpApprove:
		message := fmt.Sprintf("Your leave request %s has been approved.", period)
		if reason != "" {
			message += " Comment: " + reason
		}
		m.notifier.SendMulti(ctx, after.EmployeeID, message, []notification.Channel{notification.ChannelInApp, notification.ChannelEmail})
	case leave.OpReject:
		message := fmt.Sprintf("Your leave request %s has been rejected.", period)
		if reason != "" {
			message += " Reason: " + reason
		}
		m.notifier.SendMulti(ctx, after.EmployeeID, message, []notification.Channel{notification.ChannelInApp, notification.ChannelEmail})
	case leave.OpCancel:
		kind := "leave request"
		if before.Status == leave.StatusApproved {
			kind = "approved leave"
		}
		if actorID != after.EmployeeID {
			m.notifier.Send(ctx, after.EmployeeID, fmt.Sprintf(
				"Your %s %s has been cancelled. Reason: %s", kind, period, orDefault(reason),
			), notification.ChannelInApp)
			return
		}
		m.notifier.SendToAdmin(ctx, fmt.Sprintf(
			"Employee #%d cancelled their %s %s.", after.EmployeeID, kind, period,
		), notification.ChannelInApp)
	}
}

func (m *Machine) failure(l *leave.Leave, message string, err error) leave.TransitionResult {
	return leave.TransitionResult{
		Success:            false,
		Message:            message,
		LeaveID:            l.ID,
		CurrentState:       l.Status,
		AllowedTransitions: m.AllowedTransitions(l.Status),
		Err:                err,
	}
}

func (m *Machine) persistenceFailure(l *leave.Leave, err error) leave.TransitionResult {
	switch {
	case errors.Is(err, leave.ErrVersionConflict):
		return m.failure(l, leave.ErrVersionConflict.Error(), leave.ErrVersionConflict)
	case errors.Is(err, balance.ErrWouldOverdraw):
		return m.failure(l, leave.ErrInsufficientBalance.Error(), fmt.Errorf("%w: %v", leave.ErrInsufficientBalance, err))
	default:
		return m.failure(l, leave.ErrPersistence.Error(), fmt.Errorf("%w: %v", leave.ErrPersistence, err))
	}
}

func successMessage(op leave.Operation) string {
	switch op {
	case leave.OpApprove:
		return "Leave request approved successfully"
	case leave.OpReject:
		return "Leave request rejected successfully"
	case leave.OpCancel:
		return "Leave request cancelled successfully"
	default:
		return "Leave request updated successfully"
	}
}

func orDefault(reason string) string {
	if reason == "" {
		return noReason
	}
	return reason
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
