package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/balance"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/notification"
)

// Config holds the business parameters of the workflow
type Config struct {
	DepartmentCapacity int // default: 3
}

type workflowService struct {
	leaves    leave.LeaveRepository
	employees employee.EmployeeRepository
	ledger    balance.Ledger
	notifier  notification.Gateway
	machine   *Machine
	config    Config
}

func NewWorkflowService(
	leaves leave.LeaveRepository,
	employees employee.EmployeeRepository,
	ledger balance.Ledger,
	notifier notification.Gateway,
	machine *Machine,
	cfg Config,
) leave.WorkflowService {
	if cfg.DepartmentCapacity <= 0 {
		cfg.DepartmentCapacity = 3
	}
	return &workflowService{
		leaves:    leaves,
		employees: employees,
		ledger:    ledger,
		notifier:  notifier,
		machine:   machine,
		config:    cfg,
	}
}

// Request implements leave.WorkflowService.
func (s *workflowService) Request(ctx context.Context, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	if req.End.Before(req.Start) {
		return leave.LeaveResponse{}, leave.ErrInvalidRange
	}

	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	days := leave.DaysBetween(req.Start, req.End)

	sufficient, err := s.ledger.HasSufficient(ctx, emp.ID, days)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to check leave balance: %w", err)
	}
	if !sufficient {
		return leave.LeaveResponse{}, leave.ErrInsufficientBalance
	}

	if department := emp.DepartmentName(); department != "" {
		onLeave, err := s.leaves.CountDepartmentOverlaps(ctx, department, emp.ID, req.Start, req.End)
		if err != nil {
			return leave.LeaveResponse{}, fmt.Errorf("failed to count department absences: %w", err)
		}
		if onLeave >= s.config.DepartmentCapacity {
			return leave.LeaveResponse{}, leave.ErrCapacityExceeded
		}
	}

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = leave.DefaultCategory
	}

	created, err := s.leaves.Create(ctx, leave.Leave{
		EmployeeID: emp.ID,
		StartDate:  req.Start,
		EndDate:    req.End,
		Category:   category,
		Status:     leave.StatusPending,
		Version:    1,
	})
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("%w: %v", leave.ErrPersistence, err)
	}

	slog.Info("Leave request created", "leave_id", created.ID, "employee_id", emp.ID, "days", days)

	if emp.HasSupervisor() {
		s.notifier.Send(ctx, *emp.SupervisorID, fmt.Sprintf(
			"New leave request from %s: %s to %s (%d days).",
			emp.Name, formatDate(created.StartDate), formatDate(created.EndDate), days,
		), notification.ChannelInApp)
	}

	created.EmployeeName = &emp.Name
	created.Department = emp.Department
	return leave.ToResponse(created), nil
}

// ApproveByAdmin implements leave.WorkflowService.
func (s *workflowService) ApproveByAdmin(ctx context.Context, leaveID, adminID int64) (leave.TransitionResult, error) {
	return s.transition(ctx, leaveID, leave.OpApprove, adminID, "")
}

// RejectByAdmin implements leave.WorkflowService.
func (s *workflowService) RejectByAdmin(ctx context.Context, leaveID, adminID int64, reason string) (leave.TransitionResult, error) {
	return s.transition(ctx, leaveID, leave.OpReject, adminID, reason)
}

// ForwardToSupervisor implements leave.WorkflowService.
func (s *workflowService) ForwardToSupervisor(ctx context.Context, leaveID int64) (leave.TransitionResult, error) {
	l, err := s.leaves.GetByID(ctx, leaveID)
	if err != nil {
		return leave.TransitionResult{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	emp, err := s.employees.GetByID(ctx, l.EmployeeID)
	if err != nil {
		return leave.TransitionResult{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.HasSupervisor() {
		return leave.TransitionResult{}, leave.ErrNoSupervisor
	}

	result := s.machine.Forward(ctx, &l, *emp.SupervisorID)
	if !result.Success {
		return result, result.Err
	}
	return result, nil
}

// ApproveBySupervisor implements leave.WorkflowService.
func (s *workflowService) ApproveBySupervisor(ctx context.Context, supervisorEmail string, leaveID int64, comment string) (leave.TransitionResult, error) {
	return s.supervisorDecision(ctx, supervisorEmail, leaveID, leave.OpApprove, comment)
}

// RejectBySupervisor implements leave.WorkflowService.
func (s *workflowService) RejectBySupervisor(ctx context.Context, supervisorEmail string, leaveID int64, reason string) (leave.TransitionResult, error) {
	return s.supervisorDecision(ctx, supervisorEmail, leaveID, leave.OpReject, reason)
}

func (s *workflowService) supervisorDecision(ctx context.Context, supervisorEmail string, leaveID int64, op leave.Operation, reason string) (leave.TransitionResult, error) {
	supervisor, err := s.employees.GetByEmail(ctx, supervisorEmail)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return leave.TransitionResult{}, employee.ErrSupervisorNotFound
		}
		return leave.TransitionResult{}, fmt.Errorf("failed to get supervisor: %w", err)
	}

	l, err := s.leaves.GetByID(ctx, leaveID)
	if err != nil {
		return leave.TransitionResult{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	if l.SupervisorID == nil || *l.SupervisorID != supervisor.ID {
		return leave.TransitionResult{}, leave.ErrForbidden
	}

	result := s.machine.Apply(ctx, &l, op, supervisor.ID, reason)
	if !result.Success {
		return result, result.Err
	}

	s.notifier.SendToAdmin(ctx, fmt.Sprintf(
		"Supervisor %s %s leave request #%d of employee #%d (%s to %s).",
		supervisor.Name, pastTense(op), l.ID, l.EmployeeID, formatDate(l.StartDate), formatDate(l.EndDate),
	), notification.ChannelInApp)

	return result, nil
}

// Approve implements leave.WorkflowService. Only an admin or the assigned
// supervisor may approve.
func (s *workflowService) Approve(ctx context.Context, leaveID, approvedBy int64, comment string) (leave.TransitionResult, error) {
	return s.actorTransition(ctx, leaveID, leave.OpApprove, approvedBy, comment)
}

// Reject implements leave.WorkflowService.
func (s *workflowService) Reject(ctx context.Context, leaveID, rejectedBy int64, reason string) (leave.TransitionResult, error) {
	return s.actorTransition(ctx, leaveID, leave.OpReject, rejectedBy, reason)
}

// Cancel implements leave.WorkflowService. The owner, an admin or the
// assigned supervisor may cancel; without an actor the owner cancels.
func (s *workflowService) Cancel(ctx context.Context, leaveID, cancelledBy int64, reason string) (leave.TransitionResult, error) {
	return s.actorTransition(ctx, leaveID, leave.OpCancel, cancelledBy, reason)
}

// GetLeaveStateInfo implements leave.WorkflowService.
func (s *workflowService) GetLeaveStateInfo(ctx context.Context, leaveID int64) (leave.LeaveStateInfo, error) {
	l, err := s.leaves.GetByID(ctx, leaveID)
	if err != nil {
		return leave.LeaveStateInfo{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	return leave.LeaveStateInfo{
		LeaveID:            l.ID,
		CurrentState:       l.Status,
		AllowedTransitions: s.machine.AllowedTransitions(l.Status),
		EmployeeID:         l.EmployeeID,
		StartDate:          formatDate(l.StartDate),
		EndDate:            formatDate(l.EndDate),
	}, nil
}

func (s *workflowService) actorTransition(ctx context.Context, leaveID int64, op leave.Operation, actorID int64, reason string) (leave.TransitionResult, error) {
	l, err := s.leaves.GetByID(ctx, leaveID)
	if err != nil {
		return leave.TransitionResult{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	if actorID <= 0 && op == leave.OpCancel {
		actorID = l.EmployeeID
	}
	if err := s.authorize(ctx, l, op, actorID); err != nil {
		return leave.TransitionResult{}, err
	}

	result := s.machine.Apply(ctx, &l, op, actorID, reason)
	if !result.Success {
		return result, result.Err
	}
	return result, nil
}

// authorize resolves the actor's authority over the leave
func (s *workflowService) authorize(ctx context.Context, l leave.Leave, op leave.Operation, actorID int64) error {
	if actorID <= 0 {
		return leave.ErrNotAuthorized
	}
	if op == leave.OpCancel && actorID == l.EmployeeID {
		return nil
	}
	if l.SupervisorID != nil && *l.SupervisorID == actorID {
		return nil
	}

	actor, err := s.employees.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return leave.ErrNotAuthorized
		}
		return fmt.Errorf("failed to get actor: %w", err)
	}
	if !actor.IsAdmin() {
		slog.Warn("Leave transition refused", "leave_id", l.ID, "operation", op, "actor_id", actorID)
		return leave.ErrNotAuthorized
	}
	return nil
}

// transition applies op for a caller whose authority the router already checked
func (s *workflowService) transition(ctx context.Context, leaveID int64, op leave.Operation, actorID int64, reason string) (leave.TransitionResult, error) {
	l, err := s.leaves.GetByID(ctx, leaveID)
	if err != nil {
		return leave.TransitionResult{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	result := s.machine.Apply(ctx, &l, op, actorID, reason)
	if !result.Success {
		return result, result.Err
	}
	return result, nil
}
