package leave

import (
	"context"
	"time"
)

// WorkflowService is the entry point used by the HTTP layer for every leave
// lifecycle operation.
type WorkflowService interface {
	// Request
	Request(ctx context.Context, req CreateLeaveRequest) (LeaveResponse, error)

	// Admin
	ApproveByAdmin(ctx context.Context, leaveID, adminID int64) (TransitionResult, error)
	RejectByAdmin(ctx context.Context, leaveID, adminID int64, reason string) (TransitionResult, error)
	ForwardToSupervisor(ctx context.Context, leaveID int64) (TransitionResult, error)

	// Supervisor
	ApproveBySupervisor(ctx context.Context, supervisorEmail string, leaveID int64, comment string) (TransitionResult, error)
	RejectBySupervisor(ctx context.Context, supervisorEmail string, leaveID int64, reason string) (TransitionResult, error)

	// State machine with explicit actor
	Approve(ctx context.Context, leaveID, approvedBy int64, comment string) (TransitionResult, error)
	Reject(ctx context.Context, leaveID, rejectedBy int64, reason string) (TransitionResult, error)
	Cancel(ctx context.Context, leaveID, cancelledBy int64, reason string) (TransitionResult, error)
	GetLeaveStateInfo(ctx context.Context, leaveID int64) (LeaveStateInfo, error)
}

// QueryService answers read-only questions about leaves.
type QueryService interface {
	GetLeave(ctx context.Context, leaveID int64) (LeaveResponse, error)
	ListEmployeeLeaves(ctx context.Context, employeeID int64) ([]LeaveResponse, error)
	ListPendingForSupervisor(ctx context.Context, supervisorEmail string) ([]LeaveResponse, error)
	ListTeamAbsences(ctx context.Context, department string) ([]LeaveResponse, error)
	ListEmployeesOnLeave(ctx context.Context, day time.Time) ([]EmployeeOnLeave, error)
	GetStats(ctx context.Context, employeeID int64) (LeaveStats, error)
	GetEvolution(ctx context.Context, employeeID int64, year int) (LeaveEvolution, error)

	// Admin overview
	ListAllLeaves(ctx context.Context, status Status) ([]LeaveResponse, error)
	Calendar(ctx context.Context, from, to time.Time, department string) ([]CalendarEvent, error)

	// CheckAvailability runs the request-time checks on a range without
	// creating anything.
	CheckAvailability(ctx context.Context, req AvailabilityRequest) (AvailabilityResponse, error)
}
