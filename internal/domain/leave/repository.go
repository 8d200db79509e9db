package leave

import (
	"context"
	"time"
)

// LeaveRepository - interface for leaves table
type LeaveRepository interface {
	Create(ctx context.Context, leave Leave) (Leave, error)
	GetByID(ctx context.Context, id int64) (Leave, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]Leave, error)
	ListBySupervisor(ctx context.Context, supervisorID int64, status Status) ([]Leave, error)
	ListApprovedByDepartment(ctx context.Context, department string, endingFrom time.Time) ([]Leave, error)
	ListApprovedCovering(ctx context.Context, day time.Time) ([]Leave, error)
	ListApprovedInRange(ctx context.Context, employeeID int64, from, to time.Time) ([]Leave, error)

	// ListAll returns every leave, newest start first. An empty status
	// returns all statuses.
	ListAll(ctx context.Context, status Status) ([]Leave, error)
	// ListApprovedOverlapping returns approved leaves intersecting [from, to],
	// limited to department when it is not empty.
	ListApprovedOverlapping(ctx context.Context, from, to time.Time, department string) ([]Leave, error)
	CountByStatus(ctx context.Context, employeeID int64) (map[Status]int, error)

	// CountDepartmentOverlaps returns how many distinct employees of the
	// department, other than excludeEmployeeID, hold an approved leave
	// intersecting [start, end].
	CountDepartmentOverlaps(ctx context.Context, department string, excludeEmployeeID int64, start, end time.Time) (int, error)

	// UpdateState persists status, routing and decision metadata when the
	// stored version equals expectedVersion, and stores leave.Version.
	// It returns ErrVersionConflict when no row matched.
	UpdateState(ctx context.Context, leave Leave, expectedVersion int64) error
}
