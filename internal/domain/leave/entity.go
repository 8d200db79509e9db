package leave

import (
	"time"
)

type Status string

const (
	StatusPending           Status = "pending"
	StatusPendingSupervisor Status = "pending_supervisor"
	StatusApproved          Status = "approved"
	StatusRejected          Status = "rejected"
	StatusCancelled         Status = "cancelled"
)

// AllStatuses lists every status a leave record may hold.
func AllStatuses() []Status {
	return []Status{
		StatusPending,
		StatusPendingSupervisor,
		StatusApproved,
		StatusRejected,
		StatusCancelled,
	}
}

// IsPending reports whether the status is awaiting a decision, with or without
// a forward to the supervisor.
func (s Status) IsPending() bool {
	return s == StatusPending || s == StatusPendingSupervisor
}

// Operation is a transition requested on a leave record.
type Operation string

const (
	OpApprove Operation = "approve"
	OpReject  Operation = "reject"
	OpCancel  Operation = "cancel"
	OpSubmit  Operation = "submit"

	// OpForward routes a pending request to the employee's supervisor
	// without leaving the pending state.
	OpForward Operation = "forward"
)

const DefaultCategory = "paid leave"

// Leave entity
type Leave struct {
	ID           int64
	EmployeeID   int64
	SupervisorID *int64

	StartDate time.Time
	EndDate   time.Time
	Category  string

	Status        Status
	AdminApproved bool

	// Decision metadata
	ApprovedBy        *int64
	ApprovedAt        *time.Time
	SupervisorComment *string

	RejectedBy      *int64
	RejectedAt      *time.Time
	RejectionReason *string

	CancelledBy        *int64
	CancelledAt        *time.Time
	CancellationReason *string

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time

	// Relationships (for responses)
	EmployeeName *string
	Department   *string
}

// Days returns the inclusive length of the leave in calendar days.
func (l Leave) Days() int {
	return DaysBetween(l.StartDate, l.EndDate)
}

// DaysBetween counts calendar days from start to end, both included.
// It returns 0 when end is before start.
func DaysBetween(start, end time.Time) int {
	s := truncateDate(start)
	e := truncateDate(end)
	if e.Before(s) {
		return 0
	}
	return int(e.Sub(s).Hours()/24) + 1
}

// Overlaps reports whether the leave intersects the inclusive range [start, end].
func (l Leave) Overlaps(start, end time.Time) bool {
	return !truncateDate(l.StartDate).After(truncateDate(end)) &&
		!truncateDate(l.EndDate).Before(truncateDate(start))
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
