package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/validator"
)

const dateLayout = "2006-01-02"

type CreateLeaveRequest struct {
	EmployeeID int64  `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Category   string `json:"category"`

	// Parsed by Validate
	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

// Validate checks field presence and date formats. Range ordering is a
// business rule enforced by the workflow.
func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date is required",
		})
	} else if start, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	} else {
		r.Start = start
	}

	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date is required",
		})
	} else if end, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	} else {
		r.End = end
	}

	if len(r.Category) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "category",
			Message: "category must not exceed 100 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	if validator.IsEmpty(r.Category) {
		r.Category = DefaultCategory
	}

	return nil
}

type LeaveResponse struct {
	ID                 int64      `json:"id"`
	EmployeeID         int64      `json:"employee_id"`
	EmployeeName       *string    `json:"employee_name,omitempty"`
	Department         *string    `json:"department,omitempty"`
	SupervisorID       *int64     `json:"supervisor_id,omitempty"`
	StartDate          string     `json:"start_date"`
	EndDate            string     `json:"end_date"`
	Days               int        `json:"days"`
	Category           string     `json:"category"`
	Status             Status     `json:"status"`
	AdminApproved      bool       `json:"admin_approved"`
	ApprovedBy         *int64     `json:"approved_by,omitempty"`
	ApprovedAt         *time.Time `json:"approved_at,omitempty"`
	SupervisorComment  *string    `json:"supervisor_comment,omitempty"`
	RejectedBy         *int64     `json:"rejected_by,omitempty"`
	RejectedAt         *time.Time `json:"rejected_at,omitempty"`
	RejectionReason    *string    `json:"rejection_reason,omitempty"`
	CancelledBy        *int64     `json:"cancelled_by,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	Version            int64      `json:"version"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ToResponse converts a Leave entity to LeaveResponse
func ToResponse(l Leave) LeaveResponse {
	return LeaveResponse{
		ID:                 l.ID,
		EmployeeID:         l.EmployeeID,
		EmployeeName:       l.EmployeeName,
		Department:         l.Department,
		SupervisorID:       l.SupervisorID,
		StartDate:          l.StartDate.Format(dateLayout),
		EndDate:            l.EndDate.Format(dateLayout),
		Days:               l.Days(),
		Category:           l.Category,
		Status:             l.Status,
		AdminApproved:      l.AdminApproved,
		ApprovedBy:         l.ApprovedBy,
		ApprovedAt:         l.ApprovedAt,
		SupervisorComment:  l.SupervisorComment,
		RejectedBy:         l.RejectedBy,
		RejectedAt:         l.RejectedAt,
		RejectionReason:    l.RejectionReason,
		CancelledBy:        l.CancelledBy,
		CancelledAt:        l.CancelledAt,
		CancellationReason: l.CancellationReason,
		Version:            l.Version,
		CreatedAt:          l.CreatedAt,
		UpdatedAt:          l.UpdatedAt,
	}
}

// ToResponses converts a slice of Leave entities
func ToResponses(leaves []Leave) []LeaveResponse {
	out := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		out[i] = ToResponse(l)
	}
	return out
}

// TransitionResult is the outcome of a state machine operation. Err carries
// the typed failure for callers that need to convert it into an error.
type TransitionResult struct {
	Success            bool                 `json:"success"`
	Message            string               `json:"message"`
	LeaveID            int64                `json:"leave_id"`
	CurrentState       Status               `json:"current_state"`
	AllowedTransitions map[Operation]Status `json:"allowed_transitions"`
	Err                error                `json:"-"`
}

type LeaveStateInfo struct {
	LeaveID            int64                `json:"leave_id"`
	CurrentState       Status               `json:"current_state"`
	AllowedTransitions map[Operation]Status `json:"allowed_transitions"`
	EmployeeID         int64                `json:"employee_id"`
	StartDate          string               `json:"start_date"`
	EndDate            string               `json:"end_date"`
}

type ActionResponse struct {
	Message string `json:"message"`
	LeaveID int64  `json:"leave_id"`
}

type LeaveStats struct {
	EmployeeID int64 `json:"employee_id"`
	Total      int   `json:"total"`
	Approved   int   `json:"approved"`
	Pending    int   `json:"pending"`
	Rejected   int   `json:"rejected"`
	Cancelled  int   `json:"cancelled"`
}

type MonthlyLeave struct {
	Month int    `json:"month"`
	Label string `json:"label"`
	Days  int    `json:"days"`
}

type LeaveEvolution struct {
	EmployeeID int64          `json:"employee_id"`
	Year       int            `json:"year"`
	Months     []MonthlyLeave `json:"months"`
}

type EmployeeOnLeave struct {
	EmployeeID   int64   `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Department   *string `json:"department,omitempty"`
	LeaveID      int64   `json:"leave_id"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	Category     string  `json:"category"`
}

// ValidStatus reports whether s names a known status
func ValidStatus(s Status) bool {
	for _, known := range AllStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

// parseDateField validates a required YYYY-MM-DD field
func parseDateField(field, value string) (time.Time, *validator.ValidationError) {
	if validator.IsEmpty(value) {
		return time.Time{}, &validator.ValidationError{Field: field, Message: field + " is required"}
	}
	parsed, ok := validator.IsValidDate(value)
	if !ok {
		return time.Time{}, &validator.ValidationError{Field: field, Message: field + " must be in YYYY-MM-DD format"}
	}
	return parsed, nil
}

// AvailabilityRequest asks whether a date range could be requested
type AvailabilityRequest struct {
	EmployeeID int64  `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`

	// Parsed by Validate
	Start time.Time `json:"-"`
	End   time.Time `json:"-"`
}

func (r *AvailabilityRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.EmployeeID <= 0 {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	start, verr := parseDateField("start_date", r.StartDate)
	if verr != nil {
		errs = append(errs, *verr)
	}
	end, verr := parseDateField("end_date", r.EndDate)
	if verr != nil {
		errs = append(errs, *verr)
	}

	if len(errs) > 0 {
		return errs
	}
	r.Start, r.End = start, end
	return nil
}

// AvailabilityResponse carries either the requested days or the reason the
// range cannot be requested.
type AvailabilityResponse struct {
	Available bool   `json:"available"`
	Days      int    `json:"days,omitempty"`
	Balance   string `json:"balance,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Message   string `json:"message,omitempty"`
}

// CalendarEvent is an approved leave laid out for a calendar. End is
// exclusive, the day after the last day of leave.
type CalendarEvent struct {
	ID         int64   `json:"id"`
	EmployeeID int64   `json:"employee_id"`
	Title      string  `json:"title"`
	Department *string `json:"department,omitempty"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	AllDay     bool    `json:"all_day"`
}
