package leave

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/balance"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/leave"
	"github.com/shopspring/decimal"
)

type queryService struct {
	leaves    leave.LeaveRepository
	employees employee.EmployeeRepository
	ledger    balance.Ledger
	now       func() time.Time
}

func NewQueryService(leaves leave.LeaveRepository, employees employee.EmployeeRepository, ledger balance.Ledger) leave.QueryService {
	return &queryService{
		leaves:    leaves,
		employees: employees,
		ledger:    ledger,
		now:       time.Now,
	}
}

// GetLeave implements leave.QueryService.
func (s *queryService) GetLeave(ctx context.Context, leaveID int64) (leave.LeaveResponse, error) {
	l, err := s.leaves.GetByID(ctx, leaveID)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return leave.ToResponse(l), nil
}

// ListEmployeeLeaves implements leave.QueryService.
func (s *queryService) ListEmployeeLeaves(ctx context.Context, employeeID int64) ([]leave.LeaveResponse, error) {
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	leaves, err := s.leaves.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return leave.ToResponses(leaves), nil
}

// ListPendingForSupervisor implements leave.QueryService.
// Only requests already forwarded by an administrator are returned.
func (s *queryService) ListPendingForSupervisor(ctx context.Context, supervisorEmail string) ([]leave.LeaveResponse, error) {
	supervisor, err := s.employees.GetByEmail(ctx, supervisorEmail)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, employee.ErrSupervisorNotFound
		}
		return nil, fmt.Errorf("failed to get supervisor: %w", err)
	}

	leaves, err := s.leaves.ListBySupervisor(ctx, supervisor.ID, leave.StatusPendingSupervisor)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending leave requests: %w", err)
	}
	return leave.ToResponses(leaves), nil
}

// ListTeamAbsences implements leave.QueryService.
func (s *queryService) ListTeamAbsences(ctx context.Context, department string) ([]leave.LeaveResponse, error) {
	department = strings.TrimSpace(department)
	if department == "" {
		return []leave.LeaveResponse{}, nil
	}

	leaves, err := s.leaves.ListApprovedByDepartment(ctx, department, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list team absences: %w", err)
	}
	return leave.ToResponses(leaves), nil
}

// ListEmployeesOnLeave implements leave.QueryService.
func (s *queryService) ListEmployeesOnLeave(ctx context.Context, day time.Time) ([]leave.EmployeeOnLeave, error) {
	leaves, err := s.leaves.ListApprovedCovering(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees on leave: %w", err)
	}

	out := make([]leave.EmployeeOnLeave, 0, len(leaves))
	for _, l := range leaves {
		out = append(out, leave.EmployeeOnLeave{
			EmployeeID:   l.EmployeeID,
			EmployeeName: l.EmployeeName,
			Department:   l.Department,
			LeaveID:      l.ID,
			StartDate:    formatDate(l.StartDate),
			EndDate:      formatDate(l.EndDate),
			Category:     l.Category,
		})
	}
	return out, nil
}

// GetStats implements leave.QueryService.
func (s *queryService) GetStats(ctx context.Context, employeeID int64) (leave.LeaveStats, error) {
	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return leave.LeaveStats{}, fmt.Errorf("failed to get employee: %w", err)
	}

	counts, err := s.leaves.CountByStatus(ctx, employeeID)
	if err != nil {
		return leave.LeaveStats{}, fmt.Errorf("failed to count leave requests: %w", err)
	}

	stats := leave.LeaveStats{
		EmployeeID: employeeID,
		Approved:   counts[leave.StatusApproved],
		Pending:    counts[leave.StatusPending] + counts[leave.StatusPendingSupervisor],
		Rejected:   counts[leave.StatusRejected],
		Cancelled:  counts[leave.StatusCancelled],
	}
	for _, n := range counts {
		stats.Total += n
	}
	return stats, nil
}

// GetEvolution implements leave.QueryService. Approved leave days are split
// across the months of year they fall into.
func (s *queryService) GetEvolution(ctx context.Context, employeeID int64, year int) (leave.LeaveEvolution, error) {
	if year <= 0 {
		year = s.now().Year()
	}

	if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
		return leave.LeaveEvolution{}, fmt.Errorf("failed to get employee: %w", err)
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	leaves, err := s.leaves.ListApprovedInRange(ctx, employeeID, from, to)
	if err != nil {
		return leave.LeaveEvolution{}, fmt.Errorf("failed to list approved leaves: %w", err)
	}

	months := make([]leave.MonthlyLeave, 12)
	for i := range months {
		m := time.Month(i + 1)
		months[i] = leave.MonthlyLeave{Month: int(m), Label: m.String()[:3]}
	}

	for _, l := range leaves {
		for i := range months {
			monthStart := time.Date(year, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC)
			monthEnd := monthStart.AddDate(0, 1, -1)
			if !l.Overlaps(monthStart, monthEnd) {
				continue
			}
			months[i].Days += leave.DaysBetween(latest(l.StartDate, monthStart), earliest(l.EndDate, monthEnd))
		}
	}

	return leave.LeaveEvolution{
		EmployeeID: employeeID,
		Year:       year,
		Months:     months,
	}, nil
}

// ListAllLeaves implements leave.QueryService.
func (s *queryService) ListAllLeaves(ctx context.Context, status leave.Status) ([]leave.LeaveResponse, error) {
	if status != "" && !leave.ValidStatus(status) {
		return nil, leave.ErrInvalidStatus
	}

	leaves, err := s.leaves.ListAll(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return leave.ToResponses(leaves), nil
}

// Calendar implements leave.QueryService.
func (s *queryService) Calendar(ctx context.Context, from, to time.Time, department string) ([]leave.CalendarEvent, error) {
	if to.Before(from) {
		return nil, leave.ErrInvalidRange
	}

	leaves, err := s.leaves.ListApprovedOverlapping(ctx, from, to, strings.TrimSpace(department))
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leaves: %w", err)
	}

	events := make([]leave.CalendarEvent, 0, len(leaves))
	for _, l := range leaves {
		title := fmt.Sprintf("Employee #%d - Leave", l.EmployeeID)
		if l.EmployeeName != nil {
			title = *l.EmployeeName + " - Leave"
		}
		events = append(events, leave.CalendarEvent{
			ID:         l.ID,
			EmployeeID: l.EmployeeID,
			Title:      title,
			Department: l.Department,
			Start:      formatDate(l.StartDate),
			End:        formatDate(l.EndDate.AddDate(0, 0, 1)),
			AllDay:     true,
		})
	}
	return events, nil
}

// CheckAvailability implements leave.QueryService. An inverted range, an own
// overlapping pending or approved leave and an insufficient balance make the
// range unavailable.
func (s *queryService) CheckAvailability(ctx context.Context, req leave.AvailabilityRequest) (leave.AvailabilityResponse, error) {
	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		return leave.AvailabilityResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if req.End.Before(req.Start) {
		return leave.AvailabilityResponse{Reason: leave.ErrInvalidRange.Error()}, nil
	}

	existing, err := s.leaves.ListByEmployee(ctx, req.EmployeeID)
	if err != nil {
		return leave.AvailabilityResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}
	for _, l := range existing {
		if (l.Status.IsPending() || l.Status == leave.StatusApproved) && l.Overlaps(req.Start, req.End) {
			return leave.AvailabilityResponse{
				Reason: fmt.Sprintf("You already have a leave request from %s to %s for this period.",
					formatDate(l.StartDate), formatDate(l.EndDate)),
			}, nil
		}
	}

	days := leave.DaysBetween(req.Start, req.End)
	remaining, err := s.ledger.GetBalance(ctx, req.EmployeeID)
	if err != nil {
		return leave.AvailabilityResponse{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	if remaining.LessThan(decimal.NewFromInt(int64(days))) {
		return leave.AvailabilityResponse{
			Days:    days,
			Balance: remaining.String(),
			Reason: fmt.Sprintf("Insufficient leave balance: %s days available, %d requested.",
				remaining.String(), days),
		}, nil
	}

	return leave.AvailabilityResponse{
		Available: true,
		Days:      days,
		Balance:   remaining.String(),
		Message:   fmt.Sprintf("These dates are available. Leave duration: %d days.", days),
	}, nil
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earliest(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
