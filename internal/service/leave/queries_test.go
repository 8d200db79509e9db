package leave

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/leave"
	balanceService "github.com/cmlabs-hris/hris-leave-go/internal/service/balance"
	"github.com/cmlabs-hris/hris-leave-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueryFixture(t *testing.T) (*queryService, *testutil.LeaveStore) {
	t.Helper()
	svc, leaves, _ := newQueryFixtureWithBalances(t)
	return svc, leaves
}

func newQueryFixtureWithBalances(t *testing.T) (*queryService, *testutil.LeaveStore, *testutil.BalanceStore) {
	t.Helper()
	employees := testutil.NewEmployeeStore(
		employee.Employee{ID: 5, Name: "Sam", Email: "sam@example.com", Role: employee.RoleSupervisor, Department: strPtr("Engineering")},
		employee.Employee{ID: 7, Name: "Dana", Email: "dana@example.com", Department: strPtr("Engineering"), SupervisorID: idPtr(5)},
		employee.Employee{ID: 8, Name: "Eli", Email: "eli@example.com", Department: strPtr("Sales")},
	)
	leaves := testutil.NewLeaveStore(employees)
	balances := testutil.NewBalanceStore()

	svc := NewQueryService(leaves, employees, balanceService.NewLedger(balances, employees, 20)).(*queryService)
	svc.now = func() time.Time { return date(3, 15) }
	return svc, leaves, balances
}

func TestQueryService_ListPendingForSupervisor(t *testing.T) {
	svc, leaves := newQueryFixture(t)
	forwarded := leaves.Seed(leave.Leave{EmployeeID: 7, SupervisorID: idPtr(5), StartDate: date(4, 1), EndDate: date(4, 2), Status: leave.StatusPendingSupervisor})
	leaves.Seed(leave.Leave{EmployeeID: 7, StartDate: date(5, 1), EndDate: date(5, 2), Status: leave.StatusPending})
	leaves.Seed(leave.Leave{EmployeeID: 7, SupervisorID: idPtr(5), StartDate: date(2, 1), EndDate: date(2, 2), Status: leave.StatusApproved})

	result, err := svc.ListPendingForSupervisor(context.Background(), "sam@example.com")

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, forwarded.ID, result[0].ID)
	assert.Equal(t, "Dana", *result[0].EmployeeName)
}

func TestQueryService_ListPendingForSupervisor_UnknownEmail(t *testing.T) {
	svc, _ := newQueryFixture(t)

	_, err := svc.ListPendingForSupervisor(context.Background(), "nobody@example.com")

	assert.ErrorIs(t, err, employee.ErrSupervisorNotFound)
}

func TestQueryService_ListTeamAbsences(t *testing.T) {
	svc, leaves := newQueryFixture(t)
	current := leaves.Seed(leave.Leave{EmployeeID: 7, StartDate: date(3, 14), EndDate: date(3, 16), Status: leave.StatusApproved})
	upcoming := leaves.Seed(leave.Leave{EmployeeID: 7, StartDate: date(4, 1), EndDate: date(4, 3), Status: leave.StatusApproved})
	leaves.Seed(leave.Leave{EmployeeID: 7, StartDate: date(3, 1), EndDate: date(3, 3), Status: leave.StatusApproved})
	leaves.Seed(leave.Leave{EmployeeID: 7, StartDate: date(5, 1), EndDate: date(5, 3), Status: leave.StatusPending})
	leaves.Seed(leave.Leave{EmployeeID: 8, StartDate: date(4, 1), EndDate: date(4, 3), Status: leave.StatusApproved})

	result, err := svc.ListTeamAbsences(context.Background(), "Engineering")

	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, current.ID, result[0].ID)
	assert.Equal(t, upcoming.ID, result[1].ID)
}

func TestQueryService_ListTeamAbsences_EmptyDepartment(t *testing.T) {
	svc, _ := newQueryFixture(t)

	result, err := svc.ListTeamAbsences(context.Background(), "  ")

	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestQueryService_ListEmployeesOnLeave(t *testing.T) {
	svc, leaves := newQueryFixture(t)
	covering := leaves.Seed(leave.Leave{EmployeeID: 8, StartDate: date(3, 10), EndDate: date(3, 20), Category: "sick leave", Status: leave.StatusApproved})
	leaves.Seed(leave.Leave{EmployeeID: 7, StartDate: date(3, 10), EndDate: date(3, 20), Status: leave.StatusCancelled})

	result, err := svc.ListEmployeesOnLeave(context.Background(), date(3, 20))

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, leave.EmployeeOnLeave{
		EmployeeID:   8,
		EmployeeName: strPtr("Eli"),
		Department:   strPtr("Sales"),
		LeaveID:      covering.ID,
		StartDate:    "2025-03-10",
		EndDate:      "2025-03-20",
		Category:     "sick leave",
	}, result[0])
}

func TestQueryService_GetStats(t *testing.T) {
	svc, leaves := newQueryFixture(t)
	for _, status := range []leave.Status{
		leave.StatusPending, leave.StatusPendingSupervisor, leave.StatusApproved,
		leave.StatusApproved, leave.StatusRejected, leave.StatusCancelled,
	} {
		leaves.Seed(leave.Leave{EmployeeID: 7, StartDate: date(3, 1), EndDate: date(3, 1), Status: status})
	}

	stats, err := svc.GetStats(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, leave.LeaveStats{EmployeeID: 7, Total: 6, Approved: 2, Pending: 2, Rejected: 1, Cancelled: 1}, stats)
}

func TestQueryService_GetStats_UnknownEmployee(t *testing.T) {
	svc, _ := newQueryFixture(t)

	_, err := svc.GetStats(context.Background(), 404)

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestQueryService_GetEvolution_SplitsAcrossMonths(t *testing.T) {
	svc, leaves := newQueryFixture(t)
	leaves.Seed(leave.Leave{EmployeeID: 7, StartDate: date(1, 30), EndDate: date(2, 2), Status: leave.StatusApproved})
	leaves.Seed(leave.Leave{EmployeeID: 7, StartDate: date(6, 9), EndDate: date(6, 13), Status: leave.StatusApproved})
	leaves.Seed(leave.Leave{EmployeeID: 7, StartDate: date(7, 1), EndDate: date(7, 5), Status: leave.StatusRejected})
	leaves.Seed(leave.Leave{
		EmployeeID: 7,
		StartDate:  time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC),
		EndDate:    date(1, 1),
		Status:     leave.StatusApproved,
	})

	// Act
	evolution, err := svc.GetEvolution(context.Background(), 7, 0)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2025, evolution.Year)
	require.Len(t, evolution.Months, 12)
	assert.Equal(t, "Jan", evolution.Months[0].Label)
	assert.Equal(t, 3, evolution.Months[0].Days)
	assert.Equal(t, 2, evolution.Months[1].Days)
	assert.Equal(t, 5, evolution.Months[5].Days)
	assert.Equal(t, 0, evolution.Months[6].Days)
	assert.Equal(t, "Dec", evolution.Months[11].Label)
}

func TestQueryService_ListAllLeaves(t *testing.T) {
	svc, leaves := newQueryFixture(t)
	older := leaves.Seed(leave.Leave{EmployeeID: 7, StartDate: date(2, 1), EndDate: date(2, 2), Status: leave.StatusApproved})
	newer := leaves.Seed(leave.Leave{EmployeeID: 8, StartDate: date(4, 1), EndDate: date(4, 2), Status: leave.StatusPending})

	t.Run("all statuses newest first", func(t *testing.T) {
		result, err := svc.ListAllLeaves(context.Background(), "")

		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, newer.ID, result[0].ID)
		assert.Equal(t, older.ID, result[1].ID)
		assert.Equal(t, "Eli", *result[0].EmployeeName)
		assert.Equal(t, "Sales", *result[0].Department)
	})

	t.Run("filtered by status", func(t *testing.T) {
		result, err := svc.ListAllLeaves(context.Background(), leave.StatusApproved)

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, older.ID, result[0].ID)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := svc.ListAllLeaves(context.Background(), leave.Status("archived"))

		assert.ErrorIs(t, err, leave.ErrInvalidStatus)
	})
}

func TestQueryService_Calendar(t *testing.T) {
	svc, leaves := newQueryFixture(t)
	dana := leaves.Seed(leave.Leave{EmployeeID: 7, StartDate: date(4, 1), EndDate: date(4, 3), Status: leave.StatusApproved})
	eli := leaves.Seed(leave.Leave{EmployeeID: 8, StartDate: date(4, 2), EndDate: date(4, 2), Status: leave.StatusApproved})
	leaves.Seed(leave.Leave{EmployeeID: 7, StartDate: date(4, 5), EndDate: date(4, 6), Status: leave.StatusPending})
	leaves.Seed(leave.Leave{EmployeeID: 7, StartDate: date(5, 1), EndDate: date(5, 2), Status: leave.StatusApproved})

	events, err := svc.Calendar(context.Background(), date(4, 1), date(4, 30), "")

	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, dana.ID, events[0].ID)
	assert.Equal(t, "Dana - Leave", events[0].Title)
	assert.Equal(t, "2025-04-01", events[0].Start)
	assert.Equal(t, "2025-04-04", events[0].End)
	assert.True(t, events[0].AllDay)
	assert.Equal(t, eli.ID, events[1].ID)

	engineering, err := svc.Calendar(context.Background(), date(4, 1), date(4, 30), "Engineering")
	require.NoError(t, err)
	require.Len(t, engineering, 1)
	assert.Equal(t, dana.ID, engineering[0].ID)

	_, err = svc.Calendar(context.Background(), date(4, 30), date(4, 1), "")
	assert.ErrorIs(t, err, leave.ErrInvalidRange)
}

func TestQueryService_CheckAvailability(t *testing.T) {
	svc, leaves, balances := newQueryFixtureWithBalances(t)
	leaves.Seed(leave.Leave{EmployeeID: 7, StartDate: date(4, 10), EndDate: date(4, 12), Status: leave.StatusPending})
	leaves.Seed(leave.Leave{EmployeeID: 7, StartDate: date(4, 20), EndDate: date(4, 22), Status: leave.StatusRejected})
	balances.Set(7, 5)

	tests := []struct {
		name       string
		start, end time.Time
		available  bool
		days       int
		reason     string
	}{
		{
			name: "free range within balance", start: date(4, 1), end: date(4, 5),
			available: true, days: 5,
		},
		{
			name: "overlaps own pending request", start: date(4, 12), end: date(4, 14),
			reason: "You already have a leave request from 2025-04-10 to 2025-04-12 for this period.",
		},
		{
			name: "rejected requests do not block", start: date(4, 20), end: date(4, 21),
			available: true, days: 2,
		},
		{
			name: "balance exceeded", start: date(5, 1), end: date(5, 6),
			days: 6, reason: "Insufficient leave balance: 5 days available, 6 requested.",
		},
		{
			name: "inverted range", start: date(5, 6), end: date(5, 1),
			reason: leave.ErrInvalidRange.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.CheckAvailability(context.Background(), leave.AvailabilityRequest{
				EmployeeID: 7, Start: tt.start, End: tt.end,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.available, result.Available)
			assert.Equal(t, tt.days, result.Days)
			assert.Equal(t, tt.reason, result.Reason)
		})
	}
}

func TestQueryService_CheckAvailability_UnknownEmployee(t *testing.T) {
	svc, _ := newQueryFixture(t)

	_, err := svc.CheckAvailability(context.Background(), leave.AvailabilityRequest{
		EmployeeID: 99, Start: date(4, 1), End: date(4, 2),
	})

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
