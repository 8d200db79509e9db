package postgresql_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/balance"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-leave-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB *TestDatabaseSetup

func TestMain(m *testing.M) {
	setup, err := NewTestDatabase(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	testDB = setup

	code := m.Run()
	if testDB != nil {
		testDB.Close()
	}
	os.Exit(code)
}

func requireDB(t *testing.T) {
	t.Helper()
	if testDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, testDB.TruncateAllTables(context.Background()))
}

func insertEmployee(t *testing.T, name, email string, role employee.Role, department *string, supervisorID *int64) int64 {
	t.Helper()
	var id int64
	err := testDB.DB.QueryRow(context.Background(), `
		INSERT INTO employees (name, email, role, department, supervisor_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, name, email, string(role), department, supervisorID).Scan(&id)
	require.NoError(t, err)
	return id
}

func day(month time.Month, d int) time.Time {
	return time.Date(2025, month, d, 0, 0, 0, 0, time.UTC)
}

func TestEmployeeRepository(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := postgresql.NewEmployeeRepository(testDB.DB)

	dept := "Engineering"
	adminID := insertEmployee(t, "Ada", "admin@example.com", employee.RoleAdmin, nil, nil)
	supID := insertEmployee(t, "Sam", "sam@example.com", employee.RoleSupervisor, &dept, nil)
	empID := insertEmployee(t, "Dana", "dana@example.com", employee.RoleEmployee, &dept, &supID)

	got, err := repo.GetByEmail(ctx, "DANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, empID, got.ID)
	assert.Equal(t, "Engineering", got.DepartmentName())
	require.True(t, got.HasSupervisor())
	assert.Equal(t, supID, *got.SupervisorID)

	admin, err := repo.GetFirstAdmin(ctx)
	require.NoError(t, err)
	assert.Equal(t, adminID, admin.ID)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	ids, err := repo.ListIDsWithoutBalance(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{adminID, supID, empID}, ids)
}

func TestLeaveRepository_CreateAndUpdateState(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := postgresql.NewLeaveRepository(testDB.DB)
	empID := insertEmployee(t, "Dana", "dana@example.com", employee.RoleEmployee, nil, nil)

	created, err := repo.Create(ctx, leave.Leave{
		EmployeeID: empID,
		StartDate:  day(3, 10),
		EndDate:    day(3, 12),
		Category:   leave.DefaultCategory,
		Status:     leave.StatusPending,
		Version:    1,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	loaded, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana", *loaded.EmployeeName)
	assert.Equal(t, 3, loaded.Days())

	// Act
	now := time.Now()
	actor := int64(1)
	loaded.Status = leave.StatusApproved
	loaded.ApprovedBy = &actor
	loaded.ApprovedAt = &now
	loaded.Version = 2
	require.NoError(t, repo.UpdateState(ctx, loaded, 1))

	// Assert
	stale := loaded
	stale.Status = leave.StatusCancelled
	stale.Version = 2
	assert.ErrorIs(t, repo.UpdateState(ctx, stale, 1), leave.ErrVersionConflict)

	reloaded, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, reloaded.Status)
	assert.Equal(t, int64(2), reloaded.Version)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, leave.ErrLeaveNotFound)
}

func TestLeaveRepository_Queries(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := postgresql.NewLeaveRepository(testDB.DB)

	eng := "Engineering"
	supID := insertEmployee(t, "Sam", "sam@example.com", employee.RoleSupervisor, &eng, nil)
	a := insertEmployee(t, "Dana", "dana@example.com", employee.RoleEmployee, &eng, &supID)
	b := insertEmployee(t, "Eli", "eli@example.com", employee.RoleEmployee, &eng, &supID)

	seed := func(employeeID int64, start, end time.Time, status leave.Status, supervisor *int64) {
		_, err := repo.Create(ctx, leave.Leave{EmployeeID: employeeID, SupervisorID: supervisor, StartDate: start, EndDate: end, Category: "paid leave", Status: status, Version: 1})
		require.NoError(t, err)
	}
	seed(a, day(3, 10), day(3, 12), leave.StatusApproved, nil)
	seed(a, day(3, 20), day(3, 21), leave.StatusPendingSupervisor, &supID)
	seed(b, day(3, 11), day(3, 11), leave.StatusApproved, nil)
	seed(b, day(3, 11), day(3, 14), leave.StatusApproved, nil)
	seed(b, day(4, 1), day(4, 1), leave.StatusRejected, nil)

	overlaps, err := repo.CountDepartmentOverlaps(ctx, eng, a, day(3, 10), day(3, 12))
	require.NoError(t, err)
	assert.Equal(t, 1, overlaps)

	pending, err := repo.ListBySupervisor(ctx, supID, leave.StatusPendingSupervisor)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	covering, err := repo.ListApprovedCovering(ctx, day(3, 11))
	require.NoError(t, err)
	assert.Len(t, covering, 3)

	team, err := repo.ListApprovedByDepartment(ctx, eng, day(3, 13))
	require.NoError(t, err)
	assert.Len(t, team, 1)

	counts, err := repo.CountByStatus(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, 2, counts[leave.StatusApproved])
	assert.Equal(t, 1, counts[leave.StatusRejected])

	inRange, err := repo.ListApprovedInRange(ctx, a, day(1, 1), day(12, 31))
	require.NoError(t, err)
	assert.Len(t, inRange, 1)

	all, err := repo.ListAll(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, leave.StatusRejected, all[0].Status)
	assert.Equal(t, "Eli", *all[0].EmployeeName)

	approved, err := repo.ListAll(ctx, leave.StatusApproved)
	require.NoError(t, err)
	assert.Len(t, approved, 3)

	calendar, err := repo.ListApprovedOverlapping(ctx, day(3, 12), day(3, 31), "")
	require.NoError(t, err)
	assert.Len(t, calendar, 2)

	sales, err := repo.ListApprovedOverlapping(ctx, day(3, 1), day(3, 31), "Sales")
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestBalanceRepository(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := postgresql.NewBalanceRepository(testDB.DB)
	empID := insertEmployee(t, "Dana", "dana@example.com", employee.RoleEmployee, nil, nil)

	_, err := repo.Get(ctx, empID)
	assert.ErrorIs(t, err, balance.ErrBalanceNotFound)

	created, err := repo.GetOrCreate(ctx, empID, decimal.NewFromInt(20))
	require.NoError(t, err)
	assert.True(t, created.Balance.Equal(decimal.NewFromInt(20)))

	again, err := repo.GetOrCreate(ctx, empID, decimal.NewFromInt(5))
	require.NoError(t, err)
	assert.True(t, again.Balance.Equal(decimal.NewFromInt(20)))

	adjusted, err := repo.Adjust(ctx, empID, decimal.NewFromInt(-3))
	require.NoError(t, err)
	assert.True(t, adjusted.Balance.Equal(decimal.NewFromInt(17)))

	_, err = repo.Adjust(ctx, empID, decimal.NewFromInt(-18))
	assert.ErrorIs(t, err, balance.ErrWouldOverdraw)

	_, err = repo.Adjust(ctx, 9999, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, balance.ErrBalanceNotFound)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	tx := postgresql.NewTransactor(testDB.DB)
	balances := postgresql.NewBalanceRepository(testDB.DB)
	empID := insertEmployee(t, "Dana", "dana@example.com", employee.RoleEmployee, nil, nil)
	_, err := balances.GetOrCreate(ctx, empID, decimal.NewFromInt(10))
	require.NoError(t, err)

	boom := errors.New("boom")
	err = tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := balances.Adjust(txCtx, empID, decimal.NewFromInt(-4)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	b, err := balances.Get(ctx, empID)
	require.NoError(t, err)
	assert.True(t, b.Balance.Equal(decimal.NewFromInt(10)))
}

func TestNotificationRepository(t *testing.T) {
	requireDB(t)
	ctx := context.Background()
	repo := postgresql.NewNotificationRepository(testDB.DB)
	empID := insertEmployee(t, "Dana", "dana@example.com", employee.RoleEmployee, nil, nil)

	first := &notification.Notification{RecipientID: empID, Message: "first", CreatedAt: time.Now().Add(-time.Minute)}
	second := &notification.Notification{RecipientID: empID, Message: "second"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	list, err := repo.ListByRecipient(ctx, empID, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Message)

	require.NoError(t, repo.MarkAsRead(ctx, first.ID, empID))
	count, err := repo.GetUnreadCount(ctx, empID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.ErrorIs(t, repo.MarkAsRead(ctx, "not-a-uuid", empID), notification.ErrNotificationNotFound)
	assert.ErrorIs(t, repo.MarkAsRead(ctx, uuid.New().String(), empID), notification.ErrNotificationNotFound)
	assert.ErrorIs(t, repo.MarkAsRead(ctx, second.ID, empID+1), notification.ErrNotificationNotFound)
}
