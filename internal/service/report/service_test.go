package report

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/storage"
	"github.com/cmlabs-hris/hris-leave-go/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReportFixture(t *testing.T, fileStorage storage.FileStorage) *ReportServiceImpl {
	t.Helper()
	department := "Engineering"
	employees := testutil.NewEmployeeStore(employee.Employee{ID: 7, Name: "Dana", Email: "dana@example.com", Department: &department})
	leaves := testutil.NewLeaveStore(employees)
	leaves.Seed(leave.Leave{
		EmployeeID: 7,
		StartDate:  time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		Category:   leave.DefaultCategory,
		Status:     leave.StatusApproved,
	})

	ledger := new(testutil.MockLedger)
	ledger.On("GetBalance", mock.Anything, int64(7)).Return(decimal.RequireFromString("17.5"), nil).Maybe()

	svc := NewReportService(employees, leaves, ledger, fileStorage).(*ReportServiceImpl)
	svc.now = func() time.Time { return time.Date(2025, 4, 2, 10, 30, 0, 0, time.UTC) }
	return svc
}

func TestReportService_GenerateLeaveReport_WithoutStorage(t *testing.T) {
	svc := newReportFixture(t, nil)

	// Act
	result, err := svc.GenerateLeaveReport(context.Background(), 7)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "leave-report-7-20250402.pdf", result.FileName)
	assert.True(t, bytes.HasPrefix(result.Content, []byte("%PDF")))
	assert.Empty(t, result.Path)
	assert.Empty(t, result.URL)
}

func TestReportService_GenerateLeaveReport_Archives(t *testing.T) {
	local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:8080/reports/archive")
	require.NoError(t, err)
	svc := newReportFixture(t, local)

	result, err := svc.GenerateLeaveReport(context.Background(), 7)
	require.NoError(t, err)
	require.NotEmpty(t, result.Path)
	assert.Contains(t, result.Path, "employee-7/")
	assert.Contains(t, result.URL, "http://localhost:8080/reports/archive/employee-7/")

	// Act
	rc, err := svc.OpenArchived(context.Background(), result.Path)
	require.NoError(t, err)
	defer rc.Close()
	archived, err := io.ReadAll(rc)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, result.Content, archived)
}

func TestReportService_GenerateLeaveReport_UnknownEmployee(t *testing.T) {
	svc := newReportFixture(t, nil)

	_, err := svc.GenerateLeaveReport(context.Background(), 404)

	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestReportService_OpenArchived_Missing(t *testing.T) {
	local, err := storage.NewLocalStorage(t.TempDir(), "http://localhost")
	require.NoError(t, err)

	_, err = newReportFixture(t, local).OpenArchived(context.Background(), "employee-7/missing.pdf")
	assert.ErrorIs(t, err, report.ErrReportNotFound)

	_, err = newReportFixture(t, nil).OpenArchived(context.Background(), "anything.pdf")
	assert.ErrorIs(t, err, report.ErrReportNotFound)
}
