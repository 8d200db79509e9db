package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/balance"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/storage"
	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

type ReportServiceImpl struct {
	employees employee.EmployeeRepository
	leaves    leave.LeaveRepository
	ledger    balance.Ledger
	storage   storage.FileStorage
	now       func() time.Time
}

// NewReportService creates the PDF report service. fileStorage may be nil,
// in which case reports are not archived.
func NewReportService(employees employee.EmployeeRepository, leaves leave.LeaveRepository, ledger balance.Ledger, fileStorage storage.FileStorage) report.ReportService {
	return &ReportServiceImpl{
		employees: employees,
		leaves:    leaves,
		ledger:    ledger,
		storage:   fileStorage,
		now:       time.Now,
	}
}

// GenerateLeaveReport implements report.ReportService.
func (s *ReportServiceImpl) GenerateLeaveReport(ctx context.Context, employeeID int64) (report.LeaveReport, error) {
	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return report.LeaveReport{}, fmt.Errorf("failed to get employee: %w", err)
	}

	remaining, err := s.ledger.GetBalance(ctx, employeeID)
	if err != nil {
		return report.LeaveReport{}, fmt.Errorf("failed to get leave balance: %w", err)
	}

	leaves, err := s.leaves.ListByEmployee(ctx, employeeID)
	if err != nil {
		return report.LeaveReport{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	counts, err := s.leaves.CountByStatus(ctx, employeeID)
	if err != nil {
		return report.LeaveReport{}, fmt.Errorf("failed to count leave requests: %w", err)
	}

	generatedAt := s.now()
	content, err := render(emp, remaining.StringFixed(1), counts, leaves, generatedAt)
	if err != nil {
		slog.Error("Failed to render leave report", "employee_id", employeeID, "error", err)
		return report.LeaveReport{}, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}

	result := report.LeaveReport{
		EmployeeID:  employeeID,
		FileName:    fmt.Sprintf("leave-report-%d-%s.pdf", employeeID, generatedAt.Format("20060102")),
		GeneratedAt: generatedAt,
		Content:     content,
	}

	if s.storage != nil {
		path := fmt.Sprintf("employee-%d/%s.pdf", employeeID, uuid.New().String())
		stored, err := s.storage.Upload(ctx, bytes.NewReader(content), path, report.ContentTypePDF)
		if err != nil {
			// The report is still returned to the caller
			slog.Warn("Failed to archive leave report", "employee_id", employeeID, "error", err)
			return result, nil
		}
		result.Path = stored
		if url, err := s.storage.GetURL(ctx, stored); err == nil {
			result.URL = url
		}
	}

	return result, nil
}

// OpenArchived implements report.ReportService.
func (s *ReportServiceImpl) OpenArchived(ctx context.Context, path string) (io.ReadCloser, error) {
	if s.storage == nil {
		return nil, report.ErrReportNotFound
	}

	rc, err := s.storage.Download(ctx, path)
	if err != nil {
		if errors.Is(err, storage.ErrFileNotFound) || errors.Is(err, storage.ErrInvalidPath) {
			return nil, report.ErrReportNotFound
		}
		return nil, err
	}
	return rc, nil
}

func render(emp employee.Employee, remaining string, counts map[leave.Status]int, leaves []leave.Leave, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Leave Report")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s (#%d)", emp.Name, emp.ID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Email: %s", emp.Email))
	pdf.Ln(7)
	if department := emp.DepartmentName(); department != "" {
		pdf.Cell(0, 8, fmt.Sprintf("Department: %s", department))
		pdf.Ln(7)
	}
	pdf.Cell(0, 8, fmt.Sprintf("Remaining balance: %s days", remaining))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", generatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Summary")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Approved: %d   Pending: %d   Rejected: %d   Cancelled: %d",
		counts[leave.StatusApproved],
		counts[leave.StatusPending]+counts[leave.StatusPendingSupervisor],
		counts[leave.StatusRejected],
		counts[leave.StatusCancelled],
	))
	pdf.Ln(10)

	widths := []float64{15, 30, 30, 15, 45, 45}
	headers := []string{"#", "Start", "End", "Days", "Category", "Status"}

	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	if len(leaves) == 0 {
		pdf.CellFormat(sum(widths), 7, "No leave requests", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	for _, l := range leaves {
		row := []string{
			fmt.Sprintf("%d", l.ID),
			l.StartDate.Format("2006-01-02"),
			l.EndDate.Format("2006-01-02"),
			fmt.Sprintf("%d", l.Days()),
			l.Category,
			string(l.Status),
		}
		for i, v := range row {
			pdf.CellFormat(widths[i], 7, v, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}
