package report

import (
	"context"
	"io"
)

// ReportService defines the interface for report generation
type ReportService interface {
	// GenerateLeaveReport renders the PDF leave summary of an employee and
	// archives a copy in file storage.
	GenerateLeaveReport(ctx context.Context, employeeID int64) (LeaveReport, error)

	// OpenArchived streams a previously archived report
	OpenArchived(ctx context.Context, path string) (io.ReadCloser, error)
}
