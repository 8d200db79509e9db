package report

import (
	"time"
)

const ContentTypePDF = "application/pdf"

// LeaveReport is a rendered PDF leave summary
type LeaveReport struct {
	EmployeeID  int64     `json:"employee_id"`
	FileName    string    `json:"file_name"`
	Path        string    `json:"path,omitempty"`
	URL         string    `json:"url,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Content     []byte    `json:"-"`
}
