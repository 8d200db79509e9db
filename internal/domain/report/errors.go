package report

import "errors"

var (
	ErrReportGenerationFailed = errors.New("failed to generate report")
	ErrReportNotFound         = errors.New("report not found")
)
