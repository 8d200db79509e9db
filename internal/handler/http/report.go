package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-leave-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ReportHandler interface {
	// PDF leave summary of one employee
	GetLeaveReport(w http.ResponseWriter, r *http.Request)

	// Previously generated report
	GetArchivedReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetLeaveReport handles GET /reports/leaves/{employeeID}
func (h *reportHandlerImpl) GetLeaveReport(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(r, "employeeID")
	if !ok {
		response.BadRequest(w, "Invalid employee ID", nil)
		return
	}

	result, err := h.reportService.GenerateLeaveReport(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", report.ContentTypePDF)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Content)))
	if result.URL != "" {
		w.Header().Set("X-Report-URL", result.URL)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result.Content); err != nil {
		slog.Warn("Failed to write leave report", "employee_id", employeeID, "error", err)
	}
}

// GetArchivedReport handles GET /reports/archive/*
func (h *reportHandlerImpl) GetArchivedReport(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	if path == "" {
		response.BadRequest(w, "Report path is required", nil)
		return
	}

	rc, err := h.reportService.OpenArchived(r.Context(), path)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", report.ContentTypePDF)
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("Failed to stream archived report", "path", path, "error", err)
	}
}
