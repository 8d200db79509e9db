package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-leave-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-leave-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/validator"
)

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	ListSupervisorPending(w http.ResponseWriter, r *http.Request)
	TeamAbsences(w http.ResponseWriter, r *http.Request)
	OnLeave(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	Evolution(w http.ResponseWriter, r *http.Request)
	Calendar(w http.ResponseWriter, r *http.Request)
	CheckAvailability(w http.ResponseWriter, r *http.Request)

	// Admin
	ListAll(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	ForwardRequest(w http.ResponseWriter, r *http.Request)

	// Supervisor
	SupervisorApprove(w http.ResponseWriter, r *http.Request)
	SupervisorReject(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	workflow leave.WorkflowService
	queries  leave.QueryService
}

func NewLeaveHandler(workflow leave.WorkflowService, queries leave.QueryService) LeaveHandler {
	return &LeaveHandlerImpl{
		workflow: workflow,
		queries:  queries,
	}
}

type decisionRequest struct {
	Reason  string `json:"reason"`
	Comment string `json:"comment"`
}

// decodeOptional decodes a JSON body when one is present
func decodeOptional(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var req leave.CreateLeaveRequest

	claims, ok := currentClaims(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Employees request for themselves, admins on behalf of anyone
	if req.EmployeeID == 0 {
		req.EmployeeID = claims.EmployeeID
	}
	if req.EmployeeID != claims.EmployeeID && claims.Role != string(employee.RoleAdmin) {
		response.Forbidden(w, "You can only request leave for yourself")
		return
	}

	// Malformed requests are a 400 on this route, field details included
	if err := req.Validate(); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			response.BadRequest(w, "Validation failed", validationErrs.ToMap())
			return
		}
		response.HandleError(w, err)
		return
	}

	created, err := l.workflow.Request(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", created)
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	leaveID, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid leave ID", nil)
		return
	}

	result, err := l.queries.GetLeave(r.Context(), leaveID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListByEmployee implements LeaveHandler.
func (l *LeaveHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(r, "employeeID")
	if !ok {
		response.BadRequest(w, "Invalid employee ID", nil)
		return
	}

	result, err := l.queries.ListEmployeeLeaves(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListSupervisorPending implements LeaveHandler.
func (l *LeaveHandlerImpl) ListSupervisorPending(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.SessionEmailFromContext(r.Context())

	result, err := l.queries.ListPendingForSupervisor(r.Context(), email)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// TeamAbsences implements LeaveHandler.
func (l *LeaveHandlerImpl) TeamAbsences(w http.ResponseWriter, r *http.Request) {
	department := strings.TrimSpace(r.URL.Query().Get("department"))
	if department == "" {
		response.BadRequest(w, "department is required", nil)
		return
	}

	result, err := l.queries.ListTeamAbsences(r.Context(), department)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// OnLeave implements LeaveHandler.
func (l *LeaveHandlerImpl) OnLeave(w http.ResponseWriter, r *http.Request) {
	day := time.Now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, ok := validator.IsValidDate(raw)
		if !ok {
			response.BadRequest(w, "date must be in YYYY-MM-DD format", nil)
			return
		}
		day = parsed
	}

	result, err := l.queries.ListEmployeesOnLeave(r.Context(), day)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Stats implements LeaveHandler.
func (l *LeaveHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(r, "employeeID")
	if !ok {
		response.BadRequest(w, "Invalid employee ID", nil)
		return
	}

	result, err := l.queries.GetStats(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Evolution implements LeaveHandler.
func (l *LeaveHandlerImpl) Evolution(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(r, "employeeID")
	if !ok {
		response.BadRequest(w, "Invalid employee ID", nil)
		return
	}

	year := getIntQueryParam(r, "year", time.Now().Year())

	result, err := l.queries.GetEvolution(r.Context(), employeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Calendar implements LeaveHandler.
func (l *LeaveHandlerImpl) Calendar(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	from, ok := parseCalendarDate(query.Get("start"))
	if !ok {
		response.BadRequest(w, "start must be a YYYY-MM-DD date or an RFC 3339 timestamp", nil)
		return
	}
	to, ok := parseCalendarDate(query.Get("end"))
	if !ok {
		response.BadRequest(w, "end must be a YYYY-MM-DD date or an RFC 3339 timestamp", nil)
		return
	}

	result, err := l.queries.Calendar(r.Context(), from, to, query.Get("department"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// parseCalendarDate accepts the plain dates and the timestamps calendar
// widgets send for their visible range.
func parseCalendarDate(raw string) (time.Time, bool) {
	if parsed, ok := validator.IsValidDate(raw); ok {
		return parsed, true
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := parsed.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

// CheckAvailability implements LeaveHandler.
func (l *LeaveHandlerImpl) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req leave.AvailabilityRequest

	claims, ok := currentClaims(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CheckAvailability decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if req.EmployeeID == 0 {
		req.EmployeeID = claims.EmployeeID
	}
	if req.EmployeeID != claims.EmployeeID && claims.Role != string(employee.RoleAdmin) {
		response.Forbidden(w, "You can only check availability for yourself")
		return
	}

	if err := req.Validate(); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			response.BadRequest(w, "Validation failed", validationErrs.ToMap())
			return
		}
		response.HandleError(w, err)
		return
	}

	result, err := l.queries.CheckAvailability(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListAll implements LeaveHandler.
func (l *LeaveHandlerImpl) ListAll(w http.ResponseWriter, r *http.Request) {
	status := leave.Status(strings.TrimSpace(r.URL.Query().Get("status")))

	result, err := l.queries.ListAllLeaves(r.Context(), status)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ApproveRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	leaveID, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid leave ID", nil)
		return
	}
	claims, _ := currentClaims(r)

	result, err := l.workflow.ApproveByAdmin(r.Context(), leaveID, claims.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, leave.ActionResponse{Message: result.Message, LeaveID: leaveID})
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	leaveID, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid leave ID", nil)
		return
	}
	claims, _ := currentClaims(r)

	var req decisionRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := l.workflow.RejectByAdmin(r.Context(), leaveID, claims.EmployeeID, req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, leave.ActionResponse{Message: result.Message, LeaveID: leaveID})
}

// ForwardRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ForwardRequest(w http.ResponseWriter, r *http.Request) {
	leaveID, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid leave ID", nil)
		return
	}

	result, err := l.workflow.ForwardToSupervisor(r.Context(), leaveID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, leave.ActionResponse{Message: result.Message, LeaveID: leaveID})
}

// SupervisorApprove implements LeaveHandler.
func (l *LeaveHandlerImpl) SupervisorApprove(w http.ResponseWriter, r *http.Request) {
	leaveID, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid leave ID", nil)
		return
	}
	email, _ := middleware.SessionEmailFromContext(r.Context())

	var req decisionRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := l.workflow.ApproveBySupervisor(r.Context(), email, leaveID, req.Comment)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, leave.ActionResponse{Message: result.Message, LeaveID: leaveID})
}

// SupervisorReject implements LeaveHandler.
func (l *LeaveHandlerImpl) SupervisorReject(w http.ResponseWriter, r *http.Request) {
	leaveID, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid leave ID", nil)
		return
	}
	email, _ := middleware.SessionEmailFromContext(r.Context())

	var req decisionRequest
	if err := decodeOptional(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := l.workflow.RejectBySupervisor(r.Context(), email, leaveID, req.Reason)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, leave.ActionResponse{Message: result.Message, LeaveID: leaveID})
}
