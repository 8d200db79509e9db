package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-leave-go/internal/handler/http/response"
)

// LeaveStateHandler exposes the state machine operations with an explicit actor
type LeaveStateHandler interface {
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Info(w http.ResponseWriter, r *http.Request)
}

type leaveStateHandlerImpl struct {
	workflow leave.WorkflowService
}

func NewLeaveStateHandler(workflow leave.WorkflowService) LeaveStateHandler {
	return &leaveStateHandlerImpl{workflow: workflow}
}

type transitionBody struct {
	Detail string `json:"detail,omitempty"`
	leave.TransitionResult
}

// writeTransition writes the result as-is. Failures on a loaded record keep
// the result body and add detail; other failures use the error envelope.
func writeTransition(w http.ResponseWriter, result leave.TransitionResult, err error) {
	if err == nil {
		response.JSON(w, http.StatusOK, transitionBody{TransitionResult: result})
		return
	}
	if result.LeaveID == 0 {
		response.HandleError(w, err)
		return
	}
	response.JSON(w, response.StatusCode(err), transitionBody{
		Detail:           result.Message,
		TransitionResult: result,
	})
}

// callerActor returns the caller's employee id. An actor named in the query
// must be the caller.
func callerActor(w http.ResponseWriter, r *http.Request, key string) (int64, bool) {
	claims, ok := currentClaims(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return 0, false
	}
	if actor := getInt64QueryParam(r, key); actor > 0 && actor != claims.EmployeeID {
		response.Forbidden(w, "You cannot act on behalf of another employee")
		return 0, false
	}
	return claims.EmployeeID, true
}

// Approve implements LeaveStateHandler.
func (h *leaveStateHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	leaveID, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid leave ID", nil)
		return
	}
	actorID, ok := callerActor(w, r, "approved_by")
	if !ok {
		return
	}

	result, err := h.workflow.Approve(r.Context(), leaveID, actorID, r.URL.Query().Get("reason"))
	writeTransition(w, result, err)
}

// Reject implements LeaveStateHandler.
func (h *leaveStateHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	leaveID, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid leave ID", nil)
		return
	}
	actorID, ok := callerActor(w, r, "rejected_by")
	if !ok {
		return
	}

	result, err := h.workflow.Reject(r.Context(), leaveID, actorID, r.URL.Query().Get("reason"))
	writeTransition(w, result, err)
}

// Cancel implements LeaveStateHandler.
func (h *leaveStateHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	leaveID, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid leave ID", nil)
		return
	}
	actorID, ok := callerActor(w, r, "cancelled_by")
	if !ok {
		return
	}

	result, err := h.workflow.Cancel(r.Context(), leaveID, actorID, r.URL.Query().Get("reason"))
	writeTransition(w, result, err)
}

// Info implements LeaveStateHandler.
func (h *leaveStateHandlerImpl) Info(w http.ResponseWriter, r *http.Request) {
	leaveID, ok := idParam(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid leave ID", nil)
		return
	}

	info, err := h.workflow.GetLeaveStateInfo(r.Context(), leaveID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, info)
}
