package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/auth"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/balance"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/leave"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/report"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Illegal transitions carry their own human readable reason
	var transitionErr *leave.TransitionError
	if errors.As(err, &transitionErr) {
		BadRequest(w, transitionErr.Error(), nil)
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrSessionRequired):
		Unauthorized(w, "Session cookie user_email is required")
	case errors.Is(err, auth.ErrAdminRequired):
		Forbidden(w, "Admin privilege required")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrSupervisorNotFound):
		NotFound(w, "Supervisor not found")
	case errors.Is(err, employee.ErrAdminNotFound):
		NotFound(w, "Admin not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveNotFound):
		NotFound(w, leave.ErrLeaveNotFound.Error())
	case errors.Is(err, leave.ErrNoSupervisor):
		NotFound(w, leave.ErrNoSupervisor.Error())
	case errors.Is(err, leave.ErrForbidden):
		Forbidden(w, leave.ErrForbidden.Error())
	case errors.Is(err, leave.ErrNotAuthorized):
		Forbidden(w, leave.ErrNotAuthorized.Error())
	case errors.Is(err, leave.ErrInvalidTransition):
		BadRequest(w, "Invalid leave transition", nil)
	case errors.Is(err, leave.ErrInsufficientBalance):
		BadRequest(w, leave.ErrInsufficientBalance.Error(), nil)
	case errors.Is(err, leave.ErrCapacityExceeded):
		BadRequest(w, leave.ErrCapacityExceeded.Error(), nil)
	case errors.Is(err, leave.ErrInvalidRange):
		BadRequest(w, leave.ErrInvalidRange.Error(), nil)
	case errors.Is(err, leave.ErrInvalidStatus):
		BadRequest(w, leave.ErrInvalidStatus.Error(), nil)
	case errors.Is(err, leave.ErrVersionConflict):
		Conflict(w, leave.ErrVersionConflict.Error())
	case errors.Is(err, leave.ErrPersistence):
		InternalServerError(w, leave.ErrPersistence.Error())

	// Balance domain errors
	case errors.Is(err, balance.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, balance.ErrInvalidDays):
		BadRequest(w, "Days must be positive", nil)

	// Notification domain errors
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")

	// Report domain errors
	case errors.Is(err, report.ErrReportNotFound):
		NotFound(w, "Report not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

// StatusCode returns the HTTP status HandleError would use for a leave
// workflow error.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, leave.ErrLeaveNotFound), errors.Is(err, leave.ErrNoSupervisor),
		errors.Is(err, employee.ErrEmployeeNotFound), errors.Is(err, employee.ErrSupervisorNotFound):
		return http.StatusNotFound
	case errors.Is(err, leave.ErrForbidden), errors.Is(err, leave.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, leave.ErrInvalidTransition), errors.Is(err, leave.ErrInsufficientBalance),
		errors.Is(err, leave.ErrCapacityExceeded), errors.Is(err, leave.ErrInvalidRange),
		errors.Is(err, leave.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, leave.ErrVersionConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
