package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrSupervisorNotFound = errors.New("supervisor not found")
	ErrAdminNotFound      = errors.New("no administrator configured")
)
