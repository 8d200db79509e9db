package employee

import "time"

type Role string

const (
	RoleEmployee   Role = "employee"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

type Employee struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash *string
	Role         Role
	Department   *string
	SupervisorID *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if the employee holds the administrator role
func (e *Employee) IsAdmin() bool {
	return e.Role == RoleAdmin
}

// HasSupervisor checks if an approver is assigned
func (e *Employee) HasSupervisor() bool {
	return e.SupervisorID != nil && *e.SupervisorID > 0
}

// DepartmentName returns the department or an empty string.
func (e *Employee) DepartmentName() string {
	if e.Department == nil {
		return ""
	}
	return *e.Department
}
