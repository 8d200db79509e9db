package employee

import "context"

// EmployeeRepository - read access to the employees table used by the leave workflow
type EmployeeRepository interface {
	GetByID(ctx context.Context, id int64) (Employee, error)
	GetByEmail(ctx context.Context, email string) (Employee, error)
	GetFirstAdmin(ctx context.Context) (Employee, error)
	ListIDsWithoutBalance(ctx context.Context) ([]int64, error)
}
