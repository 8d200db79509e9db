package balance

import (
	"context"

	"github.com/shopspring/decimal"
)

// Ledger tracks remaining leave days per employee.
type Ledger interface {
	GetBalance(ctx context.Context, employeeID int64) (decimal.Decimal, error)
	HasSufficient(ctx context.Context, employeeID int64, days int) (bool, error)
	Deduct(ctx context.Context, employeeID int64, days int) (decimal.Decimal, error)
	Restore(ctx context.Context, employeeID int64, days int) (decimal.Decimal, error)
	InitializeAll(ctx context.Context) (int, error)
}
