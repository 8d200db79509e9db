package balance

import (
	"context"

	"github.com/shopspring/decimal"
)

// BalanceRepository - interface for leave_balances table
type BalanceRepository interface {
	Get(ctx context.Context, employeeID int64) (LeaveBalance, error)

	// GetOrCreate returns the existing row or inserts one holding initial.
	GetOrCreate(ctx context.Context, employeeID int64, initial decimal.Decimal) (LeaveBalance, error)

	// Adjust adds delta (negative to deduct) and returns ErrWouldOverdraw
	// instead of storing a negative balance.
	Adjust(ctx context.Context, employeeID int64, delta decimal.Decimal) (LeaveBalance, error)
}
