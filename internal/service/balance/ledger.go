package balance

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/balance"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

type ledger struct {
	repo      balance.BalanceRepository
	employees employee.EmployeeRepository
	initial   decimal.Decimal
}

// NewLedger creates a ledger that opens missing balances with initialDays.
func NewLedger(repo balance.BalanceRepository, employees employee.EmployeeRepository, initialDays int) balance.Ledger {
	initial := balance.DefaultAllotment
	if initialDays >= 0 {
		initial = decimal.NewFromInt(int64(initialDays))
	}
	return &ledger{
		repo:      repo,
		employees: employees,
		initial:   initial,
	}
}

// GetBalance implements balance.Ledger.
func (l *ledger) GetBalance(ctx context.Context, employeeID int64) (decimal.Decimal, error) {
	if _, err := l.employees.GetByID(ctx, employeeID); err != nil {
		return decimal.Zero, fmt.Errorf("failed to get employee: %w", err)
	}

	b, err := l.repo.GetOrCreate(ctx, employeeID, l.initial)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b.Balance, nil
}

// HasSufficient implements balance.Ledger.
func (l *ledger) HasSufficient(ctx context.Context, employeeID int64, days int) (bool, error) {
	b, err := l.repo.GetOrCreate(ctx, employeeID, l.initial)
	if err != nil {
		return false, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b.Balance.GreaterThanOrEqual(decimal.NewFromInt(int64(days))), nil
}

// Deduct implements balance.Ledger.
func (l *ledger) Deduct(ctx context.Context, employeeID int64, days int) (decimal.Decimal, error) {
	if days <= 0 {
		return decimal.Zero, balance.ErrInvalidDays
	}
	return l.adjust(ctx, employeeID, decimal.NewFromInt(int64(-days)))
}

// Restore implements balance.Ledger.
func (l *ledger) Restore(ctx context.Context, employeeID int64, days int) (decimal.Decimal, error) {
	if days <= 0 {
		return decimal.Zero, balance.ErrInvalidDays
	}
	return l.adjust(ctx, employeeID, decimal.NewFromInt(int64(days)))
}

func (l *ledger) adjust(ctx context.Context, employeeID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	if _, err := l.repo.GetOrCreate(ctx, employeeID, l.initial); err != nil {
		return decimal.Zero, fmt.Errorf("failed to get leave balance: %w", err)
	}

	b, err := l.repo.Adjust(ctx, employeeID, delta)
	if err != nil {
		return decimal.Zero, err
	}

	slog.Info("Leave balance adjusted",
		"employee_id", employeeID,
		"delta", delta.String(),
		"balance", b.Balance.String(),
	)
	return b.Balance, nil
}

// InitializeAll implements balance.Ledger. It opens a balance for every
// employee that has none and returns how many were created.
func (l *ledger) InitializeAll(ctx context.Context) (int, error) {
	ids, err := l.employees.ListIDsWithoutBalance(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list employees without balance: %w", err)
	}

	initialized := 0
	for _, id := range ids {
		if _, err := l.repo.GetOrCreate(ctx, id, l.initial); err != nil {
			slog.Warn("Failed to initialize leave balance", "employee_id", id, "error", err)
			continue
		}
		initialized++
	}

	slog.Info("Leave balances initialized", "count", initialized)
	return initialized, nil
}
