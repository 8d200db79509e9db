package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/balance"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type balanceRepositoryImpl struct {
	db *database.DB
}

func NewBalanceRepository(db *database.DB) balance.BalanceRepository {
	return &balanceRepositoryImpl{db: db}
}

func scanBalance(row pgx.Row) (balance.LeaveBalance, error) {
	var b balance.LeaveBalance
	var raw string
	if err := row.Scan(&b.EmployeeID, &raw, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return balance.LeaveBalance{}, err
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return balance.LeaveBalance{}, fmt.Errorf("invalid balance %q: %w", raw, err)
	}
	b.Balance = value
	return b, nil
}

// Get implements balance.BalanceRepository.
func (r *balanceRepositoryImpl) Get(ctx context.Context, employeeID int64) (balance.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id, balance::text, created_at, updated_at
		FROM leave_balances
		WHERE employee_id = $1
	`

	b, err := scanBalance(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return balance.LeaveBalance{}, balance.ErrBalanceNotFound
		}
		return balance.LeaveBalance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return b, nil
}

// GetOrCreate implements balance.BalanceRepository.
func (r *balanceRepositoryImpl) GetOrCreate(ctx context.Context, employeeID int64, initial decimal.Decimal) (balance.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (employee_id, balance, created_at, updated_at)
		VALUES ($1, $2::numeric, NOW(), NOW())
		ON CONFLICT (employee_id) DO NOTHING
	`

	if _, err := q.Exec(ctx, query, employeeID, initial.String()); err != nil {
		return balance.LeaveBalance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}

	return r.Get(ctx, employeeID)
}

// Adjust implements balance.BalanceRepository.
func (r *balanceRepositoryImpl) Adjust(ctx context.Context, employeeID int64, delta decimal.Decimal) (balance.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET balance = balance + $2::numeric, updated_at = NOW()
		WHERE employee_id = $1 AND balance + $2::numeric >= 0
		RETURNING employee_id, balance::text, created_at, updated_at
	`

	b, err := scanBalance(q.QueryRow(ctx, query, employeeID, delta.String()))
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return balance.LeaveBalance{}, fmt.Errorf("failed to adjust leave balance: %w", err)
	}

	// No row matched: either the balance is missing or it would go negative
	if _, getErr := r.Get(ctx, employeeID); getErr != nil {
		return balance.LeaveBalance{}, getErr
	}
	return balance.LeaveBalance{}, balance.ErrWouldOverdraw
}
