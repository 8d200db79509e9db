package cron

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/balance"
)

// BalanceJobs opens leave balances for employees hired since the last run
type BalanceJobs struct {
	ledger balance.Ledger
}

func NewBalanceJobs(ledger balance.Ledger) *BalanceJobs {
	return &BalanceJobs{ledger: ledger}
}

// RegisterJobs adds the balance initialization job. A zero interval disables it.
func (j *BalanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("initialize_leave_balances", interval, j.InitializeBalances)
}

func (j *BalanceJobs) InitializeBalances(ctx context.Context) error {
	_, err := j.ledger.InitializeAll(ctx)
	return err
}
