package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-leave-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler(context.Background())
	var calls int32
	s.AddJob("count", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	s.AddJob("failing", time.Hour, func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	})
	s.AddJob("disabled", 0, func(ctx context.Context) error {
		t.Fatal("disabled job must not run")
		return nil
	})

	s.RunOnce(context.Background())

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler(context.Background())
	ran := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start()
	s.Start()

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestBalanceJobs_InitializeBalances(t *testing.T) {
	ledger := new(testutil.MockLedger)
	ledger.On("InitializeAll", mock.Anything).Return(2, nil).Once()

	s := NewScheduler(context.Background())
	NewBalanceJobs(ledger).RegisterJobs(s, time.Hour)
	s.RunOnce(context.Background())

	ledger.AssertExpectations(t)
}
