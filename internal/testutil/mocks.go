// Package testutil holds test doubles shared by the service and handler tests.
package testutil

import (
	"context"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/notification"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockLedger is a testify mock of balance.Ledger
type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) GetBalance(ctx context.Context, employeeID int64) (decimal.Decimal, error) {
	args := m.Called(ctx, employeeID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedger) HasSufficient(ctx context.Context, employeeID int64, days int) (bool, error) {
	args := m.Called(ctx, employeeID, days)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedger) Deduct(ctx context.Context, employeeID int64, days int) (decimal.Decimal, error) {
	args := m.Called(ctx, employeeID, days)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedger) Restore(ctx context.Context, employeeID int64, days int) (decimal.Decimal, error) {
	args := m.Called(ctx, employeeID, days)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedger) InitializeAll(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockGateway is a testify mock of notification.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Send(ctx context.Context, recipientID int64, message string, channel notification.Channel) bool {
	args := m.Called(ctx, recipientID, message, channel)
	return args.Bool(0)
}

func (m *MockGateway) SendMulti(ctx context.Context, recipientID int64, message string, channels []notification.Channel) map[notification.Channel]bool {
	args := m.Called(ctx, recipientID, message, channels)
	if res, ok := args.Get(0).(map[notification.Channel]bool); ok {
		return res
	}
	return nil
}

func (m *MockGateway) SendToAdmin(ctx context.Context, message string, channel notification.Channel) bool {
	args := m.Called(ctx, message, channel)
	return args.Bool(0)
}

// MockMailer is a testify mock of email.EmailService
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendNotification(to, recipientName, subject, message string) error {
	args := m.Called(to, recipientName, subject, message)
	return args.Error(0)
}
