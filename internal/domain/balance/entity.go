package balance

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultAllotment is the number of days granted when a balance row is first created.
var DefaultAllotment = decimal.NewFromInt(20)

// LeaveBalance entity, one per employee
type LeaveBalance struct {
	EmployeeID int64
	Balance    decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type BalanceResponse struct {
	EmployeeID int64           `json:"employee_id"`
	Balance    decimal.Decimal `json:"balance"`
}

type InitializeResponse struct {
	Initialized int `json:"initialized"`
}
