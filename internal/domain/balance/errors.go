package balance

import "errors"

var (
	ErrBalanceNotFound = errors.New("leave balance not found")
	ErrInvalidDays     = errors.New("days must be positive")
	ErrWouldOverdraw   = errors.New("leave balance would become negative")
)
