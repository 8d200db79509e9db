package notification

import "errors"

// Notification domain errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrUnknownChannel       = errors.New("unknown notification channel")
	ErrRecipientNotFound    = errors.New("notification recipient not found")
	ErrChannelDisabled      = errors.New("notification channel disabled")
)
