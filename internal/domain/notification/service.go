package notification

import (
	"context"
)

// Gateway delivers messages to employees. Delivery is best-effort: failures
// are logged and reported through the boolean results, never as errors.
type Gateway interface {
	Send(ctx context.Context, recipientID int64, message string, channel Channel) bool
	SendMulti(ctx context.Context, recipientID int64, message string, channels []Channel) map[Channel]bool
	SendToAdmin(ctx context.Context, message string, channel Channel) bool
}

// Service exposes the in-app inbox of an employee
type Service interface {
	List(ctx context.Context, recipientID int64, limit int) ([]NotificationResponse, error)
	GetUnreadCount(ctx context.Context, recipientID int64) (int, error)
	MarkAsRead(ctx context.Context, recipientID int64, notificationID string) error

	// SSE subscription
	Subscribe(ctx context.Context, recipientID int64) (<-chan SSEEvent, func())
}
