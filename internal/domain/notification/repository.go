package notification

import (
	"context"
)

// Repository defines the notification repository interface
type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	ListByRecipient(ctx context.Context, recipientID int64, limit int) ([]*Notification, error)
	GetUnreadCount(ctx context.Context, recipientID int64) (int, error)
	MarkAsRead(ctx context.Context, id string, recipientID int64) error
}
