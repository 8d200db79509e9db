package notification

import (
	"context"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/sse"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

type service struct {
	repo notification.Repository
	hub  *sse.Hub
}

// NewNotificationService creates the inbox service backed by repo and hub
func NewNotificationService(repo notification.Repository, hub *sse.Hub) notification.Service {
	return &service{
		repo: repo,
		hub:  hub,
	}
}

// List returns the most recent notifications of an employee, newest first
func (s *service) List(ctx context.Context, recipientID int64, limit int) ([]notification.NotificationResponse, error) {
	if limit < 1 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	notifications, err := s.repo.ListByRecipient(ctx, recipientID, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = notification.ToResponse(n)
	}
	return responses, nil
}

// GetUnreadCount returns the count of unread notifications
func (s *service) GetUnreadCount(ctx context.Context, recipientID int64) (int, error) {
	return s.repo.GetUnreadCount(ctx, recipientID)
}

// MarkAsRead marks a single notification of the recipient as read
func (s *service) MarkAsRead(ctx context.Context, recipientID int64, notificationID string) error {
	return s.repo.MarkAsRead(ctx, notificationID, recipientID)
}

// Subscribe creates an SSE subscription for an employee
func (s *service) Subscribe(ctx context.Context, recipientID int64) (<-chan notification.SSEEvent, func()) {
	ch, cleanup := s.hub.Subscribe(recipientID)

	out := make(chan notification.SSEEvent, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				resp, ok := event.Data.(notification.NotificationResponse)
				if !ok {
					continue
				}
				select {
				case out <- notification.SSEEvent{Event: event.Event, Data: resp}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}
