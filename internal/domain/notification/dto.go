package notification

import (
	"time"
)

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID        string     `json:"id"`
	Message   string     `json:"message"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// UnreadCountResponse represents unread count response
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

// SSEEvent represents a server-sent event
type SSEEvent struct {
	Event string               `json:"event"`
	Data  NotificationResponse `json:"data"`
}

// ToResponse converts a Notification entity to NotificationResponse
func ToResponse(n *Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Message:   n.Message,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// SendRequest is a manual single-channel notification
type SendRequest struct {
	Message string `json:"message"`
	Channel string `json:"channel"`
}

// SendMultiRequest is a manual notification fanned out over several channels.
// No channels means every channel.
type SendMultiRequest struct {
	Message  string   `json:"message"`
	Channels []string `json:"channels"`
}

// SendResponse reports a single-channel delivery
type SendResponse struct {
	Success bool    `json:"success"`
	Channel Channel `json:"channel"`
	Message string  `json:"message"`
}

// SendMultiResponse reports a delivery per channel. Success is true when at
// least one channel delivered.
type SendMultiResponse struct {
	Success bool             `json:"success"`
	Results map[Channel]bool `json:"results"`
	Message string           `json:"message"`
}
