package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-leave-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// NotificationHandler defines the notification handler interface
type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	UnreadCount(w http.ResponseWriter, r *http.Request)
	MarkAsRead(w http.ResponseWriter, r *http.Request)
	Channels(w http.ResponseWriter, r *http.Request)

	// Admin
	Send(w http.ResponseWriter, r *http.Request)
	SendMulti(w http.ResponseWriter, r *http.Request)

	// SSE
	Stream(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	notifService notification.Service
	gateway      notification.Gateway
	keepalive    time.Duration
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifService notification.Service, gateway notification.Gateway) NotificationHandler {
	return &notificationHandlerImpl{
		notifService: notifService,
		gateway:      gateway,
		keepalive:    30 * time.Second,
	}
}

// List returns the newest notifications of the authenticated employee
func (h *notificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentClaims(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	limit := getIntQueryParam(r, "limit", 10)

	result, err := h.notifService.List(r.Context(), claims.EmployeeID, limit)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UnreadCount returns the count of unread notifications
func (h *notificationHandlerImpl) UnreadCount(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentClaims(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	count, err := h.notifService.GetUnreadCount(r.Context(), claims.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, notification.UnreadCountResponse{UnreadCount: count})
}

// MarkAsRead marks one notification as read
func (h *notificationHandlerImpl) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentClaims(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	notifID := chi.URLParam(r, "id")
	if notifID == "" {
		response.BadRequest(w, "Notification ID is required", nil)
		return
	}

	if err := h.notifService.MarkAsRead(r.Context(), claims.EmployeeID, notifID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notification marked as read", nil)
}

// Channels lists the delivery channels the gateway accepts
func (h *notificationHandlerImpl) Channels(w http.ResponseWriter, r *http.Request) {
	response.Success(w, notification.AllChannels())
}

// Send delivers a manual message to one employee over one channel
func (h *notificationHandlerImpl) Send(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(r, "employeeID")
	if !ok {
		response.BadRequest(w, "Invalid employee ID", nil)
		return
	}

	var req notification.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		response.BadRequest(w, "message is required", nil)
		return
	}
	channel, ok := notification.ParseChannel(req.Channel)
	if !ok {
		response.BadRequest(w, fmt.Sprintf("Unknown channel %q", req.Channel), nil)
		return
	}

	if !h.gateway.Send(r.Context(), employeeID, req.Message, channel) {
		response.BadRequest(w, fmt.Sprintf("Failed to send notification via %s", channel), nil)
		return
	}

	response.Success(w, notification.SendResponse{
		Success: true,
		Channel: channel,
		Message: fmt.Sprintf("Notification sent via %s", channel),
	})
}

// SendMulti delivers a manual message to one employee over several channels
func (h *notificationHandlerImpl) SendMulti(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := idParam(r, "employeeID")
	if !ok {
		response.BadRequest(w, "Invalid employee ID", nil)
		return
	}

	var req notification.SendMultiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		response.BadRequest(w, "message is required", nil)
		return
	}
	channels, unknown, ok := notification.ParseChannels(req.Channels)
	if !ok {
		response.BadRequest(w, fmt.Sprintf("Unknown channel %q", unknown), nil)
		return
	}

	results := h.gateway.SendMulti(r.Context(), employeeID, req.Message, channels)
	delivered := false
	for _, sent := range results {
		delivered = delivered || sent
	}

	response.Success(w, notification.SendMultiResponse{
		Success: delivered,
		Results: results,
		Message: "Notifications processed",
	})
}

// Stream handles SSE connection for real-time notifications
func (h *notificationHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	claims, ok := currentClaims(r)
	if !ok {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	// Subscribe to notifications
	events, cleanup := h.notifService.Subscribe(r.Context(), claims.EmployeeID)
	defer cleanup()

	// Send initial connection event
	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"employee_id\":%d}\n\n", claims.EmployeeID)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
