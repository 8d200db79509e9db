package notification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-leave-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/email"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/sse"
	"github.com/google/uuid"
)

const (
	emailSubject        = "Leave request update"
	defaultEmailTimeout = 5 * time.Second
)

var errEmailTimeout = errors.New("email delivery did not finish in time")

// GatewayConfig holds delivery settings
type GatewayConfig struct {
	SMSEnabled bool
	// EmailTimeout bounds how long a caller waits for email delivery; the
	// delivery itself keeps running in the background.
	EmailTimeout time.Duration
}

type gateway struct {
	repo      notification.Repository
	hub       *sse.Hub
	employees employee.EmployeeRepository
	mailer    email.EmailService
	config    GatewayConfig
	now       func() time.Time
}

// NewGateway creates the best-effort delivery gateway. mailer may be nil,
// in which case email deliveries report failure.
func NewGateway(repo notification.Repository, hub *sse.Hub, employees employee.EmployeeRepository, mailer email.EmailService, cfg GatewayConfig) notification.Gateway {
	if cfg.EmailTimeout <= 0 {
		cfg.EmailTimeout = defaultEmailTimeout
	}
	return &gateway{
		repo:      repo,
		hub:       hub,
		employees: employees,
		mailer:    mailer,
		config:    cfg,
		now:       time.Now,
	}
}

// Send delivers message to recipientID on channel and reports success.
func (g *gateway) Send(ctx context.Context, recipientID int64, message string, channel notification.Channel) bool {
	var err error

	switch channel {
	case notification.ChannelInApp:
		err = g.sendInApp(ctx, recipientID, message)
	case notification.ChannelEmail:
		err = g.sendEmail(ctx, recipientID, message)
	case notification.ChannelSMS:
		err = g.sendSMS(recipientID, message)
	default:
		err = notification.ErrUnknownChannel
	}

	if err != nil {
		slog.Warn("Notification delivery failed",
			"recipient_id", recipientID,
			"channel", channel,
			"error", err,
		)
		return false
	}
	return true
}

// SendMulti delivers message on every channel. A failing channel does not
// prevent the others from being attempted.
func (g *gateway) SendMulti(ctx context.Context, recipientID int64, message string, channels []notification.Channel) map[notification.Channel]bool {
	results := make(map[notification.Channel]bool, len(channels))
	for _, ch := range channels {
		results[ch] = g.Send(ctx, recipientID, message, ch)
	}
	return results
}

// SendToAdmin delivers message to the first administrator found.
func (g *gateway) SendToAdmin(ctx context.Context, message string, channel notification.Channel) bool {
	admin, err := g.employees.GetFirstAdmin(ctx)
	if err != nil {
		slog.Warn("No administrator to notify", "error", err)
		return false
	}
	return g.Send(ctx, admin.ID, message, channel)
}

func (g *gateway) sendInApp(ctx context.Context, recipientID int64, message string) error {
	n := &notification.Notification{
		ID:          uuid.New().String(),
		RecipientID: recipientID,
		Message:     message,
		IsRead:      false,
		CreatedAt:   g.now(),
	}

	if err := g.repo.Create(ctx, n); err != nil {
		return err
	}

	g.hub.Publish(recipientID, sse.Event{
		RecipientID: recipientID,
		Event:       "notification",
		Data:        notification.ToResponse(n),
	})
	return nil
}

func (g *gateway) sendEmail(ctx context.Context, recipientID int64, message string) error {
	if g.mailer == nil {
		return email.ErrNotConfigured
	}

	recipient, err := g.employees.GetByID(ctx, recipientID)
	if err != nil {
		return notification.ErrRecipientNotFound
	}

	done := make(chan error, 1)
	go func() {
		done <- g.mailer.SendNotification(recipient.Email, recipient.Name, emailSubject, message)
	}()

	timer := time.NewTimer(g.config.EmailTimeout)
	defer timer.Stop()

	select {
	case err := <-done:
		return err
	case <-timer.C:
		return errEmailTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SMS has no provider; enabled deliveries are only logged.
func (g *gateway) sendSMS(recipientID int64, message string) error {
	if !g.config.SMSEnabled {
		return notification.ErrChannelDisabled
	}
	slog.Info("SMS notification", "recipient_id", recipientID, "message", message)
	return nil
}
