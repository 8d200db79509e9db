package notification

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-leave-go/internal/domain/notification"
	"github.com/cmlabs-hris/hris-leave-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hris-leave-go/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotifications(t *testing.T, store *testutil.NotificationStore, recipientID int64, count int) {
	t.Helper()
	base := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		require.NoError(t, store.Create(context.Background(), &notification.Notification{
			ID:          fmt.Sprintf("n-%d-%d", recipientID, i),
			RecipientID: recipientID,
			Message:     fmt.Sprintf("message %d", i),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}
}

func TestNotificationService_List_NewestFirstAndClamped(t *testing.T) {
	store := testutil.NewNotificationStore()
	seedNotifications(t, store, 7, 15)
	seedNotifications(t, store, 8, 2)
	svc := NewNotificationService(store, sse.NewHub())

	defaulted, err := svc.List(context.Background(), 7, 0)
	require.NoError(t, err)
	assert.Len(t, defaulted, 10)
	assert.Equal(t, "message 14", defaulted[0].Message)

	all, err := svc.List(context.Background(), 7, 500)
	require.NoError(t, err)
	assert.Len(t, all, 15)
}

func TestNotificationService_MarkAsRead(t *testing.T) {
	store := testutil.NewNotificationStore()
	seedNotifications(t, store, 7, 3)
	svc := NewNotificationService(store, sse.NewHub())

	count, err := svc.GetUnreadCount(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Act
	require.NoError(t, svc.MarkAsRead(context.Background(), 7, "n-7-1"))

	// Assert
	count, err = svc.GetUnreadCount(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestNotificationService_MarkAsRead_OtherRecipient(t *testing.T) {
	store := testutil.NewNotificationStore()
	seedNotifications(t, store, 7, 1)
	svc := NewNotificationService(store, sse.NewHub())

	err := svc.MarkAsRead(context.Background(), 8, "n-7-0")

	assert.ErrorIs(t, err, notification.ErrNotificationNotFound)
}

func TestNotificationService_Subscribe_ReceivesGatewayDeliveries(t *testing.T) {
	store := testutil.NewNotificationStore()
	hub := sse.NewHub()
	svc := NewNotificationService(store, hub)
	gw := NewGateway(store, hub, testutil.NewEmployeeStore(), nil, GatewayConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, cleanup := svc.Subscribe(ctx, 7)
	defer cleanup()

	// Foreign payloads are skipped
	hub.Publish(7, sse.Event{RecipientID: 7, Event: "notification", Data: "raw"})
	require.True(t, gw.Send(ctx, 7, "approved", notification.ChannelInApp))

	select {
	case ev := <-events:
		assert.Equal(t, "notification", ev.Event)
		assert.Equal(t, "approved", ev.Data.Message)
	case <-time.After(time.Second):
		t.Fatal("expected an event")
	}
}

func TestNotificationService_Subscribe_ClosesOnCancel(t *testing.T) {
	hub := sse.NewHub()
	svc := NewNotificationService(testutil.NewNotificationStore(), hub)

	ctx, cancel := context.WithCancel(context.Background())
	events, cleanup := svc.Subscribe(ctx, 7)
	defer cleanup()

	cancel()

	select {
	case _, open := <-events:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("expected the channel to close")
	}
}
