package notification

import (
	"time"
)

// Channel is a delivery medium for a notification
type Channel string

const (
	ChannelInApp Channel = "in-app"
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// AllChannels returns all supported channels
func AllChannels() []Channel {
	return []Channel{ChannelInApp, ChannelEmail, ChannelSMS}
}

// ParseChannel maps a raw value to a Channel, defaulting to in-app when empty.
func ParseChannel(raw string) (Channel, bool) {
	switch Channel(raw) {
	case "":
		return ChannelInApp, true
	case ChannelInApp, ChannelEmail, ChannelSMS:
		return Channel(raw), true
	default:
		return "", false
	}
}

// Notification represents a durable in-app notification
type Notification struct {
	ID          string
	RecipientID int64
	Message     string
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}

// ParseChannels maps raw values to channels. An empty list selects every
// channel; the first unknown value is returned with ok false.
func ParseChannels(raw []string) ([]Channel, string, bool) {
	if len(raw) == 0 {
		return AllChannels(), "", true
	}
	channels := make([]Channel, 0, len(raw))
	for _, r := range raw {
		channel, ok := ParseChannel(r)
		if !ok || r == "" {
			return nil, r, false
		}
		channels = append(channels, channel)
	}
	return channels, "", true
}
