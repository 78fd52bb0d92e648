package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeSessionCreated      EventType = "session.created"
	EventTypeSessionDeleted      EventType = "session.deleted"
	EventTypeLocationChanged     EventType = "location.changed"
	EventTypeConsequenceStarted  EventType = "consequence.started"
	EventTypeConsequenceResolved EventType = "consequence.resolved"
)

// Event is the payload published for every adventure change.
type Event struct {
	Type        EventType      `json:"type"`
	AdventureID string         `json:"adventure_id"`
	Data        map[string]any `json:"data,omitempty"`
}

// Publisher publishes adventure events.
type Publisher interface {
	Publish(ctx context.Context, adventureID uuid.UUID, event Event) error
}

// Channel returns the pub/sub channel for one adventure.
func Channel(adventureID uuid.UUID) string {
	return fmt.Sprintf("adventure-events:%s", adventureID.String())
}

// Broadcaster publishes events to Redis Pub/Sub for SSE distribution
type Broadcaster struct {
	redisClient *redis.Client
	logger      *slog.Logger
}

var _ Publisher = (*Broadcaster)(nil)

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		logger:      logger,
	}
}

// Publish sends the event to the adventure's channel.
func (b *Broadcaster) Publish(ctx context.Context, adventureID uuid.UUID, event Event) error {
	channel := Channel(adventureID)
	event.AdventureID = adventureID.String()

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
	)
	return nil
}

// Discard drops every event. Used when no Redis is configured.
type Discard struct{}

var _ Publisher = Discard{}

func (Discard) Publish(context.Context, uuid.UUID, Event) error { return nil }

// LocationChanged builds a location.changed event.
func LocationChanged(from, to string) Event {
	return Event{
		Type: EventTypeLocationChanged,
		Data: map[string]any{"from": from, "to": to},
	}
}

// ConsequenceStarted builds a consequence.started event.
func ConsequenceStarted(action string, count int) Event {
	return Event{
		Type: EventTypeConsequenceStarted,
		Data: map[string]any{"action": action, "consequences": count},
	}
}

// ConsequenceResolved builds a consequence.resolved event.
func ConsequenceResolved(cursor int) Event {
	return Event{
		Type: EventTypeConsequenceResolved,
		Data: map[string]any{"cursor": cursor},
	}
}
