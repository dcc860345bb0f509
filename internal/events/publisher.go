package events

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a domain event
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Publisher handles publishing events
type Publisher struct {
	redisClient *RedisClient
	channel     string
}

// NewPublisher creates a new event publisher on the given channel
func NewPublisher(redisClient *RedisClient, channel string) *Publisher {
	return &Publisher{
		redisClient: redisClient,
		channel:     channel,
	}
}

// Publish publishes an event to the configured channel
func (p *Publisher) Publish(eventType string, payload interface{}) error {
	event := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}

	return p.redisClient.Publish(p.channel, event)
}

// PublishMutation publishes a summary of a completed itinerary mutation
// batch. Satisfies the orchestrator's notifier contract.
func (p *Publisher) PublishMutation(groupID, action string, eventIDs []string) error {
	payload := map[string]interface{}{
		"group_id":  groupID,
		"action":    action,
		"event_ids": eventIDs,
	}
	return p.Publish("itinerary."+action, payload)
}

// PublishFavoriteToggled publishes a favorite flag change
func (p *Publisher) PublishFavoriteToggled(groupID, eventID string, favorite bool) error {
	payload := map[string]interface{}{
		"group_id": groupID,
		"event_id": eventID,
		"favorite": favorite,
	}
	return p.Publish("itinerary.favorite_toggled", payload)
}
