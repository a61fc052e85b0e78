package services

import (
	"encoding/json"
	"log"
	"time"

	"clubreview/pkg/rabbitmq"

	"github.com/google/uuid"
)

// Event routing keys published by the club and review services.
const (
	EventClubCreated     = "club.created"
	EventClubFavorited   = "club.favorited"
	EventClubUnfavorited = "club.unfavorited"
	EventReviewCreated   = "review.created"
	EventReviewUpdated   = "review.updated"
	EventReviewDeleted   = "review.deleted"
)

// event is the JSON envelope for lifecycle events.
type event struct {
	ID   string      `json:"id"`
	Type string      `json:"type"`
	Time time.Time   `json:"time"`
	Data interface{} `json:"data"`
}

// publishEvent sends a lifecycle event to RabbitMQ. A nil client disables
// publishing, and publish failures are logged but never fail the request that
// triggered them.
func publishEvent(mqClient *rabbitmq.Client, eventType string, data interface{}) {
	if mqClient == nil {
		return
	}
	body, err := json.Marshal(event{
		ID:   uuid.New().String(),
		Type: eventType,
		Time: time.Now().UTC(),
		Data: data,
	})
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}
	if err := mqClient.Publish(eventType, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", eventType, err)
	}
}
