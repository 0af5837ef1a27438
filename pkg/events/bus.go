package events

import (
	"context"
	"encoding/json"
	"time"

	"cortex-analyst-be/internal/pkg/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Topic is the in-process topic every analyst event goes through
const Topic = "analyst.events"

// Bus publishes events on the in-process watermill channel. Publishing never fails the caller.
type Bus struct {
	pubSub *gochannel.GoChannel
	logger logger.ILogger
}

func NewBus(pubSub *gochannel.GoChannel, log logger.ILogger) *Bus {
	return &Bus{pubSub: pubSub, logger: log}
}

// New builds an event with a fresh id
func New(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}

func (b *Bus) Publish(ctx context.Context, evt Event) {
	if b == nil || b.pubSub == nil {
		return
	}

	payload, err := json.Marshal(BaseEvent{
		ID:         evt.EventID(),
		Type:       evt.EventType(),
		Data:       evt.Payload(),
		OccurredAt: evt.Timestamp(),
	})
	if err != nil {
		b.logger.Error("EVENTS", "Failed to marshal event", map[string]interface{}{"error": err.Error(), "type": evt.EventType()})
		return
	}

	msg := message.NewMessage(evt.EventID(), payload)
	msg.SetContext(ctx)
	if err := b.pubSub.Publish(Topic, msg); err != nil {
		b.logger.Error("EVENTS", "Failed to publish event", map[string]interface{}{"error": err.Error(), "type": evt.EventType()})
	}
}

// Decode reads an event back from a bus message
func Decode(msg *message.Message) (BaseEvent, error) {
	var evt BaseEvent
	err := json.Unmarshal(msg.Payload, &evt)
	return evt, err
}
