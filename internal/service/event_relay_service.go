package service

import (
	"context"

	"cortex-analyst-be/internal/pkg/logger"
	"cortex-analyst-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// QuestionCacheInvalidator drops cached question lists of an app
type QuestionCacheInvalidator interface {
	InvalidateKeyQuestions(appId int)
	InvalidatePopularQuestions(appId int)
}

// EventForwarder sends events out of process
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

type IEventRelayService interface {
	Consume(ctx context.Context) error
}

type eventRelayService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	caches    QuestionCacheInvalidator
	forwarder EventForwarder
	logger    logger.ILogger
}

// NewEventRelayService relays bus events to the caches and, when forwarder is non-nil, to NATS
func NewEventRelayService(
	pubSub *gochannel.GoChannel,
	topicName string,
	caches QuestionCacheInvalidator,
	forwarder EventForwarder,
	logger logger.ILogger,
) IEventRelayService {
	return &eventRelayService{
		pubSub:    pubSub,
		topicName: topicName,
		caches:    caches,
		forwarder: forwarder,
		logger:    logger,
	}
}

func (s *eventRelayService) Consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (s *eventRelayService) processMessage(ctx context.Context, msg *message.Message) {
	evt, err := events.Decode(msg)
	if err != nil {
		s.logger.Error("EVENTS", "Failed to decode event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	if appID, ok := events.AppID(evt); ok && s.caches != nil {
		switch evt.Type {
		case events.TypeTurnCompleted:
			s.caches.InvalidatePopularQuestions(appID)
		case events.TypeBookmarkChanged:
			s.caches.InvalidateKeyQuestions(appID)
		}
	}

	if s.forwarder != nil {
		if err := s.forwarder.Publish(ctx, evt); err != nil {
			// monitoring is best effort; the turn already completed
			s.logger.Warn("EVENTS", "Failed to forward event", map[string]interface{}{
				"error": err.Error(),
				"type":  evt.Type,
				"id":    evt.ID,
			})
		}
	}

	msg.Ack()
}
