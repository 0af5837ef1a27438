package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cortex-analyst-be/internal/testutil"
	"cortex-analyst-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spyCaches struct {
	mu      sync.Mutex
	key     []int
	popular []int
}

func (s *spyCaches) InvalidateKeyQuestions(appId int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.key = append(s.key, appId)
}

func (s *spyCaches) InvalidatePopularQuestions(appId int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.popular = append(s.popular, appId)
}

type spyForwarder struct {
	mu   sync.Mutex
	got  []events.Event
	fail bool
}

func (f *spyForwarder) Publish(ctx context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, event)
	if f.fail {
		return errors.New("nats down")
	}
	return nil
}

func (f *spyForwarder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.got)
}

func TestEventRelay(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	caches := &spyCaches{}
	forwarder := &spyForwarder{fail: true}
	log := testutil.NewRecordingLogger()
	relay := NewEventRelayService(pubSub, events.Topic, caches, forwarder, log)
	require.NoError(t, relay.Consume(ctx))

	bus := events.NewBus(pubSub, log)
	bus.Publish(ctx, events.New(events.TypeTurnCompleted, map[string]interface{}{"app_id": 3}))
	bus.Publish(ctx, events.New(events.TypeBookmarkChanged, map[string]interface{}{"app_id": 4}))
	bus.Publish(ctx, events.New(events.TypeVoteRecorded, map[string]interface{}{"app_id": 3}))

	require.Eventually(t, func() bool { return forwarder.count() == 3 }, 2*time.Second, 10*time.Millisecond)

	caches.mu.Lock()
	assert.Equal(t, []int{3}, caches.popular)
	assert.Equal(t, []int{4}, caches.key)
	caches.mu.Unlock()

	// forwarding failures are logged, never fatal
	require.Eventually(t, func() bool { return len(log.Entries("WARN")) == 3 }, 2*time.Second, 10*time.Millisecond)
}
