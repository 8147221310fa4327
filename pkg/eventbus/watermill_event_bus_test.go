package eventbus_test

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazarkal/postpilot/pkg/channels/gochannel"
	"github.com/chazarkal/postpilot/pkg/eventbus"
	"github.com/chazarkal/postpilot/pkg/events"
	"github.com/chazarkal/postpilot/pkg/models"
)

func newTestBus(t *testing.T) *eventbus.WatermillEventBus {
	t.Helper()

	pub, sub := gochannel.CreateTestChannel(watermill.NopLogger{})
	bus := eventbus.NewWatermillEventBus(pub, sub)

	t.Cleanup(func() {
		if err := bus.Close(); err != nil {
			t.Logf("Failed to close event bus: %v", err)
		}
	})

	return bus
}

func TestWatermillEventBusRoundTrip(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan *events.RunStarted, 1)
	bus.Handle(events.RunStartedEvent, func(_ context.Context, event any) error {
		if e, ok := event.(*events.RunStarted); ok {
			received <- e
		}

		return nil
	})

	require.NoError(t, bus.Subscribe(t.Context()))

	err := bus.Publish(t.Context(), "run-1", events.RunStarted{
		BaseEvent: events.BaseEvent{
			ID:        bus.GenerateID(),
			Type:      events.RunStartedEvent,
			Timestamp: time.Now().UTC(),
			RunID:     "run-1",
		},
		Mode: models.WorkflowModeAuto,
	})
	require.NoError(t, err)

	select {
	case event := <-received:
		assert.Equal(t, "run-1", event.RunID)
		assert.Equal(t, models.WorkflowModeAuto, event.Mode)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestWatermillEventBusIgnoresUnhandledTypes(t *testing.T) {
	bus := newTestBus(t)

	received := make(chan struct{}, 1)
	bus.Handle(events.PostPublishedEvent, func(_ context.Context, _ any) error {
		received <- struct{}{}

		return nil
	})

	require.NoError(t, bus.Subscribe(t.Context()))

	// no handler registered for run failures, message is acked and dropped
	require.NoError(t, bus.Publish(t.Context(), "run-1", events.RunFailed{
		BaseEvent: events.BaseEvent{ID: bus.GenerateID(), Type: events.RunFailedEvent, RunID: "run-1"},
		Error:     "boom",
	}))

	require.NoError(t, bus.Publish(t.Context(), "post-1", events.PostPublished{
		BaseEvent: events.BaseEvent{ID: bus.GenerateID(), Type: events.PostPublishedEvent},
		PostID:    "post-1",
	}))

	select {
	case <-received:
	case <-time.After(2 * time.Second):
		t.Fatal("post published event was not delivered")
	}
}

func TestGenerateIDIsUnique(t *testing.T) {
	bus := newTestBus(t)

	seen := make(map[string]bool)
	for range 100 {
		id := bus.GenerateID()
		assert.False(t, seen[id])
		seen[id] = true
	}
}
