package cmd

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/chazarkal/postpilot/pkg/channels/gochannel"
	"github.com/chazarkal/postpilot/pkg/eventbus"
)

// NewEventBus creates the in-process event bus used for pipeline lifecycle
// events.
func NewEventBus(logger *slog.Logger) eventbus.EventBus {
	pub, sub := gochannel.CreateChannel(watermill.NewSlogLogger(logger))

	return eventbus.NewWatermillEventBus(pub, sub)
}
