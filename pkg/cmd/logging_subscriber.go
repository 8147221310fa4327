package cmd

import (
	"context"
	"log/slog"

	"github.com/chazarkal/postpilot/pkg/eventbus"
	"github.com/chazarkal/postpilot/pkg/events"
)

// SubscribeLogging attaches a structured-log handler for every lifecycle
// event type and starts the subscription.
func SubscribeLogging(ctx context.Context, bus eventbus.EventBus, logger *slog.Logger) error {
	bus.Handle(events.RunStartedEvent, func(ctx context.Context, event any) error {
		if e, ok := event.(*events.RunStarted); ok {
			logger.InfoContext(ctx, "Workflow run started", "run_id", e.RunID, "mode", e.Mode)
		}

		return nil
	})

	bus.Handle(events.RunCompletedEvent, func(ctx context.Context, event any) error {
		if e, ok := event.(*events.RunCompleted); ok {
			logger.InfoContext(ctx, "Workflow run completed",
				"run_id", e.RunID, "post_id", e.PostID, "duration", e.Duration)
		}

		return nil
	})

	bus.Handle(events.RunFailedEvent, func(ctx context.Context, event any) error {
		if e, ok := event.(*events.RunFailed); ok {
			logger.ErrorContext(ctx, "Workflow run failed", "run_id", e.RunID, "error", e.Error)
		}

		return nil
	})

	bus.Handle(events.StepCompletedEvent, func(ctx context.Context, event any) error {
		if e, ok := event.(*events.StepCompleted); ok {
			logger.InfoContext(ctx, "Workflow step finished",
				"run_id", e.RunID, "agent", e.AgentName, "status", e.Status)
		}

		return nil
	})

	bus.Handle(events.PostPublishedEvent, func(ctx context.Context, event any) error {
		if e, ok := event.(*events.PostPublished); ok {
			logger.InfoContext(ctx, "Post published",
				"post_id", e.PostID, "linkedin_post_id", e.LinkedInPostID)
		}

		return nil
	})

	return bus.Subscribe(ctx)
}
