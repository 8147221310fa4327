// Package events defines event types for pipeline lifecycle notifications.
package events

import (
	"time"

	"github.com/chazarkal/postpilot/pkg/models"
)

type EventType string

// Topic is the single pub/sub topic all lifecycle events flow through.
const Topic = "postpilot.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	RunStartedEvent    EventType = "run.started"
	RunCompletedEvent  EventType = "run.completed"
	RunFailedEvent     EventType = "run.failed"
	StepCompletedEvent EventType = "step.completed"
	PostPublishedEvent EventType = "post.published"
)

type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id,omitempty"`
}

type RunStarted struct {
	BaseEvent

	Mode models.WorkflowMode `json:"mode"`
}

func (e RunStarted) GetType() EventType {
	return RunStartedEvent
}

type RunCompleted struct {
	BaseEvent

	PostID   string        `json:"post_id,omitempty"`
	Duration time.Duration `json:"duration"`
}

func (e RunCompleted) GetType() EventType {
	return RunCompletedEvent
}

type RunFailed struct {
	BaseEvent

	Error string `json:"error"`
}

func (e RunFailed) GetType() EventType {
	return RunFailedEvent
}

type StepCompleted struct {
	BaseEvent

	AgentID   string            `json:"agent_id"`
	AgentName string            `json:"agent_name"`
	Status    models.StepStatus `json:"status"`
}

func (e StepCompleted) GetType() EventType {
	return StepCompletedEvent
}

type PostPublished struct {
	BaseEvent

	PostID         string `json:"post_id"`
	LinkedInPostID string `json:"linkedin_post_id"`
}

func (e PostPublished) GetType() EventType {
	return PostPublishedEvent
}
