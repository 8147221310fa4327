// Package workflow runs the multi-agent content pipeline: research, topic
// selection, deep research, synthesis and writing, plus the publishing and
// scheduling paths around the generated posts.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/chazarkal/postpilot/pkg/eventbus"
	"github.com/chazarkal/postpilot/pkg/events"
	"github.com/chazarkal/postpilot/pkg/gemini"
	"github.com/chazarkal/postpilot/pkg/linkedin"
	"github.com/chazarkal/postpilot/pkg/log"
	"github.com/chazarkal/postpilot/pkg/models"
	"github.com/chazarkal/postpilot/pkg/persistence"
)

// maxAuditLen bounds step inputs and outputs stored on the run record. Full
// payloads flow between steps in memory only.
const maxAuditLen = 2000

// Generator produces text completions for pipeline steps.
type Generator interface {
	Complete(ctx context.Context, prompt string, opts gemini.Options) (string, error)
	CompleteWithSearch(ctx context.Context, prompt string, opts gemini.Options) (gemini.Result, error)
	FindImageSuggestions(ctx context.Context, topic, model string) ([]string, error)
}

// Publisher pushes finished posts to the social platform.
type Publisher interface {
	Publish(ctx context.Context, text string, imageURL *string) linkedin.PublishResult
}

// RunRequest parameterizes a pipeline run.
type RunRequest struct {
	Mode        models.WorkflowMode
	TopicID     string
	CustomTopic string
	// Instruction is the free-form user request handed to the orchestrator
	// agent in orchestrated mode.
	Instruction  string
	WriterModeID string
	Tone         string

	// bufferFill marks runs started by the buffer top-up. Such runs never
	// publish inline; the daily tick owns publication and caps it at one
	// post per day.
	bufferFill bool
}

// Orchestrator drives pipeline runs against injected collaborators. All
// dependencies are explicit; nothing here reaches for globals.
type Orchestrator struct {
	store     persistence.Persistence
	generator Generator
	publisher Publisher
	bus       eventbus.EventBus
	logger    *slog.Logger
}

func NewOrchestrator(store persistence.Persistence, generator Generator, publisher Publisher, bus eventbus.EventBus) *Orchestrator {
	return &Orchestrator{
		store:     store,
		generator: generator,
		publisher: publisher,
		bus:       bus,
		logger:    log.WithModule("workflow"),
	}
}

// truncate cuts at a rune boundary so the stored audit text stays valid UTF-8.
func truncate(text string) string {
	if len(text) <= maxAuditLen {
		return text
	}

	cut := maxAuditLen
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}

	return text[:cut] + "..."
}

func (o *Orchestrator) generateID() string {
	if o.bus != nil {
		return o.bus.GenerateID()
	}

	return uuid.New().String()
}

func (o *Orchestrator) publishEvent(ctx context.Context, key string, event eventbus.Event) {
	if o.bus == nil {
		return
	}

	if err := o.bus.Publish(ctx, key, event); err != nil {
		o.logger.ErrorContext(ctx, "Failed to publish event",
			"event_type", event.GetType(), "error", err)
	}
}

func (o *Orchestrator) baseEvent(eventType events.EventType, runID string) events.BaseEvent {
	return events.BaseEvent{
		ID:        o.generateID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		RunID:     runID,
	}
}

// settings loads the singleton, seeding defaults on first access.
func (o *Orchestrator) settings(ctx context.Context) (*models.Settings, error) {
	settings, err := o.store.Settings().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if settings == nil {
		return nil, persistence.ErrSettingsNotSeeded
	}

	return settings, nil
}

func (o *Orchestrator) agent(ctx context.Context, role models.AgentRole) (*models.Agent, error) {
	agent, err := o.store.Agents().GetByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s agent: %w", role, err)
	}

	if agent == nil {
		return nil, fmt.Errorf("%w: no enabled agent for role %s", persistence.ErrAgentNotFound, role)
	}

	return agent, nil
}

func (o *Orchestrator) newRun(ctx context.Context, mode models.WorkflowMode) (*models.WorkflowRun, error) {
	run := &models.WorkflowRun{
		ID:        o.generateID(),
		Mode:      mode,
		Status:    models.RunStatusRunning,
		Steps:     []models.WorkflowStep{},
		StartedAt: time.Now().UTC(),
	}

	if err := o.store.WorkflowRuns().Save(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to save workflow run: %w", err)
	}

	o.publishEvent(ctx, run.ID, events.RunStarted{
		BaseEvent: o.baseEvent(events.RunStartedEvent, run.ID),
		Mode:      mode,
	})

	return run, nil
}

func (o *Orchestrator) saveRun(ctx context.Context, run *models.WorkflowRun) {
	if err := o.store.WorkflowRuns().Save(ctx, run); err != nil {
		o.logger.ErrorContext(ctx, "Failed to save workflow run", "run_id", run.ID, "error", err)
	}
}

// startStep appends a running step record and returns its index.
func (o *Orchestrator) startStep(ctx context.Context, run *models.WorkflowRun, agent *models.Agent, input string) int {
	now := time.Now().UTC()
	run.Steps = append(run.Steps, models.WorkflowStep{
		AgentID:   agent.ID,
		AgentName: agent.Name,
		Status:    models.StepStatusRunning,
		Input:     truncate(input),
		StartedAt: &now,
	})
	run.CurrentStep = agent.Name
	o.saveRun(ctx, run)

	return len(run.Steps) - 1
}

func (o *Orchestrator) finishStep(ctx context.Context, run *models.WorkflowRun, idx int, output string, stepErr error) {
	now := time.Now().UTC()
	step := &run.Steps[idx]
	step.CompletedAt = &now

	if stepErr != nil {
		step.Status = models.StepStatusFailed
		step.Output = truncate(stepErr.Error())
	} else {
		step.Status = models.StepStatusCompleted
		step.Output = truncate(output)
	}

	o.saveRun(ctx, run)

	o.publishEvent(ctx, run.ID, events.StepCompleted{
		BaseEvent: o.baseEvent(events.StepCompletedEvent, run.ID),
		AgentID:   step.AgentID,
		AgentName: step.AgentName,
		Status:    step.Status,
	})
}

// skipStep records a step the orchestrator decision ruled out.
func (o *Orchestrator) skipStep(ctx context.Context, run *models.WorkflowRun, agent *models.Agent, reason string) {
	run.Steps = append(run.Steps, models.WorkflowStep{
		AgentID:   agent.ID,
		AgentName: agent.Name,
		Status:    models.StepStatusSkipped,
		Input:     reason,
	})
	o.saveRun(ctx, run)
}

func (o *Orchestrator) failRun(ctx context.Context, run *models.WorkflowRun, err error) error {
	now := time.Now().UTC()
	run.Status = models.RunStatusFailed
	run.Error = err.Error()
	run.CompletedAt = &now
	o.saveRun(ctx, run)

	o.publishEvent(ctx, run.ID, events.RunFailed{
		BaseEvent: o.baseEvent(events.RunFailedEvent, run.ID),
		Error:     err.Error(),
	})

	o.logger.ErrorContext(ctx, "Workflow run failed",
		"run_id", run.ID, "mode", run.Mode, "error", err)

	return err
}

func (o *Orchestrator) completeRun(ctx context.Context, run *models.WorkflowRun, postID string) {
	now := time.Now().UTC()
	run.Status = models.RunStatusCompleted
	run.CurrentStep = ""
	run.CompletedAt = &now
	if postID != "" {
		run.PostID = &postID
	}
	o.saveRun(ctx, run)

	o.publishEvent(ctx, run.ID, events.RunCompleted{
		BaseEvent: o.baseEvent(events.RunCompletedEvent, run.ID),
		PostID:    postID,
		Duration:  now.Sub(run.StartedAt),
	})

	o.logger.InfoContext(ctx, "Workflow run completed",
		"run_id", run.ID, "mode", run.Mode, "post_id", postID)
}
