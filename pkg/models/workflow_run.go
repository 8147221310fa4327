package models

import "time"

// WorkflowMode selects which pipeline shape a run uses.
type WorkflowMode string

const (
	WorkflowModeAuto        WorkflowMode = "auto"
	WorkflowModeInteractive WorkflowMode = "interactive"
	WorkflowModeCustomTopic WorkflowMode = "custom_topic"
	WorkflowModeTechWow     WorkflowMode = "tech_wow"
)

// RunStatus represents the lifecycle state of a workflow run.
type RunStatus string

const (
	RunStatusRunning               RunStatus = "running"
	RunStatusCompleted             RunStatus = "completed"
	RunStatusFailed                RunStatus = "failed"
	RunStatusWaitingApproval       RunStatus = "waiting_approval"
	RunStatusWaitingTopicSelection RunStatus = "waiting_topic_selection"
)

// StepStatus represents the state of one step inside a run.
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusRunning   StepStatus = "running"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// WorkflowStep is the audit record of one agent invocation within a run.
// Input and Output are truncated copies for the audit trail, not the full
// prompt payloads.
type WorkflowStep struct {
	AgentID     string     `json:"agent_id"`
	AgentName   string     `json:"agent_name"`
	Status      StepStatus `json:"status"`
	Input       string     `json:"input"`
	Output      string     `json:"output"`
	StartedAt   *time.Time `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// OrchestratorDecision is the structured output of the orchestrator agent,
// deciding which pipeline steps run and what per-role prompt amendments to
// apply. PromptTweaks maps an agent role to a one-line prompt addition.
type OrchestratorDecision struct {
	NeedsResearch     bool              `json:"needsResearch"`
	NeedsDeepResearch bool              `json:"needsDeepResearch"`
	NeedsSynthesis    bool              `json:"needsSynthesis"`
	DirectToWriter    bool              `json:"directToWriter"`
	TopicTitle        string            `json:"topicTitle"`
	TopicDescription  string            `json:"topicDescription"`
	Reasoning         string            `json:"reasoning"`
	PromptTweaks      map[string]string `json:"promptTweaks,omitempty"`
}

// WorkflowRun is the audit record of one end-to-end pipeline execution.
// The step list is append-only while the run is in progress; once completed
// only the status and error fields may change.
type WorkflowRun struct {
	ID                   string                `json:"id"     validate:"required"`
	Mode                 WorkflowMode          `json:"mode"   validate:"required"`
	Status               RunStatus             `json:"status" validate:"required"`
	CurrentStep          string                `json:"current_step"`
	Steps                []WorkflowStep        `json:"steps"`
	TopicSuggestions     []TopicSuggestion     `json:"topic_suggestions"`
	OrchestratorDecision *OrchestratorDecision `json:"orchestrator_decision"`
	PostID               *string               `json:"post_id"`
	TopicID              *string               `json:"topic_id"`
	StartedAt            time.Time             `json:"started_at"`
	CompletedAt          *time.Time            `json:"completed_at"`
	Error                string                `json:"error"`
}
