package models

import "time"

// AgentRole identifies which pipeline step an agent serves.
type AgentRole string

const (
	AgentRoleResearcher     AgentRole = "researcher"
	AgentRoleTopicSelector  AgentRole = "topic_selector"
	AgentRoleDeepResearcher AgentRole = "deep_researcher"
	AgentRoleSynthesizer    AgentRole = "synthesizer"
	AgentRoleWriter         AgentRole = "writer"
	AgentRolePublisher      AgentRole = "publisher"
	AgentRoleOrchestrator   AgentRole = "orchestrator"
	AgentRoleImageFinder    AgentRole = "image_finder"
)

// PromptMode is one of several alternative prompt templates an agent can
// use, selectable by name.
type PromptMode struct {
	ID     string `json:"id"     validate:"required"`
	Name   string `json:"name"   validate:"required"`
	Prompt string `json:"prompt" validate:"required"`
}

// Agent is a configurable role definition. Agents are mutated only through
// the settings surface and are read-only to the pipeline at run time.
type Agent struct {
	ID                 string       `json:"id"                    validate:"required"`
	Name               string       `json:"name"                  validate:"required"`
	Role               AgentRole    `json:"role"                  validate:"required"`
	Description        string       `json:"description"`
	PromptModes        []PromptMode `json:"prompt_modes"          validate:"min=1,dive"`
	ActivePromptModeID string       `json:"active_prompt_mode_id" validate:"required"`
	Model              string       `json:"model"`
	Enabled            bool         `json:"enabled"`
	Order              int          `json:"order"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// ActivePrompt returns the template of the active prompt mode. When the
// active mode id does not resolve, the first mode is used.
func (a *Agent) ActivePrompt() string {
	for _, mode := range a.PromptModes {
		if mode.ID == a.ActivePromptModeID {
			return mode.Prompt
		}
	}

	if len(a.PromptModes) > 0 {
		return a.PromptModes[0].Prompt
	}

	return ""
}

// PromptByModeID returns the template of a specific mode, falling back to
// the active prompt when the id is empty or unknown.
func (a *Agent) PromptByModeID(modeID string) string {
	if modeID == "" {
		return a.ActivePrompt()
	}

	for _, mode := range a.PromptModes {
		if mode.ID == modeID {
			return mode.Prompt
		}
	}

	return a.ActivePrompt()
}
