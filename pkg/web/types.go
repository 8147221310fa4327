// Package web provides the HTTP handlers and request types for the post
// automation API.
package web

import (
	"time"

	"github.com/chazarkal/postpilot/pkg/models"
)

// UpdatePostRequest drives PUT /posts/:id. Action selects a lifecycle
// transition; without one the request is a partial field edit.
type UpdatePostRequest struct {
	Action      string     `json:"action"       validate:"omitempty,oneof=approve reject publish schedule"`
	Content     *string    `json:"content,omitempty"`
	Tone        *string    `json:"tone,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// UpdateTopicRequest drives PUT /topics/:id.
type UpdateTopicRequest struct {
	Title       *string `json:"title,omitempty"       validate:"omitempty,min=1"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"      validate:"omitempty,oneof=suggested approved rejected used"`
}

// CreateAgentRequest drives POST /agents.
type CreateAgentRequest struct {
	Name               string              `json:"name"                  validate:"required,min=1"`
	Role               models.AgentRole    `json:"role"                  validate:"required"`
	Description        string              `json:"description"`
	PromptModes        []models.PromptMode `json:"prompt_modes"          validate:"required,min=1,dive"`
	ActivePromptModeID string              `json:"active_prompt_mode_id"`
	Model              string              `json:"model"`
	Enabled            bool                `json:"enabled"`
	Order              int                 `json:"order"`
}

// UpdateAgentRequest drives PUT /agents/:id. All fields optional for
// partial updates.
type UpdateAgentRequest struct {
	Name               *string             `json:"name,omitempty"                  validate:"omitempty,min=1"`
	Description        *string             `json:"description,omitempty"`
	PromptModes        []models.PromptMode `json:"prompt_modes,omitempty"          validate:"omitempty,min=1,dive"`
	ActivePromptModeID *string             `json:"active_prompt_mode_id,omitempty"`
	Model              *string             `json:"model,omitempty"`
	Enabled            *bool               `json:"enabled,omitempty"`
	Order              *int                `json:"order,omitempty"`
}

// UpdateSettingsRequest drives PUT /settings, merged into the singleton.
type UpdateSettingsRequest struct {
	PostsPerWeek      *int                     `json:"posts_per_week,omitempty"      validate:"omitempty,min=0"`
	AutoPublish       *bool                    `json:"auto_publish,omitempty"`
	AutoApproveTopics *bool                    `json:"auto_approve_topics,omitempty"`
	DefaultTone       *string                  `json:"default_tone,omitempty"`
	GlobalModel       *string                  `json:"global_model,omitempty"`
	GlobalPrompt      *string                  `json:"global_prompt,omitempty"`
	TopicPreferences  *models.TopicPreferences `json:"topic_preferences,omitempty"`
	PublishSchedule   *models.PublishSchedule  `json:"publish_schedule,omitempty"   validate:"omitempty"`
	LinkedInProfile   *models.LinkedInProfile  `json:"linkedin_profile,omitempty"`
	CronWorkflowMode  *string                  `json:"cron_workflow_mode,omitempty" validate:"omitempty,oneof=auto tech_wow"`
	MinPendingBuffer  *int                     `json:"min_pending_buffer,omitempty" validate:"omitempty,min=0"`
}

// WorkflowRequest drives POST /workflow.
type WorkflowRequest struct {
	Action       string `json:"action"        validate:"omitempty,oneof=auto research generate orchestrate tech_wow ensure_buffer revise"`
	TopicID      string `json:"topic_id,omitempty"`
	CustomTopic  string `json:"custom_topic,omitempty"`
	Instruction  string `json:"instruction,omitempty"`
	WriterModeID string `json:"writer_mode_id,omitempty"`
	Tone         string `json:"tone,omitempty"`
	PostID       string `json:"post_id,omitempty"`
	Feedback     string `json:"feedback,omitempty"`
	MinBuffer    int    `json:"min_buffer,omitempty" validate:"omitempty,min=0"`
}
