// Package models defines the core domain models for the post automation pipeline.
package models

import "time"

// PostStatus represents the lifecycle state of a generated post.
type PostStatus string

const (
	PostStatusDraft           PostStatus = "draft"
	PostStatusPendingApproval PostStatus = "pending_approval"
	PostStatusApproved        PostStatus = "approved"
	PostStatusPublished       PostStatus = "published"
	PostStatusRejected        PostStatus = "rejected"
	PostStatusFailed          PostStatus = "failed"
)

// Post is one generated content unit, from draft through publication.
// LinkedInPostID and PublishedAt are set together, and only when the
// status is published.
type Post struct {
	ID               string     `json:"id"                 validate:"required"`
	TopicID          *string    `json:"topic_id"`
	Content          string     `json:"content"`
	Status           PostStatus `json:"status"             validate:"required"`
	Tone             string     `json:"tone"`
	LinkedInPostID   *string    `json:"linkedin_post_id"`
	ImageURL         *string    `json:"image_url"`
	ImageSuggestions []string   `json:"image_suggestions"`
	AgentLogs        []AgentLog `json:"agent_logs"`
	ScheduledAt      *time.Time `json:"scheduled_at"`
	PublishedAt      *time.Time `json:"published_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// AgentLog records one agent invocation's input and output on a post.
type AgentLog struct {
	AgentID   string    `json:"agent_id"`
	AgentName string    `json:"agent_name"`
	Input     string    `json:"input"`
	Output    string    `json:"output"`
	Timestamp time.Time `json:"timestamp"`
}

// IsPending reports whether the post is still waiting to be published.
func (p *Post) IsPending() bool {
	return p.Status == PostStatusPendingApproval || p.Status == PostStatusApproved
}

// MarkPublished records a successful publication. It is the only place
// where LinkedInPostID and PublishedAt are assigned.
func (p *Post) MarkPublished(linkedInPostID string, at time.Time) {
	p.Status = PostStatusPublished
	p.LinkedInPostID = &linkedInPostID
	p.PublishedAt = &at
}
