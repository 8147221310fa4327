package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAgent_ActivePrompt(t *testing.T) {
	agent := &Agent{
		PromptModes: []PromptMode{
			{ID: "mode-a", Name: "A", Prompt: "prompt a"},
			{ID: "mode-b", Name: "B", Prompt: "prompt b"},
		},
		ActivePromptModeID: "mode-b",
	}

	assert.Equal(t, "prompt b", agent.ActivePrompt())

	// Unknown active mode falls back to the first mode
	agent.ActivePromptModeID = "missing"
	assert.Equal(t, "prompt a", agent.ActivePrompt())

	empty := &Agent{}
	assert.Equal(t, "", empty.ActivePrompt())
}

func TestAgent_PromptByModeID(t *testing.T) {
	agent := &Agent{
		PromptModes: []PromptMode{
			{ID: "mode-a", Name: "A", Prompt: "prompt a"},
			{ID: "mode-b", Name: "B", Prompt: "prompt b"},
		},
		ActivePromptModeID: "mode-a",
	}

	assert.Equal(t, "prompt b", agent.PromptByModeID("mode-b"))
	assert.Equal(t, "prompt a", agent.PromptByModeID(""))
	assert.Equal(t, "prompt a", agent.PromptByModeID("nope"))
}

func TestPost_MarkPublished(t *testing.T) {
	post := &Post{ID: "post-1", Status: PostStatusApproved}

	assert.Nil(t, post.LinkedInPostID)
	assert.Nil(t, post.PublishedAt)

	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	post.MarkPublished("urn:li:share:123", now)

	assert.Equal(t, PostStatusPublished, post.Status)
	assert.Equal(t, "urn:li:share:123", *post.LinkedInPostID)
	assert.Equal(t, now, *post.PublishedAt)
}

func TestPost_IsPending(t *testing.T) {
	assert.True(t, (&Post{Status: PostStatusPendingApproval}).IsPending())
	assert.True(t, (&Post{Status: PostStatusApproved}).IsPending())
	assert.False(t, (&Post{Status: PostStatusPublished}).IsPending())
	assert.False(t, (&Post{Status: PostStatusRejected}).IsPending())
	assert.False(t, (&Post{Status: PostStatusFailed}).IsPending())
}
