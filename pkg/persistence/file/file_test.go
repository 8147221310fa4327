package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chazarkal/postpilot/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPersistence_StripsFileScheme(t *testing.T) {
	p := NewPersistence("file:///tmp/postpilot-test")
	assert.Equal(t, "/tmp/postpilot-test", p.root)

	p = NewPersistence("/tmp/postpilot-test")
	assert.Equal(t, "/tmp/postpilot-test", p.root)
}

func TestPersistence_HealthCheckCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "data")
	p := NewPersistence(root)

	require.NoError(t, p.HealthCheck(t.Context()))
	assert.DirExists(t, root)
}

func TestPostRepository_SaveThenList(t *testing.T) {
	p := NewPersistence(t.TempDir())

	post := &models.Post{
		ID:      "post-1",
		Content: "A post about context windows",
		Status:  models.PostStatusDraft,
		Tone:    "direct",
	}

	require.NoError(t, p.Posts().Save(t.Context(), post))
	assert.False(t, post.CreatedAt.IsZero())
	assert.False(t, post.UpdatedAt.IsZero())

	posts, err := p.Posts().List(t.Context())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "post-1", posts[0].ID)
	assert.Equal(t, "A post about context windows", posts[0].Content)
	assert.Equal(t, models.PostStatusDraft, posts[0].Status)
}

func TestPostRepository_SaveReplacesByID(t *testing.T) {
	p := NewPersistence(t.TempDir())

	require.NoError(t, p.Posts().Save(t.Context(), &models.Post{ID: "post-1", Content: "v1", Status: models.PostStatusDraft}))
	require.NoError(t, p.Posts().Save(t.Context(), &models.Post{ID: "post-1", Content: "v2", Status: models.PostStatusDraft}))

	posts, err := p.Posts().List(t.Context())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "v2", posts[0].Content)
}

func TestPostRepository_UpdateUnknownIDLeavesCollectionUnchanged(t *testing.T) {
	p := NewPersistence(t.TempDir())

	require.NoError(t, p.Posts().Save(t.Context(), &models.Post{ID: "post-1", Content: "original", Status: models.PostStatusDraft}))

	updated, err := p.Posts().Update(t.Context(), "missing", func(post *models.Post) {
		post.Content = "mutated"
	})
	require.NoError(t, err)
	assert.Nil(t, updated)

	posts, err := p.Posts().List(t.Context())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "original", posts[0].Content)
}

func TestPostRepository_Update(t *testing.T) {
	p := NewPersistence(t.TempDir())

	require.NoError(t, p.Posts().Save(t.Context(), &models.Post{ID: "post-1", Status: models.PostStatusPendingApproval}))

	updated, err := p.Posts().Update(t.Context(), "post-1", func(post *models.Post) {
		post.Status = models.PostStatusApproved
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, models.PostStatusApproved, updated.Status)

	stored, err := p.Posts().GetByID(t.Context(), "post-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.PostStatusApproved, stored.Status)
}

func TestPostRepository_DeleteIsIdempotent(t *testing.T) {
	p := NewPersistence(t.TempDir())

	require.NoError(t, p.Posts().Save(t.Context(), &models.Post{ID: "post-1", Status: models.PostStatusDraft}))
	require.NoError(t, p.Posts().Save(t.Context(), &models.Post{ID: "post-2", Status: models.PostStatusDraft}))

	deleted, err := p.Posts().Delete(t.Context(), "post-1")
	require.NoError(t, err)
	assert.True(t, deleted)

	posts, err := p.Posts().List(t.Context())
	require.NoError(t, err)
	assert.Len(t, posts, 1)

	// Second delete of the same id finds nothing
	deleted, err = p.Posts().Delete(t.Context(), "post-1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestPostRepository_GetByIDMissingReturnsNilNil(t *testing.T) {
	p := NewPersistence(t.TempDir())

	post, err := p.Posts().GetByID(t.Context(), "nope")
	require.NoError(t, err)
	assert.Nil(t, post)
}

func TestCollection_CorruptFileReadsAsEmpty(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "posts.json"), []byte("{not json"), 0600))

	p := NewPersistence(root)

	posts, err := p.Posts().List(t.Context())
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestAgentRepository_GetByRole(t *testing.T) {
	p := NewPersistence(t.TempDir())

	require.NoError(t, p.Agents().Save(t.Context(), &models.Agent{
		ID: "agent-writer", Name: "Writer", Role: models.AgentRoleWriter, Enabled: false,
	}))
	require.NoError(t, p.Agents().Save(t.Context(), &models.Agent{
		ID: "agent-writer-2", Name: "Writer 2", Role: models.AgentRoleWriter, Enabled: true,
	}))

	agent, err := p.Agents().GetByRole(t.Context(), models.AgentRoleWriter)
	require.NoError(t, err)
	require.NotNil(t, agent)
	assert.Equal(t, "agent-writer-2", agent.ID)

	agent, err = p.Agents().GetByRole(t.Context(), models.AgentRoleResearcher)
	require.NoError(t, err)
	assert.Nil(t, agent)
}

func TestSettingsRepository_Singleton(t *testing.T) {
	p := NewPersistence(t.TempDir())

	settings, err := p.Settings().Get(t.Context())
	require.NoError(t, err)
	assert.Nil(t, settings)

	require.NoError(t, p.Settings().Put(t.Context(), &models.Settings{
		ID:           "whatever",
		PostsPerWeek: 3,
	}))

	settings, err = p.Settings().Get(t.Context())
	require.NoError(t, err)
	require.NotNil(t, settings)
	assert.Equal(t, models.SettingsID, settings.ID)
	assert.Equal(t, 3, settings.PostsPerWeek)

	// Put replaces, never appends
	require.NoError(t, p.Settings().Put(t.Context(), &models.Settings{PostsPerWeek: 5}))

	settings, err = p.Settings().Get(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 5, settings.PostsPerWeek)
}

func TestWorkflowRunRepository_SaveAndGet(t *testing.T) {
	p := NewPersistence(t.TempDir())

	run := &models.WorkflowRun{
		ID:     "run-1",
		Mode:   models.WorkflowModeAuto,
		Status: models.RunStatusRunning,
	}
	require.NoError(t, p.WorkflowRuns().Save(t.Context(), run))

	run.Status = models.RunStatusCompleted
	require.NoError(t, p.WorkflowRuns().Save(t.Context(), run))

	stored, err := p.WorkflowRuns().GetByID(t.Context(), "run-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.RunStatusCompleted, stored.Status)

	runs, err := p.WorkflowRuns().List(t.Context())
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
