package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/chazarkal/postpilot/pkg/linkedin"
	"github.com/chazarkal/postpilot/pkg/mocks"
	"github.com/chazarkal/postpilot/pkg/models"
	"github.com/chazarkal/postpilot/pkg/persistence/file"
	"github.com/chazarkal/postpilot/pkg/web"
	"github.com/chazarkal/postpilot/pkg/workflow"
)

type testEnv struct {
	app       *fiber.App
	store     *file.Persistence
	generator *mocks.MockGenerator
	publisher *mocks.MockPublisher
}

func setupTestApp(t *testing.T, cronSecret string) *testEnv {
	t.Helper()

	store := file.NewPersistence(t.TempDir())
	generator := &mocks.MockGenerator{}
	publisher := &mocks.MockPublisher{}
	orchestrator := workflow.NewOrchestrator(store, generator, publisher, nil)

	handlers := web.NewAPIHandlers(store, orchestrator,
		validator.New(validator.WithRequiredStructEnabled()), publisher, cronSecret)

	app := fiber.New()
	web.RegisterRoutes(app, handlers)

	return &testEnv{app: app, store: store, generator: generator, publisher: publisher}
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return out
}

func TestGetPostsSortsNewestFirst(t *testing.T) {
	env := setupTestApp(t, "")

	now := time.Now().UTC()
	require.NoError(t, env.store.Posts().Save(t.Context(), &models.Post{
		ID: "old", Content: "old", CreatedAt: now.Add(-time.Hour),
	}))
	require.NoError(t, env.store.Posts().Save(t.Context(), &models.Post{
		ID: "new", Content: "new", CreatedAt: now,
	}))

	resp := doJSON(t, env.app, http.MethodGet, "/posts/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	posts := decodeBody[[]models.Post](t, resp)
	require.Len(t, posts, 2)
	assert.Equal(t, "new", posts[0].ID)
}

func TestUpdatePostActions(t *testing.T) {
	env := setupTestApp(t, "")

	require.NoError(t, env.store.Posts().Save(t.Context(), &models.Post{
		ID:      "post-1",
		Content: "draft text",
		Status:  models.PostStatusPendingApproval,
	}))

	t.Run("approve", func(t *testing.T) {
		resp := doJSON(t, env.app, http.MethodPut, "/posts/post-1", web.UpdatePostRequest{Action: "approve"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		post := decodeBody[models.Post](t, resp)
		assert.Equal(t, models.PostStatusApproved, post.Status)
	})

	t.Run("publish", func(t *testing.T) {
		env.publisher.On("Publish", mock.Anything, "draft text", (*string)(nil)).
			Return(linkedin.PublishResult{ID: "urn:li:share:9", Success: true}).Once()

		resp := doJSON(t, env.app, http.MethodPut, "/posts/post-1", web.UpdatePostRequest{Action: "publish"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		post := decodeBody[models.Post](t, resp)
		assert.Equal(t, models.PostStatusPublished, post.Status)
		require.NotNil(t, post.LinkedInPostID)
		assert.Equal(t, "urn:li:share:9", *post.LinkedInPostID)
	})

	t.Run("unknown action rejected", func(t *testing.T) {
		resp := doJSON(t, env.app, http.MethodPut, "/posts/post-1", map[string]string{"action": "explode"})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown id", func(t *testing.T) {
		resp := doJSON(t, env.app, http.MethodPut, "/posts/nope", web.UpdatePostRequest{Action: "approve"})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeletePostIsIdempotentAtHTTPLevel(t *testing.T) {
	env := setupTestApp(t, "")

	require.NoError(t, env.store.Posts().Save(t.Context(), &models.Post{ID: "post-1"}))

	resp := doJSON(t, env.app, http.MethodDelete, "/posts/post-1", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodDelete, "/posts/post-1", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAgentsSeededOnFirstAccess(t *testing.T) {
	env := setupTestApp(t, "")

	resp := doJSON(t, env.app, http.MethodGet, "/agents/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	agents := decodeBody[[]models.Agent](t, resp)
	require.NotEmpty(t, agents)

	roles := make(map[models.AgentRole]bool)
	for _, agent := range agents {
		roles[agent.Role] = true
	}

	assert.True(t, roles[models.AgentRoleResearcher])
	assert.True(t, roles[models.AgentRoleWriter])
	assert.True(t, roles[models.AgentRoleOrchestrator])

	// ordered by pipeline position
	for i := 1; i < len(agents); i++ {
		assert.LessOrEqual(t, agents[i-1].Order, agents[i].Order)
	}
}

func TestCreateAgentValidation(t *testing.T) {
	env := setupTestApp(t, "")

	resp := doJSON(t, env.app, http.MethodPost, "/agents/", web.CreateAgentRequest{
		Name: "No modes", Role: models.AgentRoleWriter,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, env.app, http.MethodPost, "/agents/", web.CreateAgentRequest{
		Name: "Custom writer",
		Role: models.AgentRoleWriter,
		PromptModes: []models.PromptMode{
			{ID: "m1", Name: "Default", Prompt: "Write."},
		},
		Enabled: true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	agent := decodeBody[models.Agent](t, resp)
	assert.NotEmpty(t, agent.ID)
	assert.Equal(t, "m1", agent.ActivePromptModeID)
}

func TestSettingsMerge(t *testing.T) {
	env := setupTestApp(t, "")

	resp := doJSON(t, env.app, http.MethodGet, "/settings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	initial := decodeBody[models.Settings](t, resp)

	autoPublish := true
	perWeek := 3
	resp = doJSON(t, env.app, http.MethodPut, "/settings", web.UpdateSettingsRequest{
		AutoPublish:  &autoPublish,
		PostsPerWeek: &perWeek,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updated := decodeBody[models.Settings](t, resp)
	assert.True(t, updated.AutoPublish)
	assert.Equal(t, 3, updated.PostsPerWeek)
	// untouched fields persist
	assert.Equal(t, initial.DefaultTone, updated.DefaultTone)
	assert.Equal(t, initial.PublishSchedule.Days, updated.PublishSchedule.Days)
}

func TestRunWorkflowRevise(t *testing.T) {
	env := setupTestApp(t, "")

	require.NoError(t, env.store.Posts().Save(t.Context(), &models.Post{
		ID:      "post-1",
		Content: "original",
		Status:  models.PostStatusApproved,
	}))

	env.generator.On("Complete", mock.Anything, mock.Anything, mock.Anything).
		Return("revised text", nil).Once()

	resp := doJSON(t, env.app, http.MethodPost, "/workflow", web.WorkflowRequest{
		Action: "revise", PostID: "post-1", Feedback: "shorter please",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	post := decodeBody[models.Post](t, resp)
	assert.Equal(t, "revised text", post.Content)
	assert.Equal(t, models.PostStatusPendingApproval, post.Status)
}

func TestRunWorkflowGenerateRequiresTopic(t *testing.T) {
	env := setupTestApp(t, "")

	resp := doJSON(t, env.app, http.MethodPost, "/workflow", web.WorkflowRequest{Action: "generate"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCronSecret(t *testing.T) {
	env := setupTestApp(t, "s3cret")

	t.Run("missing header", func(t *testing.T) {
		resp := doJSON(t, env.app, http.MethodGet, "/cron", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong secret", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/cron", nil)
		req.Header.Set("Authorization", "Bearer wrong")

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid secret", func(t *testing.T) {
		// the default schedule would trigger buffer generation; close the
		// gate by emptying the scheduled days
		seedResp := doJSON(t, env.app, http.MethodGet, "/settings", nil)
		require.Equal(t, http.StatusOK, seedResp.StatusCode)

		settings, err := env.store.Settings().Get(t.Context())
		require.NoError(t, err)
		require.NotNil(t, settings)

		settings.PublishSchedule.Days = []int{}
		require.NoError(t, env.store.Settings().Put(t.Context(), settings))

		req := httptest.NewRequest(http.MethodGet, "/cron", nil)
		req.Header.Set("Authorization", "Bearer s3cret")

		resp, err := env.app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestLinkedInStatus(t *testing.T) {
	env := setupTestApp(t, "")

	env.publisher.On("ValidateToken", mock.Anything).Return(false).Once()
	env.publisher.On("ValidateToken", mock.Anything).Return(true).Once()

	resp := doJSON(t, env.app, http.MethodGet, "/settings/linkedin-status", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	status := decodeBody[map[string]bool](t, resp)
	assert.False(t, status["token_valid"])

	resp = doJSON(t, env.app, http.MethodGet, "/settings/linkedin-status", nil)
	status = decodeBody[map[string]bool](t, resp)
	assert.True(t, status["token_valid"])
}

func TestHealth(t *testing.T) {
	env := setupTestApp(t, "")

	resp := doJSON(t, env.app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// setupMockStoreApp swaps the file store for repository mocks so tests can
// force storage failures.
func setupMockStoreApp(t *testing.T) (*fiber.App, *mocks.MockPersistence) {
	t.Helper()

	store := mocks.NewMockPersistence()
	orchestrator := workflow.NewOrchestrator(store, nil, nil, nil)

	handlers := web.NewAPIHandlers(store, orchestrator,
		validator.New(validator.WithRequiredStructEnabled()), nil, "")

	app := fiber.New()
	web.RegisterRoutes(app, handlers)

	return app, store
}

func TestGetPostsStorageFailure(t *testing.T) {
	app, store := setupMockStoreApp(t)

	store.PostRepo.On("List", mock.Anything).Return(nil, assert.AnError)

	resp := doJSON(t, app, http.MethodGet, "/posts/", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestGetWorkflowRunsStorageFailure(t *testing.T) {
	app, store := setupMockStoreApp(t)

	store.RunRepo.On("List", mock.Anything).Return(nil, assert.AnError)

	resp := doJSON(t, app, http.MethodGet, "/workflow/runs", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestDeleteTopicStorageFailure(t *testing.T) {
	app, store := setupMockStoreApp(t)

	store.TopicRepo.On("Delete", mock.Anything, "topic-1").Return(false, assert.AnError)

	resp := doJSON(t, app, http.MethodDelete, "/topics/topic-1", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

func TestHealthStorageFailure(t *testing.T) {
	app, store := setupMockStoreApp(t)

	store.On("HealthCheck", mock.Anything).Return(assert.AnError)

	resp := doJSON(t, app, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
