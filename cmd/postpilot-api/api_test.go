package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazarkal/postpilot/pkg/linkedin"
	"github.com/chazarkal/postpilot/pkg/persistence/file"
	"github.com/chazarkal/postpilot/pkg/workflow"
)

func setupTestApp(tempDir string) *fiber.App {
	store := file.NewPersistence(tempDir)
	orchestrator := workflow.NewOrchestrator(store, nil, nil, nil)
	publisher := linkedin.NewClient(linkedin.Config{})

	api := NewAPI(slog.Default(), store, orchestrator, publisher, "")

	return api.App()
}

func TestAPIRootEndpoint(t *testing.T) {
	app := setupTestApp(t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "PostPilot API", string(body))
}

func TestAPILiveness(t *testing.T) {
	app := setupTestApp(t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		if err := resp.Body.Close(); err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
