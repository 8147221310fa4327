package web

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/chazarkal/postpilot/pkg/log"
	"github.com/chazarkal/postpilot/pkg/models"
	"github.com/chazarkal/postpilot/pkg/persistence"
	"github.com/chazarkal/postpilot/pkg/seed"
	"github.com/chazarkal/postpilot/pkg/workflow"
)

// TokenValidator checks whether the configured LinkedIn access token is
// still accepted by the API.
type TokenValidator interface {
	ValidateToken(ctx context.Context) bool
}

type APIHandlers struct {
	store          persistence.Persistence
	orchestrator   *workflow.Orchestrator
	validator      *validator.Validate
	tokenValidator TokenValidator
	cronSecret     string
	logger         *slog.Logger
}

func NewAPIHandlers(
	store persistence.Persistence,
	orchestrator *workflow.Orchestrator,
	validator *validator.Validate,
	tokenValidator TokenValidator,
	cronSecret string,
) *APIHandlers {
	return &APIHandlers{
		store:          store,
		orchestrator:   orchestrator,
		validator:      validator,
		tokenValidator: tokenValidator,
		cronSecret:     cronSecret,
		logger:         log.WithModule("web"),
	}
}

// GetPosts returns all posts, newest first.
func (h *APIHandlers) GetPosts(c fiber.Ctx) error {
	posts, err := h.store.Posts().List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})

	return c.JSON(posts)
}

// UpdatePost applies a lifecycle action (approve, reject, publish, schedule)
// or a partial field edit to one post.
func (h *APIHandlers) UpdatePost(c fiber.Ctx) error {
	id := c.Params("id")

	var req UpdatePostRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	switch req.Action {
	case "approve":
		return h.updatePostStatus(c, id, models.PostStatusApproved)

	case "reject":
		return h.updatePostStatus(c, id, models.PostStatusRejected)

	case "publish":
		post, err := h.orchestrator.PublishPost(c.Context(), id)
		if err != nil {
			return handleServiceError(c, err)
		}

		return c.JSON(post)

	case "schedule":
		if req.ScheduledAt == nil {
			return badRequest(c, "scheduled_at is required for the schedule action")
		}

		post, err := h.orchestrator.SchedulePost(c.Context(), id, *req.ScheduledAt)
		if err != nil {
			return handleServiceError(c, err)
		}

		return c.JSON(post)

	default:
		post, err := h.store.Posts().Update(c.Context(), id, func(p *models.Post) {
			if req.Content != nil {
				p.Content = *req.Content
			}
			if req.Tone != nil {
				p.Tone = *req.Tone
			}
			if req.ImageURL != nil {
				p.ImageURL = req.ImageURL
			}
		})
		if err != nil {
			return internalError(c, err)
		}
		if post == nil {
			return notFound(c, "post not found")
		}

		return c.JSON(post)
	}
}

func (h *APIHandlers) updatePostStatus(c fiber.Ctx, id string, status models.PostStatus) error {
	post, err := h.store.Posts().Update(c.Context(), id, func(p *models.Post) {
		p.Status = status
	})
	if err != nil {
		return internalError(c, err)
	}
	if post == nil {
		return notFound(c, "post not found")
	}

	return c.JSON(post)
}

func (h *APIHandlers) DeletePost(c fiber.Ctx) error {
	deleted, err := h.store.Posts().Delete(c.Context(), c.Params("id"))
	if err != nil {
		return internalError(c, err)
	}

	if !deleted {
		return notFound(c, "post not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetTopics returns all topics, newest first.
func (h *APIHandlers) GetTopics(c fiber.Ctx) error {
	topics, err := h.store.Topics().List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	sort.Slice(topics, func(i, j int) bool {
		return topics[i].CreatedAt.After(topics[j].CreatedAt)
	})

	return c.JSON(topics)
}

func (h *APIHandlers) UpdateTopic(c fiber.Ctx) error {
	var req UpdateTopicRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	topic, err := h.store.Topics().Update(c.Context(), c.Params("id"), func(t *models.Topic) {
		if req.Title != nil {
			t.Title = *req.Title
		}
		if req.Description != nil {
			t.Description = *req.Description
		}
		if req.Status != nil {
			t.Status = models.TopicStatus(*req.Status)
		}
	})
	if err != nil {
		return internalError(c, err)
	}
	if topic == nil {
		return notFound(c, "topic not found")
	}

	return c.JSON(topic)
}

func (h *APIHandlers) DeleteTopic(c fiber.Ctx) error {
	deleted, err := h.store.Topics().Delete(c.Context(), c.Params("id"))
	if err != nil {
		return internalError(c, err)
	}

	if !deleted {
		return notFound(c, "topic not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetAgents returns the agents by pipeline order, seeding the defaults on
// first access.
func (h *APIHandlers) GetAgents(c fiber.Ctx) error {
	if err := seed.Defaults(c.Context(), h.store); err != nil {
		return internalError(c, err)
	}

	agents, err := h.store.Agents().List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	sort.Slice(agents, func(i, j int) bool {
		return agents[i].Order < agents[j].Order
	})

	return c.JSON(agents)
}

func (h *APIHandlers) CreateAgent(c fiber.Ctx) error {
	var req CreateAgentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	activeModeID := req.ActivePromptModeID
	if activeModeID == "" {
		activeModeID = req.PromptModes[0].ID
	}

	agent := &models.Agent{
		ID:                 uuid.New().String(),
		Name:               req.Name,
		Role:               req.Role,
		Description:        req.Description,
		PromptModes:        req.PromptModes,
		ActivePromptModeID: activeModeID,
		Model:              req.Model,
		Enabled:            req.Enabled,
		Order:              req.Order,
	}

	if err := h.store.Agents().Save(c.Context(), agent); err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(agent)
}

func (h *APIHandlers) UpdateAgent(c fiber.Ctx) error {
	var req UpdateAgentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	agent, err := h.store.Agents().Update(c.Context(), c.Params("id"), func(a *models.Agent) {
		if req.Name != nil {
			a.Name = *req.Name
		}
		if req.Description != nil {
			a.Description = *req.Description
		}
		if req.PromptModes != nil {
			a.PromptModes = req.PromptModes
		}
		if req.ActivePromptModeID != nil {
			a.ActivePromptModeID = *req.ActivePromptModeID
		}
		if req.Model != nil {
			a.Model = *req.Model
		}
		if req.Enabled != nil {
			a.Enabled = *req.Enabled
		}
		if req.Order != nil {
			a.Order = *req.Order
		}
	})
	if err != nil {
		return internalError(c, err)
	}
	if agent == nil {
		return notFound(c, "agent not found")
	}

	return c.JSON(agent)
}

func (h *APIHandlers) DeleteAgent(c fiber.Ctx) error {
	deleted, err := h.store.Agents().Delete(c.Context(), c.Params("id"))
	if err != nil {
		return internalError(c, err)
	}

	if !deleted {
		return notFound(c, "agent not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// GetSettings returns the singleton, seeding defaults on first access.
func (h *APIHandlers) GetSettings(c fiber.Ctx) error {
	if err := seed.Defaults(c.Context(), h.store); err != nil {
		return internalError(c, err)
	}

	settings, err := h.store.Settings().Get(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(settings)
}

// UpdateSettings merges the provided fields into the singleton.
func (h *APIHandlers) UpdateSettings(c fiber.Ctx) error {
	var req UpdateSettingsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON body: "+err.Error())
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	settings, err := h.store.Settings().Get(c.Context())
	if err != nil {
		return internalError(c, err)
	}
	if settings == nil {
		settings = seed.DefaultSettings()
	}

	if req.PostsPerWeek != nil {
		settings.PostsPerWeek = *req.PostsPerWeek
	}
	if req.AutoPublish != nil {
		settings.AutoPublish = *req.AutoPublish
	}
	if req.AutoApproveTopics != nil {
		settings.AutoApproveTopics = *req.AutoApproveTopics
	}
	if req.DefaultTone != nil {
		settings.DefaultTone = *req.DefaultTone
	}
	if req.GlobalModel != nil {
		settings.GlobalModel = *req.GlobalModel
	}
	if req.GlobalPrompt != nil {
		settings.GlobalPrompt = *req.GlobalPrompt
	}
	if req.TopicPreferences != nil {
		settings.TopicPreferences = *req.TopicPreferences
	}
	if req.PublishSchedule != nil {
		settings.PublishSchedule = *req.PublishSchedule
	}
	if req.LinkedInProfile != nil {
		settings.LinkedInProfile = *req.LinkedInProfile
	}
	if req.CronWorkflowMode != nil {
		settings.CronWorkflowMode = *req.CronWorkflowMode
	}
	if req.MinPendingBuffer != nil {
		settings.MinPendingBuffer = *req.MinPendingBuffer
	}

	if err := h.store.Settings().Put(c.Context(), settings); err != nil {
		return internalError(c, err)
	}

	return c.JSON(settings)
}

// GetWorkflowRuns returns the run history, newest first.
func (h *APIHandlers) GetWorkflowRuns(c fiber.Ctx) error {
	runs, err := h.store.WorkflowRuns().List(c.Context())
	if err != nil {
		return internalError(c, err)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	return c.JSON(runs)
}

// RunWorkflow dispatches POST /workflow by action.
func (h *APIHandlers) RunWorkflow(c fiber.Ctx) error {
	var req WorkflowRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return badRequest(c, "Invalid JSON body: "+err.Error())
		}
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := seed.Defaults(c.Context(), h.store); err != nil {
		return internalError(c, err)
	}

	request := workflow.RunRequest{
		TopicID:      req.TopicID,
		CustomTopic:  req.CustomTopic,
		Instruction:  req.Instruction,
		WriterModeID: req.WriterModeID,
		Tone:         req.Tone,
	}

	switch req.Action {
	case "research":
		// interactive mode pauses after research so the caller can pick a
		// topic and follow up with a generate action
		request.Mode = models.WorkflowModeInteractive

		run, err := h.orchestrator.RunFull(c.Context(), request)
		if err != nil {
			return handleServiceError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(run)

	case "generate":
		if req.TopicID == "" && req.CustomTopic == "" {
			return badRequest(c, "generate requires topic_id or custom_topic")
		}
		if req.CustomTopic != "" {
			request.Mode = models.WorkflowModeCustomTopic
		}

		run, err := h.orchestrator.RunFull(c.Context(), request)
		if err != nil {
			return handleServiceError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(run)

	case "orchestrate":
		run, err := h.orchestrator.RunOrchestrated(c.Context(), request)
		if err != nil {
			return handleServiceError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(run)

	case "tech_wow":
		run, err := h.orchestrator.RunTechWow(c.Context(), request)
		if err != nil {
			return handleServiceError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(run)

	case "ensure_buffer":
		generated, err := h.orchestrator.EnsureBuffer(c.Context(), req.MinBuffer)
		if err != nil {
			return handleServiceError(c, err)
		}

		return c.JSON(fiber.Map{"generated": generated})

	case "revise":
		if req.PostID == "" || req.Feedback == "" {
			return badRequest(c, "revise requires post_id and feedback")
		}

		post, err := h.orchestrator.Revise(c.Context(), req.PostID, req.Feedback)
		if err != nil {
			return handleServiceError(c, err)
		}

		return c.JSON(post)

	default:
		run, err := h.orchestrator.RunFull(c.Context(), request)
		if err != nil {
			return handleServiceError(c, err)
		}

		return c.Status(fiber.StatusCreated).JSON(run)
	}
}

// Cron triggers the daily tick. Guarded by a bearer secret when one is
// configured; open otherwise, matching a platform cron that cannot send
// custom headers.
func (h *APIHandlers) Cron(c fiber.Ctx) error {
	if h.cronSecret != "" {
		header := c.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") ||
			strings.TrimPrefix(header, "Bearer ") != h.cronSecret {
			return unauthorized(c, "invalid cron secret")
		}
	}

	if err := seed.Defaults(c.Context(), h.store); err != nil {
		return internalError(c, err)
	}

	if err := h.orchestrator.DailyTick(c.Context()); err != nil {
		return internalError(c, err)
	}

	return c.JSON(fiber.Map{"status": "ok"})
}

// LinkedInStatus reports whether the configured LinkedIn token is accepted.
// The settings page shows it as the connection indicator.
func (h *APIHandlers) LinkedInStatus(c fiber.Ctx) error {
	valid := h.tokenValidator != nil && h.tokenValidator.ValidateToken(c.Context())

	return c.JSON(fiber.Map{"token_valid": valid})
}

// Health reports storage reachability.
func (h *APIHandlers) Health(c fiber.Ctx) error {
	if err := h.store.HealthCheck(c.Context()); err != nil {
		h.logger.Error("Health check failed", "error", err)

		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "unhealthy",
		})
	}

	return c.JSON(fiber.Map{"status": "healthy"})
}
