// Package main provides the PostPilot API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/chazarkal/postpilot/pkg/persistence"
	"github.com/chazarkal/postpilot/pkg/web"
	"github.com/chazarkal/postpilot/pkg/workflow"
)

type API struct {
	logger         *slog.Logger
	store          persistence.Persistence
	orchestrator   *workflow.Orchestrator
	tokenValidator web.TokenValidator
	cronSecret     string
	validate       *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	store persistence.Persistence,
	orchestrator *workflow.Orchestrator,
	tokenValidator web.TokenValidator,
	cronSecret string,
) *API {
	return &API{
		logger:         logger,
		store:          store,
		orchestrator:   orchestrator,
		tokenValidator: tokenValidator,
		cronSecret:     cronSecret,
		validate:       validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.store, a.orchestrator, a.validate, a.tokenValidator, a.cronSecret)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("PostPilot API")
	})

	web.RegisterRoutes(app, handlers)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
