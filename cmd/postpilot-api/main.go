package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	cli "github.com/urfave/cli/v3"

	pkgcmd "github.com/chazarkal/postpilot/pkg/cmd"
	"github.com/chazarkal/postpilot/pkg/gemini"
	"github.com/chazarkal/postpilot/pkg/linkedin"
	"github.com/chazarkal/postpilot/pkg/log"
	"github.com/chazarkal/postpilot/pkg/seed"
	"github.com/chazarkal/postpilot/pkg/workflow"
)

const defaultPort = 9090

func main() {
	// missing .env is fine, real deployments use the environment
	_ = godotenv.Load()

	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "postpilot-api",
		Usage:                 "Serve the post automation API",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "Directory (or file:// URL) holding the JSON collections",
				Value:   "./data",
				Sources: cli.EnvVars("DATA_DIR", "DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "gemini-api-key",
				Usage:   "Google Gemini API key",
				Sources: cli.EnvVars("GEMINI_API_KEY"),
			},
			&cli.StringFlag{
				Name:    "linkedin-access-token",
				Usage:   "LinkedIn OAuth access token",
				Sources: cli.EnvVars("LINKEDIN_ACCESS_TOKEN"),
			},
			&cli.StringFlag{
				Name:    "linkedin-user-urn",
				Usage:   "LinkedIn member URN posts are published under",
				Sources: cli.EnvVars("LINKEDIN_USER_URN"),
			},
			&cli.StringFlag{
				Name:    "cron-secret",
				Usage:   "Bearer secret guarding the /cron endpoint (open when empty)",
				Sources: cli.EnvVars("CRON_SECRET"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing PostPilot API")

			store := pkgcmd.NewPersistence(command.String("data-dir"))

			defer func() {
				if err := store.Close(ctx); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			if err := seed.Defaults(ctx, store); err != nil {
				return err
			}

			generator, err := gemini.New(ctx, gemini.Config{
				APIKey: command.String("gemini-api-key"),
			})
			if err != nil {
				return err
			}

			publisher := linkedin.NewClient(linkedin.Config{
				AccessToken: command.String("linkedin-access-token"),
				UserURN:     command.String("linkedin-user-urn"),
			})

			eventBus := pkgcmd.NewEventBus(logger)
			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			if err := pkgcmd.SubscribeLogging(ctx, eventBus, logger); err != nil {
				logger.ErrorContext(ctx, "Failed to subscribe event logger", "error", err)
			}

			orchestrator := workflow.NewOrchestrator(store, generator, publisher, eventBus)

			api := NewAPI(logger, store, orchestrator, publisher, command.String("cron-secret"))

			return api.Start(command.Int("port"))
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
