// Package main provides the PostPilot scheduler: a cron runner that flushes
// due posts and keeps the pending buffer filled.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	cli "github.com/urfave/cli/v3"

	pkgcmd "github.com/chazarkal/postpilot/pkg/cmd"
	"github.com/chazarkal/postpilot/pkg/gemini"
	"github.com/chazarkal/postpilot/pkg/linkedin"
	"github.com/chazarkal/postpilot/pkg/log"
	"github.com/chazarkal/postpilot/pkg/seed"
	"github.com/chazarkal/postpilot/pkg/workflow"
)

// one tick per day, in the morning UTC
const defaultCronExpression = "0 8 * * *"

func main() {
	_ = godotenv.Load()

	logger := log.WithModule("scheduler")

	command := &cli.Command{
		Name:                  "postpilot-scheduler",
		Usage:                 "Run the daily publication and generation tick",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "Directory (or file:// URL) holding the JSON collections",
				Value:   "./data",
				Sources: cli.EnvVars("DATA_DIR", "DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "cron-expression",
				Usage:   "Cron expression for the daily tick",
				Value:   defaultCronExpression,
				Sources: cli.EnvVars("CRON_EXPRESSION"),
			},
			&cli.BoolFlag{
				Name:  "once",
				Usage: "Run a single tick and exit",
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
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing PostPilot scheduler")

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

			if command.Bool("once") {
				return orchestrator.DailyTick(ctx)
			}

			expression := command.String("cron-expression")
			if _, err := cron.ParseStandard(expression); err != nil {
				return fmt.Errorf("invalid cron expression %q: %w", expression, err)
			}

			runner := cron.New()
			if _, err := runner.AddFunc(expression, func() {
				if err := orchestrator.DailyTick(ctx); err != nil {
					logger.ErrorContext(ctx, "Daily tick failed", "error", err)
				}
			}); err != nil {
				return fmt.Errorf("failed to register cron job: %w", err)
			}

			runner.Start()
			logger.InfoContext(ctx, "Scheduler started", "cron", expression)

			signals := make(chan os.Signal, 1)
			signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
			<-signals

			logger.InfoContext(ctx, "Shutting down scheduler")
			<-runner.Stop().Done()

			return nil
		},
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
