package main

import (
	"context"
	"os"

	"github.com/agp-labs/builder/pkg/catalog"
	"github.com/agp-labs/builder/pkg/cmd"
	"github.com/agp-labs/builder/pkg/config"
	"github.com/agp-labs/builder/pkg/log"
	"github.com/agp-labs/builder/pkg/otelhelper"
	cli "github.com/urfave/cli/v3"
)

const defaultPort = 9091

func main() {
	logger := log.WithModule("api")

	command := &cli.Command{
		Name:                  "builder-api",
		Usage:                 "Create and manage builder apps",
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
				Name:     "database-url",
				Usage:    "Database connection URL for persistence (file:// or postgres://)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "session-url",
				Usage:   "Session store URL (redis:// or empty for in-memory)",
				Sources: cli.EnvVars("SESSION_URL"),
			},
			&cli.StringFlag{
				Name:    "catalog-config",
				Usage:   "Path to a catalog.yaml extending the component library",
				Sources: cli.EnvVars("CATALOG_CONFIG"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Enable OTLP tracing for event handling",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger.InfoContext(ctx, "Initializing Builder API")

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				err := persistence.Close(ctx)
				if err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), logger)
			if err != nil {
				return err
			}

			defer func() {
				if err := eventBus.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
				}
			}()

			if command.Bool("tracing") {
				tracer, err := otelhelper.NewTracer(ctx, "builder-api")
				if err != nil {
					return err
				}

				eventBus.SetTracer(tracer)
			}

			sessionStore, err := cmd.NewSessionStore(ctx, command.String("session-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := sessionStore.Close(); err != nil {
					logger.ErrorContext(ctx, "Failed to close session store", "error", err)
				}
			}()

			registry := catalog.NewDefaultRegistry()
			if path := command.String("catalog-config"); path != "" {
				catalogConfig, err := config.LoadCatalogConfig(path)
				if err != nil {
					return err
				}

				catalogConfig.ApplyToRegistry(registry)
			}

			api := NewAPI(
				logger,
				persistence,
				eventBus,
				sessionStore,
				registry,
			)

			if err := api.StartJanitor(ctx); err != nil {
				return err
			}

			defer api.StopJanitor()

			err = api.Start(command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)
			}

			return nil
		},
	}

	err := command.Run(context.Background(), os.Args)
	if err != nil {
		panic(err)
	}
}
