// Package main provides the Builder API server implementation.
package main

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/agp-labs/builder/pkg/catalog"
	"github.com/agp-labs/builder/pkg/eventbus"
	"github.com/agp-labs/builder/pkg/persistence"
	"github.com/agp-labs/builder/pkg/services"
	"github.com/agp-labs/builder/pkg/sessions"
	"github.com/agp-labs/builder/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger         *slog.Logger
	persistence    persistence.Persistence
	registry       *catalog.Registry
	eventBus       eventbus.EventBus
	sessionManager *sessions.Manager
	validate       *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	sessionStore sessions.Store,
	registry *catalog.Registry,
) *API {
	appService := services.NewApp(persistence)
	componentService := services.NewComponent(persistence, registry)
	connectionService := services.NewConnection(persistence, registry)

	return &API{
		persistence: persistence,
		logger:      logger,
		registry:    registry,
		eventBus:    eventBus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		sessionManager: sessions.NewManager(
			sessionStore,
			appService,
			componentService,
			connectionService,
			logger,
		),
	}
}

func (a *API) App() *fiber.App {
	appService := services.NewApp(a.persistence)
	componentService := services.NewComponent(a.persistence, a.registry)
	connectionService := services.NewConnection(a.persistence, a.registry)
	publishingService := services.NewPublishing(a.persistence)

	handlers := web.NewAPIHandlers(
		appService,
		componentService,
		connectionService,
		publishingService,
		a.sessionManager,
		a.validate,
		a.registry,
		a.eventBus,
		a.logger,
	)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Builder API")
	})

	apps := app.Group("/apps")
	apps.Get("/", handlers.GetApps)
	apps.Post("/", handlers.CreateApp)
	apps.Get("/:id", handlers.GetApp)
	apps.Patch("/:id", handlers.UpdateApp)
	apps.Delete("/:id", handlers.DeleteApp)
	apps.Post("/:id/publish", handlers.PublishApp)
	apps.Get("/groups/:groupId/published", handlers.GetPublishedApp)
	apps.Post("/groups/:groupId/create-draft", handlers.CreateDraftFromPublished)

	// Canvas component endpoints:
	apps.Get("/:id/components", handlers.GetComponents)
	apps.Post("/:id/components", handlers.CreateComponent)
	apps.Get("/:id/components/:componentId", handlers.GetComponent)
	apps.Patch("/:id/components/:componentId", handlers.UpdateComponent)
	apps.Patch("/:id/components/:componentId/position", handlers.MoveComponent)
	apps.Delete("/:id/components/:componentId", handlers.DeleteComponent)

	// Workflow connection endpoints:
	apps.Get("/:id/connections", handlers.GetConnections)
	apps.Post("/:id/connections", handlers.CreateConnection)
	apps.Delete("/:id/connections/:connectionId", handlers.DeleteConnection)
	apps.Get("/:id/workflow", handlers.GetWorkflowView)

	// Component library:
	app.Get("/catalog", handlers.GetCatalog)
	app.Get("/catalog/:type", handlers.GetCatalogEntry)

	// Editing sessions:
	s := app.Group("/sessions")
	s.Post("/", handlers.OpenSession)
	s.Get("/:sessionId", handlers.GetSession)
	s.Delete("/:sessionId", handlers.CloseSession)
	s.Post("/:sessionId/flush", handlers.FlushSession)
	s.Post("/:sessionId/pointer", handlers.SessionPointerEvent)
	s.Post("/:sessionId/zoom", handlers.SessionZoom)
	s.Post("/:sessionId/resize", handlers.SessionBeginResize)
	s.Post("/:sessionId/delete-selected", handlers.SessionDeleteSelected)
	s.Post("/:sessionId/connections/arm", handlers.SessionArmConnection)
	s.Post("/:sessionId/connections/commit", handlers.SessionCommitConnection)
	s.Post("/:sessionId/connections/cancel", handlers.SessionCancelConnection)
	s.Post("/:sessionId/connections/click-handle", handlers.SessionClickHandle)

	app.Get("/health", handlers.HealthCheck)

	return app
}

// StartJanitor begins the periodic sweep of expired editing sessions.
func (a *API) StartJanitor(ctx context.Context) error {
	return a.sessionManager.StartJanitor(ctx, "")
}

func (a *API) StopJanitor() {
	a.sessionManager.StopJanitor()
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
