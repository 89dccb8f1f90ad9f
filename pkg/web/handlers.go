// Package web provides HTTP handlers and REST API endpoints for the app builder.
package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/agp-labs/builder/pkg/catalog"
	"github.com/agp-labs/builder/pkg/eventbus"
	"github.com/agp-labs/builder/pkg/events"
	"github.com/agp-labs/builder/pkg/models"
	"github.com/agp-labs/builder/pkg/persistence"
	"github.com/agp-labs/builder/pkg/services"
	"github.com/agp-labs/builder/pkg/sessions"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	appService        *services.App
	componentService  *services.Component
	connectionService *services.Connection
	publishingService *services.Publishing
	sessionManager    *sessions.Manager
	validator         *validator.Validate
	registry          *catalog.Registry
	eventBus          eventbus.EventBus
	logger            *slog.Logger
}

func NewAPIHandlers(
	appService *services.App,
	componentService *services.Component,
	connectionService *services.Connection,
	publishingService *services.Publishing,
	sessionManager *sessions.Manager,
	validator *validator.Validate,
	registry *catalog.Registry,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
) *APIHandlers {
	return &APIHandlers{
		appService:        appService,
		componentService:  componentService,
		connectionService: connectionService,
		publishingService: publishingService,
		sessionManager:    sessionManager,
		validator:         validator,
		registry:          registry,
		eventBus:          eventBus,
		logger:            logger,
	}
}

// publishEvent emits a lifecycle event after a successful mutation. Failures
// are logged, never surfaced: the mutation already happened.
func (h *APIHandlers) publishEvent(c fiber.Ctx, key string, event eventbus.Event) {
	if h.eventBus == nil {
		return
	}

	if err := h.eventBus.Publish(c.Context(), key, event); err != nil {
		h.logger.ErrorContext(c.Context(), "Failed to publish event",
			"event_type", event.GetType(), "error", err)
	}
}

func (h *APIHandlers) GetApps(c fiber.Ctx) error {
	req, err := h.parseListAppsRequest(c)
	if err != nil {
		return badRequest(c, "Invalid query parameters: "+err.Error())
	}

	result, err := h.appService.ListApps(c.Context(), req)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"apps":          result.Apps,
		"total_count":   result.TotalCount,
		"has_next_page": result.HasNextPage,
		"pagination": fiber.Map{
			"limit":  req.Limit,
			"offset": req.Offset,
		},
		"sorting": fiber.Map{
			"sort_by":    req.SortBy,
			"sort_order": req.SortOrder,
		},
	})
}

// parseListAppsRequest parses and validates query parameters for listing apps.
func (h *APIHandlers) parseListAppsRequest(c fiber.Ctx) (*services.ListAppsRequest, error) {
	req := &services.ListAppsRequest{}

	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, err
		}

		req.Limit = limit
	}

	if offsetStr := c.Query("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			return nil, err
		}

		req.Offset = offset
	}

	req.OwnerID = c.Query("owner_id")

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.AppStatus(statusStr)
		req.Status = &status
	}

	req.SortBy = c.Query("sort_by")
	req.SortOrder = c.Query("sort_order")

	if includeComponentsStr := c.Query("include_components"); includeComponentsStr != "" {
		includeComponents, err := strconv.ParseBool(includeComponentsStr)
		if err != nil {
			return nil, err
		}

		req.IncludeComponents = includeComponents
	}

	if includeConnectionsStr := c.Query("include_connections"); includeConnectionsStr != "" {
		includeConnections, err := strconv.ParseBool(includeConnectionsStr)
		if err != nil {
			return nil, err
		}

		req.IncludeConnections = includeConnections
	}

	return req, nil
}

func (h *APIHandlers) GetApp(c fiber.Ctx) error {
	id := c.Params("id")

	if id == "" {
		return badRequest(c, "App ID is required")
	}

	app, err := h.appService.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsAppNotFound(err) {
			return notFound(c, "App not found")
		}

		return internalError(c, err)
	}

	return c.JSON(app)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	registryCheck, regOk := h.registry.HealthCheck()
	repositoryCheck, repOk := h.appService.HealthCheck(c.Context())

	status := "unhealthy"
	message := "Builder API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if regOk && repOk {
		status = "healthy"
		message = "Builder API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"catalog":    registryCheck,
			"repository": repositoryCheck,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) CreateApp(c fiber.Ctx) error {
	var req CreateAppRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	app := &models.App{
		Name:        req.Name,
		Description: req.Description,
		Metadata:    req.Metadata,
		Owner:       req.Owner,
		Components:  []*models.PlacedComponent{}, // Empty - components placed separately
		Connections: []*models.Connection{},      // Empty - connections wired separately
	}

	created, err := h.appService.Create(c.Context(), app)
	if err != nil {
		return handleServiceError(c, err)
	}

	h.publishEvent(c, created.ID, events.NewAppCreated(created.ID, created.Name, created.AppGroupID, created.Owner))

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateApp(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "App ID is required")
	}

	var req UpdateAppRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	existing, err := h.appService.FetchByID(c.Context(), id)
	if err != nil {
		if persistence.IsAppNotFound(err) {
			return notFound(c, "App not found")
		}

		return internalError(c, err)
	}

	// Apply partial updates (components and connections managed separately)
	if req.Name != nil {
		existing.Name = *req.Name
	}

	if req.Description != nil {
		existing.Description = *req.Description
	}

	if req.Metadata != nil {
		existing.Metadata = req.Metadata
	}

	updated, err := h.appService.Update(c.Context(), id, existing)
	if err != nil {
		return handleServiceError(c, err)
	}

	h.publishEvent(c, updated.ID, events.NewAppUpdated(updated.ID, updated.Name))

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteApp(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "App ID is required")
	}

	err := h.appService.Delete(c.Context(), id)
	if err != nil {
		if persistence.IsAppNotFound(err) {
			return notFound(c, "App not found")
		}

		return internalError(c, err)
	}

	h.publishEvent(c, id, events.NewAppDeleted(id))

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) PublishApp(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "App ID is required")
	}

	published, err := h.publishingService.PublishApp(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	h.publishEvent(c, published.ID,
		events.NewAppPublished(published.ID, published.AppGroupID, len(published.Components)))

	return c.JSON(published)
}

func (h *APIHandlers) CreateDraftFromPublished(c fiber.Ctx) error {
	groupID := c.Params("groupId")
	if groupID == "" {
		return badRequest(c, "App group ID is required")
	}

	draft, err := h.publishingService.CreateDraftFromPublished(c.Context(), groupID)
	if err != nil {
		if persistence.IsPublishedAppNotFound(err) {
			return notFound(c, "Published app not found")
		}

		return internalError(c, err)
	}

	h.publishEvent(c, draft.ID, events.NewDraftCreated(draft.ID, draft.AppGroupID, groupID))

	return c.Status(fiber.StatusCreated).JSON(draft)
}

func (h *APIHandlers) GetPublishedApp(c fiber.Ctx) error {
	groupID := c.Params("groupId")
	if groupID == "" {
		return badRequest(c, "App group ID is required")
	}

	app, err := h.publishingService.GetPublishedApp(c.Context(), groupID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(app)
}
