package web

import (
	"github.com/agp-labs/builder/pkg/events"
	"github.com/agp-labs/builder/pkg/services"
	"github.com/gofiber/fiber/v3"
)

func (h *APIHandlers) GetComponents(c fiber.Ctx) error {
	appID := c.Params("id")
	if appID == "" {
		return badRequest(c, "App ID is required")
	}

	components, err := h.componentService.ListComponents(c.Context(), appID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"components": components})
}

func (h *APIHandlers) GetComponent(c fiber.Ctx) error {
	appID := c.Params("id")
	componentID := c.Params("componentId")

	if appID == "" || componentID == "" {
		return badRequest(c, "App ID and component ID are required")
	}

	component, err := h.componentService.GetComponent(c.Context(), appID, componentID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(component)
}

func (h *APIHandlers) CreateComponent(c fiber.Ctx) error {
	appID := c.Params("id")
	if appID == "" {
		return badRequest(c, "App ID is required")
	}

	var req CreateComponentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	component, err := h.componentService.CreateComponent(c.Context(), appID, &services.CreateComponentRequest{
		Type:   req.Type,
		Name:   req.Name,
		X:      req.X,
		Y:      req.Y,
		Width:  req.Width,
		Height: req.Height,
		Props:  req.Props,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	h.publishEvent(c, appID,
		events.NewComponentCreated(appID, component.ID, string(component.Type), component.X, component.Y))

	return c.Status(fiber.StatusCreated).JSON(component)
}

func (h *APIHandlers) UpdateComponent(c fiber.Ctx) error {
	appID := c.Params("id")
	componentID := c.Params("componentId")

	if appID == "" || componentID == "" {
		return badRequest(c, "App ID and component ID are required")
	}

	var req UpdateComponentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	component, err := h.componentService.UpdateComponent(c.Context(), appID, componentID, &services.UpdateComponentRequest{
		Name:   req.Name,
		X:      req.X,
		Y:      req.Y,
		Width:  req.Width,
		Height: req.Height,
		Props:  req.Props,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	h.publishEvent(c, appID, events.NewComponentUpdated(appID, component.ID))

	return c.JSON(component)
}

func (h *APIHandlers) MoveComponent(c fiber.Ctx) error {
	appID := c.Params("id")
	componentID := c.Params("componentId")

	if appID == "" || componentID == "" {
		return badRequest(c, "App ID and component ID are required")
	}

	var req MoveComponentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	component, err := h.componentService.MoveComponent(c.Context(), appID, componentID, req.X, req.Y)
	if err != nil {
		return handleServiceError(c, err)
	}

	h.publishEvent(c, appID, events.NewComponentMoved(appID, component.ID, component.X, component.Y))

	return c.JSON(component)
}

func (h *APIHandlers) DeleteComponent(c fiber.Ctx) error {
	appID := c.Params("id")
	componentID := c.Params("componentId")

	if appID == "" || componentID == "" {
		return badRequest(c, "App ID and component ID are required")
	}

	err := h.componentService.DeleteComponent(c.Context(), appID, componentID)
	if err != nil {
		return handleServiceError(c, err)
	}

	h.publishEvent(c, appID, events.NewComponentDeleted(appID, componentID))

	return c.SendStatus(fiber.StatusNoContent)
}
