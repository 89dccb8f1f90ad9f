package web

import (
	"github.com/agp-labs/builder/pkg/events"
	"github.com/agp-labs/builder/pkg/graph"
	"github.com/agp-labs/builder/pkg/services"
	"github.com/gofiber/fiber/v3"
)

func (h *APIHandlers) GetConnections(c fiber.Ctx) error {
	appID := c.Params("id")
	if appID == "" {
		return badRequest(c, "App ID is required")
	}

	connections, err := h.connectionService.ListConnections(c.Context(), appID)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"connections": connections})
}

func (h *APIHandlers) CreateConnection(c fiber.Ctx) error {
	appID := c.Params("id")
	if appID == "" {
		return badRequest(c, "App ID is required")
	}

	var req CreateConnectionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	connection, err := h.connectionService.CreateConnection(c.Context(), appID, &services.CreateConnectionRequest{
		SourcePort: req.SourcePort,
		TargetPort: req.TargetPort,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	h.publishEvent(c, appID,
		events.NewConnectionCreated(appID, connection.ID, connection.SourcePort, connection.TargetPort))

	return c.Status(fiber.StatusCreated).JSON(connection)
}

func (h *APIHandlers) DeleteConnection(c fiber.Ctx) error {
	appID := c.Params("id")
	connectionID := c.Params("connectionId")

	if appID == "" || connectionID == "" {
		return badRequest(c, "App ID and connection ID are required")
	}

	err := h.connectionService.DeleteConnection(c.Context(), appID, connectionID)
	if err != nil {
		return handleServiceError(c, err)
	}

	h.publishEvent(c, appID, events.NewConnectionDeleted(appID, connectionID))

	return c.SendStatus(fiber.StatusNoContent)
}

// GetWorkflowView renders the workflow projection of an app: nodes with
// synthesized ports, persisted connections, and the bezier path geometry the
// frontend draws edges with.
func (h *APIHandlers) GetWorkflowView(c fiber.Ctx) error {
	appID := c.Params("id")
	if appID == "" {
		return badRequest(c, "App ID is required")
	}

	app, err := h.appService.FetchByID(c.Context(), appID)
	if err != nil {
		return handleServiceError(c, err)
	}

	editor := graph.NewEditor(app.Components, app.Connections)

	nodes := make([]NodeResponse, 0, len(app.Components))
	for _, node := range editor.Nodes() {
		nodes = append(nodes, TransformNodeResponse(node))
	}

	// Paths follow connection order so the response shape is stable.
	paths := make([]ConnectionPathResponse, 0, len(app.Connections))

	for _, conn := range editor.Connections() {
		if path, ok := editor.ConnectionPath(conn); ok {
			paths = append(paths, ConnectionPathResponse{
				ConnectionID: conn.ID,
				Curve:        path.Curve,
				Midpoint:     path.Midpoint,
			})
		}
	}

	return c.JSON(fiber.Map{
		"nodes":       nodes,
		"connections": editor.Connections(),
		"paths":       paths,
	})
}
