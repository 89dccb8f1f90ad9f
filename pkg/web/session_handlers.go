package web

import (
	"github.com/agp-labs/builder/pkg/canvas"
	"github.com/agp-labs/builder/pkg/events"
	"github.com/agp-labs/builder/pkg/geo"
	"github.com/agp-labs/builder/pkg/services"
	"github.com/agp-labs/builder/pkg/sessions"
	"github.com/gofiber/fiber/v3"
)

// PointerEventRequest carries one canvas pointer event in client coordinates.
type PointerEventRequest struct {
	Phase string  `json:"phase" validate:"required,oneof=down move up"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// ZoomRequest carries either an explicit zoom button press or a wheel event.
type ZoomRequest struct {
	Direction string  `json:"direction,omitempty" validate:"omitempty,oneof=in out"`
	DeltaY    float64 `json:"delta_y,omitempty"`
	Ctrl      bool    `json:"ctrl,omitempty"`
}

// ResizeRequest arms a drag-resize from a corner handle.
type ResizeRequest struct {
	Corner string  `json:"corner" validate:"required,oneof=nw ne sw se"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// ConnectionGestureRequest names a port endpoint during the connection gesture.
type ConnectionGestureRequest struct {
	NodeID string `json:"node_id" validate:"required"`
	Port   string `json:"port"    validate:"required"`
}

var cornerNames = map[string]canvas.Corner{
	"nw": canvas.CornerNW,
	"ne": canvas.CornerNE,
	"sw": canvas.CornerSW,
	"se": canvas.CornerSE,
}

func (h *APIHandlers) OpenSession(c fiber.Ctx) error {
	var req OpenSessionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	editor, err := h.sessionManager.Open(c.Context(), req.AppID, req.Owner)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(editor.Session)
}

func (h *APIHandlers) GetSession(c fiber.Ctx) error {
	editor, err := h.sessionManager.Get(c.Context(), c.Params("sessionId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(sessionState(editor.Session.ID, editor))
}

func (h *APIHandlers) CloseSession(c fiber.Ctx) error {
	err := h.sessionManager.Close(c.Context(), c.Params("sessionId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) FlushSession(c fiber.Ctx) error {
	err := h.sessionManager.Flush(c.Context(), c.Params("sessionId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// SessionPointerEvent routes a pointer event into the session's canvas editor.
func (h *APIHandlers) SessionPointerEvent(c fiber.Ctx) error {
	editor, err := h.sessionManager.Get(c.Context(), c.Params("sessionId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	var req PointerEventRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	point := geo.Point{X: req.X, Y: req.Y}

	switch req.Phase {
	case "down":
		editor.Canvas.PointerDown(point)
	case "move":
		editor.Canvas.PointerMove(point)
	case "up":
		editor.Canvas.PointerUp(point)
	}

	return c.JSON(sessionState(editor.Session.ID, editor))
}

// SessionZoom applies a zoom button press or a ctrl+wheel event.
func (h *APIHandlers) SessionZoom(c fiber.Ctx) error {
	editor, err := h.sessionManager.Get(c.Context(), c.Params("sessionId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	var req ZoomRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	switch req.Direction {
	case "in":
		editor.Canvas.ZoomIn()
	case "out":
		editor.Canvas.ZoomOut()
	default:
		editor.Canvas.Wheel(req.DeltaY, req.Ctrl)
	}

	return c.JSON(fiber.Map{"scale": editor.Canvas.Scale()})
}

// SessionBeginResize arms a drag-resize on the selected component.
func (h *APIHandlers) SessionBeginResize(c fiber.Ctx) error {
	editor, err := h.sessionManager.Get(c.Context(), c.Params("sessionId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	var req ResizeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	editor.Canvas.BeginResize(cornerNames[req.Corner], geo.Point{X: req.X, Y: req.Y})

	return c.JSON(sessionState(editor.Session.ID, editor))
}

// SessionDeleteSelected removes the selected component from the canvas. The
// deletion reaches storage on the next flush.
func (h *APIHandlers) SessionDeleteSelected(c fiber.Ctx) error {
	editor, err := h.sessionManager.Get(c.Context(), c.Params("sessionId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	editor.Canvas.DeleteSelected()

	return c.JSON(sessionState(editor.Session.ID, editor))
}

// SessionArmConnection starts the connection gesture from an output port.
func (h *APIHandlers) SessionArmConnection(c fiber.Ctx) error {
	editor, err := h.sessionManager.Get(c.Context(), c.Params("sessionId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	var req ConnectionGestureRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if !editor.Graph.ArmConnection(req.NodeID, req.Port) {
		return badRequest(c, "Output port not found")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// SessionCommitConnection completes the gesture on an input port and persists
// the new connection.
func (h *APIHandlers) SessionCommitConnection(c fiber.Ctx) error {
	editor, err := h.sessionManager.Get(c.Context(), c.Params("sessionId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	var req ConnectionGestureRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	conn, ok := editor.Graph.CommitConnection(req.NodeID, req.Port)
	if !ok {
		return badRequest(c, "Connection rejected")
	}

	created, err := h.connectionService.CreateConnection(c.Context(), editor.Session.AppID, &services.CreateConnectionRequest{
		SourcePort: conn.SourcePort,
		TargetPort: conn.TargetPort,
	})
	if err != nil {
		// Roll back the editor's optimistic append
		editor.Graph.DeleteConnection(conn.ID)

		return handleServiceError(c, err)
	}

	// Swap the editor's provisional ID for the persisted one
	editor.Graph.DeleteConnection(conn.ID)
	editor.Graph.AddConnection(created)

	h.publishEvent(c, editor.Session.AppID,
		events.NewConnectionCreated(editor.Session.AppID, created.ID, created.SourcePort, created.TargetPort))

	return c.Status(fiber.StatusCreated).JSON(created)
}

// SessionClickHandle deletes the connection whose midpoint handle contains
// the clicked point, both in the live editor and in storage.
func (h *APIHandlers) SessionClickHandle(c fiber.Ctx) error {
	editor, err := h.sessionManager.Get(c.Context(), c.Params("sessionId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	var req PointerEventRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	connectionID, ok := editor.Graph.ClickHandle(geo.Point{X: req.X, Y: req.Y})
	if !ok {
		return c.SendStatus(fiber.StatusNoContent)
	}

	if err := h.connectionService.DeleteConnection(c.Context(), editor.Session.AppID, connectionID); err != nil {
		return handleServiceError(c, err)
	}

	h.publishEvent(c, editor.Session.AppID, events.NewConnectionDeleted(editor.Session.AppID, connectionID))

	return c.JSON(fiber.Map{"deleted": connectionID})
}

// SessionCancelConnection releases the gesture without creating an edge.
func (h *APIHandlers) SessionCancelConnection(c fiber.Ctx) error {
	editor, err := h.sessionManager.Get(c.Context(), c.Params("sessionId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	editor.Graph.CancelConnection()

	return c.SendStatus(fiber.StatusNoContent)
}

// sessionState snapshots the live editor for the frontend: component list,
// selection, zoom, and the temporary connection line when one is armed.
func sessionState(sessionID string, editor *sessions.EditorSession) fiber.Map {
	state := fiber.Map{
		"session_id": sessionID,
		"app_id":     editor.Session.AppID,
		"components": editor.Canvas.Components(),
		"scale":      editor.Canvas.Scale(),
		"dragging":   editor.Canvas.Dragging(),
		"resizing":   editor.Canvas.Resizing(),
	}

	if selected := editor.Canvas.Selected(); selected != nil {
		state["selected"] = selected.ID
	}

	if start, end, ok := editor.Graph.TempLine(); ok {
		state["temp_line"] = fiber.Map{
			"start": start,
			"end":   end,
		}
	}

	return state
}
