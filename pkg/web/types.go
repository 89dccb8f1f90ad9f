// Package web provides HTTP request and response types for the builder API.
package web

import (
	"github.com/agp-labs/builder/pkg/geo"
	"github.com/agp-labs/builder/pkg/models"
)

// ErrorResponse represents a standardized API error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// CreateAppRequest represents the request body for creating a new app.
type CreateAppRequest struct {
	Name        string         `json:"name"               validate:"required,min=3"`
	Description string         `json:"description"        validate:"required"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	Owner       string         `json:"owner"              validate:"required"`
}

// UpdateAppRequest represents the request body for updating an existing app.
// All fields are optional to support partial updates.
type UpdateAppRequest struct {
	Name        *string        `json:"name,omitempty"        validate:"omitempty,min=3"`
	Description *string        `json:"description,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// CreateComponentRequest represents the request body for placing a component.
type CreateComponentRequest struct {
	Type   string         `json:"type"             validate:"required"`
	Name   string         `json:"name,omitempty"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Width  float64        `json:"width,omitempty"  validate:"omitempty,min=10"`
	Height float64        `json:"height,omitempty" validate:"omitempty,min=10"`
	Props  map[string]any `json:"props,omitempty"`
}

// UpdateComponentRequest represents the request body for updating a placed
// component. Type cannot be changed; only name, geometry and props.
type UpdateComponentRequest struct {
	Name   string         `json:"name"   validate:"required,min=1"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Width  float64        `json:"width"  validate:"min=10"`
	Height float64        `json:"height" validate:"min=10"`
	Props  map[string]any `json:"props"`
}

// MoveComponentRequest represents the request body for a drag-move commit.
type MoveComponentRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CreateConnectionRequest represents the request body for wiring two ports.
// Ports use the "nodeID:portName" form.
type CreateConnectionRequest struct {
	SourcePort string `json:"source_port" validate:"required"`
	TargetPort string `json:"target_port" validate:"required"`
}

// OpenSessionRequest represents the request body for opening an editing session.
type OpenSessionRequest struct {
	AppID string `json:"app_id" validate:"required"`
	Owner string `json:"owner,omitempty"`
}

// NodeResponse represents a workflow view node synthesized from a placed component.
type NodeResponse struct {
	ID        string              `json:"id"`
	Type      string              `json:"type"`
	Name      string              `json:"name"`
	PositionX float64             `json:"position_x"`
	PositionY float64             `json:"position_y"`
	Inputs    []models.InputPort  `json:"inputs"`
	Outputs   []models.OutputPort `json:"outputs"`
}

// TransformNodeResponse transforms a WorkflowNode into a NodeResponse.
func TransformNodeResponse(node *models.WorkflowNode) NodeResponse {
	return NodeResponse{
		ID:        node.ID,
		Type:      string(node.Type),
		Name:      node.Name,
		PositionX: node.PositionX,
		PositionY: node.PositionY,
		Inputs:    node.Inputs,
		Outputs:   node.Outputs,
	}
}

// ConnectionPathResponse carries the renderable edge geometry of one
// connection in the workflow view.
type ConnectionPathResponse struct {
	ConnectionID string          `json:"connection_id"`
	Curve        geo.CubicBezier `json:"curve"`
	Midpoint     geo.Point       `json:"midpoint"`
}
