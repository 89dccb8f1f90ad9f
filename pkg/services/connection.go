package services

import (
	"context"
	"fmt"

	"github.com/agp-labs/builder/pkg/catalog"
	"github.com/agp-labs/builder/pkg/models"
	"github.com/agp-labs/builder/pkg/persistence"
	"github.com/google/uuid"
)

// CreateConnectionRequest represents the request to connect an output port to
// an input port. Ports use the "nodeID:portName" form.
type CreateConnectionRequest struct {
	SourcePort string
	TargetPort string
}

// Connection handles connection-related business operations.
type Connection struct {
	persistence persistence.Persistence
	registry    *catalog.Registry
}

// NewConnection creates a new connection service.
func NewConnection(persistence persistence.Persistence, registry *catalog.Registry) *Connection {
	return &Connection{
		persistence: persistence,
		registry:    registry,
	}
}

// CreateConnection wires an output port to an input port in the specified
// app. Both endpoints must resolve to placed components carrying the named
// port, and a component cannot connect to itself.
func (c *Connection) CreateConnection(ctx context.Context, appID string, req *CreateConnectionRequest) (*models.Connection, error) {
	app, err := requireDraft(ctx, c.persistence, appID)
	if err != nil {
		return nil, err
	}

	connection := &models.Connection{
		ID:         uuid.New().String(),
		SourcePort: req.SourcePort,
		TargetPort: req.TargetPort,
	}

	if err := c.validateConnection(app, connection); err != nil {
		return nil, err
	}

	err = c.persistence.ConnectionRepository().SaveConnection(ctx, appID, connection)
	if err != nil {
		if persistence.IsInvalidPortFormat(err) {
			return nil, ErrInvalidConnectionData
		}

		return nil, fmt.Errorf("failed to save connection: %w", err)
	}

	return connection, nil
}

// GetConnection retrieves a specific connection from the specified app.
func (c *Connection) GetConnection(ctx context.Context, appID, connectionID string) (*models.Connection, error) {
	connection, err := c.persistence.ConnectionRepository().GetConnectionByApp(ctx, appID, connectionID)
	if err != nil {
		if persistence.IsConnectionNotFound(err) {
			return nil, persistence.ErrConnectionNotFound
		}

		return nil, err
	}

	if connection == nil {
		return nil, persistence.ErrConnectionNotFound
	}

	return connection, nil
}

// ListConnections retrieves all connections of the specified app.
func (c *Connection) ListConnections(ctx context.Context, appID string) ([]*models.Connection, error) {
	return c.persistence.ConnectionRepository().GetConnectionsByApp(ctx, appID)
}

// DeleteConnection deletes a connection from the specified app. The workflow
// editor's midpoint handle click lands here.
func (c *Connection) DeleteConnection(ctx context.Context, appID, connectionID string) error {
	if _, err := requireDraft(ctx, c.persistence, appID); err != nil {
		return err
	}

	err := c.persistence.ConnectionRepository().DeleteConnection(ctx, appID, connectionID)
	if err != nil {
		if persistence.IsConnectionNotFound(err) {
			return persistence.ErrConnectionNotFound
		}

		return fmt.Errorf("failed to delete connection: %w", err)
	}

	return nil
}

// validateConnection checks that both endpoints resolve to components of the
// app and that the named ports exist for their component types.
func (c *Connection) validateConnection(app *models.App, connection *models.Connection) error {
	sourceNode, sourcePortName, ok := models.ParsePortID(connection.SourcePort)
	if !ok {
		return NewValidationError(
			"CreateConnection",
			"INVALID_SOURCE_PORT",
			fmt.Sprintf("source port %q is not in node:port form", connection.SourcePort),
			ErrInvalidConnectionData,
		)
	}

	targetNode, targetPortName, ok := models.ParsePortID(connection.TargetPort)
	if !ok {
		return NewValidationError(
			"CreateConnection",
			"INVALID_TARGET_PORT",
			fmt.Sprintf("target port %q is not in node:port form", connection.TargetPort),
			ErrInvalidConnectionData,
		)
	}

	if sourceNode == targetNode {
		return ErrSelfLoopConnection
	}

	source, ok := app.ComponentByID(sourceNode)
	if !ok {
		return NewValidationError(
			"CreateConnection",
			"COMPONENT_NOT_FOUND",
			fmt.Sprintf("source component %q not found", sourceNode),
			ErrComponentNotFound,
		)
	}

	target, ok := app.ComponentByID(targetNode)
	if !ok {
		return NewValidationError(
			"CreateConnection",
			"COMPONENT_NOT_FOUND",
			fmt.Sprintf("target component %q not found", targetNode),
			ErrComponentNotFound,
		)
	}

	if !catalog.HasOutputPort(source.Type, sourcePortName) {
		return NewValidationError(
			"CreateConnection",
			"UNKNOWN_PORT",
			fmt.Sprintf("component type %q has no output port %q", source.Type, sourcePortName),
			ErrUnknownPort,
		)
	}

	if !catalog.HasInputPort(target.Type, targetPortName) {
		return NewValidationError(
			"CreateConnection",
			"UNKNOWN_PORT",
			fmt.Sprintf("component type %q has no input port %q", target.Type, targetPortName),
			ErrUnknownPort,
		)
	}

	return nil
}
