// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"time"

	"github.com/agp-labs/builder/pkg/models"
	"github.com/google/uuid"
)

// CreateTestComponent creates a test PlacedComponent with default values that can be overridden.
func CreateTestComponent(overrides ...func(*models.PlacedComponent)) *models.PlacedComponent {
	component := &models.PlacedComponent{
		ID:     uuid.New().String(),
		Type:   models.ComponentTypeButton,
		Name:   "Test Button",
		X:      100,
		Y:      200,
		Width:  120,
		Height: 40,
		Props:  map[string]any{"text": "Click me", "variant": "primary"},
	}

	for _, override := range overrides {
		override(component)
	}

	return component
}

// WithType sets the component type.
func WithType(componentType models.ComponentType) func(*models.PlacedComponent) {
	return func(c *models.PlacedComponent) {
		c.Type = componentType
	}
}

// WithName sets the component name.
func WithName(name string) func(*models.PlacedComponent) {
	return func(c *models.PlacedComponent) {
		c.Name = name
	}
}

// WithPosition sets the component position.
func WithPosition(x, y float64) func(*models.PlacedComponent) {
	return func(c *models.PlacedComponent) {
		c.X = x
		c.Y = y
	}
}

// WithSize sets the component size.
func WithSize(width, height float64) func(*models.PlacedComponent) {
	return func(c *models.PlacedComponent) {
		c.Width = width
		c.Height = height
	}
}

// WithProps sets the component props.
func WithProps(props map[string]any) func(*models.PlacedComponent) {
	return func(c *models.PlacedComponent) {
		c.Props = props
	}
}

// CreateTestConnection creates a test Connection between two component output/input ports.
func CreateTestConnection(sourceNode, sourcePort, targetNode, targetPort string) *models.Connection {
	return &models.Connection{
		ID:         uuid.New().String(),
		SourcePort: models.MakePortID(sourceNode, sourcePort),
		TargetPort: models.MakePortID(targetNode, targetPort),
	}
}

// CreateTestApp creates a test draft App with default values that can be overridden.
func CreateTestApp(overrides ...func(*models.App)) *models.App {
	now := time.Now().UTC()
	app := &models.App{
		ID:          uuid.New().String(),
		Name:        "Test App",
		Description: "An app for testing",
		Status:      models.AppStatusDraft,
		AppGroupID:  uuid.New().String(),
		Components:  []*models.PlacedComponent{},
		Connections: []*models.Connection{},
		Owner:       "test-user",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	for _, override := range overrides {
		override(app)
	}

	return app
}

// WithComponents sets the app's components.
func WithComponents(components ...*models.PlacedComponent) func(*models.App) {
	return func(a *models.App) {
		a.Components = components
	}
}

// WithConnections sets the app's connections.
func WithConnections(connections ...*models.Connection) func(*models.App) {
	return func(a *models.App) {
		a.Connections = connections
	}
}

// WithStatus sets the app's status.
func WithStatus(status models.AppStatus) func(*models.App) {
	return func(a *models.App) {
		a.Status = status
	}
}
