package services

import (
	"context"
	"fmt"

	"github.com/agp-labs/builder/pkg/catalog"
	"github.com/agp-labs/builder/pkg/models"
	"github.com/agp-labs/builder/pkg/persistence"
	"github.com/google/uuid"
)

// CreateComponentRequest represents the request to place a new component on
// the canvas. Position is in canvas coordinates; size and props default from
// the component library when omitted.
type CreateComponentRequest struct {
	Type   string
	Name   string
	X      float64
	Y      float64
	Width  float64
	Height float64
	Props  map[string]any
}

// UpdateComponentRequest represents the request to update a placed component.
type UpdateComponentRequest struct {
	Name   string
	X      float64
	Y      float64
	Width  float64
	Height float64
	Props  map[string]any
}

// Component handles component-related business operations.
type Component struct {
	persistence persistence.Persistence
	registry    *catalog.Registry
}

// NewComponent creates a new component service.
func NewComponent(persistence persistence.Persistence, registry *catalog.Registry) *Component {
	return &Component{
		persistence: persistence,
		registry:    registry,
	}
}

// CreateComponent places a new component in the specified app.
func (c *Component) CreateComponent(ctx context.Context, appID string, req *CreateComponentRequest) (*models.PlacedComponent, error) {
	if _, err := requireDraft(ctx, c.persistence, appID); err != nil {
		return nil, err
	}

	componentType := models.ComponentType(req.Type)
	if !componentType.IsValid() {
		return nil, NewValidationError(
			"CreateComponent",
			"UNKNOWN_COMPONENT_TYPE",
			fmt.Sprintf("unknown component type %q", req.Type),
			ErrUnknownComponentType,
		)
	}

	component, err := c.registry.NewComponent(uuid.New().String(), componentType, req.X, req.Y)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate component: %w", err)
	}

	if req.Name != "" {
		component.Name = req.Name
	}

	if req.Width > 0 {
		component.Width = req.Width
	}

	if req.Height > 0 {
		component.Height = req.Height
	}

	if req.Props != nil {
		component.Props = req.Props
	}

	component.ClampGeometry()

	if err := c.registry.ValidateProps(componentType, component.Props); err != nil {
		return nil, NewValidationError("CreateComponent", "INVALID_PROPS", err.Error(), ErrInvalidProps)
	}

	err = c.persistence.ComponentRepository().SaveComponent(ctx, appID, component)
	if err != nil {
		return nil, fmt.Errorf("failed to save component: %w", err)
	}

	return component, nil
}

// GetComponent retrieves a specific component from the specified app.
func (c *Component) GetComponent(ctx context.Context, appID, componentID string) (*models.PlacedComponent, error) {
	component, err := c.persistence.ComponentRepository().GetComponentByApp(ctx, appID, componentID)
	if err != nil {
		if persistence.IsComponentNotFound(err) {
			return nil, ErrComponentNotFound
		}

		return nil, err
	}

	if component == nil {
		return nil, ErrComponentNotFound
	}

	return component, nil
}

// ListComponents retrieves all components of the specified app.
func (c *Component) ListComponents(ctx context.Context, appID string) ([]*models.PlacedComponent, error) {
	return c.persistence.ComponentRepository().GetComponentsByApp(ctx, appID)
}

// UpdateComponent updates a placed component in the specified app. The
// component type is immutable; geometry is clamped and props are validated
// against the library schema.
func (c *Component) UpdateComponent(ctx context.Context, appID, componentID string, req *UpdateComponentRequest) (*models.PlacedComponent, error) {
	if _, err := requireDraft(ctx, c.persistence, appID); err != nil {
		return nil, err
	}

	existing, err := c.GetComponent(ctx, appID, componentID)
	if err != nil {
		return nil, err
	}

	existing.Name = req.Name
	existing.X = req.X
	existing.Y = req.Y
	existing.Width = req.Width
	existing.Height = req.Height
	existing.Props = req.Props

	if existing.Props == nil {
		existing.Props = make(map[string]any)
	}

	existing.ClampGeometry()

	if err := c.registry.ValidateProps(existing.Type, existing.Props); err != nil {
		return nil, NewValidationError("UpdateComponent", "INVALID_PROPS", err.Error(), ErrInvalidProps)
	}

	err = c.persistence.ComponentRepository().SaveComponent(ctx, appID, existing)
	if err != nil {
		return nil, fmt.Errorf("failed to update component: %w", err)
	}

	return existing, nil
}

// MoveComponent updates only the position of a placed component. Drag commits
// from the canvas editor land here.
func (c *Component) MoveComponent(ctx context.Context, appID, componentID string, x, y float64) (*models.PlacedComponent, error) {
	if _, err := requireDraft(ctx, c.persistence, appID); err != nil {
		return nil, err
	}

	existing, err := c.GetComponent(ctx, appID, componentID)
	if err != nil {
		return nil, err
	}

	existing.X = x
	existing.Y = y
	existing.ClampGeometry()

	err = c.persistence.ComponentRepository().SaveComponent(ctx, appID, existing)
	if err != nil {
		return nil, fmt.Errorf("failed to move component: %w", err)
	}

	return existing, nil
}

// DeleteComponent deletes a component and all its associated connections from
// the specified app.
func (c *Component) DeleteComponent(ctx context.Context, appID, componentID string) error {
	if _, err := requireDraft(ctx, c.persistence, appID); err != nil {
		return err
	}

	if _, err := c.GetComponent(ctx, appID, componentID); err != nil {
		return err
	}

	err := c.persistence.ComponentRepository().DeleteComponentWithConnections(ctx, appID, componentID)
	if err != nil {
		return fmt.Errorf("failed to delete component: %w", err)
	}

	return nil
}
