// Package catalog provides the component library: the static registry of
// component types the builder can place, their default geometry and props,
// and the ports synthesized for each type in the workflow view.
package catalog

import (
	"fmt"
	"sort"

	"github.com/agp-labs/builder/pkg/models"
)

// Definition describes one entry of the component library.
type Definition struct {
	Type          models.ComponentType `json:"type"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	DefaultWidth  float64              `json:"default_width"`
	DefaultHeight float64              `json:"default_height"`
	DefaultProps  map[string]any       `json:"default_props"`
	PropsSchema   map[string]any       `json:"props_schema,omitempty"`
}

// Registry holds the registered component definitions.
type Registry struct {
	definitions map[models.ComponentType]Definition
}

// NewRegistry creates an empty component registry.
func NewRegistry() *Registry {
	return &Registry{
		definitions: make(map[models.ComponentType]Definition),
	}
}

// Register adds or replaces a component definition.
func (r *Registry) Register(def Definition) {
	r.definitions[def.Type] = def
}

// Get retrieves a component definition by type.
func (r *Registry) Get(componentType models.ComponentType) (Definition, bool) {
	def, ok := r.definitions[componentType]

	return def, ok
}

// All returns every registered definition, sorted by type for stable output.
func (r *Registry) All() []Definition {
	definitions := make([]Definition, 0, len(r.definitions))
	for _, def := range r.definitions {
		definitions = append(definitions, def)
	}

	sort.Slice(definitions, func(i, j int) bool {
		return definitions[i].Type < definitions[j].Type
	})

	return definitions
}

// HealthCheck reports whether the registry carries the full component library.
func (r *Registry) HealthCheck() (string, bool) {
	if len(r.definitions) == 0 {
		return "Component registry is empty", false
	}

	for _, known := range models.KnownComponentTypes() {
		if _, ok := r.definitions[known]; !ok {
			return fmt.Sprintf("Component registry is missing type %q", known), false
		}
	}

	return fmt.Sprintf("Component registry is healthy (%d types)", len(r.definitions)), true
}

// NewComponent instantiates a placed component from library defaults. The
// caller supplies the ID and position; size and props come from the definition.
func (r *Registry) NewComponent(id string, componentType models.ComponentType, x, y float64) (*models.PlacedComponent, error) {
	def, ok := r.Get(componentType)
	if !ok {
		return nil, fmt.Errorf("component type %q not registered", componentType)
	}

	props := make(map[string]any, len(def.DefaultProps))
	for k, v := range def.DefaultProps {
		props[k] = v
	}

	component := &models.PlacedComponent{
		ID:     id,
		Type:   componentType,
		Name:   def.Name,
		X:      x,
		Y:      y,
		Width:  def.DefaultWidth,
		Height: def.DefaultHeight,
		Props:  props,
	}
	component.ClampGeometry()

	return component, nil
}
