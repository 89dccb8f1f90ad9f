// Package models defines the core domain models for the visual app builder.
package models

// ComponentType identifies an entry in the component library.
type ComponentType string

const (
	ComponentTypeButton          ComponentType = "button"
	ComponentTypeText            ComponentType = "text"
	ComponentTypeInput           ComponentType = "input"
	ComponentTypeImage           ComponentType = "image"
	ComponentTypeContainer       ComponentType = "container"
	ComponentTypeCard            ComponentType = "card"
	ComponentTypeGrid            ComponentType = "grid"
	ComponentTypeTable           ComponentType = "table"
	ComponentTypeChart           ComponentType = "chart"
	ComponentTypeList            ComponentType = "list"
	ComponentTypeChatbot         ComponentType = "chatbot"
	ComponentTypeTextGenerator   ComponentType = "textGenerator"
	ComponentTypeKnowledgeSearch ComponentType = "knowledgeSearch"
)

// KnownComponentTypes lists every type the component library ships with.
func KnownComponentTypes() []ComponentType {
	return []ComponentType{
		ComponentTypeButton,
		ComponentTypeText,
		ComponentTypeInput,
		ComponentTypeImage,
		ComponentTypeContainer,
		ComponentTypeCard,
		ComponentTypeGrid,
		ComponentTypeTable,
		ComponentTypeChart,
		ComponentTypeList,
		ComponentTypeChatbot,
		ComponentTypeTextGenerator,
		ComponentTypeKnowledgeSearch,
	}
}

// IsValid reports whether the type is part of the component library.
func (t ComponentType) IsValid() bool {
	for _, known := range KnownComponentTypes() {
		if t == known {
			return true
		}
	}

	return false
}

// MinComponentSize is the smallest width or height a placed component may have.
const MinComponentSize = 10.0

// PlacedComponent represents a component instance positioned on the builder canvas.
type PlacedComponent struct {
	ID     string         `json:"id"     validate:"required"`
	Type   ComponentType  `json:"type"   validate:"required"`
	Name   string         `json:"name"   validate:"required,min=1"`
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	Props  map[string]any `json:"props"`
}

// ClampGeometry enforces the canvas invariants: position never goes negative and
// size never drops below MinComponentSize.
func (c *PlacedComponent) ClampGeometry() {
	c.X = max(c.X, 0)
	c.Y = max(c.Y, 0)
	c.Width = max(c.Width, MinComponentSize)
	c.Height = max(c.Height, MinComponentSize)
}

// Clone returns a deep copy of the component. Updates flow through copies so
// callers never mutate shared state.
func (c *PlacedComponent) Clone() *PlacedComponent {
	clone := *c

	if c.Props != nil {
		clone.Props = make(map[string]any, len(c.Props))
		for k, v := range c.Props {
			clone.Props[k] = v
		}
	}

	return &clone
}
