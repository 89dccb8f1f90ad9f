package catalog

import "github.com/agp-labs/builder/pkg/models"

// NewDefaultRegistry creates a registry pre-populated with the component library.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()
	registry.RegisterDefaults()

	return registry
}

// RegisterDefaults registers every built-in component definition.
func (r *Registry) RegisterDefaults() {
	r.Register(Definition{
		Type:          models.ComponentTypeButton,
		Name:          "Button",
		Description:   "Clickable button that emits a click event",
		DefaultWidth:  120,
		DefaultHeight: 40,
		DefaultProps: map[string]any{
			"text":    "Button",
			"variant": "primary",
			"size":    "medium",
		},
		PropsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
				"variant": map[string]any{
					"type": "string",
					"enum": []string{"primary", "secondary", "outline", "ghost"},
				},
				"size": map[string]any{
					"type": "string",
					"enum": []string{"small", "medium", "large"},
				},
			},
		},
	})

	r.Register(Definition{
		Type:          models.ComponentTypeText,
		Name:          "Text",
		Description:   "Static text block",
		DefaultWidth:  200,
		DefaultHeight: 30,
		DefaultProps: map[string]any{
			"text":     "Text",
			"fontSize": 14,
			"align":    "left",
		},
		PropsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"text":     map[string]any{"type": "string"},
				"fontSize": map[string]any{"type": "number", "minimum": 8, "maximum": 96},
				"align": map[string]any{
					"type": "string",
					"enum": []string{"left", "center", "right"},
				},
			},
		},
	})

	r.Register(Definition{
		Type:          models.ComponentTypeInput,
		Name:          "Input",
		Description:   "Single-line text input",
		DefaultWidth:  240,
		DefaultHeight: 40,
		DefaultProps: map[string]any{
			"placeholder": "Enter text...",
			"label":       "",
		},
		PropsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"placeholder": map[string]any{"type": "string"},
				"label":       map[string]any{"type": "string"},
			},
		},
	})

	r.Register(Definition{
		Type:          models.ComponentTypeImage,
		Name:          "Image",
		Description:   "Image display",
		DefaultWidth:  200,
		DefaultHeight: 150,
		DefaultProps: map[string]any{
			"src": "",
			"alt": "",
		},
		PropsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"src": map[string]any{"type": "string"},
				"alt": map[string]any{"type": "string"},
			},
		},
	})

	r.Register(Definition{
		Type:          models.ComponentTypeContainer,
		Name:          "Container",
		Description:   "Generic layout container",
		DefaultWidth:  300,
		DefaultHeight: 200,
		DefaultProps: map[string]any{
			"padding": 16,
		},
		PropsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"padding": map[string]any{"type": "number", "minimum": 0},
			},
		},
	})

	r.Register(Definition{
		Type:          models.ComponentTypeCard,
		Name:          "Card",
		Description:   "Card with title and body",
		DefaultWidth:  280,
		DefaultHeight: 180,
		DefaultProps: map[string]any{
			"title": "Card",
			"body":  "",
		},
		PropsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{"type": "string"},
				"body":  map[string]any{"type": "string"},
			},
		},
	})

	r.Register(Definition{
		Type:          models.ComponentTypeGrid,
		Name:          "Grid",
		Description:   "Responsive grid layout",
		DefaultWidth:  400,
		DefaultHeight: 300,
		DefaultProps: map[string]any{
			"columns": 3,
			"gap":     8,
		},
		PropsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"columns": map[string]any{"type": "number", "minimum": 1, "maximum": 12},
				"gap":     map[string]any{"type": "number", "minimum": 0},
			},
		},
	})

	r.Register(Definition{
		Type:          models.ComponentTypeTable,
		Name:          "Table",
		Description:   "Tabular data display",
		DefaultWidth:  400,
		DefaultHeight: 250,
		DefaultProps: map[string]any{
			"columns": []any{},
		},
		PropsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"columns": map[string]any{"type": "array"},
			},
		},
	})

	r.Register(Definition{
		Type:          models.ComponentTypeChart,
		Name:          "Chart",
		Description:   "Chart wrapper (rendering is delegated)",
		DefaultWidth:  360,
		DefaultHeight: 240,
		DefaultProps: map[string]any{
			"chartType": "bar",
		},
		PropsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"chartType": map[string]any{
					"type": "string",
					"enum": []string{"bar", "line", "pie", "area"},
				},
			},
		},
	})

	r.Register(Definition{
		Type:          models.ComponentTypeList,
		Name:          "List",
		Description:   "Vertical item list",
		DefaultWidth:  240,
		DefaultHeight: 200,
		DefaultProps: map[string]any{
			"items": []any{},
		},
		PropsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"items": map[string]any{"type": "array"},
			},
		},
	})

	r.Register(Definition{
		Type:          models.ComponentTypeChatbot,
		Name:          "Chatbot",
		Description:   "Conversational agent widget",
		DefaultWidth:  320,
		DefaultHeight: 400,
		DefaultProps: map[string]any{
			"greeting": "Hi! How can I help?",
			"model":    "default",
		},
		PropsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"greeting": map[string]any{"type": "string"},
				"model":    map[string]any{"type": "string"},
			},
		},
	})

	r.Register(Definition{
		Type:          models.ComponentTypeTextGenerator,
		Name:          "Text Generator",
		Description:   "Generates text from a prompt",
		DefaultWidth:  320,
		DefaultHeight: 240,
		DefaultProps: map[string]any{
			"prompt":    "",
			"maxLength": 500,
		},
		PropsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"prompt":    map[string]any{"type": "string"},
				"maxLength": map[string]any{"type": "number", "minimum": 1},
			},
		},
	})

	r.Register(Definition{
		Type:          models.ComponentTypeKnowledgeSearch,
		Name:          "Knowledge Search",
		Description:   "Searches a knowledge base",
		DefaultWidth:  320,
		DefaultHeight: 280,
		DefaultProps: map[string]any{
			"placeholder": "Search knowledge...",
			"topK":        5,
		},
		PropsSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"placeholder": map[string]any{"type": "string"},
				"topK":        map[string]any{"type": "number", "minimum": 1, "maximum": 50},
			},
		},
	})
}
