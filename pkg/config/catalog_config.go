// Package config provides configuration loading for the component catalog.
package config

import (
	"fmt"
	"os"

	"github.com/agp-labs/builder/pkg/catalog"
	"github.com/agp-labs/builder/pkg/models"
	"gopkg.in/yaml.v3"
)

// CatalogConfigFile represents the structure of the catalog.yaml file. It
// extends or overrides the built-in component library, letting deployments
// register extra component types without a rebuild.
type CatalogConfigFile struct {
	Components []ComponentConfigFile `yaml:"components"`
}

// ComponentConfigFile represents one component definition in the YAML file.
type ComponentConfigFile struct {
	Type          string         `yaml:"type"`
	Name          string         `yaml:"name"`
	Description   string         `yaml:"description"`
	DefaultWidth  float64        `yaml:"default_width"`
	DefaultHeight float64        `yaml:"default_height"`
	DefaultProps  map[string]any `yaml:"default_props"`
	PropsSchema   map[string]any `yaml:"props_schema"`
}

// LoadCatalogConfig loads catalog extensions from a YAML file.
func LoadCatalogConfig(filepath string) (*CatalogConfigFile, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", filepath, err)
	}

	var configFile CatalogConfigFile
	if err := yaml.Unmarshal(data, &configFile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := ValidateCatalogConfig(&configFile); err != nil {
		return nil, err
	}

	return &configFile, nil
}

// ValidateCatalogConfig validates the catalog configuration.
func ValidateCatalogConfig(config *CatalogConfigFile) error {
	seen := make(map[string]struct{}, len(config.Components))

	for i, component := range config.Components {
		if component.Type == "" {
			return fmt.Errorf("catalog component %d: type is required", i)
		}

		if component.Name == "" {
			return fmt.Errorf("catalog component %q: name is required", component.Type)
		}

		if component.DefaultWidth < models.MinComponentSize || component.DefaultHeight < models.MinComponentSize {
			return fmt.Errorf("catalog component %q: default size below minimum %v",
				component.Type, models.MinComponentSize)
		}

		if _, dup := seen[component.Type]; dup {
			return fmt.Errorf("catalog component %q: duplicate type", component.Type)
		}

		seen[component.Type] = struct{}{}
	}

	return nil
}

// ApplyToRegistry registers every configured definition on the registry,
// overriding built-ins that share a type.
func (c *CatalogConfigFile) ApplyToRegistry(registry *catalog.Registry) {
	for _, component := range c.Components {
		registry.Register(catalog.Definition{
			Type:          models.ComponentType(component.Type),
			Name:          component.Name,
			Description:   component.Description,
			DefaultWidth:  component.DefaultWidth,
			DefaultHeight: component.DefaultHeight,
			DefaultProps:  component.DefaultProps,
			PropsSchema:   component.PropsSchema,
		})
	}
}
