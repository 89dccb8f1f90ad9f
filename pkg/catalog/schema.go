package catalog

import (
	"fmt"
	"strings"

	"github.com/agp-labs/builder/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// ValidateProps validates component props against the definition's JSON schema.
// Definitions without a schema accept any props.
func (r *Registry) ValidateProps(componentType models.ComponentType, props map[string]any) error {
	def, ok := r.Get(componentType)
	if !ok {
		return fmt.Errorf("component type %q not registered", componentType)
	}

	if def.PropsSchema == nil {
		return nil
	}

	if props == nil {
		props = map[string]any{}
	}

	schemaLoader := gojsonschema.NewGoLoader(def.PropsSchema)
	documentLoader := gojsonschema.NewGoLoader(props)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("failed to validate props for %q: %w", componentType, err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			details = append(details, desc.String())
		}

		return fmt.Errorf("invalid props for %q: %s", componentType, strings.Join(details, "; "))
	}

	return nil
}
