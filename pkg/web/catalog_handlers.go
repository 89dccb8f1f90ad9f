package web

import (
	"github.com/agp-labs/builder/pkg/models"
	"github.com/gofiber/fiber/v3"
)

// GetCatalog lists every component definition the builder can place.
func (h *APIHandlers) GetCatalog(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"components": h.registry.All()})
}

// GetCatalogEntry returns a single component definition by type.
func (h *APIHandlers) GetCatalogEntry(c fiber.Ctx) error {
	componentType := c.Params("type")
	if componentType == "" {
		return badRequest(c, "Component type is required")
	}

	def, ok := h.registry.Get(models.ComponentType(componentType))
	if !ok {
		return notFound(c, "Component type not found")
	}

	return c.JSON(def)
}
