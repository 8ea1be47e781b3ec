package layers

import (
	"encoding/json"

	"github.com/mr1hm/go-hazard-map/internal/models"
)

// Builder maps one category payload to its render layers. It returns nothing
// when disabled or when the payload lacks the category's key.
type Builder func(payload json.RawMessage, enabled bool) []models.RenderLayer

var builders = map[models.Category]Builder{
	models.CategorySeismic:    BuildSeismic,
	models.CategoryRiver:      BuildRiver,
	models.CategoryMet:        BuildMet,
	models.CategoryFaults:     BuildFaults,
	models.CategoryWatersheds: BuildWatersheds,
}

// For returns the builder for c, or nil for an unknown category.
func For(c models.Category) Builder {
	return builders[c]
}
