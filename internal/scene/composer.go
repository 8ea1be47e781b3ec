// Package scene assembles the map scene from a data snapshot and the
// current toggle state.
package scene

import (
	"github.com/mr1hm/go-hazard-map/internal/config"
	"github.com/mr1hm/go-hazard-map/internal/layers"
	"github.com/mr1hm/go-hazard-map/internal/models"
)

const (
	OpenBasemapStyle   = "open-street-map"
	MapboxBasemapStyle = "mapbox://styles/mapbox/satellite-streets-v11"

	legendBgColor = "rgba(255, 255, 255, 0.8)"
	mapHeight     = 700
)

// Composer holds the settings that do not depend on the data: viewport and
// basemap. Compose is safe for concurrent use.
type Composer struct {
	viewport models.Viewport
	basemap  models.Basemap
}

func NewComposer(cfg config.MapConfig) *Composer {
	basemap := models.Basemap{Style: OpenBasemapStyle}
	if cfg.MapboxToken != "" {
		basemap = models.Basemap{Style: MapboxBasemapStyle, AccessToken: cfg.MapboxToken}
	}

	return &Composer{
		viewport: models.Viewport{
			CenterLat: cfg.CenterLat,
			CenterLon: cfg.CenterLon,
			Zoom:      cfg.Zoom,
		},
		basemap: basemap,
	}
}

// Compose runs every builder in draw order and wraps the result with the
// fixed viewport, legend and basemap. The output depends only on its inputs;
// a nil snapshot composes like an empty one.
func (c *Composer) Compose(snapshot *models.DataSnapshot, vis models.LayerVisibility) models.Scene {
	out := make([]models.RenderLayer, 0, len(models.Categories))
	for _, cat := range models.Categories {
		build := layers.For(cat)
		out = append(out, build(snapshot.Payload(cat), vis.Enabled(cat))...)
	}

	return models.Scene{
		Layers:   out,
		Viewport: c.viewport,
		Legend: models.Legend{
			Show:    true,
			XAnchor: "left",
			YAnchor: "top",
			X:       0.01,
			Y:       0.99,
			BgColor: legendBgColor,
		},
		Basemap: c.basemap,
		Layout: models.Layout{
			Height: mapHeight,
		},
	}
}
