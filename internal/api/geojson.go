package api

import (
	"github.com/mr1hm/go-hazard-map/internal/models"
)

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry coordinates are [lon, lat] for a Point, a list of those for a
// LineString and a list of rings for a Polygon.
type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// ToGeoJSON flattens a scene into features in draw order. Each marker of a
// point layer becomes its own Point feature.
func ToGeoJSON(scene models.Scene) FeatureCollection {
	features := make([]Feature, 0, len(scene.Layers))

	for _, l := range scene.Layers {
		switch l.Kind {
		case models.LayerKindPoint:
			for i, p := range l.Coordinates {
				props := layerProperties(l)
				if i < len(l.HoverText) {
					props["hover"] = l.HoverText[i]
				}
				features = append(features, Feature{
					Type: "Feature",
					Geometry: Geometry{
						Type:        "Point",
						Coordinates: position(p),
					},
					Properties: props,
				})
			}
		case models.LayerKindLine:
			features = append(features, Feature{
				Type: "Feature",
				Geometry: Geometry{
					Type:        "LineString",
					Coordinates: positions(l.Coordinates),
				},
				Properties: withHover(layerProperties(l), l.HoverText),
			})
		case models.LayerKindPolygon:
			features = append(features, Feature{
				Type: "Feature",
				Geometry: Geometry{
					Type:        "Polygon",
					Coordinates: [][][]float64{positions(l.Coordinates)},
				},
				Properties: withHover(layerProperties(l), l.HoverText),
			})
		}
	}

	return FeatureCollection{
		Type:     "FeatureCollection",
		Features: features,
	}
}

func layerProperties(l models.RenderLayer) map[string]any {
	props := map[string]any{
		"category": string(l.Category),
		"name":     l.Name,
		"color":    l.Style.Color,
		"legend":   l.LegendLabel,
	}
	if l.Style.Size > 0 {
		props["size"] = l.Style.Size
	}
	if l.Style.Width > 0 {
		props["width"] = l.Style.Width
	}
	if l.Style.FillColor != "" {
		props["fill_color"] = l.Style.FillColor
	}
	return props
}

func withHover(props map[string]any, hover []string) map[string]any {
	if len(hover) > 0 {
		props["hover"] = hover[0]
	}
	return props
}

func position(p models.LonLat) []float64 {
	return []float64{p.Lon, p.Lat}
}

func positions(ps []models.LonLat) [][]float64 {
	out := make([][]float64, 0, len(ps))
	for _, p := range ps {
		out = append(out, position(p))
	}
	return out
}
