package layers

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mr1hm/go-hazard-map/internal/models"
)

const (
	faultColor      = "darkred"
	faultWidth      = 3
	watershedColor  = "cyan"
	watershedWidth  = 2
	watershedFill   = "toself"
	watershedFillBg = "rgba(0, 255, 255, 0.1)"
)

type faultRecord struct {
	Geometry *struct {
		Coordinates [][]*float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties struct {
		Name      label `json:"name"`
		Magnitude label `json:"magnitude"`
	} `json:"properties"`
}

func decodeFault(raw json.RawMessage) (models.LineFeature, error) {
	var r faultRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return models.LineFeature{}, malformed("%v", err)
	}
	if !r.Properties.Name.set {
		return models.LineFeature{}, malformed("fault missing name")
	}
	if r.Geometry == nil {
		return models.LineFeature{}, malformed("fault %q missing geometry", r.Properties.Name.text)
	}
	vs, err := vertices(r.Geometry.Coordinates)
	if err != nil {
		return models.LineFeature{}, fmt.Errorf("fault %q: %w", r.Properties.Name.text, err)
	}
	return models.LineFeature{
		Name:      r.Properties.Name.text,
		Magnitude: r.Properties.Magnitude.or(""),
		Vertices:  vs,
	}, nil
}

type watershedRecord struct {
	Geometry *struct {
		Coordinates [][][]*float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties struct {
		Name    label    `json:"name"`
		AreaKm2 *float64 `json:"area_km2"`
	} `json:"properties"`
}

// decodeWatershed keeps only the outer ring; interior rings are holes and
// are not drawn.
func decodeWatershed(raw json.RawMessage) (models.PolygonFeature, error) {
	var r watershedRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return models.PolygonFeature{}, malformed("%v", err)
	}
	name := r.Properties.Name
	if !name.set {
		return models.PolygonFeature{}, malformed("watershed missing name")
	}
	if r.Properties.AreaKm2 == nil {
		return models.PolygonFeature{}, malformed("watershed %q missing area_km2", name.text)
	}
	if r.Geometry == nil || len(r.Geometry.Coordinates) == 0 {
		return models.PolygonFeature{}, malformed("watershed %q missing coordinates", name.text)
	}
	ring, err := vertices(r.Geometry.Coordinates[0])
	if err != nil {
		return models.PolygonFeature{}, fmt.Errorf("watershed %q: %w", name.text, err)
	}
	return models.PolygonFeature{
		Name:    name.text,
		AreaKm2: *r.Properties.AreaKm2,
		Ring:    ring,
	}, nil
}

// BuildFaults emits one polyline per fault, kept out of the legend.
func BuildFaults(payload json.RawMessage, enabled bool) []models.RenderLayer {
	if !enabled {
		return nil
	}
	raws, err := records(payload, "features")
	if err != nil {
		slog.Debug("category skipped", "category", models.CategoryFaults, "error", err)
		return nil
	}

	out := make([]models.RenderLayer, 0, len(raws))
	for _, raw := range raws {
		f, err := decodeFault(raw)
		if err != nil {
			slog.Debug("record skipped", "category", models.CategoryFaults, "error", err)
			continue
		}
		mag := f.Magnitude
		if mag == "" {
			mag = "unknown"
		}
		out = append(out, models.RenderLayer{
			Category:    models.CategoryFaults,
			Kind:        models.LayerKindLine,
			Name:        f.Name,
			Coordinates: f.Vertices,
			Style:       models.Style{Color: faultColor, Width: faultWidth},
			HoverText:   []string{f.Name + "\nMax Magnitude: " + mag},
			LegendLabel: f.Name,
		})
	}
	return out
}

// BuildWatersheds emits one filled polygon per watershed, kept out of the legend.
func BuildWatersheds(payload json.RawMessage, enabled bool) []models.RenderLayer {
	if !enabled {
		return nil
	}
	raws, err := records(payload, "features")
	if err != nil {
		slog.Debug("category skipped", "category", models.CategoryWatersheds, "error", err)
		return nil
	}

	out := make([]models.RenderLayer, 0, len(raws))
	for _, raw := range raws {
		w, err := decodeWatershed(raw)
		if err != nil {
			slog.Debug("record skipped", "category", models.CategoryWatersheds, "error", err)
			continue
		}
		out = append(out, models.RenderLayer{
			Category:    models.CategoryWatersheds,
			Kind:        models.LayerKindPolygon,
			Name:        w.Name,
			Coordinates: w.Ring,
			Style: models.Style{
				Color:     watershedColor,
				Width:     watershedWidth,
				Fill:      watershedFill,
				FillColor: watershedFillBg,
			},
			HoverText:   []string{fmt.Sprintf("%s\nArea: %.1f km²", w.Name, w.AreaKm2)},
			LegendLabel: w.Name,
		})
	}
	return out
}
