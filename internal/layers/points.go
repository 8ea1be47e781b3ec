package layers

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mr1hm/go-hazard-map/internal/models"
)

const markerSize = 10

// sensorRecord is one raw station or gage, keyed by field. Only lat and lon
// are required; every other field is read leniently so a mistyped optional
// value renders as unknown instead of losing the whole record.
type sensorRecord map[string]json.RawMessage

func decodeSensor(raw json.RawMessage) (sensorRecord, models.PointSensor, error) {
	var r sensorRecord
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, models.PointSensor{}, malformed("record is not an object: %v", err)
	}
	id := optionalLabel(r["id"])
	lat, lon := optionalNumber(r["lat"]), optionalNumber(r["lon"])
	if lat == nil || lon == nil {
		return nil, models.PointSensor{}, malformed("station %q missing lat/lon", id.text)
	}
	if !validLatLon(*lat, *lon) {
		return nil, models.PointSensor{}, malformed("station %q out of range: lat=%v lon=%v", id.text, *lat, *lon)
	}
	return r, models.PointSensor{
		ID:         id.or(""),
		Name:       optionalLabel(r["name"]).or(""),
		Lat:        *lat,
		Lon:        *lon,
		Attributes: make(map[string]any, 1),
	}, nil
}

type pointCategory struct {
	category models.Category
	key      string
	legend   string
	color    string
	decode   func(raw json.RawMessage) (models.PointSensor, error)
	detail   func(s models.PointSensor) string
}

var (
	seismicPoints = pointCategory{
		category: models.CategorySeismic,
		key:      "stations",
		legend:   "Seismic Stations",
		color:    "red",
		decode:   decodeSeismic,
		detail: func(s models.PointSensor) string {
			return "Type: " + textAttr(s, "sensor_type")
		},
	}
	riverPoints = pointCategory{
		category: models.CategoryRiver,
		key:      "gages",
		legend:   "River Gages",
		color:    "blue",
		decode:   decodeGage,
		detail: func(s models.PointSensor) string {
			if v, ok := s.Attributes["drainage_area_km2"].(float64); ok {
				return fmt.Sprintf("Drainage: %.1f km²", v)
			}
			return "Drainage: unknown"
		},
	}
	metPoints = pointCategory{
		category: models.CategoryMet,
		key:      "stations",
		legend:   "Met Stations",
		color:    "green",
		decode:   decodeMet,
		detail: func(s models.PointSensor) string {
			if v, ok := s.Attributes["elevation"].(float64); ok {
				return fmt.Sprintf("Elev: %.0f m", v)
			}
			return "Elev: unknown"
		},
	}
)

func textAttr(s models.PointSensor, key string) string {
	if v, ok := s.Attributes[key].(string); ok {
		return v
	}
	return "unknown"
}

func decodeSeismic(raw json.RawMessage) (models.PointSensor, error) {
	r, s, err := decodeSensor(raw)
	if err != nil {
		return s, err
	}
	if t := optionalLabel(r["sensor_type"]); t.set {
		s.Attributes["sensor_type"] = t.text
	}
	return s, nil
}

func decodeGage(raw json.RawMessage) (models.PointSensor, error) {
	r, s, err := decodeSensor(raw)
	if err != nil {
		return s, err
	}
	if v := optionalNumber(r["drainage_area_km2"]); v != nil {
		s.Attributes["drainage_area_km2"] = *v
	}
	return s, nil
}

func decodeMet(raw json.RawMessage) (models.PointSensor, error) {
	r, s, err := decodeSensor(raw)
	if err != nil {
		return s, err
	}
	if v := optionalNumber(r["elevation"]); v != nil {
		s.Attributes["elevation"] = *v
	}
	return s, nil
}

// buildPoints batches every valid record of the category into one marker
// layer. The layer is emitted whenever the category's array is present, even
// if no record in it survives.
func buildPoints(pc pointCategory, payload json.RawMessage, enabled bool) []models.RenderLayer {
	if !enabled {
		return nil
	}
	raws, err := records(payload, pc.key)
	if err != nil {
		slog.Debug("category skipped", "category", pc.category, "error", err)
		return nil
	}

	layer := models.RenderLayer{
		Category:     pc.category,
		Kind:         models.LayerKindPoint,
		Name:         pc.legend,
		Coordinates:  make([]models.LonLat, 0, len(raws)),
		Style:        models.Style{Color: pc.color, Size: markerSize},
		HoverText:    make([]string, 0, len(raws)),
		LegendLabel:  pc.legend,
		ShowInLegend: true,
	}
	skipped := 0
	for _, raw := range raws {
		s, err := pc.decode(raw)
		if err != nil {
			skipped++
			continue
		}
		layer.Coordinates = append(layer.Coordinates, models.LonLat{Lon: s.Lon, Lat: s.Lat})
		layer.HoverText = append(layer.HoverText, s.ID+"\n"+s.Name+"\n"+pc.detail(s))
	}
	if skipped > 0 {
		slog.Debug("records skipped", "category", pc.category, "skipped", skipped, "total", len(raws))
	}
	return []models.RenderLayer{layer}
}

func BuildSeismic(payload json.RawMessage, enabled bool) []models.RenderLayer {
	return buildPoints(seismicPoints, payload, enabled)
}

func BuildRiver(payload json.RawMessage, enabled bool) []models.RenderLayer {
	return buildPoints(riverPoints, payload, enabled)
}

func BuildMet(payload json.RawMessage, enabled bool) []models.RenderLayer {
	return buildPoints(metPoints, payload, enabled)
}
