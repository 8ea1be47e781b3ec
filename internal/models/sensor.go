package models

// PointSensor is one station or gage. Attributes holds the category-specific
// values (sensor_type, drainage_area_km2, elevation); a key is absent when
// the source omitted it.
type PointSensor struct {
	ID         string
	Name       string
	Lat        float64
	Lon        float64
	Attributes map[string]any
}

// LineFeature is one fault trace. Magnitude is the source's text for the
// value, empty when the source did not provide one.
type LineFeature struct {
	Name      string
	Magnitude string
	Vertices  []LonLat
}

// PolygonFeature is one watershed boundary, outer ring only.
type PolygonFeature struct {
	Name    string
	AreaKm2 float64
	Ring    []LonLat
}
