// Package layers turns raw category payloads into render layers. Every
// builder is a pure function of its payload and visibility flag; bad input
// shrinks the output and never produces an error.
package layers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/golang/geo/s2"

	"github.com/mr1hm/go-hazard-map/internal/models"
)

var (
	// ErrSourceUnavailable marks a payload that is empty or not shaped like
	// the category expects. The whole category renders nothing.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrMalformedRecord marks one record missing a required field. Only
	// that record is dropped.
	ErrMalformedRecord = errors.New("malformed record")
)

// records returns the raw elements of the array stored under key.
func records(payload json.RawMessage, key string) ([]json.RawMessage, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(payload, &top); err != nil {
		return nil, fmt.Errorf("%w: payload is not an object: %v", ErrSourceUnavailable, err)
	}
	raw, ok := top[key]
	if !ok {
		return nil, fmt.Errorf("%w: key %q absent", ErrSourceUnavailable, key)
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%w: %q is not an array: %v", ErrSourceUnavailable, key, err)
	}
	if list == nil {
		return nil, fmt.Errorf("%w: %q is null", ErrSourceUnavailable, key)
	}
	return list, nil
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedRecord, fmt.Sprintf(format, args...))
}

// label is a scalar shown as text. Strings are taken as-is; numbers keep
// their JSON spelling so 7.0 stays "7.0".
type label struct {
	text string
	set  bool
}

func (l *label) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = label{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = label{text: s, set: true}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("expected string or number, got %s", b)
	}
	*l = label{text: string(b), set: true}
	return nil
}

func (l label) or(fallback string) string {
	if !l.set {
		return fallback
	}
	return l.text
}

func validLatLon(lat, lon float64) bool {
	return s2.LatLngFromDegrees(lat, lon).IsValid()
}

// vertices converts GeoJSON positions into LonLat pairs. Extra ordinates
// (elevation) are ignored; a short, null or out-of-range position fails the
// whole sequence.
func vertices(positions [][]*float64) ([]models.LonLat, error) {
	if len(positions) == 0 {
		return nil, malformed("no coordinates")
	}
	out := make([]models.LonLat, 0, len(positions))
	for i, p := range positions {
		if len(p) < 2 || p[0] == nil || p[1] == nil {
			return nil, malformed("position %d is incomplete", i)
		}
		lon, lat := *p[0], *p[1]
		if !validLatLon(lat, lon) {
			return nil, malformed("position %d out of range: lon=%v lat=%v", i, lon, lat)
		}
		out = append(out, models.LonLat{Lon: lon, Lat: lat})
	}
	return out, nil
}

// optionalLabel reads a text field that may be absent or of any JSON type.
// Anything but a string or number counts as absent.
func optionalLabel(raw json.RawMessage) label {
	var l label
	if len(raw) == 0 {
		return l
	}
	if err := json.Unmarshal(raw, &l); err != nil {
		return label{}
	}
	return l
}

// optionalNumber reads a numeric field, returning nil when it is absent, null
// or not a number.
func optionalNumber(raw json.RawMessage) *float64 {
	if len(raw) == 0 {
		return nil
	}
	var f *float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	return f
}
