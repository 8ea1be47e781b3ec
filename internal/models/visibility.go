package models

import "strings"

// LayerVisibility holds the two independent toggle groups. A category that
// is not in its own group's set is suppressed entirely.
type LayerVisibility struct {
	Sensors map[Category]bool
	Layers  map[Category]bool
}

// NewVisibility builds a LayerVisibility from the enabled keys of each group.
// Keys placed in the wrong group are ignored.
func NewVisibility(sensors, layers []Category) LayerVisibility {
	v := LayerVisibility{
		Sensors: make(map[Category]bool, len(sensors)),
		Layers:  make(map[Category]bool, len(layers)),
	}
	for _, c := range sensors {
		if c.Group() == GroupSensors && c.Valid() {
			v.Sensors[c] = true
		}
	}
	for _, c := range layers {
		if c.Group() == GroupLayers && c.Valid() {
			v.Layers[c] = true
		}
	}
	return v
}

// AllVisible enables every category, the dashboard's initial toggle state.
func AllVisible() LayerVisibility {
	return NewVisibility(GroupCategories(GroupSensors), GroupCategories(GroupLayers))
}

func (v LayerVisibility) Enabled(c Category) bool {
	if c.Group() == GroupLayers {
		return v.Layers[c]
	}
	return v.Sensors[c]
}

// ParseGroup parses toggle values for group g. Each value may hold several
// comma-separated keys; blank keys are skipped, so [""] enables nothing.
func ParseGroup(g Group, values []string) ([]Category, error) {
	out := make([]Category, 0, len(values))
	for _, v := range values {
		for _, key := range strings.Split(v, ",") {
			if strings.TrimSpace(key) == "" {
				continue
			}
			c, err := ParseCategory(g, key)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
	}
	return out, nil
}
