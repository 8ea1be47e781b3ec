package models

import (
	"fmt"
	"strings"
)

type Category string

const (
	CategorySeismic    Category = "seismic"
	CategoryRiver      Category = "river"
	CategoryMet        Category = "met"
	CategoryFaults     Category = "faults"
	CategoryWatersheds Category = "watersheds"
)

// Categories is the draw order: later entries render on top and appear later
// in the legend.
var Categories = []Category{
	CategorySeismic,
	CategoryRiver,
	CategoryMet,
	CategoryFaults,
	CategoryWatersheds,
}

type Group string

const (
	GroupSensors Group = "sensors"
	GroupLayers  Group = "layers"
)

func (c Category) Group() Group {
	switch c {
	case CategoryFaults, CategoryWatersheds:
		return GroupLayers
	default:
		return GroupSensors
	}
}

func (c Category) Valid() bool {
	switch c {
	case CategorySeismic, CategoryRiver, CategoryMet, CategoryFaults, CategoryWatersheds:
		return true
	}
	return false
}

// SourcePath is the path of the category's file relative to the data source base URL.
func (c Category) SourcePath() string {
	switch c {
	case CategorySeismic:
		return "/sensors/seismic_stations.json"
	case CategoryRiver:
		return "/sensors/river_gages.json"
	case CategoryMet:
		return "/sensors/met_stations.json"
	case CategoryFaults:
		return "/layers/faults.geojson"
	case CategoryWatersheds:
		return "/layers/watersheds.geojson"
	default:
		return ""
	}
}

// SourceURL joins base and the category path, tolerating a trailing slash on base.
func (c Category) SourceURL(base string) string {
	return strings.TrimRight(base, "/") + c.SourcePath()
}

// GroupCategories returns the categories of g in draw order.
func GroupCategories(g Group) []Category {
	var out []Category
	for _, c := range Categories {
		if c.Group() == g {
			out = append(out, c)
		}
	}
	return out
}

// ParseCategory accepts a category key in any case. It fails for keys that
// are unknown or that belong to a different group than g.
func ParseCategory(g Group, s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	if c.Group() != g {
		return "", fmt.Errorf("category %q is not in the %s group", s, g)
	}
	return c, nil
}
