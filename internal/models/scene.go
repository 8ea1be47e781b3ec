package models

type LayerKind string

const (
	LayerKindPoint   LayerKind = "point"
	LayerKindLine    LayerKind = "line"
	LayerKindPolygon LayerKind = "polygon"
)

// LonLat is one vertex, longitude first as in GeoJSON.
type LonLat struct {
	Lon float64 `json:"lon" yaml:"lon"`
	Lat float64 `json:"lat" yaml:"lat"`
}

type Style struct {
	Color     string  `json:"color" yaml:"color"`
	Size      float64 `json:"size,omitempty" yaml:"size,omitempty"`   // marker size, points only
	Width     float64 `json:"width,omitempty" yaml:"width,omitempty"` // line width
	Fill      string  `json:"fill,omitempty" yaml:"fill,omitempty"`
	FillColor string  `json:"fill_color,omitempty" yaml:"fill_color,omitempty"`
}

// RenderLayer is one drawable unit: a batch of markers, a single polyline or
// a single filled polygon. Point layers carry one hover entry per coordinate,
// line and polygon layers exactly one.
type RenderLayer struct {
	Category     Category  `json:"category" yaml:"category"`
	Kind         LayerKind `json:"kind" yaml:"kind"`
	Name         string    `json:"name" yaml:"name"`
	Coordinates  []LonLat  `json:"coordinates" yaml:"coordinates"`
	Style        Style     `json:"style" yaml:"style"`
	HoverText    []string  `json:"hover_text" yaml:"hover_text"`
	LegendLabel  string    `json:"legend_label" yaml:"legend_label"`
	ShowInLegend bool      `json:"show_in_legend" yaml:"show_in_legend"`
}

type Viewport struct {
	CenterLat float64 `json:"center_lat" yaml:"center_lat"`
	CenterLon float64 `json:"center_lon" yaml:"center_lon"`
	Zoom      float64 `json:"zoom" yaml:"zoom"`
}

type Legend struct {
	Show    bool    `json:"show" yaml:"show"`
	XAnchor string  `json:"x_anchor" yaml:"x_anchor"`
	YAnchor string  `json:"y_anchor" yaml:"y_anchor"`
	X       float64 `json:"x" yaml:"x"`
	Y       float64 `json:"y" yaml:"y"`
	BgColor string  `json:"bg_color" yaml:"bg_color"`
}

type Basemap struct {
	Style       string `json:"style" yaml:"style"`
	AccessToken string `json:"access_token,omitempty" yaml:"access_token,omitempty"`
}

type Margin struct {
	Left   int `json:"l" yaml:"l"`
	Right  int `json:"r" yaml:"r"`
	Top    int `json:"t" yaml:"t"`
	Bottom int `json:"b" yaml:"b"`
}

type Layout struct {
	Height int    `json:"height" yaml:"height"`
	Margin Margin `json:"margin" yaml:"margin"`
}

// Scene is everything a renderer needs for one map draw. Layers are in
// z-order, first drawn first.
type Scene struct {
	Layers   []RenderLayer `json:"layers" yaml:"layers"`
	Viewport Viewport      `json:"viewport" yaml:"viewport"`
	Legend   Legend        `json:"legend" yaml:"legend"`
	Basemap  Basemap       `json:"basemap" yaml:"basemap"`
	Layout   Layout        `json:"layout" yaml:"layout"`
}
