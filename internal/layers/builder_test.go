package layers

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-hazard-map/internal/models"
)

const (
	seismicPayload = `{"stations":[
		{"id":"S1","name":"Alpha","lat":47.0,"lon":-122.0,"sensor_type":"broadband"},
		{"id":"S2","name":"Bravo","lat":46.5,"lon":-121.2,"sensor_type":"strong-motion"}
	]}`
	riverPayload = `{"gages":[
		{"id":"12113000","name":"Green River","lat":47.31,"lon":-122.2,"drainage_area_km2":1033.84}
	]}`
	metPayload = `{"stations":[
		{"id":"M1","name":"Paradise","lat":46.79,"lon":-121.74,"elevation":1654.4}
	]}`
	faultsPayload = `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"LineString","coordinates":[[-122.3,47.6],[-122.1,47.5]]},
		 "properties":{"name":"Seattle Fault","magnitude":7.5}}
	]}`
	watershedsPayload = `{"type":"FeatureCollection","features":[
		{"type":"Feature","geometry":{"type":"Polygon","coordinates":[
			[[-122.0,47.0],[-121.5,47.0],[-121.5,47.5],[-122.0,47.0]],
			[[-121.9,47.1],[-121.8,47.1],[-121.8,47.2],[-121.9,47.1]]
		]},"properties":{"name":"Snoqualmie","area_km2":1813.26}}
	]}`
)

var allBuilders = []struct {
	category models.Category
	payload  string
}{
	{models.CategorySeismic, seismicPayload},
	{models.CategoryRiver, riverPayload},
	{models.CategoryMet, metPayload},
	{models.CategoryFaults, faultsPayload},
	{models.CategoryWatersheds, watershedsPayload},
}

func TestBuilders_DisabledIsEmpty(t *testing.T) {
	for _, tc := range allBuilders {
		t.Run(string(tc.category), func(t *testing.T) {
			build := For(tc.category)
			require.NotNil(t, build)
			assert.NotEmpty(t, build(json.RawMessage(tc.payload), true))
			assert.Empty(t, build(json.RawMessage(tc.payload), false))
		})
	}
}

func TestBuilders_MissingKeyIsEmpty(t *testing.T) {
	for _, tc := range allBuilders {
		t.Run(string(tc.category), func(t *testing.T) {
			build := For(tc.category)
			assert.Empty(t, build(json.RawMessage(`{}`), true))
			assert.Empty(t, build(nil, true))
			assert.Empty(t, build(json.RawMessage(`[1,2,3]`), true))
			assert.Empty(t, build(json.RawMessage(`not json`), true))
		})
	}
}

func TestBuildSeismic_Scenario(t *testing.T) {
	payload := `{"stations":[{"id":"S1","name":"Alpha","lat":47.0,"lon":-122.0,"sensor_type":"broadband"}]}`

	got := BuildSeismic(json.RawMessage(payload), true)
	require.Len(t, got, 1)

	l := got[0]
	assert.Equal(t, models.LayerKindPoint, l.Kind)
	assert.Equal(t, models.CategorySeismic, l.Category)
	assert.Equal(t, "red", l.Style.Color)
	assert.Equal(t, float64(10), l.Style.Size)
	assert.Equal(t, []models.LonLat{{Lon: -122.0, Lat: 47.0}}, l.Coordinates)
	assert.Equal(t, []string{"S1\nAlpha\nType: broadband"}, l.HoverText)
	assert.Equal(t, "Seismic Stations", l.LegendLabel)
	assert.True(t, l.ShowInLegend)
}

func TestBuildPoints_DropsRecordsWithoutCoordinates(t *testing.T) {
	payload := `{"stations":[
		{"id":"A","name":"ok","lat":47.0,"lon":-122.0,"sensor_type":"bb"},
		{"id":"B","name":"no lat","lon":-122.0,"sensor_type":"bb"},
		{"id":"C","name":"ok","lat":46.0,"lon":-121.0,"sensor_type":"bb"},
		{"id":"D","name":"no lon","lat":46.0,"sensor_type":"bb"},
		{"id":"E","name":"null lat","lat":null,"lon":-121.0},
		{"id":"F","name":"ok","lat":45.0,"lon":-120.0}
	]}`

	got := BuildSeismic(json.RawMessage(payload), true)
	require.Len(t, got, 1)
	assert.Len(t, got[0].Coordinates, 3)
	assert.Len(t, got[0].HoverText, 3)
	assert.Equal(t, "F\nok\nType: unknown", got[0].HoverText[2])
}

func TestBuildPoints_DropsOutOfRange(t *testing.T) {
	payload := `{"stations":[
		{"id":"A","name":"north of the pole","lat":95.0,"lon":-122.0},
		{"id":"B","name":"past the antimeridian","lat":45.0,"lon":200.0},
		{"id":"C","name":"fine","lat":45.0,"lon":-120.0,"elevation":12.6}
	]}`

	got := BuildMet(json.RawMessage(payload), true)
	require.Len(t, got, 1)
	assert.Equal(t, []models.LonLat{{Lon: -120.0, Lat: 45.0}}, got[0].Coordinates)
	assert.Equal(t, []string{"C\nfine\nElev: 13 m"}, got[0].HoverText)
}

func TestBuildPoints_AllInvalidKeepsEmptyLayer(t *testing.T) {
	tests := []struct {
		name    string
		build   Builder
		payload string
	}{
		{"empty array", BuildSeismic, `{"stations":[]}`},
		{"every record missing coords", BuildSeismic, `{"stations":[{"id":"S1","name":"a"},{"id":"S2","name":"b","lat":47.0}]}`},
		{"single gage without coords", BuildRiver, `{"gages":[{"id":"G1","name":"no coords"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.build(json.RawMessage(tt.payload), true)
			require.Len(t, got, 1)
			assert.Empty(t, got[0].Coordinates)
			assert.Empty(t, got[0].HoverText)
			assert.True(t, got[0].ShowInLegend)
		})
	}
}

func TestBuildPoints_MistypedOptionalFieldsRenderUnknown(t *testing.T) {
	gages := `{"gages":[{"id":true,"name":["x"],"lat":47.3,"lon":-122.2,"drainage_area_km2":"1033.8"}]}`
	got := BuildRiver(json.RawMessage(gages), true)
	require.Len(t, got, 1)
	assert.Equal(t, []models.LonLat{{Lon: -122.2, Lat: 47.3}}, got[0].Coordinates)
	assert.Equal(t, []string{"\n\nDrainage: unknown"}, got[0].HoverText)

	stations := `{"stations":[{"id":"S9","name":"Kappa","lat":47,"lon":-122,"sensor_type":{"kind":"bb"}}]}`
	got = BuildSeismic(json.RawMessage(stations), true)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"S9\nKappa\nType: unknown"}, got[0].HoverText)

	met := `{"stations":[{"id":"M2","name":"Lambda","lat":46,"lon":-121,"elevation":"high"}]}`
	got = BuildMet(json.RawMessage(met), true)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"M2\nLambda\nElev: unknown"}, got[0].HoverText)
}

func TestBuildPoints_MistypedCoordinatesSkipRecord(t *testing.T) {
	payload := `{"stations":[
		{"id":"A","name":"string lat","lat":"47.0","lon":-122.0},
		{"id":"B","name":"ok","lat":47.0,"lon":-122.0},
		"not an object"
	]}`
	got := BuildSeismic(json.RawMessage(payload), true)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"B\nok\nType: unknown"}, got[0].HoverText)
}

func TestBuildRiver_HoverFormat(t *testing.T) {
	got := BuildRiver(json.RawMessage(riverPayload), true)
	require.Len(t, got, 1)
	assert.Equal(t, "blue", got[0].Style.Color)
	assert.Equal(t, "River Gages", got[0].LegendLabel)
	assert.Equal(t, []string{"12113000\nGreen River\nDrainage: 1033.8 km²"}, got[0].HoverText)
}

func TestBuildMet_HoverFormat(t *testing.T) {
	got := BuildMet(json.RawMessage(metPayload), true)
	require.Len(t, got, 1)
	assert.Equal(t, "green", got[0].Style.Color)
	assert.Equal(t, []string{"M1\nParadise\nElev: 1654 m"}, got[0].HoverText)
}

func TestBuildPoints_NumericIDs(t *testing.T) {
	payload := `{"gages":[{"id":12113000,"name":"Green","lat":47.3,"lon":-122.2,"drainage_area_km2":10}]}`
	got := BuildRiver(json.RawMessage(payload), true)
	require.Len(t, got, 1)
	assert.Equal(t, []string{"12113000\nGreen\nDrainage: 10.0 km²"}, got[0].HoverText)
}

func TestBuildFaults(t *testing.T) {
	got := BuildFaults(json.RawMessage(faultsPayload), true)
	require.Len(t, got, 1)

	l := got[0]
	assert.Equal(t, models.LayerKindLine, l.Kind)
	assert.Equal(t, "darkred", l.Style.Color)
	assert.Equal(t, float64(3), l.Style.Width)
	assert.False(t, l.ShowInLegend)
	assert.Equal(t, "Seattle Fault", l.Name)
	assert.Equal(t, []models.LonLat{{Lon: -122.3, Lat: 47.6}, {Lon: -122.1, Lat: 47.5}}, l.Coordinates)
	assert.Equal(t, []string{"Seattle Fault\nMax Magnitude: 7.5"}, l.HoverText)
}

func TestBuildFaults_MagnitudeUnknown(t *testing.T) {
	payload := `{"features":[{"geometry":{"coordinates":[[-122.0,47.0],[-121.0,47.1]]},"properties":{"name":"Tacoma Fault"}}]}`

	got := BuildFaults(json.RawMessage(payload), true)
	require.Len(t, got, 1)
	require.Len(t, got[0].HoverText, 1)
	assert.Equal(t, "Tacoma Fault\nMax Magnitude: unknown", got[0].HoverText[0])
}

func TestBuildFaults_OneLayerPerFeature(t *testing.T) {
	payload := `{"features":[
		{"geometry":{"coordinates":[[-122.0,47.0],[-121.0,47.1]]},"properties":{"name":"A","magnitude":"M6+"}},
		{"geometry":{"coordinates":[[-122.0,47.0],[-121.0,47.1]]},"properties":{"name":"B","magnitude":7.0}},
		{"geometry":{"coordinates":[]},"properties":{"name":"no vertices"}},
		{"geometry":{"coordinates":[[-122.0]]},"properties":{"name":"short vertex"}},
		{"geometry":{"coordinates":[[-122.0,47.0]]},"properties":{}},
		{"properties":{"name":"no geometry"}}
	]}`

	got := BuildFaults(json.RawMessage(payload), true)
	require.Len(t, got, 2)
	assert.Equal(t, "A\nMax Magnitude: M6+", got[0].HoverText[0])
	assert.Equal(t, "B\nMax Magnitude: 7.0", got[1].HoverText[0])
}

func TestBuildWatersheds(t *testing.T) {
	got := BuildWatersheds(json.RawMessage(watershedsPayload), true)
	require.Len(t, got, 1)

	l := got[0]
	assert.Equal(t, models.LayerKindPolygon, l.Kind)
	assert.Equal(t, models.Style{Color: "cyan", Width: 2, Fill: "toself", FillColor: "rgba(0, 255, 255, 0.1)"}, l.Style)
	assert.False(t, l.ShowInLegend)
	assert.Len(t, l.Coordinates, 4, "only the outer ring is used")
	assert.Equal(t, []string{"Snoqualmie\nArea: 1813.3 km²"}, l.HoverText)
}

func TestBuildWatersheds_MissingAreaExcluded(t *testing.T) {
	payload := `{"features":[
		{"geometry":{"coordinates":[[[-122.0,47.0],[-121.5,47.0],[-121.5,47.5],[-122.0,47.0]]]},"properties":{"name":"No Area"}},
		{"geometry":{"coordinates":[[[-122.0,47.0],[-121.5,47.0],[-121.5,47.5],[-122.0,47.0]]]},"properties":{"name":"Has Area","area_km2":50}}
	]}`

	got := BuildWatersheds(json.RawMessage(payload), true)
	require.Len(t, got, 1)
	assert.Equal(t, "Has Area", got[0].Name)
	assert.Equal(t, []string{"Has Area\nArea: 50.0 km²"}, got[0].HoverText)
}

func TestBuildWatersheds_MultiPolygonSkipped(t *testing.T) {
	payload := `{"features":[
		{"geometry":{"type":"MultiPolygon","coordinates":[[[[-122.0,47.0],[-121.5,47.0],[-122.0,47.0]]]]},"properties":{"name":"Multi","area_km2":5}}
	]}`
	assert.Empty(t, BuildWatersheds(json.RawMessage(payload), true))
}

func TestRecords_ErrorsAreClassified(t *testing.T) {
	_, err := records(json.RawMessage(`{}`), "stations")
	assert.True(t, errors.Is(err, ErrSourceUnavailable))

	_, err = records(json.RawMessage(`{"stations":{}}`), "stations")
	assert.True(t, errors.Is(err, ErrSourceUnavailable))

	_, err = records(json.RawMessage(`{"stations":null}`), "stations")
	assert.True(t, errors.Is(err, ErrSourceUnavailable))

	_, err = decodeSeismic(json.RawMessage(`{"id":"X"}`))
	assert.True(t, errors.Is(err, ErrMalformedRecord))

	_, err = decodeWatershed(json.RawMessage(`{"properties":{"name":"W","area_km2":1}}`))
	assert.True(t, errors.Is(err, ErrMalformedRecord))
}

func TestLabel_UnmarshalJSON(t *testing.T) {
	var v struct {
		A label `json:"a"`
		B label `json:"b"`
		C label `json:"c"`
		D label `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"text","b":6.80,"c":null}`), &v))
	assert.Equal(t, "text", v.A.or("x"))
	assert.Equal(t, "6.80", v.B.or("x"))
	assert.Equal(t, "x", v.C.or("x"))
	assert.Equal(t, "x", v.D.or("x"))

	assert.Error(t, json.Unmarshal([]byte(`{"a":true}`), &v))
}
