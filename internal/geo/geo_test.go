package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/homepage/internal/models"
)

func TestProject_Corners(t *testing.T) {
	p := Projection{Width: 360, Height: 180}

	x, y := p.Project(90, -180)
	assert.InDelta(t, 0, x, 1e-9)
	assert.InDelta(t, 0, y, 1e-9)

	x, y = p.Project(0, 0)
	assert.InDelta(t, 180, x, 1e-9)
	assert.InDelta(t, 90, y, 1e-9)

	x, y = p.Project(-90, 180)
	assert.InDelta(t, 360, x, 1e-9)
	assert.InDelta(t, 180, y, 1e-9)
}

const squareFeature = `{"type":"FeatureCollection","features":[
 {"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,0]]]}},
 {"type":"Feature","geometry":{"type":"Point","coordinates":[1,1]}},
 {"type":"Feature","geometry":{"type":"MultiPolygon","coordinates":[[[[20,20],[30,20],[20,20]]],[[[40,40],[50,40],[40,40]]]]}}
]}`

func TestParseOutline(t *testing.T) {
	o, err := ParseOutline([]byte(squareFeature))
	require.NoError(t, err)
	assert.Len(t, o.Rings, 3)

	path := o.Path(Projection{Width: 360, Height: 180})
	assert.Equal(t, 3, strings.Count(path, "M"))
	assert.Equal(t, 3, strings.Count(path, "Z"))
	assert.True(t, strings.HasPrefix(path, "M180.0,90.0L190.0,90.0"), path)
}

func TestParseOutline_BareGeometry(t *testing.T) {
	o, err := ParseOutline([]byte(`{"type":"Polygon","coordinates":[[[0,0],[1,1],[0,0]]]}`))
	require.NoError(t, err)
	assert.Len(t, o.Rings, 1)
}

func TestParseOutline_FeatureAndCollection(t *testing.T) {
	o, err := ParseOutline([]byte(`{"type":"Feature","properties":{},"geometry":{"type":"GeometryCollection","geometries":[
		{"type":"Polygon","coordinates":[[[0,0],[1,1],[0,0]]]},
		{"type":"LineString","coordinates":[[0,0],[1,1]]},
		{"type":"MultiPolygon","coordinates":[[[[2,2],[3,3],[2,2]],[[2.5,2.5],[2.6,2.6],[2.5,2.5]]]]}
	]}}`))
	require.NoError(t, err)
	require.Len(t, o.Rings, 3)
	assert.Equal(t, Ring{{2.5, 2.5}, {2.6, 2.6}, {2.5, 2.5}}, o.Rings[2])

	o, err = ParseOutline([]byte(`{"type":"FeatureCollection","features":[{"type":"Feature","properties":null,"geometry":null}]}`))
	require.NoError(t, err)
	assert.Empty(t, o.Rings)
}

func TestParseOutline_Invalid(t *testing.T) {
	_, err := ParseOutline([]byte(`{"type":`))
	assert.Error(t, err)

	_, err = ParseOutline([]byte(`{"type":"Polygon","coordinates":"nope"}`))
	assert.Error(t, err)
}

func TestFetchOutline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write([]byte(squareFeature))
	}))
	defer srv.Close()

	o, err := FetchOutline(context.Background(), srv.Client(), srv.URL+"/world.geojson")
	require.NoError(t, err)
	assert.Len(t, o.Rings, 3)

	_, err = FetchOutline(context.Background(), srv.Client(), srv.URL+"/missing")
	assert.ErrorContains(t, err, "status 404")
}

func TestMarkerCycle(t *testing.T) {
	assert.Equal(t, -1, MarkerIndex(0, 0))
	assert.Equal(t, 0, NextMarker(5, 0))
	assert.Equal(t, 2, MarkerIndex(5, 3))
	assert.Equal(t, 0, MarkerIndex(-2, 3))

	i := 0
	seen := []int{i}
	for range 3 {
		i = NextMarker(i, 3)
		seen = append(seen, i)
	}
	assert.Equal(t, []int{0, 1, 2, 0}, seen)
}

func TestProjectAll_KeepsOrder(t *testing.T) {
	pts := ProjectAll(Projection{Width: 360, Height: 180}, []models.Coordinate{
		{Lat: 0, Lon: 0, Code: "A"},
		{Lat: 45, Lon: 90, Code: "B"},
	})
	require.Len(t, pts, 2)
	assert.Equal(t, "A", pts[0].Code)
	assert.InDelta(t, 270, pts[1].X, 1e-9)
	assert.InDelta(t, 45, pts[1].Y, 1e-9)
}
