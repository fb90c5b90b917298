// Package geo projects coordinates onto the decorative map and loads the
// country outline drawn beneath the markers.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/starford/homepage/internal/models"
)

// maxOutlineBytes caps the GeoJSON document size.
const maxOutlineBytes = 8 << 20

// Projection maps latitude/longitude onto a Width x Height viewport using an
// equirectangular projection.
type Projection struct {
	Width  float64
	Height float64
}

// Project returns the viewport position of (lat, lon).
func (p Projection) Project(lat, lon float64) (x, y float64) {
	x = (lon + 180) / 360 * p.Width
	y = (90 - lat) / 180 * p.Height
	return x, y
}

// Ring is a closed sequence of [lon, lat] positions, as in GeoJSON.
type Ring = orb.Ring

// Outline is the set of rings drawn as the map background.
type Outline struct {
	Rings []Ring
}

// Path renders the outline as an SVG path "d" attribute.
func (o Outline) Path(p Projection) string {
	var sb strings.Builder
	for _, ring := range o.Rings {
		for i, pos := range ring {
			x, y := p.Project(pos[1], pos[0])
			if i == 0 {
				sb.WriteString("M")
			} else {
				sb.WriteString("L")
			}
			sb.WriteString(strconv.FormatFloat(x, 'f', 1, 64))
			sb.WriteString(",")
			sb.WriteString(strconv.FormatFloat(y, 'f', 1, 64))
		}
		if len(ring) > 0 {
			sb.WriteString("Z")
		}
	}
	return sb.String()
}

// ParseOutline extracts Polygon and MultiPolygon rings from a GeoJSON
// FeatureCollection, Feature, or bare geometry. Other geometry types are ignored.
func ParseOutline(data []byte) (Outline, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Outline{}, fmt.Errorf("geo: decode geojson: %w", err)
	}

	var geoms []orb.Geometry
	switch head.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return Outline{}, fmt.Errorf("geo: decode feature collection: %w", err)
		}
		for _, f := range fc.Features {
			geoms = append(geoms, f.Geometry)
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return Outline{}, fmt.Errorf("geo: decode feature: %w", err)
		}
		geoms = append(geoms, f.Geometry)
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return Outline{}, fmt.Errorf("geo: decode geometry: %w", err)
		}
		geoms = append(geoms, g.Geometry())
	}

	var out Outline
	for _, g := range geoms {
		out.Rings = appendRings(out.Rings, g)
	}
	return out, nil
}

func appendRings(rings []Ring, g orb.Geometry) []Ring {
	switch g := g.(type) {
	case orb.Polygon:
		rings = append(rings, g...)
	case orb.MultiPolygon:
		for _, poly := range g {
			rings = append(rings, poly...)
		}
	case orb.Collection:
		for _, inner := range g {
			rings = appendRings(rings, inner)
		}
	}
	return rings
}

// FetchOutline downloads and parses a GeoJSON document. It makes exactly one
// attempt.
func FetchOutline(ctx context.Context, client *http.Client, url string) (Outline, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Outline{}, fmt.Errorf("geo: build request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := client.Do(req)
	if err != nil {
		return Outline{}, fmt.Errorf("geo: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Outline{}, fmt.Errorf("geo: fetch %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxOutlineBytes))
	if err != nil {
		return Outline{}, fmt.Errorf("geo: read body: %w", err)
	}
	return ParseOutline(data)
}

// MarkerIndex normalizes a requested marker position into [0, n).
// With no coordinates it returns -1.
func MarkerIndex(i, n int) int {
	if n <= 0 {
		return -1
	}
	if i < 0 {
		i = 0
	}
	return i % n
}

// NextMarker returns the position after i, wrapping at n.
func NextMarker(i, n int) int {
	if n <= 0 {
		return 0
	}
	return (MarkerIndex(i, n) + 1) % n
}

// ProjectAll projects every coordinate in order.
func ProjectAll(p Projection, coords []models.Coordinate) []Point {
	out := make([]Point, len(coords))
	for i, c := range coords {
		x, y := p.Project(c.Lat, c.Lon)
		out[i] = Point{X: x, Y: y, Code: c.Code}
	}
	return out
}

// Point is a projected coordinate.
type Point struct {
	X, Y float64
	Code string
}
