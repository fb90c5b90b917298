// Package parser turns CSV data files into header-keyed rows and coordinates.
package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/starford/homepage/internal/models"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseRows reads a headered CSV document and returns one Row per data line,
// keyed by the trimmed, lower-cased header names. When two headers fold to
// the same key the leftmost column wins. Lines whose fields are all blank are
// dropped. Short lines simply lack the trailing keys; extra fields are ignored.
func ParseRows(data []byte) ([]models.Row, error) {
	r := newReader(data)

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parser: read header: %w", err)
	}
	keys := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		k := strings.ToLower(strings.TrimSpace(h))
		if seen[k] {
			// Later duplicates are skipped below.
			k = ""
		}
		seen[k] = true
		keys[i] = k
	}

	var out []models.Row
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parser: read row: %w", err)
		}
		if blank(rec) {
			continue
		}
		row := make(models.Row, len(keys))
		for i, k := range keys {
			if k == "" || i >= len(rec) {
				continue
			}
			row[k] = strings.TrimSpace(rec[i])
		}
		out = append(out, row)
	}
	return out, nil
}

// ParseCoordinates reads unheadered "lat,lon,code" lines. Lines without two
// parseable numbers are skipped, which also drops an accidental header line.
func ParseCoordinates(data []byte) ([]models.Coordinate, error) {
	r := newReader(data)

	var out []models.Coordinate
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parser: read coordinates: %w", err)
		}
		if len(rec) < 2 {
			continue
		}
		lat, latErr := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		lon, lonErr := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if latErr != nil || lonErr != nil {
			continue
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			continue
		}
		c := models.Coordinate{Lat: lat, Lon: lon}
		if len(rec) > 2 {
			c.Code = strings.TrimSpace(rec[2])
		}
		out = append(out, c)
	}
	return out, nil
}

func newReader(data []byte) *csv.Reader {
	data = bytes.TrimPrefix(data, utf8BOM)
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true
	return r
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
