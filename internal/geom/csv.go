package geom

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
)

var ErrCSV = errors.New("invalid csv")

var (
	latColumns = []string{"lat", "latitude", "y"}
	lonColumns = []string{"lon", "lng", "long", "longitude", "x"}
)

// LoadCSV reads a CSV with latitude/longitude columns as a MultiPoint. The
// first matching header (case-insensitive) of each kind wins; rows whose
// values do not parse are skipped.
func LoadCSV(path string) (*Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: header: %w: %v", path, ErrCSV, err)
	}
	lat, lon := column(header, latColumns), column(header, lonColumns)
	if lat < 0 || lon < 0 {
		return nil, fmt.Errorf("%s: latitude/longitude columns not found: %w", path, ErrCSV)
	}
	g := &Geometry{Type: MultiPoint}
	for line := 2; ; line++ {
		row, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%s: line %d: %w: %v", path, line, ErrCSV, err)
		}
		if lon >= len(row) || lat >= len(row) {
			continue
		}
		x, err1 := strconv.ParseFloat(strings.TrimSpace(row[lon]), 64)
		y, err2 := strconv.ParseFloat(strings.TrimSpace(row[lat]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		g.Geometries = append(g.Geometries, &Geometry{Type: Point, Coordinates: []Coordinate{{X: x, Y: y}}})
	}
	if len(g.Geometries) == 0 {
		return nil, fmt.Errorf("%s: no valid points: %w", path, ErrCSV)
	}
	return g, nil
}

func column(header, names []string) int {
	for i, h := range header {
		if slices.Contains(names, strings.ToLower(strings.TrimSpace(h))) {
			return i
		}
	}
	return -1
}
