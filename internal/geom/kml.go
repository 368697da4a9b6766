package geom

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

var ErrKML = errors.New("invalid kml")

type kmlCoords struct {
	Coordinates string `xml:"coordinates"`
}

type kmlPolygon struct {
	Outer kmlCoords   `xml:"outerBoundaryIs>LinearRing"`
	Inner []kmlCoords `xml:"innerBoundaryIs>LinearRing"`
}

type kmlPlacemark struct {
	Point      *kmlCoords  `xml:"Point"`
	LineString *kmlCoords  `xml:"LineString"`
	Polygon    *kmlPolygon `xml:"Polygon"`
}

type kmlDoc struct {
	Placemarks []kmlPlacemark `xml:"Document>Placemark"`
	Folders    []kmlPlacemark `xml:"Document>Folder>Placemark"`
	Bare       []kmlPlacemark `xml:"Placemark"`
}

// LoadKML reads the Point, LineString or Polygon placemarks of a KML file
// into the matching multi geometry. KML coordinates are "lon,lat[,alt]";
// altitude is ignored. Placemarks of more than one kind are rejected.
func LoadKML(path string) (*Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc kmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrKML, err)
	}
	var points, lines, polys []*Geometry
	all := append(append(doc.Placemarks, doc.Folders...), doc.Bare...)
	for i, pm := range all {
		switch {
		case pm.Point != nil:
			for _, c := range kmlTuples(pm.Point.Coordinates) {
				points = append(points, &Geometry{Type: Point, Coordinates: []Coordinate{c}})
			}
		case pm.LineString != nil:
			if cs := kmlTuples(pm.LineString.Coordinates); len(cs) > 0 {
				lines = append(lines, &Geometry{Type: LineString, Coordinates: cs})
			}
		case pm.Polygon != nil:
			p, err := kmlPolygonGeometry(pm.Polygon)
			if err != nil {
				return nil, fmt.Errorf("%s: placemark %d: %w", path, i, err)
			}
			polys = append(polys, p)
		}
	}
	var kinds []*Geometry
	for _, g := range []*Geometry{
		{Type: MultiPoint, Geometries: points},
		{Type: MultiLineString, Geometries: lines},
		{Type: MultiPolygon, Geometries: polys},
	} {
		if len(g.Geometries) > 0 {
			kinds = append(kinds, g)
		}
	}
	switch len(kinds) {
	case 0:
		return nil, fmt.Errorf("%s: no placemark geometries: %w", path, ErrKML)
	case 1:
		return kinds[0], nil
	}
	return nil, fmt.Errorf("%s: placemarks mix geometry kinds: %w", path, ErrKML)
}

func kmlPolygonGeometry(p *kmlPolygon) (*Geometry, error) {
	g := &Geometry{Type: Polygon}
	for _, r := range append([]kmlCoords{p.Outer}, p.Inner...) {
		g.Geometries = append(g.Geometries, &Geometry{Type: LinearRing, Coordinates: kmlTuples(r.Coordinates)})
	}
	closeRings(g)
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// kmlTuples parses whitespace separated "lon,lat[,alt]" tuples, skipping
// malformed ones.
func kmlTuples(s string) []Coordinate {
	var out []Coordinate
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(vals[0], 64)
		lat, err2 := strconv.ParseFloat(vals[1], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, Coordinate{X: lon, Y: lat})
	}
	return out
}
