package geom

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	cgeom "github.com/ctessum/geom"
	cgeojson "github.com/ctessum/geom/encoding/geojson"
)

var ErrGeoJSON = errors.New("invalid geojson")

type geoJSONDoc struct {
	Type        string             `json:"type"`
	Coordinates any                `json:"coordinates"`
	Geometry    *cgeojson.Geometry `json:"geometry"`
	Features    []struct {
		Geometry *cgeojson.Geometry `json:"geometry"`
	} `json:"features"`
}

// LoadGeoJSON reads a GeoJSON file and returns its geometry.
func LoadGeoJSON(path string) (*Geometry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeGeoJSON(data)
}

// DecodeGeoJSON accepts a bare geometry, a Feature, or a FeatureCollection
// (whose first feature with a geometry is used).
func DecodeGeoJSON(data []byte) (*Geometry, error) {
	var doc geoJSONDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeoJSON, err)
	}
	switch doc.Type {
	case "":
		return nil, fmt.Errorf("missing type: %w", ErrGeoJSON)
	case "Feature":
		if doc.Geometry == nil {
			return nil, fmt.Errorf("feature without geometry: %w", ErrGeoJSON)
		}
		return decodeGeometry(doc.Geometry)
	case "FeatureCollection":
		for _, f := range doc.Features {
			if f.Geometry != nil {
				return decodeGeometry(f.Geometry)
			}
		}
		return nil, fmt.Errorf("no geometries found: %w", ErrGeoJSON)
	default:
		return decodeGeometry(&cgeojson.Geometry{Type: doc.Type, Coordinates: doc.Coordinates})
	}
}

func decodeGeometry(gj *cgeojson.Geometry) (*Geometry, error) {
	var (
		cg  cgeom.Geom
		err error
	)
	switch gj.Type {
	case "Point", "LineString", "Polygon":
		cg, err = cgeojson.FromGeoJSON(gj)
	case "MultiPoint":
		var pts []cgeom.Point
		pts, err = decodePoints(gj.Coordinates)
		cg = cgeom.MultiPoint(pts)
	case "MultiLineString":
		var lines [][]cgeom.Point
		lines, err = decodePointss(gj.Coordinates)
		ml := make(cgeom.MultiLineString, len(lines))
		for i, l := range lines {
			ml[i] = l
		}
		cg = ml
	case "MultiPolygon":
		arr, ok := gj.Coordinates.([]any)
		if !ok {
			return nil, fmt.Errorf("multipolygon coordinates: %w", ErrGeoJSON)
		}
		mp := make(cgeom.MultiPolygon, 0, len(arr))
		for _, el := range arr {
			rings, err := decodePointss(el)
			if err != nil {
				return nil, err
			}
			mp = append(mp, cgeom.Polygon(rings))
		}
		cg = mp
	default:
		return nil, fmt.Errorf("unsupported geojson type %q: %w", gj.Type, ErrGeoJSON)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", gj.Type, ErrGeoJSON, err)
	}
	return FromGeom(cg)
}

func decodePoint(v any) (cgeom.Point, error) {
	a, ok := v.([]any)
	if !ok || len(a) < 2 {
		return cgeom.Point{}, ErrGeoJSON
	}
	x, xok := a[0].(float64)
	y, yok := a[1].(float64)
	if !xok || !yok {
		return cgeom.Point{}, ErrGeoJSON
	}
	return cgeom.Point{X: x, Y: y}, nil
}

func decodePoints(v any) ([]cgeom.Point, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, ErrGeoJSON
	}
	out := make([]cgeom.Point, 0, len(arr))
	for _, el := range arr {
		p, err := decodePoint(el)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func decodePointss(v any) ([][]cgeom.Point, error) {
	arr, ok := v.([]any)
	if !ok {
		return nil, ErrGeoJSON
	}
	out := make([][]cgeom.Point, 0, len(arr))
	for _, el := range arr {
		pts, err := decodePoints(el)
		if err != nil {
			return nil, err
		}
		out = append(out, pts)
	}
	return out, nil
}

func coords(ps []cgeom.Point) [][]float64 {
	out := make([][]float64, len(ps))
	for i, p := range ps {
		out[i] = []float64{p.X, p.Y}
	}
	return out
}

// EncodeGeoJSON writes g as a GeoJSON geometry object. Linear rings are
// written as LineStrings.
func EncodeGeoJSON(g *Geometry) ([]byte, error) {
	cg, err := ToGeom(g)
	if err != nil {
		return nil, err
	}
	switch v := cg.(type) {
	case cgeom.Point, cgeom.LineString, cgeom.Polygon:
		return cgeojson.Encode(cg)
	case cgeom.MultiPoint:
		return json.Marshal(&cgeojson.Geometry{Type: "MultiPoint", Coordinates: coords(v)})
	case cgeom.MultiLineString:
		cs := make([][][]float64, len(v))
		for i, l := range v {
			cs[i] = coords(l)
		}
		return json.Marshal(&cgeojson.Geometry{Type: "MultiLineString", Coordinates: cs})
	case cgeom.MultiPolygon:
		cs := make([][][][]float64, len(v))
		for i, p := range v {
			cs[i] = make([][][]float64, len(p))
			for j, r := range p {
				cs[i][j] = coords(r)
			}
		}
		return json.Marshal(&cgeojson.Geometry{Type: "MultiPolygon", Coordinates: cs})
	}
	return nil, fmt.Errorf("%s: %w", g.Type, ErrUnsupported)
}
