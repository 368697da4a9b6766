package geom

import (
	"errors"
	"fmt"

	cgeom "github.com/ctessum/geom"
)

var ErrUnsupported = errors.New("unsupported geometry")

// BBox is the rectangular extent of a geometry.
type BBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Width and Height of a degenerate box are zero.
func (b BBox) Width() float64  { return b.MaxX - b.MinX }
func (b BBox) Height() float64 { return b.MaxY - b.MinY }

// Bounds returns the extent of g; ok is false when g has no coordinates.
func Bounds(g *Geometry) (bb BBox, ok bool) {
	if g == nil || g.IsEmpty() {
		return BBox{}, false
	}
	cg, err := ToGeom(g)
	if err != nil {
		return BBox{}, false
	}
	b := cg.Bounds()
	if b == nil || b.Empty() {
		return BBox{}, false
	}
	return BBox{MinX: b.Min.X, MinY: b.Min.Y, MaxX: b.Max.X, MaxY: b.Max.Y}, true
}

func toPoints(cs []Coordinate) []cgeom.Point {
	out := make([]cgeom.Point, len(cs))
	for i, c := range cs {
		out[i] = cgeom.Point{X: c.X, Y: c.Y}
	}
	return out
}

func fromPoints(ps []cgeom.Point) []Coordinate {
	out := make([]Coordinate, len(ps))
	for i, p := range ps {
		out[i] = Coordinate{X: p.X, Y: p.Y}
	}
	return out
}

func toPolygon(g *Geometry) cgeom.Polygon {
	p := make(cgeom.Polygon, len(g.Geometries))
	for i, r := range g.Geometries {
		p[i] = toPoints(r.Coordinates)
	}
	return p
}

func fromPolygon(p cgeom.Polygon) *Geometry {
	g := &Geometry{Type: Polygon, Geometries: make([]*Geometry, len(p))}
	for i, r := range p {
		g.Geometries[i] = &Geometry{Type: LinearRing, Coordinates: fromPoints(r)}
	}
	return g
}

// ToGeom converts the editable tree into a ctessum geometry value. Empty
// points cannot be represented and are dropped from multi points.
func ToGeom(g *Geometry) (cgeom.Geom, error) {
	switch g.Type {
	case Point:
		if len(g.Coordinates) == 0 {
			return nil, fmt.Errorf("empty point: %w", ErrUnsupported)
		}
		return cgeom.Point{X: g.Coordinates[0].X, Y: g.Coordinates[0].Y}, nil
	case LineString, LinearRing:
		return cgeom.LineString(toPoints(g.Coordinates)), nil
	case Polygon:
		return toPolygon(g), nil
	case MultiPoint:
		mp := make(cgeom.MultiPoint, 0, len(g.Geometries))
		for _, p := range g.Geometries {
			if len(p.Coordinates) > 0 {
				mp = append(mp, cgeom.Point{X: p.Coordinates[0].X, Y: p.Coordinates[0].Y})
			}
		}
		return mp, nil
	case MultiLineString:
		ml := make(cgeom.MultiLineString, len(g.Geometries))
		for i, l := range g.Geometries {
			ml[i] = toPoints(l.Coordinates)
		}
		return ml, nil
	case MultiPolygon:
		mp := make(cgeom.MultiPolygon, len(g.Geometries))
		for i, p := range g.Geometries {
			mp[i] = toPolygon(p)
		}
		return mp, nil
	}
	return nil, fmt.Errorf("%s: %w", g.Type, ErrUnsupported)
}

// FromGeom converts a ctessum geometry value into an editable tree. Polygon
// rings are taken as linear rings and closed if the source left them open.
func FromGeom(cg cgeom.Geom) (*Geometry, error) {
	var g *Geometry
	switch v := cg.(type) {
	case cgeom.Point:
		g = &Geometry{Type: Point, Coordinates: []Coordinate{{X: v.X, Y: v.Y}}}
	case *cgeom.Point:
		g = &Geometry{Type: Point, Coordinates: []Coordinate{{X: v.X, Y: v.Y}}}
	case cgeom.LineString:
		g = &Geometry{Type: LineString, Coordinates: fromPoints(v)}
	case cgeom.Polygon:
		g = fromPolygon(v)
	case cgeom.MultiPoint:
		g = &Geometry{Type: MultiPoint, Geometries: make([]*Geometry, len(v))}
		for i, p := range v {
			g.Geometries[i] = &Geometry{Type: Point, Coordinates: []Coordinate{{X: p.X, Y: p.Y}}}
		}
	case cgeom.MultiLineString:
		g = &Geometry{Type: MultiLineString, Geometries: make([]*Geometry, len(v))}
		for i, l := range v {
			g.Geometries[i] = &Geometry{Type: LineString, Coordinates: fromPoints(l)}
		}
	case cgeom.MultiPolygon:
		g = &Geometry{Type: MultiPolygon, Geometries: make([]*Geometry, len(v))}
		for i, p := range v {
			g.Geometries[i] = fromPolygon(p)
		}
	default:
		return nil, fmt.Errorf("%T: %w", cg, ErrUnsupported)
	}
	closeRings(g)
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// closeRings appends the first coordinate to rings that do not repeat it.
func closeRings(g *Geometry) {
	if g.Type == LinearRing {
		n := len(g.Coordinates)
		if n > 0 && !g.Coordinates[0].Equals(g.Coordinates[n-1]) {
			g.Coordinates = append(g.Coordinates, g.Coordinates[0])
		}
		return
	}
	for _, c := range g.Geometries {
		closeRings(c)
	}
}
