package geom

import (
	"errors"
	"fmt"
	"math"
)

// Type tags a Geometry node.
type Type int

const (
	Point Type = iota
	LineString
	LinearRing
	Polygon
	MultiPoint
	MultiLineString
	MultiPolygon
)

func (t Type) String() string {
	switch t {
	case Point:
		return "Point"
	case LineString:
		return "LineString"
	case LinearRing:
		return "LinearRing"
	case Polygon:
		return "Polygon"
	case MultiPoint:
		return "MultiPoint"
	case MultiLineString:
		return "MultiLineString"
	case MultiPolygon:
		return "MultiPolygon"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// IsLeaf reports whether geometries of this type hold coordinates.
func (t Type) IsLeaf() bool {
	return t == Point || t == LineString || t == LinearRing
}

// ChildType is the type of the parts a collection holds.
func (t Type) ChildType() (Type, bool) {
	switch t {
	case Polygon:
		return LinearRing, true
	case MultiPoint:
		return Point, true
	case MultiLineString:
		return LineString, true
	case MultiPolygon:
		return Polygon, true
	}
	return 0, false
}

var (
	ErrMixedContent  = errors.New("geometry holds both coordinates and children")
	ErrWrongContent  = errors.New("content does not match geometry type")
	ErrOpenRing      = errors.New("linear ring is not closed")
	ErrShortRing     = errors.New("linear ring has fewer than 4 coordinates")
	ErrChildMismatch = errors.New("child type does not match collection")
)

// Coordinate is an x/y pair.
type Coordinate struct {
	X float64
	Y float64
}

func (c Coordinate) Equals(o Coordinate) bool {
	return c.X == o.X && c.Y == o.Y
}

// EqualsWithin compares both ordinates with an absolute tolerance.
func (c Coordinate) EqualsWithin(o Coordinate, tol float64) bool {
	return math.Abs(c.X-o.X) <= tol && math.Abs(c.Y-o.Y) <= tol
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%g %g)", c.X, c.Y)
}

// Geometry is a node of the editable geometry tree. Leaf types carry
// Coordinates, collection types carry Geometries, never both.
type Geometry struct {
	Type        Type
	Coordinates []Coordinate
	Geometries  []*Geometry
}

// NewLeaf builds a point, line string or linear ring.
func NewLeaf(t Type, coords ...Coordinate) (*Geometry, error) {
	if !t.IsLeaf() {
		return nil, fmt.Errorf("new %s: %w", t, ErrWrongContent)
	}
	g := &Geometry{Type: t, Coordinates: append([]Coordinate(nil), coords...)}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// NewCollection builds a polygon or multi geometry from its parts.
func NewCollection(t Type, parts ...*Geometry) (*Geometry, error) {
	if t.IsLeaf() {
		return nil, fmt.Errorf("new %s: %w", t, ErrWrongContent)
	}
	g := &Geometry{Type: t, Geometries: append([]*Geometry(nil), parts...)}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// NewEmpty returns an empty geometry of the given type.
func NewEmpty(t Type) *Geometry {
	return &Geometry{Type: t}
}

// Validate checks the storage invariant recursively.
func (g *Geometry) Validate() error {
	if len(g.Coordinates) > 0 && len(g.Geometries) > 0 {
		return fmt.Errorf("%s: %w", g.Type, ErrMixedContent)
	}
	if g.Type.IsLeaf() {
		if len(g.Geometries) > 0 {
			return fmt.Errorf("%s: %w", g.Type, ErrWrongContent)
		}
		switch g.Type {
		case Point:
			if len(g.Coordinates) > 1 {
				return fmt.Errorf("point with %d coordinates: %w", len(g.Coordinates), ErrWrongContent)
			}
		case LinearRing:
			n := len(g.Coordinates)
			if n == 0 {
				return nil
			}
			if !g.Coordinates[0].Equals(g.Coordinates[n-1]) {
				return ErrOpenRing
			}
			if n < 4 {
				return ErrShortRing
			}
		}
		return nil
	}
	if len(g.Coordinates) > 0 {
		return fmt.Errorf("%s: %w", g.Type, ErrWrongContent)
	}
	want, _ := g.Type.ChildType()
	for i, c := range g.Geometries {
		if c == nil || c.Type != want {
			return fmt.Errorf("%s part %d: %w", g.Type, i, ErrChildMismatch)
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%s part %d: %w", g.Type, i, err)
		}
	}
	return nil
}

// IsEmpty reports whether the geometry holds no coordinates at any depth.
func (g *Geometry) IsEmpty() bool {
	if len(g.Coordinates) > 0 {
		return false
	}
	for _, c := range g.Geometries {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (g *Geometry) Clone() *Geometry {
	if g == nil {
		return nil
	}
	out := &Geometry{Type: g.Type}
	if g.Coordinates != nil {
		out.Coordinates = append([]Coordinate(nil), g.Coordinates...)
	}
	if g.Geometries != nil {
		out.Geometries = make([]*Geometry, len(g.Geometries))
		for i, c := range g.Geometries {
			out.Geometries[i] = c.Clone()
		}
	}
	return out
}

// Equals compares type, structure and coordinates exactly.
func (g *Geometry) Equals(o *Geometry) bool {
	return g.EqualsWithin(o, 0)
}

// EqualsWithin is Equals with coordinates compared under tol.
func (g *Geometry) EqualsWithin(o *Geometry, tol float64) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.Type != o.Type || len(g.Coordinates) != len(o.Coordinates) || len(g.Geometries) != len(o.Geometries) {
		return false
	}
	for i := range g.Coordinates {
		if !g.Coordinates[i].EqualsWithin(o.Coordinates[i], tol) {
			return false
		}
	}
	for i := range g.Geometries {
		if !g.Geometries[i].EqualsWithin(o.Geometries[i], tol) {
			return false
		}
	}
	return true
}

// Walk visits every coordinate with the path of child positions leading to
// its leaf and its position in that leaf.
func (g *Geometry) Walk(fn func(path []int, vertex int, c Coordinate)) {
	var walk func(n *Geometry, path []int)
	walk = func(n *Geometry, path []int) {
		for i, c := range n.Coordinates {
			fn(path, i, c)
		}
		for i, child := range n.Geometries {
			walk(child, append(path[:len(path):len(path)], i))
		}
	}
	walk(g, nil)
}
