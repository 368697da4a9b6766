package geom

import (
	"errors"
	"fmt"
)

var (
	ErrPosition = errors.New("position out of range")
	ErrNotLeaf  = errors.New("geometry does not hold coordinates")
	ErrNotMulti = errors.New("geometry does not hold parts")
)

// The helpers below keep a linear ring closed: whenever vertex 0 changes the
// closing coordinate follows it, and the closing position is an alias of 0.
// Each returns the position it actually touched so the change can be
// reversed exactly.

// InsertCoordinates inserts coords before position pos.
func (g *Geometry) InsertCoordinates(pos int, coords ...Coordinate) (int, error) {
	if !g.Type.IsLeaf() {
		return 0, ErrNotLeaf
	}
	if len(coords) == 0 {
		return pos, nil
	}
	n := len(g.Coordinates)
	switch g.Type {
	case Point:
		if n != 0 || pos != 0 || len(coords) != 1 {
			return 0, fmt.Errorf("point insert at %d: %w", pos, ErrPosition)
		}
		g.Coordinates = []Coordinate{coords[0]}
		return 0, nil
	case LinearRing:
		if n == 0 {
			if pos != 0 {
				return 0, fmt.Errorf("ring insert at %d: %w", pos, ErrPosition)
			}
			g.Coordinates = append(append([]Coordinate(nil), coords...), coords[0])
			return 0, nil
		}
		if pos == n {
			pos = n - 1
		}
	}
	if pos < 0 || pos > n {
		return 0, fmt.Errorf("insert at %d of %d: %w", pos, n, ErrPosition)
	}
	out := make([]Coordinate, 0, n+len(coords))
	out = append(out, g.Coordinates[:pos]...)
	out = append(out, coords...)
	out = append(out, g.Coordinates[pos:]...)
	g.Coordinates = out
	if g.Type == LinearRing && pos == 0 {
		g.Coordinates[len(out)-1] = g.Coordinates[0]
	}
	return pos, nil
}

// SetCoordinate replaces the coordinate at pos and returns the previous one.
func (g *Geometry) SetCoordinate(pos int, c Coordinate) (Coordinate, int, error) {
	if !g.Type.IsLeaf() {
		return Coordinate{}, 0, ErrNotLeaf
	}
	n := len(g.Coordinates)
	if pos < 0 || pos >= n {
		return Coordinate{}, 0, fmt.Errorf("set at %d of %d: %w", pos, n, ErrPosition)
	}
	if g.Type == LinearRing && pos == n-1 {
		pos = 0
	}
	old := g.Coordinates[pos]
	g.Coordinates[pos] = c
	if g.Type == LinearRing && pos == 0 {
		g.Coordinates[n-1] = c
	}
	return old, pos, nil
}

// RemoveCoordinate deletes the coordinate at pos and returns it.
func (g *Geometry) RemoveCoordinate(pos int) (Coordinate, int, error) {
	if !g.Type.IsLeaf() {
		return Coordinate{}, 0, ErrNotLeaf
	}
	n := len(g.Coordinates)
	if pos < 0 || pos >= n {
		return Coordinate{}, 0, fmt.Errorf("remove at %d of %d: %w", pos, n, ErrPosition)
	}
	if g.Type == LinearRing && pos == n-1 {
		pos = 0
	}
	old := g.Coordinates[pos]
	out := make([]Coordinate, 0, n-1)
	out = append(out, g.Coordinates[:pos]...)
	out = append(out, g.Coordinates[pos+1:]...)
	g.Coordinates = out
	if g.Type == LinearRing && pos == 0 {
		if len(out) <= 1 {
			g.Coordinates = nil
		} else {
			g.Coordinates[len(out)-1] = g.Coordinates[0]
		}
	}
	return old, pos, nil
}

// InsertGeometry inserts child before position pos.
func (g *Geometry) InsertGeometry(pos int, child *Geometry) error {
	want, ok := g.Type.ChildType()
	if !ok {
		return ErrNotMulti
	}
	if child == nil || child.Type != want {
		return fmt.Errorf("insert part into %s: %w", g.Type, ErrChildMismatch)
	}
	n := len(g.Geometries)
	if pos < 0 || pos > n {
		return fmt.Errorf("insert part at %d of %d: %w", pos, n, ErrPosition)
	}
	out := make([]*Geometry, 0, n+1)
	out = append(out, g.Geometries[:pos]...)
	out = append(out, child)
	out = append(out, g.Geometries[pos:]...)
	g.Geometries = out
	return nil
}

// RemoveGeometry deletes and returns the part at pos.
func (g *Geometry) RemoveGeometry(pos int) (*Geometry, error) {
	if _, ok := g.Type.ChildType(); !ok {
		return nil, ErrNotMulti
	}
	n := len(g.Geometries)
	if pos < 0 || pos >= n {
		return nil, fmt.Errorf("remove part at %d of %d: %w", pos, n, ErrPosition)
	}
	old := g.Geometries[pos]
	out := make([]*Geometry, 0, n-1)
	out = append(out, g.Geometries[:pos]...)
	out = append(out, g.Geometries[pos+1:]...)
	g.Geometries = out
	return old, nil
}
