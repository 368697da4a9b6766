// Package index addresses nodes of a geometry tree with dot-separated paths
// such as "geometry1.vertex3", and navigates a geometry using them.
package index

import (
	"fmt"
	"strings"
)

// Type is the tag of one path segment.
type Type int

const (
	TypeGeometry Type = iota
	TypeEdge
	TypeVertex
)

// String returns the keyword used in the textual form.
func (t Type) String() string {
	switch t {
	case TypeGeometry:
		return "geometry"
	case TypeEdge:
		return "edge"
	case TypeVertex:
		return "vertex"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// GeometryIndex is an immutable path into a geometry tree. Every segment but
// the last is a geometry segment; only the last may be an edge or vertex.
// Values are built by Service and never change afterwards.
type GeometryIndex struct {
	typ   Type
	value int
	child *GeometryIndex
}

// Type returns the tag of this segment (not the terminal one).
func (g *GeometryIndex) Type() Type { return g.typ }

// Value returns the position this segment selects.
func (g *GeometryIndex) Value() int { return g.value }

// Child returns the next segment, or nil.
func (g *GeometryIndex) Child() *GeometryIndex { return g.child }

func (g *GeometryIndex) HasChild() bool { return g.child != nil }

// Terminal returns the deepest segment.
func (g *GeometryIndex) Terminal() *GeometryIndex {
	for g != nil && g.child != nil {
		g = g.child
	}
	return g
}

// Depth is the number of segments.
func (g *GeometryIndex) Depth() int {
	n := 0
	for ; g != nil; g = g.child {
		n++
	}
	return n
}

// Values returns the segment values in path order.
func (g *GeometryIndex) Values() []int {
	var out []int
	for ; g != nil; g = g.child {
		out = append(out, g.value)
	}
	return out
}

// Equal compares two paths segment by segment. Two nil indices are equal.
func (g *GeometryIndex) Equal(o *GeometryIndex) bool {
	for g != nil && o != nil {
		if g.typ != o.typ || g.value != o.value {
			return false
		}
		g, o = g.child, o.child
	}
	return g == nil && o == nil
}

// String returns the canonical textual form, e.g. "geometry0.vertex2".
func (g *GeometryIndex) String() string {
	if g == nil {
		return ""
	}
	var b strings.Builder
	for n := g; n != nil; n = n.child {
		if n != g {
			b.WriteByte('.')
		}
		fmt.Fprintf(&b, "%s%d", n.typ, n.value)
	}
	return b.String()
}

// build links the given values: all geometry segments but the last, which
// carries typ.
func build(typ Type, values []int) *GeometryIndex {
	var head *GeometryIndex
	for i := len(values) - 1; i >= 0; i-- {
		t := TypeGeometry
		if i == len(values)-1 {
			t = typ
		}
		head = &GeometryIndex{typ: t, value: values[i], child: head}
	}
	return head
}
