package index

import (
	"fmt"

	"geoedit/internal/geom"
)

// resolve walks the geometry segments of idx that precede the terminal one and
// returns the node the terminal segment addresses into.
func resolve(g *geom.Geometry, idx *GeometryIndex) (*geom.Geometry, *GeometryIndex, error) {
	if g == nil {
		return nil, nil, fmt.Errorf("nil geometry: %w", ErrIndexNotFound)
	}
	if idx == nil {
		return nil, nil, fmt.Errorf("nil index: %w", ErrIndexNotFound)
	}
	node, seg := g, idx
	for seg.child != nil {
		if seg.typ != TypeGeometry {
			return nil, nil, fmt.Errorf("%s: %s segment before the end: %w", idx, seg.typ, ErrIndexNotFound)
		}
		if seg.value < 0 || seg.value >= len(node.Geometries) {
			return nil, nil, fmt.Errorf("%s: geometry%d out of range for %s with %d parts: %w",
				idx, seg.value, node.Type, len(node.Geometries), ErrIndexNotFound)
		}
		node, seg = node.Geometries[seg.value], seg.child
	}
	return node, seg, nil
}

// resolveLeaf resolves idx and requires the terminal segment to be of type
// want and to address into a coordinate-bearing geometry.
func resolveLeaf(g *geom.Geometry, idx *GeometryIndex, want Type) (*geom.Geometry, int, error) {
	owner, term, err := resolve(g, idx)
	if err != nil {
		return nil, 0, err
	}
	if term.typ != want {
		return nil, 0, fmt.Errorf("%s is not a %s index: %w", idx, want, ErrIndexNotFound)
	}
	if !owner.Type.IsLeaf() {
		return nil, 0, fmt.Errorf("%s: %s does not hold coordinates: %w", idx, owner.Type, ErrIndexNotFound)
	}
	return owner, term.value, nil
}

// replaceTerminal returns idx with its terminal segment set to typ/value.
func replaceTerminal(idx *GeometryIndex, typ Type, value int) *GeometryIndex {
	vals := idx.Values()
	vals[len(vals)-1] = value
	return build(typ, vals)
}

// GetGeometryType returns the type of the node reached by the geometry
// segments of idx, or the type of g itself for a nil index.
func (s *Service) GetGeometryType(g *geom.Geometry, idx *GeometryIndex) (geom.Type, error) {
	if g == nil {
		return 0, fmt.Errorf("nil geometry: %w", ErrIndexNotFound)
	}
	if idx == nil {
		return g.Type, nil
	}
	owner, term, err := resolve(g, idx)
	if err != nil {
		return 0, err
	}
	if term.typ != TypeGeometry {
		return owner.Type, nil
	}
	if term.value < 0 || term.value >= len(owner.Geometries) {
		return 0, fmt.Errorf("%s: out of range for %s with %d parts: %w", idx, owner.Type, len(owner.Geometries), ErrIndexNotFound)
	}
	return owner.Geometries[term.value].Type, nil
}

// GetVertex returns the coordinate a vertex index points at.
func (s *Service) GetVertex(g *geom.Geometry, idx *GeometryIndex) (geom.Coordinate, error) {
	leaf, v, err := resolveLeaf(g, idx, TypeVertex)
	if err != nil {
		return geom.Coordinate{}, err
	}
	if v < 0 || v >= len(leaf.Coordinates) {
		return geom.Coordinate{}, fmt.Errorf("%s: out of range for %d coordinates: %w", idx, len(leaf.Coordinates), ErrIndexNotFound)
	}
	return leaf.Coordinates[v], nil
}

// GetEdge returns the two coordinates bounding an edge. Ring edges wrap: the
// closing position aliases edge 0.
func (s *Service) GetEdge(g *geom.Geometry, idx *GeometryIndex) ([2]geom.Coordinate, error) {
	leaf, v, err := resolveLeaf(g, idx, TypeEdge)
	if err != nil {
		return [2]geom.Coordinate{}, err
	}
	from, to, err := edgeVertices(leaf, v)
	if err != nil {
		return [2]geom.Coordinate{}, fmt.Errorf("%s: %w", idx, err)
	}
	return [2]geom.Coordinate{leaf.Coordinates[from], leaf.Coordinates[to]}, nil
}

// GetGeometry returns the sub-geometry a geometry index points at.
func (s *Service) GetGeometry(g *geom.Geometry, idx *GeometryIndex) (*geom.Geometry, error) {
	owner, term, err := resolve(g, idx)
	if err != nil {
		return nil, err
	}
	if term.typ != TypeGeometry {
		return nil, fmt.Errorf("%s is not a geometry index: %w", idx, ErrIndexNotFound)
	}
	if term.value < 0 || term.value >= len(owner.Geometries) {
		return nil, fmt.Errorf("%s: out of range for %s with %d parts: %w", idx, owner.Type, len(owner.Geometries), ErrIndexNotFound)
	}
	return owner.Geometries[term.value], nil
}

// GetSiblingCount returns how many vertices or edges share the leaf idx
// points into. Geometry indices have no siblings.
func (s *Service) GetSiblingCount(g *geom.Geometry, idx *GeometryIndex) (int, error) {
	owner, term, err := resolve(g, idx)
	if err != nil {
		return 0, err
	}
	n := len(owner.Coordinates)
	switch term.typ {
	case TypeVertex:
		return n, nil
	case TypeEdge:
		switch owner.Type {
		case geom.LinearRing:
			return n, nil
		case geom.LineString:
			if n == 0 {
				return 0, nil
			}
			return n - 1, nil
		}
		return 0, nil
	}
	return 0, nil
}

// GetSiblingVertices returns all coordinates of the leaf a vertex or edge
// index points into.
func (s *Service) GetSiblingVertices(g *geom.Geometry, idx *GeometryIndex) ([]geom.Coordinate, error) {
	owner, term, err := resolve(g, idx)
	if err != nil {
		return nil, err
	}
	if term.typ == TypeGeometry {
		return nil, fmt.Errorf("%s is a geometry index: %w", idx, ErrIndexNotFound)
	}
	if !owner.Type.IsLeaf() {
		return nil, fmt.Errorf("%s: %s does not hold coordinates: %w", idx, owner.Type, ErrIndexNotFound)
	}
	return append([]geom.Coordinate(nil), owner.Coordinates...), nil
}

// linear resolves a vertex or edge index into a line string or ring.
func linear(g *geom.Geometry, idx *GeometryIndex) (*geom.Geometry, *GeometryIndex, error) {
	owner, term, err := resolve(g, idx)
	if err != nil {
		return nil, nil, err
	}
	if term.typ == TypeGeometry {
		return nil, nil, fmt.Errorf("%s is a geometry index: %w", idx, ErrIndexNotFound)
	}
	if owner.Type != geom.LineString && owner.Type != geom.LinearRing {
		return nil, nil, fmt.Errorf("%s: no adjacency in %s: %w", idx, owner.Type, ErrIndexNotFound)
	}
	return owner, term, nil
}

// ringVertex maps a ring position onto its distinct vertex; the closing
// position aliases 0.
func ringVertex(leaf *geom.Geometry, v int) (int, int, error) {
	n := len(leaf.Coordinates)
	if v < 0 || v >= n || n < 2 {
		return 0, 0, fmt.Errorf("position %d out of range for ring of %d: %w", v, n, ErrIndexNotFound)
	}
	d := n - 1
	return v % d, d, nil
}

func edgeVertices(leaf *geom.Geometry, v int) (int, int, error) {
	n := len(leaf.Coordinates)
	switch leaf.Type {
	case geom.LinearRing:
		e, _, err := ringVertex(leaf, v)
		if err != nil {
			return 0, 0, err
		}
		return e, e + 1, nil
	case geom.LineString:
		if v < 0 || v >= n-1 {
			return 0, 0, fmt.Errorf("edge %d out of range for %d coordinates: %w", v, n, ErrIndexNotFound)
		}
		return v, v + 1, nil
	}
	return 0, 0, fmt.Errorf("no edges in %s: %w", leaf.Type, ErrIndexNotFound)
}

func pair(a, b int) []int {
	if a == b {
		return []int{a}
	}
	return []int{a, b}
}

func (s *Service) siblings(idx *GeometryIndex, typ Type, values []int) []*GeometryIndex {
	out := make([]*GeometryIndex, len(values))
	for i, v := range values {
		out[i] = replaceTerminal(idx, typ, v)
	}
	return out
}

// GetAdjacentVertices returns the vertices next to a vertex (previous first)
// or the two vertices bounding an edge.
func (s *Service) GetAdjacentVertices(g *geom.Geometry, idx *GeometryIndex) ([]*GeometryIndex, error) {
	leaf, term, err := linear(g, idx)
	if err != nil {
		return nil, err
	}
	if term.typ == TypeEdge {
		from, to, err := edgeVertices(leaf, term.value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", idx, err)
		}
		if leaf.Type == geom.LinearRing {
			to %= len(leaf.Coordinates) - 1
		}
		return s.siblings(idx, TypeVertex, []int{from, to}), nil
	}
	v, n := term.value, len(leaf.Coordinates)
	if leaf.Type == geom.LinearRing {
		v, d, err := ringVertex(leaf, v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", idx, err)
		}
		return s.siblings(idx, TypeVertex, pair((v-1+d)%d, (v+1)%d)), nil
	}
	if v < 0 || v >= n {
		return nil, fmt.Errorf("%s: out of range for %d coordinates: %w", idx, n, ErrIndexNotFound)
	}
	var out []int
	if v > 0 {
		out = append(out, v-1)
	}
	if v < n-1 {
		out = append(out, v+1)
	}
	return s.siblings(idx, TypeVertex, out), nil
}

// GetAdjacentEdges returns the edges touching a vertex, or the edges next to
// an edge (previous first).
func (s *Service) GetAdjacentEdges(g *geom.Geometry, idx *GeometryIndex) ([]*GeometryIndex, error) {
	leaf, term, err := linear(g, idx)
	if err != nil {
		return nil, err
	}
	v, n := term.value, len(leaf.Coordinates)
	if leaf.Type == geom.LinearRing {
		v, d, err := ringVertex(leaf, v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", idx, err)
		}
		if term.typ == TypeVertex {
			return s.siblings(idx, TypeEdge, pair((v-1+d)%d, v)), nil
		}
		return s.siblings(idx, TypeEdge, pair((v-1+d)%d, (v+1)%d)), nil
	}
	var out []int
	if term.typ == TypeVertex {
		if v < 0 || v >= n {
			return nil, fmt.Errorf("%s: out of range for %d coordinates: %w", idx, n, ErrIndexNotFound)
		}
		if v > 0 {
			out = append(out, v-1)
		}
		if v < n-1 {
			out = append(out, v)
		}
		return s.siblings(idx, TypeEdge, out), nil
	}
	edges := n - 1
	if v < 0 || v >= edges {
		return nil, fmt.Errorf("%s: out of range for %d edges: %w", idx, edges, ErrIndexNotFound)
	}
	if v > 0 {
		out = append(out, v-1)
	}
	if v < edges-1 {
		out = append(out, v+1)
	}
	return s.siblings(idx, TypeEdge, out), nil
}

// IsAdjacent reports whether b is among a's neighbours of b's kind, so all
// of vertex/vertex, vertex/edge, edge/vertex and edge/edge are supported.
func (s *Service) IsAdjacent(g *geom.Geometry, a, b *GeometryIndex) (bool, error) {
	if b == nil {
		return false, fmt.Errorf("nil index: %w", ErrIndexNotFound)
	}
	var (
		near []*GeometryIndex
		err  error
	)
	switch s.GetType(b) {
	case TypeVertex:
		near, err = s.GetAdjacentVertices(g, a)
	case TypeEdge:
		near, err = s.GetAdjacentEdges(g, a)
	default:
		return false, fmt.Errorf("%s is a geometry index: %w", b, ErrIndexNotFound)
	}
	if err != nil {
		return false, err
	}
	for _, n := range near {
		if n.Equal(b) {
			return true, nil
		}
	}
	return false, nil
}

// GetNextVertex returns the vertex after a vertex index, wrapping in rings.
func (s *Service) GetNextVertex(g *geom.Geometry, idx *GeometryIndex) (*GeometryIndex, error) {
	return s.step(g, idx, 1)
}

// GetPreviousVertex returns the vertex before a vertex index, wrapping in rings.
func (s *Service) GetPreviousVertex(g *geom.Geometry, idx *GeometryIndex) (*GeometryIndex, error) {
	return s.step(g, idx, -1)
}

func (s *Service) step(g *geom.Geometry, idx *GeometryIndex, dir int) (*GeometryIndex, error) {
	leaf, v, err := resolveLeaf(g, idx, TypeVertex)
	if err != nil {
		return nil, err
	}
	n := len(leaf.Coordinates)
	if leaf.Type == geom.LinearRing {
		v, d, err := ringVertex(leaf, v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", idx, err)
		}
		return replaceTerminal(idx, TypeVertex, (v+dir+d)%d), nil
	}
	next := v + dir
	if v < 0 || v >= n || next < 0 || next >= n {
		return nil, fmt.Errorf("%s: no vertex at %d of %d: %w", idx, next, n, ErrIndexNotFound)
	}
	return replaceTerminal(idx, TypeVertex, next), nil
}
