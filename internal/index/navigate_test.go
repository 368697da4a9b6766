package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoedit/internal/geom"
)

func c(x, y float64) geom.Coordinate { return geom.Coordinate{X: x, Y: y} }

// polygonWithHole is a polygon whose second ring has four distinct vertices.
func polygonWithHole() *geom.Geometry {
	return &geom.Geometry{Type: geom.Polygon, Geometries: []*geom.Geometry{
		{Type: geom.LinearRing, Coordinates: []geom.Coordinate{c(0, 0), c(10, 0), c(10, 10), c(0, 10), c(0, 0)}},
		{Type: geom.LinearRing, Coordinates: []geom.Coordinate{c(2, 2), c(4, 2), c(4, 4), c(2, 4), c(2, 2)}},
	}}
}

func line() *geom.Geometry {
	return &geom.Geometry{Type: geom.LineString, Coordinates: []geom.Coordinate{c(0, 0), c(1, 1), c(2, 0)}}
}

func formatAll(s *Service, is []*GeometryIndex) []string {
	out := make([]string, len(is))
	for i, idx := range is {
		out[i] = s.Format(idx)
	}
	return out
}

func parse(t *testing.T, text string) *GeometryIndex {
	t.Helper()
	idx, err := NewService().Parse(text)
	require.NoError(t, err)
	return idx
}

func TestGetVertexAndGeometry(t *testing.T) {
	s := NewService()
	g := polygonWithHole()

	v, err := s.GetVertex(g, parse(t, "geometry1.vertex2"))
	require.NoError(t, err)
	assert.Equal(t, c(4, 4), v)

	ring, err := s.GetGeometry(g, parse(t, "geometry1"))
	require.NoError(t, err)
	assert.Same(t, g.Geometries[1], ring)

	typ, err := s.GetGeometryType(g, parse(t, "geometry0.vertex1"))
	require.NoError(t, err)
	assert.Equal(t, geom.LinearRing, typ)
	typ, err = s.GetGeometryType(g, parse(t, "geometry0"))
	require.NoError(t, err)
	assert.Equal(t, geom.LinearRing, typ)
	typ, err = s.GetGeometryType(g, nil)
	require.NoError(t, err)
	assert.Equal(t, geom.Polygon, typ)

	for _, deep := range []string{"geometry0.geometry0.geometry0", "geometry0.geometry0", "geometry5"} {
		_, err = s.GetGeometryType(g, parse(t, deep))
		assert.ErrorIs(t, err, ErrIndexNotFound, deep)
	}

	for _, bad := range []string{"geometry2.vertex0", "geometry0.vertex5", "vertex0", "geometry0.geometry0.vertex0"} {
		t.Run(bad, func(t *testing.T) {
			_, err := s.GetVertex(g, parse(t, bad))
			assert.ErrorIs(t, err, ErrIndexNotFound)
		})
	}
	_, err = s.GetGeometry(g, parse(t, "geometry0.vertex0"))
	assert.ErrorIs(t, err, ErrIndexNotFound)
}

func TestGetEdge(t *testing.T) {
	s := NewService()
	g := polygonWithHole()

	e, err := s.GetEdge(g, parse(t, "geometry0.edge3"))
	require.NoError(t, err)
	assert.Equal(t, [2]geom.Coordinate{c(0, 10), c(0, 0)}, e)

	wrapped, err := s.GetEdge(g, parse(t, "geometry0.edge4"))
	require.NoError(t, err)
	first, err := s.GetEdge(g, parse(t, "geometry0.edge0"))
	require.NoError(t, err)
	assert.Equal(t, first, wrapped, "the closing position aliases edge 0")

	l := line()
	e, err = s.GetEdge(l, parse(t, "edge1"))
	require.NoError(t, err)
	assert.Equal(t, [2]geom.Coordinate{c(1, 1), c(2, 0)}, e)
	_, err = s.GetEdge(l, parse(t, "edge2"))
	assert.ErrorIs(t, err, ErrIndexNotFound)
}

func TestGetSiblingCount(t *testing.T) {
	s := NewService()
	g := polygonWithHole()
	tests := []struct {
		name string
		g    *geom.Geometry
		idx  string
		want int
	}{
		{"ring vertex", g, "geometry1.vertex0", 5},
		{"ring edge", g, "geometry1.edge0", 5},
		{"line vertex", line(), "vertex0", 3},
		{"line edge", line(), "edge0", 2},
		{"geometry", g, "geometry0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := s.GetSiblingCount(tt.g, parse(t, tt.idx))
			require.NoError(t, err)
			assert.Equal(t, tt.want, n)
		})
	}

	vs, err := s.GetSiblingVertices(g, parse(t, "geometry1.edge2"))
	require.NoError(t, err)
	assert.Equal(t, g.Geometries[1].Coordinates, vs)
	vs[0] = c(99, 99)
	assert.Equal(t, c(2, 2), g.Geometries[1].Coordinates[0], "siblings are a copy")

	_, err = s.GetSiblingVertices(g, parse(t, "geometry1"))
	assert.ErrorIs(t, err, ErrIndexNotFound)
}

func TestGetAdjacentVerticesRing(t *testing.T) {
	s := NewService()
	g := polygonWithHole()
	tests := []struct {
		idx  string
		want []string
	}{
		{"geometry1.vertex0", []string{"geometry1.vertex3", "geometry1.vertex1"}},
		{"geometry1.vertex3", []string{"geometry1.vertex2", "geometry1.vertex0"}},
		{"geometry1.vertex4", []string{"geometry1.vertex3", "geometry1.vertex1"}},
		{"geometry0.edge3", []string{"geometry0.vertex3", "geometry0.vertex0"}},
	}
	for _, tt := range tests {
		t.Run(tt.idx, func(t *testing.T) {
			adj, err := s.GetAdjacentVertices(g, parse(t, tt.idx))
			require.NoError(t, err)
			assert.Equal(t, tt.want, formatAll(s, adj))
		})
	}
}

func TestGetAdjacentVerticesLine(t *testing.T) {
	s := NewService()
	l := line()
	tests := []struct {
		idx  string
		want []string
	}{
		{"vertex0", []string{"vertex1"}},
		{"vertex1", []string{"vertex0", "vertex2"}},
		{"vertex2", []string{"vertex1"}},
		{"edge1", []string{"vertex1", "vertex2"}},
	}
	for _, tt := range tests {
		t.Run(tt.idx, func(t *testing.T) {
			adj, err := s.GetAdjacentVertices(l, parse(t, tt.idx))
			require.NoError(t, err)
			assert.Equal(t, tt.want, formatAll(s, adj))
		})
	}

	pt := &geom.Geometry{Type: geom.Point, Coordinates: []geom.Coordinate{c(1, 1)}}
	_, err := s.GetAdjacentVertices(pt, parse(t, "vertex0"))
	assert.ErrorIs(t, err, ErrIndexNotFound)
	_, err = s.GetAdjacentVertices(l, parse(t, "vertex3"))
	assert.ErrorIs(t, err, ErrIndexNotFound)
}

func TestGetAdjacentEdges(t *testing.T) {
	s := NewService()
	g := polygonWithHole()
	tests := []struct {
		name string
		g    *geom.Geometry
		idx  string
		want []string
	}{
		{"ring vertex 0", g, "geometry0.vertex0", []string{"geometry0.edge3", "geometry0.edge0"}},
		{"ring edge 0", g, "geometry0.edge0", []string{"geometry0.edge3", "geometry0.edge1"}},
		{"line start", line(), "vertex0", []string{"edge0"}},
		{"line end", line(), "vertex2", []string{"edge1"}},
		{"line middle", line(), "vertex1", []string{"edge0", "edge1"}},
		{"line edge", line(), "edge0", []string{"edge1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj, err := s.GetAdjacentEdges(tt.g, parse(t, tt.idx))
			require.NoError(t, err)
			assert.Equal(t, tt.want, formatAll(s, adj))
		})
	}
}

func TestIsAdjacent(t *testing.T) {
	s := NewService()
	g := polygonWithHole()
	tests := []struct {
		a, b string
		want bool
	}{
		{"geometry1.vertex0", "geometry1.vertex1", true},
		{"geometry1.vertex0", "geometry1.vertex3", true},
		{"geometry1.vertex0", "geometry1.vertex2", false},
		{"geometry1.vertex0", "geometry0.vertex1", false},
		{"geometry1.vertex1", "geometry1.edge0", true},
		{"geometry1.vertex1", "geometry1.edge2", false},
		{"geometry1.edge1", "geometry1.vertex2", true},
		{"geometry1.edge1", "geometry1.edge2", true},
		{"geometry1.edge1", "geometry1.edge3", false},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			ok, err := s.IsAdjacent(g, parse(t, tt.a), parse(t, tt.b))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}

	_, err := s.IsAdjacent(g, parse(t, "geometry1.vertex0"), parse(t, "geometry1"))
	assert.ErrorIs(t, err, ErrIndexNotFound)
}

func TestNextPreviousVertex(t *testing.T) {
	s := NewService()
	g := polygonWithHole()

	next, err := s.GetNextVertex(g, parse(t, "geometry0.vertex3"))
	require.NoError(t, err)
	assert.Equal(t, "geometry0.vertex0", s.Format(next))
	prev, err := s.GetPreviousVertex(g, parse(t, "geometry0.vertex0"))
	require.NoError(t, err)
	assert.Equal(t, "geometry0.vertex3", s.Format(prev))

	l := line()
	next, err = s.GetNextVertex(l, parse(t, "vertex1"))
	require.NoError(t, err)
	assert.Equal(t, "vertex2", s.Format(next))
	_, err = s.GetNextVertex(l, parse(t, "vertex2"))
	assert.ErrorIs(t, err, ErrIndexNotFound)
	_, err = s.GetPreviousVertex(l, parse(t, "vertex0"))
	assert.ErrorIs(t, err, ErrIndexNotFound)
}
