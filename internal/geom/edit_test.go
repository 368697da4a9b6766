package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ring() *Geometry {
	return &Geometry{Type: LinearRing, Coordinates: square()}
}

func TestInsertCoordinates(t *testing.T) {
	t.Run("line middle", func(t *testing.T) {
		g := &Geometry{Type: LineString, Coordinates: []Coordinate{c(0, 0), c(2, 2)}}
		pos, err := g.InsertCoordinates(1, c(1, 1))
		require.NoError(t, err)
		assert.Equal(t, 1, pos)
		assert.Equal(t, []Coordinate{c(0, 0), c(1, 1), c(2, 2)}, g.Coordinates)
	})

	t.Run("line append", func(t *testing.T) {
		g := &Geometry{Type: LineString, Coordinates: []Coordinate{c(0, 0)}}
		_, err := g.InsertCoordinates(1, c(1, 1), c(2, 2))
		require.NoError(t, err)
		assert.Len(t, g.Coordinates, 3)
	})

	t.Run("ring start moves closing coordinate", func(t *testing.T) {
		g := ring()
		pos, err := g.InsertCoordinates(0, c(342, 342))
		require.NoError(t, err)
		assert.Zero(t, pos)
		assert.Len(t, g.Coordinates, 6)
		assert.Equal(t, c(342, 342), g.Coordinates[0])
		assert.Equal(t, c(342, 342), g.Coordinates[5])
		assert.NoError(t, g.Validate())
	})

	t.Run("ring end goes before closing coordinate", func(t *testing.T) {
		g := ring()
		pos, err := g.InsertCoordinates(5, c(-1, 5))
		require.NoError(t, err)
		assert.Equal(t, 4, pos)
		assert.Equal(t, c(-1, 5), g.Coordinates[4])
		assert.Equal(t, c(0, 0), g.Coordinates[5])
	})

	t.Run("empty ring closes itself", func(t *testing.T) {
		g := NewEmpty(LinearRing)
		_, err := g.InsertCoordinates(0, c(0, 0), c(1, 0), c(0, 1))
		require.NoError(t, err)
		assert.Equal(t, []Coordinate{c(0, 0), c(1, 0), c(0, 1), c(0, 0)}, g.Coordinates)
		assert.NoError(t, g.Validate())
	})

	t.Run("empty point", func(t *testing.T) {
		g := NewEmpty(Point)
		_, err := g.InsertCoordinates(0, c(3, 4))
		require.NoError(t, err)
		_, err = g.InsertCoordinates(0, c(5, 6))
		assert.ErrorIs(t, err, ErrPosition)
	})

	t.Run("out of range", func(t *testing.T) {
		g := &Geometry{Type: LineString, Coordinates: []Coordinate{c(0, 0)}}
		_, err := g.InsertCoordinates(3, c(1, 1))
		assert.ErrorIs(t, err, ErrPosition)
	})

	t.Run("collection", func(t *testing.T) {
		_, err := NewEmpty(Polygon).InsertCoordinates(0, c(1, 1))
		assert.ErrorIs(t, err, ErrNotLeaf)
	})
}

func TestSetCoordinate(t *testing.T) {
	g := ring()
	old, pos, err := g.SetCoordinate(4, c(-5, -5))
	require.NoError(t, err)
	assert.Equal(t, c(0, 0), old)
	assert.Zero(t, pos, "closing position aliases vertex 0")
	assert.Equal(t, c(-5, -5), g.Coordinates[0])
	assert.Equal(t, c(-5, -5), g.Coordinates[4])

	old, pos, err = g.SetCoordinate(2, c(11, 11))
	require.NoError(t, err)
	assert.Equal(t, c(10, 10), old)
	assert.Equal(t, 2, pos)

	_, _, err = g.SetCoordinate(5, c(0, 0))
	assert.ErrorIs(t, err, ErrPosition)
}

func TestRemoveCoordinate(t *testing.T) {
	t.Run("ring start", func(t *testing.T) {
		g := ring()
		old, pos, err := g.RemoveCoordinate(0)
		require.NoError(t, err)
		assert.Equal(t, c(0, 0), old)
		assert.Zero(t, pos)
		assert.Equal(t, []Coordinate{c(10, 0), c(10, 10), c(0, 10), c(10, 0)}, g.Coordinates)
	})

	t.Run("ring closing", func(t *testing.T) {
		g := ring()
		_, pos, err := g.RemoveCoordinate(4)
		require.NoError(t, err)
		assert.Zero(t, pos)
		assert.Len(t, g.Coordinates, 4)
	})

	t.Run("ring collapses to empty", func(t *testing.T) {
		g := &Geometry{Type: LinearRing, Coordinates: []Coordinate{c(0, 0), c(0, 0)}}
		_, _, err := g.RemoveCoordinate(0)
		require.NoError(t, err)
		assert.Empty(t, g.Coordinates)
	})

	t.Run("line", func(t *testing.T) {
		g := &Geometry{Type: LineString, Coordinates: []Coordinate{c(0, 0), c(1, 1), c(2, 2)}}
		old, pos, err := g.RemoveCoordinate(2)
		require.NoError(t, err)
		assert.Equal(t, c(2, 2), old)
		assert.Equal(t, 2, pos)
		assert.Len(t, g.Coordinates, 2)
	})
}

func TestInsertRemoveGeometry(t *testing.T) {
	poly := &Geometry{Type: Polygon, Geometries: []*Geometry{ring()}}

	require.NoError(t, poly.InsertGeometry(1, NewEmpty(LinearRing)))
	assert.Len(t, poly.Geometries, 2)

	assert.ErrorIs(t, poly.InsertGeometry(0, NewEmpty(Point)), ErrChildMismatch)
	assert.ErrorIs(t, poly.InsertGeometry(5, NewEmpty(LinearRing)), ErrPosition)
	assert.ErrorIs(t, ring().InsertGeometry(0, NewEmpty(Point)), ErrNotMulti)

	removed, err := poly.RemoveGeometry(0)
	require.NoError(t, err)
	assert.Equal(t, square(), removed.Coordinates)
	assert.Len(t, poly.Geometries, 1)

	_, err = poly.RemoveGeometry(1)
	assert.ErrorIs(t, err, ErrPosition)
}
