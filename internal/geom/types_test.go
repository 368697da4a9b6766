package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func c(x, y float64) Coordinate { return Coordinate{X: x, Y: y} }

func square() []Coordinate {
	return []Coordinate{c(0, 0), c(10, 0), c(10, 10), c(0, 10), c(0, 0)}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		g    *Geometry
		want error
	}{
		{"empty ring", NewEmpty(LinearRing), nil},
		{"closed ring", &Geometry{Type: LinearRing, Coordinates: square()}, nil},
		{"open ring", &Geometry{Type: LinearRing, Coordinates: square()[:4]}, ErrOpenRing},
		{"short ring", &Geometry{Type: LinearRing, Coordinates: []Coordinate{c(0, 0), c(1, 1), c(0, 0)}}, ErrShortRing},
		{"point with two coordinates", &Geometry{Type: Point, Coordinates: []Coordinate{c(0, 0), c(1, 1)}}, ErrWrongContent},
		{"mixed", &Geometry{Type: Polygon, Coordinates: square(), Geometries: []*Geometry{NewEmpty(LinearRing)}}, ErrMixedContent},
		{"collection with coordinates", &Geometry{Type: MultiPoint, Coordinates: []Coordinate{c(1, 1)}}, ErrWrongContent},
		{"wrong child", &Geometry{Type: Polygon, Geometries: []*Geometry{NewEmpty(LineString)}}, ErrChildMismatch},
		{"nested invalid ring", &Geometry{Type: MultiPolygon, Geometries: []*Geometry{
			{Type: Polygon, Geometries: []*Geometry{{Type: LinearRing, Coordinates: square()[:4]}}},
		}}, ErrOpenRing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.g.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConstructors(t *testing.T) {
	_, err := NewLeaf(Polygon)
	assert.ErrorIs(t, err, ErrWrongContent)

	_, err = NewCollection(LineString)
	assert.ErrorIs(t, err, ErrWrongContent)

	ring, err := NewLeaf(LinearRing, square()...)
	require.NoError(t, err)
	poly, err := NewCollection(Polygon, ring)
	require.NoError(t, err)
	assert.Equal(t, Polygon, poly.Type)

	_, err = NewCollection(MultiPoint, ring)
	assert.ErrorIs(t, err, ErrChildMismatch)
}

func TestTypeChildType(t *testing.T) {
	for parent, child := range map[Type]Type{
		Polygon:         LinearRing,
		MultiPoint:      Point,
		MultiLineString: LineString,
		MultiPolygon:    Polygon,
	} {
		got, ok := parent.ChildType()
		assert.True(t, ok, parent.String())
		assert.Equal(t, child, got)
	}
	_, ok := LineString.ChildType()
	assert.False(t, ok)
	assert.True(t, LinearRing.IsLeaf())
	assert.False(t, MultiPoint.IsLeaf())
}

func TestCloneIsDeep(t *testing.T) {
	ring, err := NewLeaf(LinearRing, square()...)
	require.NoError(t, err)
	poly, err := NewCollection(Polygon, ring)
	require.NoError(t, err)

	cp := poly.Clone()
	require.True(t, cp.Equals(poly))
	cp.Geometries[0].Coordinates[1] = c(99, 99)
	assert.False(t, cp.Equals(poly))
	assert.Equal(t, c(10, 0), poly.Geometries[0].Coordinates[1])
}

func TestWalkAndIsEmpty(t *testing.T) {
	g := &Geometry{Type: MultiLineString, Geometries: []*Geometry{
		{Type: LineString, Coordinates: []Coordinate{c(0, 0), c(1, 1)}},
		NewEmpty(LineString),
		{Type: LineString, Coordinates: []Coordinate{c(5, 5)}},
	}}
	type visit struct {
		path   []int
		vertex int
	}
	var got []visit
	g.Walk(func(path []int, v int, _ Coordinate) {
		got = append(got, visit{append([]int(nil), path...), v})
	})
	assert.Equal(t, []visit{{[]int{0}, 0}, {[]int{0}, 1}, {[]int{2}, 0}}, got)

	assert.False(t, g.IsEmpty())
	assert.True(t, NewEmpty(MultiPolygon).IsEmpty())
}

func TestEqualsWithin(t *testing.T) {
	assert.True(t, c(1, 1).EqualsWithin(c(1.0005, 0.9995), 1e-3))
	assert.False(t, c(1, 1).EqualsWithin(c(1.01, 1), 1e-3))
	assert.Equal(t, "(1.5 -2)", c(1.5, -2).String())

	a := &Geometry{Type: LineString, Coordinates: []Coordinate{c(0, 0), c(1, 1)}}
	b := &Geometry{Type: LineString, Coordinates: []Coordinate{c(0, 0), c(1, 1.0000001)}}
	assert.False(t, a.Equals(b))
	assert.True(t, a.EqualsWithin(b, 1e-6))
	assert.False(t, a.EqualsWithin(&Geometry{Type: LinearRing, Coordinates: a.Coordinates}, 1))
	assert.True(t, (*Geometry)(nil).EqualsWithin(nil, 0))
}
