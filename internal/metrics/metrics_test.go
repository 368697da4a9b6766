package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geoedit/internal/edit"
	"geoedit/internal/geom"
	"geoedit/internal/index"
)

func vertex(t *testing.T, values ...int) *index.GeometryIndex {
	t.Helper()
	idx, err := index.NewService().Create(index.TypeVertex, values...)
	require.NoError(t, err)
	return idx
}

func TestAttach(t *testing.T) {
	g, err := geom.NewLeaf(geom.LineString, geom.Coordinate{X: 0, Y: 0}, geom.Coordinate{X: 1, Y: 1})
	require.NoError(t, err)

	svc := edit.NewService()
	m := New()
	detach := m.Attach(svc)

	require.NoError(t, svc.Start(g))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Sessions))

	require.NoError(t, svc.Insert(
		[]*index.GeometryIndex{vertex(t, 1)},
		[][]geom.Coordinate{{{X: 0.5, Y: 0.5}, {X: 0.7, Y: 0.7}}},
	))
	require.NoError(t, svc.Move(
		[]*index.GeometryIndex{vertex(t, 0)},
		[][]geom.Coordinate{{{X: -1, Y: -1}}},
	))
	require.NoError(t, svc.Undo())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("insert")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Coordinates.WithLabelValues("insert")))
	// the undone move fires a second move event
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("move")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ShapeChanges.WithLabelValues("edit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ShapeChanges.WithLabelValues("undo")))

	require.NoError(t, svc.Stop())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Sessions))

	detach()
	require.NoError(t, svc.Start(g))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Sessions))
}

func TestWriteFile(t *testing.T) {
	m := New()
	m.Operations.WithLabelValues("remove").Add(3)

	require.NoError(t, m.WriteFile(""))

	path := filepath.Join(t.TempDir(), "geoedit.prom")
	require.NoError(t, m.WriteFile(path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `geoedit_edit_operations_total{kind="remove"} 3`)
}
