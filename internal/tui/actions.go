package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"geoedit/internal/geom"
	"geoedit/internal/index"
)

// vertices lists every distinct vertex in walk order. The closing
// coordinate of a ring is left out since it aliases vertex 0.
func (m *Model) vertices() []*index.GeometryIndex {
	if m.geometry == nil {
		return nil
	}
	var out []*index.GeometryIndex
	var leafLen = map[string]int{}
	m.geometry.Walk(func(path []int, v int, _ geom.Coordinate) {
		leaf := m.leafAt(path)
		if leaf == nil {
			return
		}
		key := fmt.Sprint(path)
		if _, ok := leafLen[key]; !ok {
			leafLen[key] = len(leaf.Coordinates)
		}
		if leaf.Type == geom.LinearRing && v == leafLen[key]-1 {
			return
		}
		idx, err := m.indexes.Create(index.TypeVertex, append(append([]int(nil), path...), v)...)
		if err == nil {
			out = append(out, idx)
		}
	})
	return out
}

func (m *Model) leafAt(path []int) *geom.Geometry {
	g := m.geometry
	for _, p := range path {
		if p < 0 || p >= len(g.Geometries) {
			return nil
		}
		g = g.Geometries[p]
	}
	return g
}

// leafOf returns the geometry index of the leaf holding a vertex; nil when
// the root itself is the leaf.
func (m *Model) leafOf(v *index.GeometryIndex) *index.GeometryIndex {
	if v == nil || !v.HasChild() {
		return nil
	}
	p, err := m.indexes.GetParent(v)
	if err != nil {
		return nil
	}
	return p
}

func (m *Model) selectedCoordinate() (geom.Coordinate, bool) {
	if m.selected == nil || m.geometry == nil {
		return geom.Coordinate{}, false
	}
	c, err := m.indexes.GetVertex(m.geometry, m.selected)
	return c, err == nil
}

// stepDistance is how far one key press moves a vertex.
func (m *Model) stepDistance() float64 {
	return m.step * max(m.bbox.Width(), m.bbox.Height()) / m.zoom
}

// selectVertex moves the selection along the current leaf.
func (m *Model) selectVertex(dir int) {
	if m.selected == nil {
		m.fixSelection()
		return
	}
	var (
		next *index.GeometryIndex
		err  error
	)
	if dir > 0 {
		next, err = m.indexes.GetNextVertex(m.geometry, m.selected)
	} else {
		next, err = m.indexes.GetPreviousVertex(m.geometry, m.selected)
	}
	if err != nil {
		m.status = "no more vertices this way"
		return
	}
	m.selected = next
	m.status = "selected " + m.indexes.Format(next)
}

// selectPart jumps to the first vertex of the next or previous leaf.
func (m *Model) selectPart(dir int) {
	vs := m.vertices()
	if len(vs) == 0 {
		return
	}
	cur := 0
	for i, v := range vs {
		if v.Equal(m.selected) {
			cur = i
			break
		}
	}
	key := func(v *index.GeometryIndex) string { return m.leafOf(v).String() }
	from := key(vs[cur])
	n := len(vs)
	for k := 1; k < n; k++ {
		i := ((cur+dir*k)%n + n) % n
		if key(vs[i]) == from {
			continue
		}
		// land on the first vertex of that leaf
		for i > 0 && key(vs[i-1]) == key(vs[i]) {
			i--
		}
		m.selected = vs[i]
		m.status = "selected " + m.indexes.Format(vs[i])
		return
	}
	m.status = "single part"
}

// fixSelection keeps the selection on an existing vertex after an edit.
func (m *Model) fixSelection() {
	if m.selected != nil {
		if _, err := m.indexes.GetVertex(m.geometry, m.selected); err == nil {
			return
		}
		for v := m.indexes.GetValue(m.selected) - 1; v >= 0; v-- {
			idx, err := withValue(m.indexes, m.selected, v)
			if err != nil {
				break
			}
			if _, err := m.indexes.GetVertex(m.geometry, idx); err == nil {
				m.selected = idx
				return
			}
		}
	}
	m.selected = nil
	if vs := m.vertices(); len(vs) > 0 {
		m.selected = vs[0]
	}
}

func (m *Model) moveSelected(dx, dy float64) {
	c, ok := m.selectedCoordinate()
	if !ok {
		m.status = "no vertex selected"
		return
	}
	d := m.stepDistance()
	to := geom.Coordinate{X: c.X + dx*d, Y: c.Y + dy*d}
	if err := m.editor.Move([]*index.GeometryIndex{m.selected}, [][]geom.Coordinate{{to}}); err != nil {
		m.fail("move", err)
		return
	}
	m.afterEdit(fmt.Sprintf("moved %s to %s", m.indexes.Format(m.selected), to))
}

// insertAfter inserts a vertex after the selected one: the midpoint to the
// next vertex, or one step past the end of an open line.
func (m *Model) insertAfter() {
	c, ok := m.selectedCoordinate()
	if !ok {
		m.status = "no vertex selected"
		return
	}
	at, err := withValue(m.indexes, m.selected, m.indexes.GetValue(m.selected)+1)
	if err != nil {
		m.fail("insert", err)
		return
	}
	var nc geom.Coordinate
	if next, err := m.indexes.GetNextVertex(m.geometry, m.selected); err == nil {
		n, _ := m.indexes.GetVertex(m.geometry, next)
		nc = geom.Coordinate{X: (c.X + n.X) / 2, Y: (c.Y + n.Y) / 2}
	} else {
		nc = geom.Coordinate{X: c.X + m.stepDistance(), Y: c.Y}
	}
	if err := m.editor.Insert([]*index.GeometryIndex{at}, [][]geom.Coordinate{{nc}}); err != nil {
		m.fail("insert", err)
		return
	}
	m.selected = at
	m.afterEdit("inserted " + m.indexes.Format(at))
}

func (m *Model) removeSelected() {
	if m.selected == nil {
		m.status = "no vertex selected"
		return
	}
	name := m.indexes.Format(m.selected)
	if err := m.editor.Remove([]*index.GeometryIndex{m.selected}); err != nil {
		m.fail("remove", err)
		return
	}
	m.afterEdit("removed " + name)
}

func (m *Model) removePart() {
	leaf := m.leafOf(m.selected)
	if leaf == nil {
		m.status = "the root geometry cannot be removed"
		return
	}
	if err := m.editor.Remove([]*index.GeometryIndex{leaf}); err != nil {
		m.fail("remove part", err)
		return
	}
	m.afterEdit("removed " + m.indexes.Format(leaf))
}

// addPart adds a small new part next to the selection: a sibling of the
// selected leaf, or a new top-level part when top is set. Creating the
// empty parts and filling them is one undoable change.
func (m *Model) addPart(top bool) {
	var container *index.GeometryIndex
	if !top {
		leaf := m.leafOf(m.selected)
		if leaf == nil {
			m.status = "no part to add a sibling to"
			return
		}
		container = m.leafOf(leaf)
	}
	center, ok := m.selectedCoordinate()
	if !ok {
		center = geom.Coordinate{X: (m.bbox.MinX + m.bbox.MaxX) / 2, Y: (m.bbox.MinY + m.bbox.MaxY) / 2}
	}

	own := !m.editor.IsOperationSequenceActive()
	before := m.changes.count
	if own {
		if err := m.editor.StartOperationSequence(); err != nil {
			m.fail("add part", err)
			return
		}
	}
	first, err := m.buildPart(container, center)
	if own {
		if serr := m.editor.StopOperationSequence(); serr != nil {
			err = errors.Join(err, serr)
		}
		err = m.dropPartial(err, before)
	}
	if err != nil {
		m.fail("add part", err)
		return
	}
	m.selected = first
	m.afterEdit("added part " + m.indexes.Format(m.leafOf(first)))
}

// dropPartial undoes a part that failed half way, when the failed attempt
// left a history entry behind since the change count before.
func (m *Model) dropPartial(err error, before int) error {
	if err == nil || m.changes.count <= before {
		return err
	}
	if uerr := m.editor.Undo(); uerr != nil {
		return errors.Join(err, fmt.Errorf("drop half-built part: %w", uerr))
	}
	return err
}

func (m *Model) buildPart(container *index.GeometryIndex, center geom.Coordinate) (*index.GeometryIndex, error) {
	idx := container
	for {
		child, err := m.editor.AddEmptyChild(idx)
		if err != nil {
			return nil, err
		}
		t, err := m.indexes.GetGeometryType(m.geometry, child)
		if err != nil {
			return nil, err
		}
		if t.IsLeaf() {
			first, err := m.indexes.AddChildren(child, index.TypeVertex, 0)
			if err != nil {
				return nil, err
			}
			coords := template(t, center, m.stepDistance()*2)
			return first, m.editor.Insert([]*index.GeometryIndex{first}, [][]geom.Coordinate{coords})
		}
		idx = child
	}
}

// template is the initial shape of a new leaf around c.
func template(t geom.Type, c geom.Coordinate, s float64) []geom.Coordinate {
	switch t {
	case geom.Point:
		return []geom.Coordinate{c}
	case geom.LineString:
		return []geom.Coordinate{{X: c.X - s, Y: c.Y}, {X: c.X + s, Y: c.Y}}
	default:
		return []geom.Coordinate{{X: c.X - s, Y: c.Y - s}, {X: c.X + s, Y: c.Y - s}, {X: c.X, Y: c.Y + s}}
	}
}

func (m *Model) undo() {
	if err := m.editor.Undo(); err != nil {
		m.fail("undo", err)
		return
	}
	m.afterEdit("undo")
}

func (m *Model) redo() {
	if err := m.editor.Redo(); err != nil {
		m.fail("redo", err)
		return
	}
	m.afterEdit("redo")
}

// toggleDrag opens or closes an operation sequence so a run of moves undoes
// as one step.
func (m *Model) toggleDrag() {
	if m.editor.IsOperationSequenceActive() {
		if err := m.editor.StopOperationSequence(); err != nil {
			m.fail("drag", err)
			return
		}
		m.afterEdit("drag committed")
		return
	}
	if err := m.editor.StartOperationSequence(); err != nil {
		m.fail("drag", err)
		return
	}
	m.status = "drag: moves group until space"
}

// savePath keeps WKT and GeoJSON sources, other formats are saved as WKT
// next to the source.
func (m *Model) savePath() string {
	if m.selPath == "" {
		return filepath.Join(m.cwd, "geoedit.wkt")
	}
	switch strings.ToLower(filepath.Ext(m.selPath)) {
	case ".wkt", ".geojson", ".json":
		return m.selPath
	}
	return strings.TrimSuffix(m.selPath, filepath.Ext(m.selPath)) + ".wkt"
}

func (m *Model) save() {
	if m.geometry == nil {
		m.status = "nothing to save"
		return
	}
	p := m.savePath()
	if err := geom.Save(p, m.geometry); err != nil {
		m.fail("save", err)
		return
	}
	m.original = m.geometry.Clone()
	m.log.Info("saved geometry", "path", p)
	m.status = "saved " + filepath.Base(p)
	if filepath.Dir(p) == m.cwd {
		if _, err := os.Stat(p); err == nil {
			m.refreshDir()
		}
	}
}

func (m *Model) afterEdit(msg string) {
	m.fixSelection()
	if m.showVertices {
		m.refreshVertexTable()
	}
	m.status = msg
	if err := m.geometry.Validate(); err != nil {
		m.status += "  (invalid: " + err.Error() + ")"
	}
}

func (m *Model) fail(op string, err error) {
	m.log.Warn("edit rejected", "operation", op, "error", err)
	m.status = op + ": " + err.Error()
}
