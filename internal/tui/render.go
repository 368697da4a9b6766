package tui

import (
	"github.com/charmbracelet/lipgloss"

	"geoedit/internal/geom"
	"geoedit/internal/index"
)

// cellToXY converts a map cell back to geometry coordinates using bbox,
// zoom and pan.
func (m Model) cellToXY(cx, cy, w, h int) (float64, float64, bool) {
	if !(m.bbox.MaxX > m.bbox.MinX && m.bbox.MaxY > m.bbox.MinY) {
		return 0, 0, false
	}
	if w <= 1 || h <= 1 {
		return 0, 0, false
	}
	zx := float64(cx-m.offsetX) / float64(w-1)
	zy := 1.0 - float64(cy-m.offsetY)/float64(h-1)
	nx := 0.5 + (zx-0.5)/m.zoom
	ny := 0.5 + (zy-0.5)/m.zoom
	return m.bbox.MinX + nx*m.bbox.Width(), m.bbox.MinY + ny*m.bbox.Height(), true
}

// toMicro maps a coordinate onto the 2x4 dot grid of a w x h cell map.
func (m Model) toMicro(c geom.Coordinate, w, h int) ([2]int, bool) {
	if !(m.bbox.MaxX > m.bbox.MinX && m.bbox.MaxY > m.bbox.MinY) {
		return [2]int{}, false
	}
	nx := (c.X - m.bbox.MinX) / m.bbox.Width()
	ny := (c.Y - m.bbox.MinY) / m.bbox.Height()
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	sx := int(zx*float64(w*2-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(h*4-1)) + m.offsetY*4
	return [2]int{sx, sy}, true
}

func (m Model) project(cs []geom.Coordinate, w, h int) [][2]int {
	out := make([][2]int, 0, len(cs))
	for _, c := range cs {
		if p, ok := m.toMicro(c, w, h); ok {
			out = append(out, p)
		}
	}
	return out
}

// renderMap draws the geometry with the selection, its adjacent vertices
// and the hovered vertex marked.
func (m Model) renderMap(w, h int) string {
	cv := newCanvas(w, h)
	if m.geometry == nil {
		return cv.String()
	}
	m.drawGeometry(cv, m.geometry, w, h)

	mark := func(idx *index.GeometryIndex, glyph string, style lipgloss.Style) {
		c, err := m.indexes.GetVertex(m.geometry, idx)
		if err != nil {
			return
		}
		if p, ok := m.toMicro(c, w, h); ok {
			cv.markAt(p[0], p[1], glyph, style)
		}
	}
	if m.hovering && m.hoverVertex != nil {
		mark(m.hoverVertex, "◯", hoverStyle)
	}
	if m.selected != nil {
		if adj, err := m.indexes.GetAdjacentVertices(m.geometry, m.selected); err == nil {
			for _, a := range adj {
				mark(a, "○", adjacentStyle)
			}
		}
		style := selectedStyle
		if m.editor.IsOperationSequenceActive() {
			style = dragStyle
		}
		mark(m.selected, "●", style)
	}
	return cv.String()
}

func (m Model) drawGeometry(cv *canvas, g *geom.Geometry, w, h int) {
	switch g.Type {
	case geom.Point:
		for _, p := range m.project(g.Coordinates, w, h) {
			cv.dot(p[0], p[1])
			cv.dot(p[0]+1, p[1])
			cv.dot(p[0], p[1]+1)
			cv.dot(p[0]+1, p[1]+1)
		}
	case geom.LineString, geom.LinearRing:
		cv.path(m.project(g.Coordinates, w, h), false)
	case geom.Polygon:
		var rings [][][2]int
		for _, r := range g.Geometries {
			if pts := m.project(r.Coordinates, w, h); len(pts) >= 3 {
				rings = append(rings, pts)
			}
		}
		cv.fill(rings)
		for _, r := range g.Geometries {
			cv.path(m.project(r.Coordinates, w, h), false)
		}
	default:
		for _, part := range g.Geometries {
			m.drawGeometry(cv, part, w, h)
		}
	}
}

// nearestVertex finds the vertex closest to a micro point.
func (m Model) nearestVertex(mx, my, w, h int) (*index.GeometryIndex, [2]int, bool) {
	best := -1
	var (
		bestIdx *index.GeometryIndex
		bestPt  [2]int
	)
	for _, v := range m.vertices() {
		c, err := m.indexes.GetVertex(m.geometry, v)
		if err != nil {
			continue
		}
		p, ok := m.toMicro(c, w, h)
		if !ok {
			continue
		}
		dx, dy := p[0]-mx, p[1]-my
		if d := dx*dx + dy*dy; best < 0 || d < best {
			best, bestIdx, bestPt = d, v, p
		}
	}
	return bestIdx, bestPt, best >= 0
}
