package tui

import (
	"strconv"
	"strings"

	table "github.com/charmbracelet/bubbles/table"
)

// refreshVertexTable lists every distinct vertex with its index, position
// and adjacent vertices, and puts the cursor on the selection.
func (m *Model) refreshVertexTable() {
	vs := m.vertices()
	if len(vs) == 0 {
		// empty rows would leave the cursor dangling
		m.showVertices = false
		m.status = "no vertices to list"
		return
	}
	cols := []table.Column{
		{Title: "#", Width: 4},
		{Title: "index", Width: 28},
		{Title: "x", Width: 12},
		{Title: "y", Width: 12},
		{Title: "adjacent", Width: 30},
	}
	rows := make([]table.Row, 0, len(vs))
	cursor := 0
	for i, v := range vs {
		c, err := m.indexes.GetVertex(m.geometry, v)
		if err != nil {
			continue
		}
		var adj []string
		if near, err := m.indexes.GetAdjacentVertices(m.geometry, v); err == nil {
			for _, a := range near {
				adj = append(adj, strconv.Itoa(m.indexes.GetValue(a)))
			}
		}
		if v.Equal(m.selected) {
			cursor = len(rows)
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			m.indexes.Format(v),
			strconv.FormatFloat(c.X, 'f', 6, 64),
			strconv.FormatFloat(c.Y, 'f', 6, 64),
			strings.Join(adj, ","),
		})
	}
	m.tblIndices = vs
	// clear rows first so the old rows never meet the new columns
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
	m.tbl.SetCursor(cursor)
}

// selectFromTable selects the vertex under the table cursor.
func (m *Model) selectFromTable() {
	i := m.tbl.Cursor()
	if i < 0 || i >= len(m.tblIndices) {
		return
	}
	m.selected = m.tblIndices[i]
	m.status = "selected " + m.indexes.Format(m.selected)
}
