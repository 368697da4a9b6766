package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"geoedit/internal/geom"
)

const sidebarWidth = 28

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.height-1-2) // refined in View
		}
	case tea.KeyMsg:
		// while the list filters, keys belong to it
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		if m.showVertices {
			switch msg.String() {
			case "up", "down", "pgup", "pgdown", "home", "end":
				var cmd tea.Cmd
				m.tbl, cmd = m.tbl.Update(msg)
				m.selectFromTable()
				return m, cmd
			}
		}
		if quit := m.handleKey(msg.String()); quit {
			return m, tea.Quit
		}
	case tea.MouseMsg:
		m.updateMouse(msg)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	case "enter":
		w := strings.TrimSpace(m.ta.Value())
		if w == "" {
			m.status = "paste: empty"
			return m, nil
		}
		g, err := geom.ParseWKT(w)
		if err != nil {
			m.status = "wkt error: " + err.Error()
			return m, nil
		}
		if err := m.setGeometry(g, ""); err != nil {
			m.status = "edit error: " + err.Error()
			return m, nil
		}
		m.status = fmt.Sprintf("editing pasted %s, %d vertices", g.Type, len(m.vertices()))
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// handleKey runs one command key and reports whether to quit.
func (m *Model) handleKey(key string) bool {
	editing := m.geometry != nil
	switch key {
	case "ctrl+c", "q":
		return true
	case "+", "=":
		if m.zoom < 64 {
			m.zoom *= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "-", "_":
		if m.zoom > 0.05 {
			m.zoom /= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "f":
		if editing {
			m.fit()
			m.zoom = 1.0
			m.offsetX, m.offsetY = 0, 0
			m.status = "fit to geometry"
		}
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
			m.l.SetSize(sidebarWidth-2, m.height-1-2)
		}
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.status = "paste mode"
		m.ta.Focus()
	case "h", "?":
		m.helpVisible = !m.helpVisible
	case "v":
		m.showVertices = !m.showVertices
		if m.showVertices {
			m.refreshVertexTable()
		}
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				m.loadPath(it.path)
			}
		}
	case "up":
		m.offsetY--
	case "down":
		m.offsetY++
	case "left":
		m.offsetX -= 2
	case "right":
		m.offsetX += 2
	}
	if !editing {
		return false
	}
	switch key {
	case "K":
		m.moveSelected(0, 1)
	case "J":
		m.moveSelected(0, -1)
	case "H":
		m.moveSelected(-1, 0)
	case "L":
		m.moveSelected(1, 0)
	case "n":
		m.selectVertex(1)
	case "N":
		m.selectVertex(-1)
	case "]":
		m.selectPart(1)
	case "[":
		m.selectPart(-1)
	case "i":
		m.insertAfter()
	case "x", "delete":
		m.removeSelected()
	case "X":
		m.removePart()
	case "r":
		m.addPart(false)
	case "R":
		m.addPart(true)
	case "u", "ctrl+z":
		m.undo()
	case "U", "ctrl+y":
		m.redo()
	case " ":
		m.toggleDrag()
	case "s", "ctrl+s":
		m.save()
	}
	return false
}

// mapArea returns the top-left cell and size of the map area; it must
// match the layout in View.
func (m Model) mapArea() (x, y, w, h int) {
	side := 0
	if m.showSidebar {
		side = sidebarWidth + 1
	}
	h = max(4, m.height-headerHeight-footerHeight)
	w = max(10, max(10, m.width)-side-1)
	return side, headerHeight, w, h
}

func (m *Model) updateMouse(msg tea.MouseMsg) {
	ox, oy, w, h := m.mapArea()
	cx, cy := msg.X, msg.Y
	if cx < ox || cx >= ox+w || cy < oy || cy >= oy+h || m.geometry == nil {
		m.hovering = false
		m.hoverHasGeo = false
		return
	}
	m.hovering = true
	m.hoverCellX, m.hoverCellY = cx-ox, cy-oy
	m.hoverX, m.hoverY, m.hoverHasGeo = m.cellToXY(m.hoverCellX, m.hoverCellY, w, h)
	idx, pt, ok := m.nearestVertex(m.hoverCellX*2, m.hoverCellY*4, w, h)
	if !ok {
		m.hoverVertex = nil
		return
	}
	m.hoverVertex = idx
	m.hoverMicX, m.hoverMicY = pt[0], pt[1]
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.selected = idx
		m.status = "selected " + m.indexes.Format(idx)
		if m.showVertices {
			m.refreshVertexTable()
		}
	}
}
