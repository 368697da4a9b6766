package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	headerHeight = 1
	footerHeight = 2
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	contentWidth := max(10, m.width)
	_, _, mapWidth, mapHeight := m.mapArea()

	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, mapHeight-2)
	}

	header := titleStyle.Render(" geoedit ─ terminal geometry editor ")
	header = lipgloss.NewStyle().Width(contentWidth).Padding(0).Render(header)

	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	m.mapW = max(8, mapWidth)
	m.mapH = max(4, mapHeight)
	var mapView string
	switch {
	case m.showVertices:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(mapWidth, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(mapHeight-2, 20))
		box := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, box)
	case m.pasteMode:
		m.ta.SetWidth(m.mapW)
		m.ta.SetHeight(min(m.mapH, 12))
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.ta.View())
	default:
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.renderMap(m.mapW, m.mapH))
	}

	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	status := dimStyle.Render(" " + m.status + " ")
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.renderHelp())
	right := m.renderPosition()
	spacerW := max(0, contentWidth-lipgloss.Width(left)-lipgloss.Width(right))
	rightBox := lipgloss.Place(spacerW+lipgloss.Width(right), 1, lipgloss.Right, lipgloss.Center, right)
	footer := lipgloss.NewStyle().Width(contentWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, m.renderSelection(), lipgloss.JoinHorizontal(lipgloss.Bottom, left, rightBox)))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

// renderSelection summarises the selected vertex and the history state.
func (m Model) renderSelection() string {
	if m.geometry == nil {
		return dimStyle.Render(" no geometry: Tab to open a file, p to paste WKT")
	}
	var parts []string
	if c, ok := m.selectedCoordinate(); ok {
		parts = append(parts, selectedStyle.Render(m.indexes.Format(m.selected))+" "+c.String())
	} else {
		parts = append(parts, "no selection")
	}
	parts = append(parts, m.geometry.Type.String())
	if m.modified() {
		parts = append(parts, "modified")
	}
	if m.editor.IsOperationSequenceActive() {
		parts = append(parts, dragStyle.Render("DRAG"))
	}
	hist := "history:"
	if m.editor.CanUndo() {
		hist += " undo"
	}
	if m.editor.CanRedo() {
		hist += " redo"
	}
	parts = append(parts, hist)
	if m.changes.count > 0 {
		id := m.changes.last.EditID.String()
		parts = append(parts, fmt.Sprintf("last %s %s", m.changes.last.Kind, id[:8]))
	}
	return " " + strings.Join(parts, "  ")
}

func (m Model) renderPosition() string {
	if !m.hoverHasGeo {
		return ""
	}
	s := fmt.Sprintf("  x=%.5f y=%.5f", m.hoverX, m.hoverY)
	if m.hoverVertex != nil {
		s += " near " + m.indexes.Format(m.hoverVertex)
	}
	return dimStyle.Render(s + "  ")
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"HJKL move",
		"n/N vertex",
		"[/] part",
		"i insert",
		"x delete",
		"r/R add part",
		"space drag",
		"u/U undo/redo",
		"s save",
		"v vertices",
		"Tab files",
		"p paste",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
