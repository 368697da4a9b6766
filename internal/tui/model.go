package tui

import (
	"io"
	"log/slog"
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"geoedit/internal/edit"
	"geoedit/internal/geom"
	"geoedit/internal/index"
)

// Options wires the editor to the rest of the program.
type Options struct {
	// Editor is the edit service the model drives; a fresh one when nil.
	Editor *edit.Service
	// Step is the fraction of the larger bbox side a vertex moves per key.
	Step float64
	// Tolerance is how far a coordinate may drift before the geometry
	// counts as modified.
	Tolerance float64
	Logger    *slog.Logger
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// Editing
	editor   *edit.Service
	indexes  *index.Service
	geometry *geom.Geometry
	// original is the geometry as loaded or last saved
	original  *geom.Geometry
	tolerance float64
	bbox      geom.BBox
	selected  *index.GeometryIndex
	step      float64
	log       *slog.Logger
	changes   *journal

	// last rendered map size
	mapW int
	mapH int

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverMicX   int
	hoverMicY   int
	hoverHasGeo bool
	hoverX      float64
	hoverY      float64
	hoverVertex *index.GeometryIndex

	// vertex table
	showVertices bool
	tbl          table.Model
	tblIndices   []*index.GeometryIndex
}

// journal remembers the last completed change. It is shared by pointer
// because the handler outlives every copy of the model.
type journal struct {
	last  edit.ShapeChangedEvent
	count int
}

func New(opts Options) Model {
	m := Model{
		showSidebar: false,
		helpVisible: true,
		zoom:        1.0,
		status:      "geoedit ready",
		editor:      opts.Editor,
		step:        opts.Step,
		tolerance:   opts.Tolerance,
		log:         opts.Logger,
		changes:     &journal{},
	}
	if m.editor == nil {
		m.editor = edit.NewService()
	}
	if m.step <= 0 {
		m.step = 0.02
	}
	if m.log == nil {
		m.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m.indexes = m.editor.IndexService()
	j := m.changes
	m.editor.AddShapeChangedHandler(func(e edit.ShapeChangedEvent) {
		j.last = e
		j.count++
	})
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here (POINT, LINESTRING, POLYGON, MULTI*). Press Enter to edit; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// vertex table setup
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithPath opens a file for editing at launch.
func NewWithPath(path string, opts Options) Model {
	m := New(opts)
	m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// setGeometry ends the running session and starts editing g.
func (m *Model) setGeometry(g *geom.Geometry, path string) error {
	if m.editor.IsStarted() {
		if err := m.editor.Stop(); err != nil {
			return err
		}
	}
	if err := m.editor.Start(g); err != nil {
		return err
	}
	m.geometry = g
	m.original = g.Clone()
	m.selPath = path
	m.fit()
	m.selected = nil
	if vs := m.vertices(); len(vs) > 0 {
		m.selected = vs[0]
	}
	m.hoverVertex = nil
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	m.log.Info("editing geometry", "path", path, "type", g.Type.String())
	if m.showVertices {
		m.refreshVertexTable()
	}
	return nil
}

// modified reports whether the geometry drifted from its loaded or saved
// state by more than the tolerance.
func (m *Model) modified() bool {
	return m.geometry != nil && !m.geometry.EqualsWithin(m.original, m.tolerance)
}

// fit sets the viewport bbox to the geometry, padding degenerate extents.
func (m *Model) fit() {
	bb, ok := geom.Bounds(m.geometry)
	if !ok {
		bb = geom.BBox{MinX: -1, MinY: -1, MaxX: 1, MaxY: 1}
	}
	pad := 0.05 * max(bb.Width(), bb.Height())
	if pad == 0 {
		pad = 1
	}
	m.bbox = geom.BBox{MinX: bb.MinX - pad, MinY: bb.MinY - pad, MaxX: bb.MaxX + pad, MaxY: bb.MaxY + pad}
}
