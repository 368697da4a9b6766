package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"geoedit/internal/geom"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if slices.Contains(geom.Extensions, ext) {
			items = append(items, fileItem{title: name, desc: ext, path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath opens a supported file and starts editing its geometry.
func (m *Model) loadPath(p string) {
	g, err := geom.Load(p)
	if err != nil {
		m.log.Warn("load failed", "path", p, "error", err)
		m.status = "load error: " + err.Error()
		return
	}
	if err := m.setGeometry(g, p); err != nil {
		m.status = "edit error: " + err.Error()
		return
	}
	m.status = "editing " + filepath.Base(p) + fmt.Sprintf("  %s, %d vertices", g.Type, len(m.vertices()))
}
