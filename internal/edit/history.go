package edit

import (
	"github.com/google/uuid"

	"geoedit/internal/index"
)

// entry is one undoable unit: a single call or a committed sequence.
type entry struct {
	id  uuid.UUID
	ops []Operation
}

func (e *entry) indices() []*index.GeometryIndex {
	out := make([]*index.GeometryIndex, len(e.ops))
	for i, op := range e.ops {
		out[i] = op.Index()
	}
	return out
}

// history owns the undo and redo stacks. An entry lives on exactly one of
// them; undo and redo move it across.
type history struct {
	limit int
	undo  []*entry
	redo  []*entry
}

// pushUndo records e as the newest undoable entry, dropping the oldest ones
// beyond the limit.
func (h *history) pushUndo(e *entry) {
	h.undo = append(h.undo, e)
	if h.limit > 0 && len(h.undo) > h.limit {
		drop := len(h.undo) - h.limit
		h.undo = append(h.undo[:0:0], h.undo[drop:]...)
	}
}

func (h *history) pushRedo(e *entry) {
	h.redo = append(h.redo, e)
}

func (h *history) popUndo() *entry {
	if len(h.undo) == 0 {
		return nil
	}
	e := h.undo[len(h.undo)-1]
	h.undo[len(h.undo)-1] = nil
	h.undo = h.undo[:len(h.undo)-1]
	return e
}

func (h *history) popRedo() *entry {
	if len(h.redo) == 0 {
		return nil
	}
	e := h.redo[len(h.redo)-1]
	h.redo[len(h.redo)-1] = nil
	h.redo = h.redo[:len(h.redo)-1]
	return e
}

func (h *history) clearRedo() {
	h.redo = nil
}

func (h *history) clear() {
	h.undo, h.redo = nil, nil
}
