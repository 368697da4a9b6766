package edit

import (
	"github.com/google/uuid"

	"geoedit/internal/geom"
	"geoedit/internal/index"
)

// Event indices point at the position actually changed: a ring's closing
// position is reported as vertex 0, and an insert past the last distinct
// ring vertex as the position before the closing copy.

// InsertEvent is fired once per index coordinates (or a part) were inserted at.
type InsertEvent struct {
	Geometry    *geom.Geometry
	Index       *index.GeometryIndex
	Coordinates []geom.Coordinate
	// Part is set when a whole sub-geometry was inserted.
	Part *geom.Geometry
}

// MoveEvent is fired once per moved vertex. Moving a ring's closing
// coordinate is reported at vertex 0.
type MoveEvent struct {
	Geometry *geom.Geometry
	Index    *index.GeometryIndex
	From     geom.Coordinate
	To       geom.Coordinate
}

// RemoveEvent is fired once per index coordinates (or a part) were removed at.
type RemoveEvent struct {
	Geometry    *geom.Geometry
	Index       *index.GeometryIndex
	Coordinates []geom.Coordinate
	Part        *geom.Geometry
}

// ChangeKind tells a shape change caused by an edit from one caused by
// undo or redo.
type ChangeKind int

const (
	ChangeEdit ChangeKind = iota
	ChangeUndo
	ChangeRedo
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeUndo:
		return "undo"
	case ChangeRedo:
		return "redo"
	default:
		return "edit"
	}
}

// ShapeChangedEvent closes one logical edit: a single call outside a
// sequence, a whole sequence, or an undo/redo of either.
type ShapeChangedEvent struct {
	Geometry *geom.Geometry
	Indices  []*index.GeometryIndex
	Kind     ChangeKind
	// EditID identifies the history entry; undo and redo of an edit carry
	// the edit's ID.
	EditID uuid.UUID
}

// SessionEvent is fired when a session starts or stops.
type SessionEvent struct {
	Geometry *geom.Geometry
	Started  bool
}

type (
	InsertHandler       func(InsertEvent)
	MoveHandler         func(MoveEvent)
	RemoveHandler       func(RemoveEvent)
	ShapeChangedHandler func(ShapeChangedEvent)
	SessionHandler      func(SessionEvent)
)

// HandlerRegistration removes the handler it was returned for.
type HandlerRegistration struct {
	remove func()
}

// Remove unregisters the handler. Calling it twice is harmless.
func (r HandlerRegistration) Remove() {
	if r.remove != nil {
		r.remove()
	}
}

type registered[H any] struct {
	id int
	h  H
}

// listeners keeps handlers in registration order.
type listeners[H any] struct {
	next int
	list []registered[H]
}

func (l *listeners[H]) add(h H) HandlerRegistration {
	l.next++
	id := l.next
	l.list = append(l.list, registered[H]{id: id, h: h})
	return HandlerRegistration{remove: func() {
		for i, r := range l.list {
			if r.id == id {
				l.list = append(l.list[:i:i], l.list[i+1:]...)
				return
			}
		}
	}}
}

func (l *listeners[H]) each(fn func(H)) {
	// handlers may unregister themselves while being called
	snapshot := append([]registered[H](nil), l.list...)
	for _, r := range snapshot {
		fn(r.h)
	}
}

type dispatcher struct {
	insert  listeners[InsertHandler]
	move    listeners[MoveHandler]
	remove  listeners[RemoveHandler]
	shape   listeners[ShapeChangedHandler]
	session listeners[SessionHandler]
}

func (d *dispatcher) fire(e any) {
	switch e := e.(type) {
	case InsertEvent:
		d.insert.each(func(h InsertHandler) { h(e) })
	case MoveEvent:
		d.move.each(func(h MoveHandler) { h(e) })
	case RemoveEvent:
		d.remove.each(func(h RemoveHandler) { h(e) })
	case ShapeChangedEvent:
		d.shape.each(func(h ShapeChangedHandler) { h(e) })
	case SessionEvent:
		d.session.each(func(h SessionHandler) { h(e) })
	}
}
