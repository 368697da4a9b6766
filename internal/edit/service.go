// Package edit applies undoable insert, move and remove operations to a
// geometry addressed with geometry indices, and notifies listeners of every
// change.
package edit

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"geoedit/internal/geom"
	"geoedit/internal/index"
)

// Service is an edit session on one geometry. It is not safe for
// concurrent use: every call runs to completion, handlers included, before
// it returns.
type Service struct {
	indexes  *index.Service
	logger   *slog.Logger
	geometry *geom.Geometry
	active   bool
	history  history
	// sequence is non-nil while an operation sequence is open
	sequence *entry
	events   dispatcher
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for session and history diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithHistoryLimit bounds the undo stack; 0 keeps everything.
func WithHistoryLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.history.limit = n
		}
	}
}

// WithIndexService shares an index service with the caller.
func WithIndexService(is *index.Service) Option {
	return func(s *Service) {
		if is != nil {
			s.indexes = is
		}
	}
}

// NewService returns an inactive edit service.
func NewService(opts ...Option) *Service {
	s := &Service{
		indexes: index.NewService(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// IndexService returns the index service the edit service resolves with.
func (s *Service) IndexService() *index.Service { return s.indexes }

// Geometry returns the geometry being edited, or nil when inactive.
func (s *Service) Geometry() *geom.Geometry { return s.geometry }

// IsStarted reports whether a session is active.
func (s *Service) IsStarted() bool { return s.active }

// Start binds g to the service. Restarting on the geometry of the previous
// session keeps its history; any other geometry starts with an empty one.
func (s *Service) Start(g *geom.Geometry) error {
	if s.active {
		return ErrSessionActive
	}
	if g == nil {
		return fmt.Errorf("start without geometry: %w", ErrOperationFailed)
	}
	if g != s.geometry {
		s.history.clear()
	}
	s.geometry = g
	s.active = true
	s.logger.Debug("edit session started", "type", g.Type.String())
	s.events.fire(SessionEvent{Geometry: g, Started: true})
	return nil
}

// Stop ends the session. An open operation sequence is committed first
// rather than rejected or discarded, so its edits stay one undoable step.
// The history is kept so a restart on the same geometry can still undo or
// redo.
func (s *Service) Stop() error {
	if !s.active {
		return ErrNotActive
	}
	if s.sequence != nil {
		if err := s.StopOperationSequence(); err != nil {
			return err
		}
	}
	s.active = false
	s.logger.Debug("edit session stopped", "undo", len(s.history.undo), "redo", len(s.history.redo))
	s.events.fire(SessionEvent{Geometry: s.geometry, Started: false})
	return nil
}

// StartOperationSequence groups following calls into one undoable unit with
// one shape-changed notification.
func (s *Service) StartOperationSequence() error {
	if !s.active {
		return ErrNotActive
	}
	if s.sequence != nil {
		return ErrSequenceActive
	}
	s.sequence = &entry{id: uuid.New()}
	s.logger.Debug("operation sequence opened", "edit_id", s.sequence.id)
	return nil
}

// StopOperationSequence commits the open sequence. A sequence without
// operations leaves no history entry and fires nothing.
func (s *Service) StopOperationSequence() error {
	if s.sequence == nil {
		return ErrNoSequence
	}
	seq := s.sequence
	s.sequence = nil
	s.logger.Debug("operation sequence closed", "edit_id", seq.id, "operations", len(seq.ops))
	if len(seq.ops) == 0 {
		return nil
	}
	s.history.pushUndo(seq)
	s.events.fire(ShapeChangedEvent{Geometry: s.geometry, Indices: seq.indices(), Kind: ChangeEdit, EditID: seq.id})
	return nil
}

// IsOperationSequenceActive reports whether a sequence is open.
func (s *Service) IsOperationSequenceActive() bool { return s.sequence != nil }

// CanUndo is false while a sequence is open.
func (s *Service) CanUndo() bool { return s.sequence == nil && len(s.history.undo) > 0 }

// CanRedo is false while a sequence is open.
func (s *Service) CanRedo() bool { return s.sequence == nil && len(s.history.redo) > 0 }

// Insert inserts coords[i] before the vertex indices[i] points at.
func (s *Service) Insert(indices []*index.GeometryIndex, coords [][]geom.Coordinate) error {
	if err := s.checkPairs("insert", indices, coords); err != nil {
		return err
	}
	ops := make([]Operation, len(indices))
	for i, idx := range indices {
		if len(coords[i]) == 0 {
			return fmt.Errorf("insert at %s without coordinates: %w", idx, ErrOperationFailed)
		}
		ops[i] = &insertVertices{idx: idx, coords: append([]geom.Coordinate(nil), coords[i]...)}
	}
	return s.apply("insert", ops)
}

// Move sets the vertex indices[i] points at to the single coordinate in
// coords[i].
func (s *Service) Move(indices []*index.GeometryIndex, coords [][]geom.Coordinate) error {
	if err := s.checkPairs("move", indices, coords); err != nil {
		return err
	}
	ops := make([]Operation, len(indices))
	for i, idx := range indices {
		if len(coords[i]) != 1 {
			return fmt.Errorf("move %s takes one coordinate, got %d: %w", idx, len(coords[i]), ErrOperationFailed)
		}
		ops[i] = &moveVertex{idx: idx, to: coords[i][0]}
	}
	return s.apply("move", ops)
}

// Remove deletes the vertex, or the sub-geometry, each index points at.
func (s *Service) Remove(indices []*index.GeometryIndex) error {
	if !s.active {
		return ErrNotActive
	}
	if len(indices) == 0 {
		return fmt.Errorf("remove without indices: %w", ErrOperationFailed)
	}
	ops := make([]Operation, len(indices))
	for i, idx := range indices {
		switch {
		case idx == nil:
			return fmt.Errorf("remove: nil index at %d: %w", i, ErrOperationFailed)
		case s.indexes.IsGeometry(idx):
			ops[i] = &removePart{idx: idx}
		default:
			ops[i] = &removeVertices{idx: idx, count: 1}
		}
	}
	return s.apply("remove", ops)
}

// AddEmptyChild appends an empty part to the collection idx points at (the
// root geometry for a nil index) and returns the new part's index.
func (s *Service) AddEmptyChild(idx *index.GeometryIndex) (*index.GeometryIndex, error) {
	if !s.active {
		return nil, ErrNotActive
	}
	parent := s.geometry
	if idx != nil {
		if !s.indexes.IsGeometry(idx) {
			return nil, fmt.Errorf("add child to %s: %w", idx, ErrOperationFailed)
		}
		g, err := s.indexes.GetGeometry(s.geometry, idx)
		if err != nil {
			return nil, err
		}
		parent = g
	}
	childType, ok := parent.Type.ChildType()
	if !ok {
		return nil, fmt.Errorf("add child to %s: %w", parent.Type, ErrOperationFailed)
	}
	child, err := s.indexes.AddChildren(idx, index.TypeGeometry, len(parent.Geometries))
	if err != nil {
		return nil, err
	}
	if err := s.apply("add child", []Operation{&insertPart{idx: child, part: geom.NewEmpty(childType)}}); err != nil {
		return nil, err
	}
	return child, nil
}

// Undo reverses the newest history entry.
func (s *Service) Undo() error {
	if err := s.checkHistory(); err != nil {
		return err
	}
	e := s.history.popUndo()
	if e == nil {
		return ErrNothingToUndo
	}
	inv := make([]Operation, len(e.ops))
	for i, op := range e.ops {
		inv[len(e.ops)-1-i] = op.Inverse()
	}
	if err := s.execute(inv); err != nil {
		s.history.pushUndo(e)
		s.logger.Warn("undo failed", "edit_id", e.id, "error", err)
		return fmt.Errorf("undo: %w", err)
	}
	s.history.pushRedo(e)
	s.logger.Debug("undo", "edit_id", e.id, "operations", len(e.ops))
	s.notify(inv)
	s.events.fire(ShapeChangedEvent{Geometry: s.geometry, Indices: indicesOf(inv), Kind: ChangeUndo, EditID: e.id})
	return nil
}

// Redo re-applies the newest undone entry.
func (s *Service) Redo() error {
	if err := s.checkHistory(); err != nil {
		return err
	}
	e := s.history.popRedo()
	if e == nil {
		return ErrNothingToRedo
	}
	if err := s.execute(e.ops); err != nil {
		s.history.pushRedo(e)
		s.logger.Warn("redo failed", "edit_id", e.id, "error", err)
		return fmt.Errorf("redo: %w", err)
	}
	s.history.pushUndo(e)
	s.logger.Debug("redo", "edit_id", e.id, "operations", len(e.ops))
	s.notify(e.ops)
	s.events.fire(ShapeChangedEvent{Geometry: s.geometry, Indices: e.indices(), Kind: ChangeRedo, EditID: e.id})
	return nil
}

// AddInsertHandler is notified once per inserted run of coordinates or part.
func (s *Service) AddInsertHandler(h InsertHandler) HandlerRegistration {
	return s.events.insert.add(h)
}

func (s *Service) AddMoveHandler(h MoveHandler) HandlerRegistration {
	return s.events.move.add(h)
}

func (s *Service) AddRemoveHandler(h RemoveHandler) HandlerRegistration {
	return s.events.remove.add(h)
}

func (s *Service) AddShapeChangedHandler(h ShapeChangedHandler) HandlerRegistration {
	return s.events.shape.add(h)
}

// AddSessionHandler is notified on Start and Stop.
func (s *Service) AddSessionHandler(h SessionHandler) HandlerRegistration {
	return s.events.session.add(h)
}

func (s *Service) checkPairs(op string, indices []*index.GeometryIndex, coords [][]geom.Coordinate) error {
	if !s.active {
		return ErrNotActive
	}
	if len(indices) == 0 || len(coords) == 0 {
		return fmt.Errorf("%s without indices or coordinates: %w", op, ErrOperationFailed)
	}
	if len(indices) != len(coords) {
		return fmt.Errorf("%s with %d indices and %d coordinate lists: %w", op, len(indices), len(coords), ErrOperationFailed)
	}
	for i, idx := range indices {
		if idx == nil {
			return fmt.Errorf("%s: nil index at %d: %w", op, i, ErrOperationFailed)
		}
	}
	return nil
}

func (s *Service) checkHistory() error {
	if !s.active {
		return ErrNotActive
	}
	if s.sequence != nil {
		return ErrSequenceActive
	}
	return nil
}

// execute runs ops in order. If one fails the ones already run are reversed,
// leaving the geometry as it was.
func (s *Service) execute(ops []Operation) error {
	for i, op := range ops {
		if err := op.Execute(s.indexes, s.geometry); err != nil {
			for j := i - 1; j >= 0; j-- {
				if rerr := ops[j].Inverse().Execute(s.indexes, s.geometry); rerr != nil {
					return errors.Join(err, fmt.Errorf("rollback %s: %w", ops[j].Index(), rerr))
				}
			}
			return err
		}
	}
	return nil
}

func (s *Service) notify(ops []Operation) {
	for _, op := range ops {
		s.events.fire(op.event(s.geometry))
	}
}

// apply runs one top-level call: all of ops or none of them, then either
// appends them to the open sequence or records them as their own entry.
func (s *Service) apply(name string, ops []Operation) error {
	if err := s.execute(ops); err != nil {
		s.logger.Warn("edit failed", "operation", name, "error", err)
		return err
	}
	s.history.clearRedo()
	s.notify(ops)
	if s.sequence != nil {
		s.sequence.ops = append(s.sequence.ops, ops...)
		return nil
	}
	e := &entry{id: uuid.New(), ops: ops}
	s.history.pushUndo(e)
	s.logger.Debug("edit applied", "operation", name, "edit_id", e.id, "indices", len(ops))
	s.events.fire(ShapeChangedEvent{Geometry: s.geometry, Indices: e.indices(), Kind: ChangeEdit, EditID: e.id})
	return nil
}

func indicesOf(ops []Operation) []*index.GeometryIndex {
	out := make([]*index.GeometryIndex, len(ops))
	for i, op := range ops {
		out[i] = op.Index()
	}
	return out
}
