package edit

import (
	"fmt"

	"geoedit/internal/geom"
	"geoedit/internal/index"
)

// Operation is one reversible change at one index. Inverse is only valid
// after Execute succeeded and describes how to take that exact change back.
type Operation interface {
	Execute(indexes *index.Service, g *geom.Geometry) error
	Inverse() Operation
	Index() *index.GeometryIndex
	event(g *geom.Geometry) any
}

// owner returns the node idx's terminal segment addresses into.
func owner(indexes *index.Service, g *geom.Geometry, idx *index.GeometryIndex) (*geom.Geometry, error) {
	if !idx.HasChild() {
		return g, nil
	}
	parent, err := indexes.GetParent(idx)
	if err != nil {
		return nil, err
	}
	return indexes.GetGeometry(g, parent)
}

func leafFor(indexes *index.Service, g *geom.Geometry, idx *index.GeometryIndex) (*geom.Geometry, int, error) {
	if !indexes.IsVertex(idx) {
		return nil, 0, fmt.Errorf("%s is not a vertex index: %w", idx, index.ErrIndexNotFound)
	}
	leaf, err := owner(indexes, g, idx)
	if err != nil {
		return nil, 0, err
	}
	if !leaf.Type.IsLeaf() {
		return nil, 0, fmt.Errorf("%s: %s does not hold coordinates: %w", idx, leaf.Type, index.ErrIndexNotFound)
	}
	return leaf, indexes.GetValue(idx), nil
}

func collectionFor(indexes *index.Service, g *geom.Geometry, idx *index.GeometryIndex) (*geom.Geometry, int, error) {
	if !indexes.IsGeometry(idx) {
		return nil, 0, fmt.Errorf("%s is not a geometry index: %w", idx, index.ErrIndexNotFound)
	}
	parent, err := owner(indexes, g, idx)
	if err != nil {
		return nil, 0, err
	}
	return parent, indexes.GetValue(idx), nil
}

// retarget points idx at the position a geometry helper actually touched.
func retarget(indexes *index.Service, idx *index.GeometryIndex, pos int) (*index.GeometryIndex, error) {
	if indexes.GetValue(idx) == pos {
		return idx, nil
	}
	vals := idx.Values()
	vals[len(vals)-1] = pos
	return indexes.Create(indexes.GetType(idx), vals...)
}

// insertVertices inserts a run of coordinates before a vertex.
type insertVertices struct {
	idx    *index.GeometryIndex
	coords []geom.Coordinate
}

func (o *insertVertices) Execute(indexes *index.Service, g *geom.Geometry) error {
	leaf, pos, err := leafFor(indexes, g, o.idx)
	if err != nil {
		return err
	}
	eff, err := leaf.InsertCoordinates(pos, o.coords...)
	if err != nil {
		return fmt.Errorf("insert at %s: %w: %v", o.idx, index.ErrIndexNotFound, err)
	}
	o.idx, err = retarget(indexes, o.idx, eff)
	return err
}

func (o *insertVertices) Inverse() Operation {
	return &removeVertices{idx: o.idx, count: len(o.coords)}
}

func (o *insertVertices) Index() *index.GeometryIndex { return o.idx }

func (o *insertVertices) event(g *geom.Geometry) any {
	return InsertEvent{Geometry: g, Index: o.idx, Coordinates: append([]geom.Coordinate(nil), o.coords...)}
}

// removeVertices deletes count coordinates starting at a vertex.
type removeVertices struct {
	idx     *index.GeometryIndex
	count   int
	removed []geom.Coordinate
}

func (o *removeVertices) Execute(indexes *index.Service, g *geom.Geometry) error {
	leaf, pos, err := leafFor(indexes, g, o.idx)
	if err != nil {
		return err
	}
	if pos < 0 || pos+o.count > len(leaf.Coordinates) {
		return fmt.Errorf("remove %d at %s of %d: %w", o.count, o.idx, len(leaf.Coordinates), index.ErrIndexNotFound)
	}
	removed := make([]geom.Coordinate, o.count)
	eff := pos
	// back to front so earlier positions stay valid
	for i := o.count - 1; i >= 0; i-- {
		c, at, err := leaf.RemoveCoordinate(pos + i)
		if err != nil {
			return fmt.Errorf("remove at %s: %w: %v", o.idx, index.ErrIndexNotFound, err)
		}
		removed[i] = c
		if i == 0 {
			eff = at
		}
	}
	o.removed = removed
	o.idx, err = retarget(indexes, o.idx, eff)
	return err
}

func (o *removeVertices) Inverse() Operation {
	return &insertVertices{idx: o.idx, coords: append([]geom.Coordinate(nil), o.removed...)}
}

func (o *removeVertices) Index() *index.GeometryIndex { return o.idx }

func (o *removeVertices) event(g *geom.Geometry) any {
	return RemoveEvent{Geometry: g, Index: o.idx, Coordinates: append([]geom.Coordinate(nil), o.removed...)}
}

// moveVertex replaces one coordinate.
type moveVertex struct {
	idx  *index.GeometryIndex
	to   geom.Coordinate
	from geom.Coordinate
}

func (o *moveVertex) Execute(indexes *index.Service, g *geom.Geometry) error {
	leaf, pos, err := leafFor(indexes, g, o.idx)
	if err != nil {
		return err
	}
	old, eff, err := leaf.SetCoordinate(pos, o.to)
	if err != nil {
		return fmt.Errorf("move at %s: %w: %v", o.idx, index.ErrIndexNotFound, err)
	}
	o.from = old
	o.idx, err = retarget(indexes, o.idx, eff)
	return err
}

func (o *moveVertex) Inverse() Operation {
	return &moveVertex{idx: o.idx, to: o.from}
}

func (o *moveVertex) Index() *index.GeometryIndex { return o.idx }

func (o *moveVertex) event(g *geom.Geometry) any {
	return MoveEvent{Geometry: g, Index: o.idx, From: o.from, To: o.to}
}

// insertPart inserts a sub-geometry into a collection.
type insertPart struct {
	idx  *index.GeometryIndex
	part *geom.Geometry
}

func (o *insertPart) Execute(indexes *index.Service, g *geom.Geometry) error {
	parent, pos, err := collectionFor(indexes, g, o.idx)
	if err != nil {
		return err
	}
	if err := parent.InsertGeometry(pos, o.part.Clone()); err != nil {
		return fmt.Errorf("insert part at %s: %w: %v", o.idx, index.ErrIndexNotFound, err)
	}
	return nil
}

func (o *insertPart) Inverse() Operation {
	return &removePart{idx: o.idx}
}

func (o *insertPart) Index() *index.GeometryIndex { return o.idx }

func (o *insertPart) event(g *geom.Geometry) any {
	return InsertEvent{Geometry: g, Index: o.idx, Coordinates: collect(o.part), Part: o.part.Clone()}
}

// removePart deletes a sub-geometry from a collection.
type removePart struct {
	idx     *index.GeometryIndex
	removed *geom.Geometry
}

func (o *removePart) Execute(indexes *index.Service, g *geom.Geometry) error {
	parent, pos, err := collectionFor(indexes, g, o.idx)
	if err != nil {
		return err
	}
	old, err := parent.RemoveGeometry(pos)
	if err != nil {
		return fmt.Errorf("remove part at %s: %w: %v", o.idx, index.ErrIndexNotFound, err)
	}
	o.removed = old
	return nil
}

func (o *removePart) Inverse() Operation {
	return &insertPart{idx: o.idx, part: o.removed}
}

func (o *removePart) Index() *index.GeometryIndex { return o.idx }

func (o *removePart) event(g *geom.Geometry) any {
	return RemoveEvent{Geometry: g, Index: o.idx, Coordinates: collect(o.removed), Part: o.removed.Clone()}
}

func collect(g *geom.Geometry) []geom.Coordinate {
	var out []geom.Coordinate
	g.Walk(func(_ []int, _ int, c geom.Coordinate) {
		out = append(out, c)
	})
	return out
}
