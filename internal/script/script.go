// Package script runs line-oriented edit scripts against an edit session.
//
//	# comment
//	move geometry0.vertex1 10 20
//	insert geometry0.vertex2 1 1 2 2
//	remove geometry0.vertex0 geometry1
//	add geometry0
//	begin
//	end
//	undo
//	redo
package script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"geoedit/internal/edit"
	"geoedit/internal/geom"
	"geoedit/internal/index"
)

var ErrSyntax = errors.New("script syntax error")

// Runner executes script commands on a started edit service.
type Runner struct {
	svc     *edit.Service
	indexes *index.Service
}

func NewRunner(svc *edit.Service) *Runner {
	return &Runner{svc: svc, indexes: svc.IndexService()}
}

// Run executes every line of r. It stops at the first failing line and
// reports its number.
func (r *Runner) Run(in io.Reader) (int, error) {
	sc := bufio.NewScanner(in)
	n, done := 0, 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := r.Exec(line); err != nil {
			return done, fmt.Errorf("line %d: %w", n, err)
		}
		done++
	}
	return done, sc.Err()
}

// Exec runs one command.
func (r *Runner) Exec(line string) error {
	f := strings.Fields(line)
	if len(f) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(f[0]), f[1:]
	switch cmd {
	case "move":
		idx, coords, err := r.indexAndCoords(cmd, args)
		if err != nil {
			return err
		}
		return r.svc.Move([]*index.GeometryIndex{idx}, [][]geom.Coordinate{coords})
	case "insert":
		idx, coords, err := r.indexAndCoords(cmd, args)
		if err != nil {
			return err
		}
		return r.svc.Insert([]*index.GeometryIndex{idx}, [][]geom.Coordinate{coords})
	case "remove":
		if len(args) == 0 {
			return fmt.Errorf("remove needs at least one index: %w", ErrSyntax)
		}
		idxs := make([]*index.GeometryIndex, len(args))
		for i, a := range args {
			idx, err := r.indexes.Parse(a)
			if err != nil {
				return err
			}
			idxs[i] = idx
		}
		return r.svc.Remove(idxs)
	case "add":
		var parent *index.GeometryIndex
		switch len(args) {
		case 0:
		case 1:
			p, err := r.indexes.Parse(args[0])
			if err != nil {
				return err
			}
			parent = p
		default:
			return fmt.Errorf("add takes at most one index: %w", ErrSyntax)
		}
		_, err := r.svc.AddEmptyChild(parent)
		return err
	case "begin":
		return r.svc.StartOperationSequence()
	case "end":
		return r.svc.StopOperationSequence()
	case "undo":
		return r.svc.Undo()
	case "redo":
		return r.svc.Redo()
	}
	return fmt.Errorf("unknown command %q: %w", f[0], ErrSyntax)
}

func (r *Runner) indexAndCoords(cmd string, args []string) (*index.GeometryIndex, []geom.Coordinate, error) {
	if len(args) < 3 || len(args)%2 == 0 {
		return nil, nil, fmt.Errorf("%s needs an index and x y pairs: %w", cmd, ErrSyntax)
	}
	idx, err := r.indexes.Parse(args[0])
	if err != nil {
		return nil, nil, err
	}
	coords, err := parseCoords(args[1:])
	if err != nil {
		return nil, nil, err
	}
	return idx, coords, nil
}

func parseCoords(fs []string) ([]geom.Coordinate, error) {
	out := make([]geom.Coordinate, 0, len(fs)/2)
	for i := 0; i+1 < len(fs); i += 2 {
		x, e1 := strconv.ParseFloat(fs[i], 64)
		y, e2 := strconv.ParseFloat(fs[i+1], 64)
		if e1 != nil || e2 != nil {
			return nil, fmt.Errorf("coordinate %q %q: %w", fs[i], fs[i+1], ErrSyntax)
		}
		out = append(out, geom.Coordinate{X: x, Y: y})
	}
	return out, nil
}
