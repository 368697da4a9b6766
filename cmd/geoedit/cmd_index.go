package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"geoedit/internal/geom"
	"geoedit/internal/index"
)

func runIndex(cmd *cobra.Command, args []string) error {
	g, err := geom.Load(args[0])
	if err != nil {
		return err
	}
	is := index.NewService()
	out := cmd.OutOrStdout()
	for _, text := range args[1:] {
		idx, err := is.Parse(text)
		if err != nil {
			return err
		}
		if err := describe(out, is, g, idx); err != nil {
			return fmt.Errorf("%s: %w", text, err)
		}
	}
	return nil
}

// describe prints what idx addresses in g and its neighbourhood.
func describe(w io.Writer, is *index.Service, g *geom.Geometry, idx *index.GeometryIndex) error {
	t, err := is.GetGeometryType(g, idx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s\n  kind: %s in %s\n", is.Format(idx), is.GetType(idx), t)

	switch {
	case is.IsVertex(idx):
		c, err := is.GetVertex(g, idx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  vertex: %s\n", c)
		if next, err := is.GetNextVertex(g, idx); err == nil {
			fmt.Fprintf(w, "  next: %s\n", is.Format(next))
		}
		if prev, err := is.GetPreviousVertex(g, idx); err == nil {
			fmt.Fprintf(w, "  previous: %s\n", is.Format(prev))
		}
	case is.IsEdge(idx):
		e, err := is.GetEdge(g, idx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  edge: %s -> %s\n", e[0], e[1])
	default:
		sub, err := is.GetGeometry(g, idx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  geometry: %s\n", geom.FormatWKT(sub))
		return nil
	}

	n, err := is.GetSiblingCount(g, idx)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  siblings: %d\n", n)
	if vs, err := is.GetAdjacentVertices(g, idx); err == nil {
		fmt.Fprintf(w, "  adjacent vertices: %s\n", formatAll(is, vs))
	}
	if es, err := is.GetAdjacentEdges(g, idx); err == nil {
		fmt.Fprintf(w, "  adjacent edges: %s\n", formatAll(is, es))
	}
	return nil
}

func formatAll(is *index.Service, idxs []*index.GeometryIndex) string {
	if len(idxs) == 0 {
		return "-"
	}
	s := make([]string, len(idxs))
	for i, x := range idxs {
		s[i] = is.Format(x)
	}
	return strings.Join(s, " ")
}
