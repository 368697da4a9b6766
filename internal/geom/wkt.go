package geom

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrWKT = errors.New("invalid wkt")

// ParseWKT parses POINT, LINESTRING, LINEARRING, POLYGON, MULTIPOINT,
// MULTILINESTRING and MULTIPOLYGON text, including the EMPTY forms.
func ParseWKT(wkt string) (*Geometry, error) {
	s := strings.TrimSpace(wkt)
	if s == "" {
		return nil, fmt.Errorf("empty wkt: %w", ErrWKT)
	}
	i := strings.IndexAny(s, "( ")
	if i < 0 {
		return nil, fmt.Errorf("wkt %q: %w", s, ErrWKT)
	}
	kw := strings.ToUpper(strings.TrimSpace(s[:i]))
	rest := strings.TrimSpace(s[i:])
	t, ok := wktTypes[kw]
	if !ok {
		return nil, fmt.Errorf("unsupported wkt type %q: %w", kw, ErrWKT)
	}
	if strings.EqualFold(rest, "EMPTY") {
		return NewEmpty(t), nil
	}
	body, err := unwrap(rest)
	if err != nil {
		return nil, err
	}
	g, err := parseBody(t, body)
	if err != nil {
		return nil, err
	}
	closeRings(g)
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("wkt %s: %w", t, err)
	}
	return g, nil
}

var wktTypes = map[string]Type{
	"POINT":           Point,
	"LINESTRING":      LineString,
	"LINEARRING":      LinearRing,
	"POLYGON":         Polygon,
	"MULTIPOINT":      MultiPoint,
	"MULTILINESTRING": MultiLineString,
	"MULTIPOLYGON":    MultiPolygon,
}

func parseBody(t Type, body string) (*Geometry, error) {
	switch t {
	case Point, LineString, LinearRing:
		cs, err := parseTuples(body)
		if err != nil {
			return nil, err
		}
		return &Geometry{Type: t, Coordinates: cs}, nil
	case MultiPoint:
		g := &Geometry{Type: MultiPoint}
		// both "(1 2), (3 4)" and "1 2, 3 4" are in use
		if !strings.Contains(body, "(") {
			cs, err := parseTuples(body)
			if err != nil {
				return nil, err
			}
			for _, c := range cs {
				g.Geometries = append(g.Geometries, &Geometry{Type: Point, Coordinates: []Coordinate{c}})
			}
			return g, nil
		}
		fallthrough
	default:
		child, _ := t.ChildType()
		parts, err := splitGroups(body)
		if err != nil {
			return nil, err
		}
		g := &Geometry{Type: t, Geometries: make([]*Geometry, 0, len(parts))}
		for _, p := range parts {
			if strings.EqualFold(strings.TrimSpace(p), "EMPTY") {
				g.Geometries = append(g.Geometries, NewEmpty(child))
				continue
			}
			inner, err := unwrap(p)
			if err != nil {
				return nil, err
			}
			c, err := parseBody(child, inner)
			if err != nil {
				return nil, err
			}
			g.Geometries = append(g.Geometries, c)
		}
		return g, nil
	}
}

// unwrap strips one pair of enclosing parentheses.
func unwrap(s string) (string, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '(' || s[len(s)-1] != ')' {
		return "", fmt.Errorf("wkt %q: unbalanced parentheses: %w", s, ErrWKT)
	}
	return s[1 : len(s)-1], nil
}

// splitGroups splits "(a), (b), EMPTY" at top-level commas.
func splitGroups(s string) ([]string, error) {
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("wkt: unbalanced parentheses: %w", ErrWKT)
			}
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("wkt: unbalanced parentheses: %w", ErrWKT)
	}
	return append(out, strings.TrimSpace(s[start:])), nil
}

func parseTuples(block string) ([]Coordinate, error) {
	block = strings.TrimSpace(block)
	if block == "" {
		return nil, nil
	}
	var out []Coordinate
	for _, tup := range strings.Split(block, ",") {
		parts := strings.Fields(strings.Trim(strings.TrimSpace(tup), "()"))
		if len(parts) < 2 {
			return nil, fmt.Errorf("wkt tuple %q: %w", tup, ErrWKT)
		}
		x, e1 := strconv.ParseFloat(parts[0], 64)
		y, e2 := strconv.ParseFloat(parts[1], 64)
		if e1 != nil || e2 != nil {
			return nil, fmt.Errorf("wkt tuple %q: %w", tup, ErrWKT)
		}
		out = append(out, Coordinate{X: x, Y: y})
	}
	return out, nil
}

// FormatWKT writes g as WKT.
func FormatWKT(g *Geometry) string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(g.Type.String()))
	if g.IsEmpty() && len(g.Geometries) == 0 {
		b.WriteString(" EMPTY")
		return b.String()
	}
	b.WriteByte(' ')
	writeBody(&b, g)
	return b.String()
}

func writeBody(b *strings.Builder, g *Geometry) {
	if g.Type.IsLeaf() {
		if len(g.Coordinates) == 0 {
			b.WriteString("EMPTY")
			return
		}
		b.WriteByte('(')
		for i, c := range g.Coordinates {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.FormatFloat(c.X, 'f', -1, 64))
			b.WriteByte(' ')
			b.WriteString(strconv.FormatFloat(c.Y, 'f', -1, 64))
		}
		b.WriteByte(')')
		return
	}
	if len(g.Geometries) == 0 {
		b.WriteString("EMPTY")
		return
	}
	b.WriteByte('(')
	for i, c := range g.Geometries {
		if i > 0 {
			b.WriteString(", ")
		}
		writeBody(b, c)
	}
	b.WriteByte(')')
}
