package index

import (
	"fmt"
	"strconv"
	"strings"
)

// Service creates, parses and formats geometry indices and navigates
// geometries with them. It holds no state; the zero value is ready to use.
type Service struct{}

// NewService returns an index service.
func NewService() *Service { return &Service{} }

// Create builds a path whose last value carries typ and whose other values
// are geometry segments.
func (s *Service) Create(typ Type, values ...int) (*GeometryIndex, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("create %s index without values: %w", typ, ErrInvalidArgument)
	}
	if err := checkValues(values); err != nil {
		return nil, fmt.Errorf("create %s index: %w", typ, err)
	}
	return build(typ, values), nil
}

// checkValues rejects negative positions, which the textual form cannot
// express.
func checkValues(values []int) error {
	for _, v := range values {
		if v < 0 {
			return fmt.Errorf("negative value %d: %w", v, ErrInvalidArgument)
		}
	}
	return nil
}

// AddChildren returns idx extended with the given path. idx must end in a
// geometry segment.
func (s *Service) AddChildren(idx *GeometryIndex, typ Type, values ...int) (*GeometryIndex, error) {
	if idx == nil {
		return s.Create(typ, values...)
	}
	if t := idx.Terminal().typ; t != TypeGeometry {
		return nil, fmt.Errorf("extend %s index %s: %w", t, idx, ErrInvalidArgument)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("extend %s without values: %w", idx, ErrInvalidArgument)
	}
	if err := checkValues(values); err != nil {
		return nil, fmt.Errorf("extend %s: %w", idx, err)
	}
	all := append(idx.Values(), values...)
	return build(typ, all), nil
}

// GetParent drops the terminal segment.
func (s *Service) GetParent(idx *GeometryIndex) (*GeometryIndex, error) {
	if idx == nil || idx.child == nil {
		return nil, fmt.Errorf("parent of %q: %w", idx.String(), ErrIndexNotFound)
	}
	vals := idx.Values()
	return build(TypeGeometry, vals[:len(vals)-1]), nil
}

func (s *Service) IsVertex(idx *GeometryIndex) bool   { return terminalIs(idx, TypeVertex) }
func (s *Service) IsEdge(idx *GeometryIndex) bool     { return terminalIs(idx, TypeEdge) }
func (s *Service) IsGeometry(idx *GeometryIndex) bool { return terminalIs(idx, TypeGeometry) }

func terminalIs(idx *GeometryIndex, t Type) bool {
	return idx != nil && idx.Terminal().typ == t
}

// GetType returns the terminal tag, TypeGeometry for a nil index.
func (s *Service) GetType(idx *GeometryIndex) Type {
	if idx == nil {
		return TypeGeometry
	}
	return idx.Terminal().typ
}

// GetValue returns the terminal value, -1 for a nil index.
func (s *Service) GetValue(idx *GeometryIndex) int {
	if idx == nil {
		return -1
	}
	return idx.Terminal().value
}

// IsChildOf reports whether child strictly extends parent's full path.
func (s *Service) IsChildOf(parent, child *GeometryIndex) bool {
	if parent == nil || child == nil {
		return false
	}
	p, c := parent, child
	for p != nil {
		if c == nil || p.typ != c.typ || p.value != c.value {
			return false
		}
		p, c = p.child, c.child
	}
	return c != nil
}

// Format returns the canonical dot-separated form.
func (s *Service) Format(idx *GeometryIndex) string {
	return idx.String()
}

// Parse reads the dot-separated form case-insensitively. Leading tokens that
// are not keyword+digits are skipped; once a valid token has been read every
// following token must be valid too.
func (s *Service) Parse(text string) (*GeometryIndex, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("parse empty index: %w", ErrIndexNotFound)
	}
	var (
		types  []Type
		values []int
	)
	for _, tok := range strings.Split(strings.ToLower(strings.TrimSpace(text)), ".") {
		t, v, ok, err := parseToken(tok)
		if err != nil {
			if len(values) == 0 {
				continue
			}
			return nil, fmt.Errorf("parse %q: %w", text, err)
		}
		if !ok {
			if len(values) == 0 {
				continue
			}
			return nil, fmt.Errorf("parse %q: bad token %q: %w", text, tok, ErrIndexNotFound)
		}
		types = append(types, t)
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("parse %q: no index tokens: %w", text, ErrIndexNotFound)
	}
	for _, t := range types[:len(types)-1] {
		if t != TypeGeometry {
			return nil, fmt.Errorf("parse %q: %s segment before the end: %w", text, t, ErrIndexNotFound)
		}
	}
	return build(types[len(types)-1], values), nil
}

var keywords = []Type{TypeGeometry, TypeEdge, TypeVertex}

// parseToken splits "vertex12". ok is false when tok does not start with a
// keyword; err is set when the keyword is followed by a malformed number.
func parseToken(tok string) (Type, int, bool, error) {
	tok = strings.TrimSpace(tok)
	for _, t := range keywords {
		kw := t.String()
		if !strings.HasPrefix(tok, kw) {
			continue
		}
		num := tok[len(kw):]
		if num == "" {
			return 0, 0, false, nil
		}
		for _, r := range num {
			if r < '0' || r > '9' {
				return 0, 0, false, fmt.Errorf("malformed value %q: %w", num, ErrIndexNotFound)
			}
		}
		v, err := strconv.Atoi(num)
		if err != nil {
			return 0, 0, false, fmt.Errorf("malformed value %q: %w", num, ErrIndexNotFound)
		}
		return t, v, true, nil
	}
	return 0, 0, false, nil
}
