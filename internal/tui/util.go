package tui

import "geoedit/internal/index"

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// withValue returns idx with its terminal value replaced.
func withValue(is *index.Service, idx *index.GeometryIndex, v int) (*index.GeometryIndex, error) {
	vals := idx.Values()
	vals[len(vals)-1] = v
	return is.Create(is.GetType(idx), vals...)
}
