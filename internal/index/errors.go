package index

import "errors"

var (
	// ErrInvalidArgument reports a malformed call, such as creating an index
	// without values or extending a vertex or edge index.
	ErrInvalidArgument = errors.New("invalid index argument")

	// ErrIndexNotFound reports an index that does not resolve against the
	// geometry it is used with, or text that does not parse into an index.
	ErrIndexNotFound = errors.New("geometry index not found")
)
