package edit

import "errors"

// Argument errors
var (
	// ErrOperationFailed reports malformed call arguments: nil, empty or
	// mismatched index and coordinate lists, or a change the geometry cannot
	// take. Nothing is mutated when it is returned.
	ErrOperationFailed = errors.New("edit operation failed")
)

// Session errors
var (
	// ErrNotActive indicates a call that needs a started session.
	ErrNotActive = errors.New("edit session not started")

	// ErrSessionActive indicates Start was called while a session is running.
	ErrSessionActive = errors.New("edit session already started")

	// ErrSequenceActive indicates an operation sequence is already open, or a
	// call that is not allowed while one is open.
	ErrSequenceActive = errors.New("operation sequence already open")

	// ErrNoSequence indicates StopOperationSequence without a matching start.
	ErrNoSequence = errors.New("no operation sequence open")
)

// History errors
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)
