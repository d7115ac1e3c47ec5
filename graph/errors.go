package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateNode is returned when the same label is declared twice.
	ErrDuplicateNode = errors.New("graph: duplicate node")

	// ErrDanglingEdge is returned when a neighbor label is never declared.
	ErrDanglingEdge = errors.New("graph: dangling edge")

	// ErrMalformedRecord is returned for records that cannot describe a node.
	ErrMalformedRecord = errors.New("graph: malformed record")

	// ErrUnknownNode marks a lookup of a node that is not in the graph.
	ErrUnknownNode = errors.New("graph: unknown node")
)

// RecordError reports which input record failed to build.
type RecordError struct {
	Line  int    // 1-based source line, 0 if the record was not parsed from text
	Label string // Offending label (node or neighbor)
	Err   error
}

func (e *RecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v: %q", e.Line, e.Err, e.Label)
	}
	return fmt.Sprintf("%v: %q", e.Err, e.Label)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
