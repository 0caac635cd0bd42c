package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrEndOfInput is returned when a lookahead request runs past the last
	// token outside completion mode.
	ErrEndOfInput = errors.New("unexpected end of input")

	// ErrAborted is returned once the parse context has been cancelled.
	ErrAborted = errors.New("parse aborted")

	// ErrFrozen is returned by every Builder mutation after Freeze.
	ErrFrozen = errors.New("tree is frozen")

	// ErrAlternatives is returned when an ambiguity is built from fewer
	// than two existing nodes.
	ErrAlternatives = errors.New("an ambiguity needs at least two alternatives")
)

// BacktrackError signals that a production does not match at the current
// position. It is expected during speculative parsing and is handled by
// the caller that tried the production.
type BacktrackError struct {
	Offset  int
	Length  int
	Node    NodeID
	Problem *Problem
}

func (e *BacktrackError) Error() string {
	if e.Problem != nil {
		return fmt.Sprintf("backtrack at %d: %s", e.Offset, e.Problem.Message)
	}
	return fmt.Sprintf("backtrack at %d", e.Offset)
}

// isFatal reports whether err must stop the current production rather
// than let the caller try an alternative. Running out of input is not
// fatal: a shorter alternative may still fit.
func isFatal(err error) bool {
	return errors.Is(err, ErrAborted)
}
