package parser

import "time"

// Tree is a finished, immutable AST. Its gate serializes downstream
// consumers that need exclusive access; the parser never takes it.
type Tree struct {
	*AST
	failed bool
	gate   chan struct{}
}

// Failed reports whether the parse produced problems or was aborted.
func (t *Tree) Failed() bool {
	return t.failed
}

func (t *Tree) Acquire() {
	t.gate <- struct{}{}
}

// TryAcquire waits up to timeout for the gate and reports whether it was
// taken.
func (t *Tree) TryAcquire(timeout time.Duration) bool {
	if timeout <= 0 {
		select {
		case t.gate <- struct{}{}:
			return true
		default:
			return false
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case t.gate <- struct{}{}:
		return true
	case <-timer.C:
		return false
	}
}

func (t *Tree) Release() {
	<-t.gate
}
