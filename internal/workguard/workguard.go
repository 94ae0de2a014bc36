// Package workguard keeps an executor's scheduler from being considered idle
// for the lifetime of a guard.
package workguard

import (
	"sync/atomic"

	"github.com/hanpama/anyexec/internal/execution"
)

// Guard holds an executor with the WorkTracked property until Reset.
type Guard struct {
	ex   execution.CompletionExecutor
	owns atomic.Bool
	// acquired is false when ex already held WorkTracked; Reset then leaves
	// the caller's tracking in place.
	acquired bool
}

// New requires WorkTracked on ex. It fails with execution.ErrInvalidState
// when ex is empty.
func New(ex execution.CompletionExecutor) (*Guard, error) {
	tracked, err := ex.Require(execution.WorkTracked)
	if err != nil {
		return nil, err
	}
	g := &Guard{ex: tracked, acquired: !tracked.Equal(ex)}
	g.owns.Store(true)
	return g, nil
}

// Executor returns the tracked executor. It remains usable after Reset.
func (g *Guard) Executor() execution.CompletionExecutor {
	return g.ex
}

// OwnsWork reports whether the guard still holds tracked work.
func (g *Guard) OwnsWork() bool {
	return g.owns.Load()
}

// Reset releases the tracked work. Only the first call has an effect; it is
// safe to call from any goroutine.
func (g *Guard) Reset() {
	if !g.owns.CompareAndSwap(true, false) || !g.acquired {
		return
	}
	// Standard properties cannot fail on a non-empty executor.
	_, _ = g.ex.Require(execution.WorkUntracked)
}
