package executors

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/hanpama/anyexec/internal/execution"
)

// WorkCount counts outstanding work for a family of executors. Pending work
// items and executors holding the WorkTracked property both count.
type WorkCount struct {
	mu   sync.Mutex
	n    int64
	idle chan struct{} // closed when n drops to zero
}

func NewWorkCount() *WorkCount {
	return &WorkCount{}
}

// Outstanding returns the current amount of outstanding work.
func (w *WorkCount) Outstanding() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.n
}

// Wait blocks until no work is outstanding or ctx is done.
func (w *WorkCount) Wait(ctx context.Context) error {
	for {
		w.mu.Lock()
		if w.n == 0 {
			w.mu.Unlock()
			return nil
		}
		idle := w.idle
		w.mu.Unlock()

		select {
		case <-idle:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *WorkCount) start() {
	w.mu.Lock()
	if w.n == 0 {
		w.idle = make(chan struct{})
	}
	w.n++
	w.mu.Unlock()
}

func (w *WorkCount) finish() {
	w.mu.Lock()
	if w.n > 0 {
		w.n--
		if w.n == 0 {
			close(w.idle)
		}
	}
	w.mu.Unlock()
}

// traits holds the standard property state shared by the executors in this
// package.
//
// A tracked executor holds a ticket for the one unit of work it acquired.
// Copies of the executor share the ticket, so the unit is released once no
// matter how many copies are untracked.
type traits struct {
	ticket       *atomic.Bool // nil when untracked; true until released
	continuation bool
}

// Tracked reports whether the executor holds unreleased tracked work.
func (t traits) Tracked() bool { return t.ticket != nil && t.ticket.Load() }

// Continuation reports whether work is submitted as a continuation.
func (t traits) Continuation() bool { return t.continuation }

func (t traits) apply(w *WorkCount, p execution.Property) traits {
	switch p {
	case execution.WorkTracked:
		if !t.Tracked() {
			w.start()
			t.ticket = new(atomic.Bool)
			t.ticket.Store(true)
		}
	case execution.WorkUntracked:
		if t.ticket != nil {
			if t.ticket.CompareAndSwap(true, false) {
				w.finish()
			}
			t.ticket = nil
		}
	case execution.RelationshipFork:
		t.continuation = false
	case execution.RelationshipContinuation:
		t.continuation = true
	}
	return t
}
