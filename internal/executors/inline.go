package executors

import "github.com/hanpama/anyexec/internal/execution"

// Inline runs work synchronously inside Execute. Panics raised by the work
// propagate to the caller of Execute.
type Inline struct {
	work *WorkCount
	traits
}

// NewInline returns an Inline executor counting work in w. A nil w gets a
// private counter.
func NewInline(w *WorkCount) Inline {
	if w == nil {
		w = NewWorkCount()
	}
	return Inline{work: w}
}

func (e Inline) Execute(f func()) error {
	e.work.start()
	defer e.work.finish()
	f()
	return nil
}

func (e Inline) Require(p execution.Property) Inline {
	e.traits = e.traits.apply(e.work, p)
	return e
}

// Work returns the counter shared by e and the executors derived from it.
func (e Inline) Work() *WorkCount { return e.work }
