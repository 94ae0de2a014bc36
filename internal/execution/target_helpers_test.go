package execution

import (
	"sync"
	"sync/atomic"
)

// callLog records the operations a test target observed.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(s string) {
	l.mu.Lock()
	l.calls = append(l.calls, s)
	l.mu.Unlock()
}

func (l *callLog) get() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

// inlineTarget runs work immediately and counts tracked work through a
// shared counter.
type inlineTarget struct {
	log          *callLog
	work         *atomic.Int64
	tracked      bool
	continuation bool
	fail         error
}

func newInlineTarget() inlineTarget {
	return inlineTarget{log: &callLog{}, work: &atomic.Int64{}}
}

func (t inlineTarget) Execute(f func()) error {
	t.log.add("execute")
	if t.fail != nil {
		return t.fail
	}
	f()
	return nil
}

func (t inlineTarget) Require(p Property) inlineTarget {
	t.log.add("require " + p.String())
	switch p {
	case WorkTracked:
		if !t.tracked {
			t.work.Add(1)
			t.tracked = true
		}
	case WorkUntracked:
		if t.tracked {
			t.work.Add(-1)
			t.tracked = false
		}
	case RelationshipFork:
		t.continuation = false
	case RelationshipContinuation:
		t.continuation = true
	}
	return t
}

// heldWork is a unit retained by holdTarget.
type heldWork struct {
	fn      func()
	invoked bool
}

func (w *heldWork) release() {
	w.invoked = true
	w.fn()
}

// holdTarget retains work without invoking it.
type holdTarget struct {
	held *[]*heldWork
}

func newHoldTarget() holdTarget {
	return holdTarget{held: new([]*heldWork)}
}

func (t holdTarget) Execute(f func()) error {
	*t.held = append(*t.held, &heldWork{fn: f})
	return nil
}

func (t holdTarget) Require(Property) holdTarget { return t }

// label is an extension property understood by labelTarget.
type label string

func (l label) PropertyName() string { return "test.label" }

// otherExtension is understood by nobody.
type otherExtension struct{}

func (otherExtension) PropertyName() string { return "test.other" }

// labelTarget supports the label extension.
type labelTarget struct {
	name   string
	reject error
}

func (t labelTarget) Execute(f func()) error { f(); return nil }

func (t labelTarget) Require(Property) labelTarget { return t }

func (t labelTarget) SupportsExtension(p Extension) bool {
	_, ok := p.(label)
	return ok
}

func (t labelTarget) RequireExtension(p Extension) (labelTarget, error) {
	if t.reject != nil {
		return t, t.reject
	}
	t.name = string(p.(label))
	return t, nil
}

// twinA and twinB have identical layouts but are distinct types.
type twinA struct{ n int }

func (twinA) Execute(f func()) error { f(); return nil }

func (t twinA) Require(Property) twinA { return t }

type twinB struct{ n int }

func (twinB) Execute(f func()) error { f(); return nil }

func (t twinB) Require(Property) twinB { return t }

// plainTarget is schedulable but has no property support.
type plainTarget struct{ id int }

func (plainTarget) Execute(f func()) error { f(); return nil }

// dynamicTarget is an interface type satisfying Target. Its implementation
// below is not comparable at run time.
type dynamicTarget interface {
	Execute(f func()) error
	Require(p Property) dynamicTarget
}

type sliceTarget struct{ runs []int }

func (t sliceTarget) Execute(f func()) error { f(); return nil }

func (t sliceTarget) Require(Property) dynamicTarget { return t }
