package executors

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/hanpama/anyexec/internal/execution"
)

var (
	// ErrQueueFull is returned by Manual.Execute when the queue is at capacity.
	ErrQueueFull = errors.New("executors: queue full")
	// ErrQueueClosed is returned by Manual.Execute after Queue.Close.
	ErrQueueClosed = errors.New("executors: queue closed")
)

// Priority is an extension property understood by Manual executors. Work
// submitted with a higher priority is queued ahead of lower priorities.
type Priority int

func (Priority) PropertyName() string { return "executors.priority" }

// Handle is a unit of work retained by a Queue.
type Handle struct {
	id       uint64
	fn       func()
	priority Priority
	queue    *Queue
	ran      atomic.Bool
}

// ID returns the submission sequence number, starting at 1.
func (h *Handle) ID() uint64 { return h.id }

// Ran reports whether the work has been invoked.
func (h *Handle) Ran() bool { return h.ran.Load() }

// Run removes h from its queue and invokes it. It reports false when h was
// already run or discarded.
func (h *Handle) Run() bool {
	if !h.queue.remove(h) {
		return false
	}
	h.invoke()
	return true
}

func (h *Handle) invoke() {
	h.ran.Store(true)
	defer h.queue.work.finish()
	h.fn()
}

// Queue retains submitted work until it is run explicitly.
type Queue struct {
	mu       sync.Mutex
	items    []*Handle
	capacity int
	closed   bool
	seq      uint64
	work     *WorkCount
}

// NewQueue returns a queue holding at most capacity items; capacity <= 0
// means unbounded. A nil w gets a private counter.
func NewQueue(capacity int, w *WorkCount) *Queue {
	if w == nil {
		w = NewWorkCount()
	}
	return &Queue{capacity: capacity, work: w}
}

// Executor returns a Manual executor submitting to q.
func (q *Queue) Executor() Manual {
	return Manual{queue: q}
}

// Pending returns the number of retained items.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Handles returns the retained items in run order.
func (q *Queue) Handles() []*Handle {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]*Handle(nil), q.items...)
}

// RunOne invokes the first retained item. It reports false when the queue is
// empty.
func (q *Queue) RunOne() bool {
	q.mu.Lock()
	if len(q.items) == 0 {
		q.mu.Unlock()
		return false
	}
	h := q.items[0]
	q.items = q.items[1:]
	q.mu.Unlock()

	h.invoke()
	return true
}

// RunAll invokes items until the queue is empty, including items submitted
// by the work it runs, and returns the number invoked.
func (q *Queue) RunAll() int {
	n := 0
	for q.RunOne() {
		n++
	}
	return n
}

// Close rejects further submissions and discards retained items without
// invoking them. It returns the number discarded.
func (q *Queue) Close() int {
	q.mu.Lock()
	dropped := q.items
	q.items = nil
	q.closed = true
	q.mu.Unlock()

	for range dropped {
		q.work.finish()
	}
	return len(dropped)
}

func (q *Queue) push(fn func(), priority Priority, continuation bool) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrQueueClosed
	}
	if q.capacity > 0 && len(q.items) >= q.capacity {
		return ErrQueueFull
	}
	q.seq++
	h := &Handle{id: q.seq, fn: fn, priority: priority, queue: q}

	// Items are ordered by descending priority. Within a priority band a
	// continuation goes first and a fork goes last.
	pos := len(q.items)
	for i, it := range q.items {
		if it.priority < priority || (continuation && it.priority == priority) {
			pos = i
			break
		}
	}
	q.items = append(q.items, nil)
	copy(q.items[pos+1:], q.items[pos:])
	q.items[pos] = h
	q.work.start()
	return nil
}

func (q *Queue) remove(h *Handle) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, it := range q.items {
		if it == h {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// Manual submits work to a Queue.
type Manual struct {
	queue    *Queue
	priority Priority
	traits
}

func (e Manual) Execute(f func()) error {
	return e.queue.push(f, e.priority, e.continuation)
}

func (e Manual) Require(p execution.Property) Manual {
	e.traits = e.traits.apply(e.queue.work, p)
	return e
}

func (e Manual) SupportsExtension(p execution.Extension) bool {
	_, ok := p.(Priority)
	return ok
}

func (e Manual) RequireExtension(p execution.Extension) (Manual, error) {
	pr, ok := p.(Priority)
	if !ok {
		return e, execution.ErrUnsupportedProperty
	}
	e.priority = pr
	return e, nil
}

// Priority returns the priority applied to submitted work.
func (e Manual) Priority() Priority { return e.priority }

// Queue returns the queue e submits to.
func (e Manual) Queue() *Queue { return e.queue }
