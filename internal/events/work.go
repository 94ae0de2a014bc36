package events

import "time"

// WorkScheduled is emitted when an instrumented executor accepts work.
// Context carries the work ID.
type WorkScheduled struct {
	Executor string
}

// WorkRejected is emitted when the underlying executor refuses work.
type WorkRejected struct {
	Executor string
	Err      error
}

// WorkStarted is emitted on the executing goroutine before the work runs.
type WorkStarted struct {
	Executor   string
	QueueDelay time.Duration
}

// WorkFinished is emitted after the work returns or panics.
type WorkFinished struct {
	Executor string
	Panicked bool
	Duration time.Duration
}
