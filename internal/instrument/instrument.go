// Package instrument decorates executors with lifecycle events.
//
// An instrumented executor publishes events.WorkScheduled, WorkStarted,
// WorkFinished and WorkRejected for every work item and
// events.PropertyApplied for every property it applies. All events of one
// work item are published with a context carrying the same work ID (see
// package workid). Nothing is published, and no work ID is allocated, while
// no event bus is installed.
package instrument

import (
	"context"
	"time"

	"github.com/hanpama/anyexec/internal/eventbus"
	"github.com/hanpama/anyexec/internal/events"
	"github.com/hanpama/anyexec/internal/execution"
	"github.com/hanpama/anyexec/internal/workid"
)

// Executor wraps a non-empty CompletionExecutor under a name. It satisfies
// execution.Target and forwards extension properties to the wrapped
// executor.
type Executor struct {
	name  string
	inner execution.CompletionExecutor
}

// New returns an instrumented executor. It fails with
// execution.ErrInvalidState when inner is empty.
func New(name string, inner execution.CompletionExecutor) (Executor, error) {
	if inner.IsEmpty() {
		return Executor{}, execution.ErrInvalidState
	}
	return Executor{name: name, inner: inner}, nil
}

// Wrap is New followed by execution.New.
func Wrap(name string, inner execution.CompletionExecutor) (execution.CompletionExecutor, error) {
	e, err := New(name, inner)
	if err != nil {
		return execution.CompletionExecutor{}, err
	}
	return execution.New(e), nil
}

func (e Executor) Name() string { return e.name }

func (e Executor) Execute(f func()) error {
	if !eventbus.Enabled() {
		return e.inner.Execute(f)
	}
	ctx, _ := workid.NewContext(context.Background())
	scheduled := time.Now()
	eventbus.Publish(ctx, events.WorkScheduled{Executor: e.name})

	err := e.inner.Execute(func() {
		start := time.Now()
		eventbus.Publish(ctx, events.WorkStarted{Executor: e.name, QueueDelay: start.Sub(scheduled)})
		panicked := true
		defer func() {
			eventbus.Publish(ctx, events.WorkFinished{
				Executor: e.name,
				Panicked: panicked,
				Duration: time.Since(start),
			})
		}()
		f()
		panicked = false
	})
	if err != nil {
		eventbus.Publish(ctx, events.WorkRejected{Executor: e.name, Err: err})
	}
	return err
}

func (e Executor) Require(p execution.Property) Executor {
	next, err := e.inner.Require(p)
	if err != nil {
		return e
	}
	eventbus.Publish(context.Background(), events.PropertyApplied{Executor: e.name, Property: p.String()})
	e.inner = next
	return e
}

func (e Executor) SupportsExtension(p execution.Extension) bool {
	return e.inner.SupportsExtension(p)
}

func (e Executor) RequireExtension(p execution.Extension) (Executor, error) {
	next, err := e.inner.RequireExtension(p)
	if err != nil {
		return e, err
	}
	eventbus.Publish(context.Background(), events.PropertyApplied{Executor: e.name, Property: p.PropertyName()})
	e.inner = next
	return e, nil
}
