// Package completion delivers work and operation results through
// type-erased executors.
//
// Post and Defer submit a function with the fork or continuation
// relationship. Start runs an operation in the background and delivers its
// result to a handler on the caller's executor. In every case the executor's
// outstanding work is tracked from submission until the handler returns.
package completion

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hanpama/anyexec/internal/execution"
	"github.com/hanpama/anyexec/internal/workguard"
)

// Operation is the background part of an asynchronous operation.
type Operation[T any] func(ctx context.Context) (T, error)

// Handler receives the result of an Operation.
type Handler[T any] func(result T, err error)

// Runner starts a function in the background.
type Runner interface {
	Do(fn func())
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(fn func())

func (f RunnerFunc) Do(fn func()) { f(fn) }

type goRunner struct{}

func (goRunner) Do(fn func()) { go fn() }

type options struct {
	logger zerolog.Logger
	runner Runner
}

// Option configures Start.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		logger: zerolog.Nop(),
		runner: goRunner{},
	}
}

// WithLogger sets the logger used for failures that cannot be returned to
// the caller.
func WithLogger(l zerolog.Logger) Option { return func(o *options) { o.logger = l } }

// WithRunner sets the runner executing operations. The default starts a
// goroutine per operation.
func WithRunner(r Runner) Option { return func(o *options) { o.runner = r } }

// Post submits fn to ex as independent work.
func Post(ex execution.CompletionExecutor, fn func()) error {
	return submit(ex, execution.RelationshipFork, fn)
}

// Defer submits fn to ex as a continuation of the caller.
func Defer(ex execution.CompletionExecutor, fn func()) error {
	return submit(ex, execution.RelationshipContinuation, fn)
}

func submit(ex execution.CompletionExecutor, rel execution.Property, fn func()) error {
	ex, err := ex.Prefer(rel)
	if err != nil {
		return err
	}
	g, err := workguard.New(ex)
	if err != nil {
		return err
	}
	if err := g.Executor().Execute(func() {
		defer g.Reset()
		fn()
	}); err != nil {
		g.Reset()
		return err
	}
	return nil
}

// Start runs op on the configured runner and delivers its result to h
// through ex. It returns an error only when the operation could not be
// started; failures delivering the result are logged.
func Start[T any](ctx context.Context, ex execution.CompletionExecutor, op Operation[T], h Handler[T], opts ...Option) error {
	o := defaultOptions()
	for _, f := range opts {
		f(o)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	g, err := workguard.New(ex)
	if err != nil {
		return err
	}
	logger := o.logger.With().Str("component", "completion").Logger()

	o.runner.Do(func() {
		defer g.Reset()
		result, opErr := op(ctx)
		if err := Defer(g.Executor(), func() { h(result, opErr) }); err != nil {
			logger.Error().Err(err).
				AnErr("operation_error", opErr).
				Msg("failed to deliver operation result")
		}
	})
	return nil
}
