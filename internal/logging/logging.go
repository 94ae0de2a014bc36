// Package logging builds the zerolog logger used by anyexec commands.
package logging

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hanpama/anyexec/internal/eventbus"
	"github.com/hanpama/anyexec/internal/events"
	"github.com/hanpama/anyexec/internal/workid"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config selects the log level and output format.
type Config struct {
	Level  string
	Format string
}

// New returns a logger writing to w. An empty level means info and an empty
// format means json.
func New(cfg Config, w io.Writer) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if raw := strings.TrimSpace(cfg.Level); raw != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(raw))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("logging: %w", err)
		}
		level = l
	}

	w = zerolog.SyncWriter(w)
	switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
	case "", FormatJSON:
	case FormatConsole:
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	default:
		return zerolog.Nop(), fmt.Errorf("logging: unknown format %q", cfg.Format)
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// Subscribe logs executor events at debug level through the global bus.
func Subscribe(logger zerolog.Logger) (unsubscribe func()) {
	logger = logger.With().Str("component", "executor").Logger()
	withID := func(ctx context.Context, e *zerolog.Event) *zerolog.Event {
		if id, ok := workid.FromContext(ctx); ok {
			e = e.Str("work_id", id.String())
		}
		return e
	}

	unsubs := []func(){
		eventbus.Subscribe(func(ctx context.Context, e events.WorkScheduled) {
			withID(ctx, logger.Debug()).Str("executor", e.Executor).Msg("work scheduled")
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.WorkRejected) {
			withID(ctx, logger.Warn()).Str("executor", e.Executor).Err(e.Err).Msg("work rejected")
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.WorkStarted) {
			withID(ctx, logger.Debug()).Str("executor", e.Executor).
				Dur("queue_delay", e.QueueDelay).Msg("work started")
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.WorkFinished) {
			ev := logger.Debug()
			if e.Panicked {
				ev = logger.Error()
			}
			withID(ctx, ev).Str("executor", e.Executor).
				Bool("panicked", e.Panicked).
				Dur("duration", e.Duration).Msg("work finished")
		}),
		eventbus.Subscribe(func(ctx context.Context, e events.PropertyApplied) {
			logger.Debug().Str("executor", e.Executor).Str("property", e.Property).Msg("property applied")
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}
