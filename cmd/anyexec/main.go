package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/hanpama/anyexec/internal/completion"
	"github.com/hanpama/anyexec/internal/config"
	"github.com/hanpama/anyexec/internal/eventbus"
	"github.com/hanpama/anyexec/internal/execution"
	"github.com/hanpama/anyexec/internal/executors"
	"github.com/hanpama/anyexec/internal/instrument"
	"github.com/hanpama/anyexec/internal/logging"
	"github.com/hanpama/anyexec/internal/otel"
)

const rootUsage = `anyexec — type-erased executors

USAGE:
  anyexec <command> [flags]

COMMANDS:
  demo             Run work through the inline, manual and spawn executors
  help             Show help for any command
`

const demoUsage = `demo FLAGS:
  -config <file>             TOML config file
  -log.level <level>         Log level (default: info)
  -log.format <fmt>          json or console (default: console)
  -otel.endpoint <addr>      OTLP collector endpoint
  -otel.service <name>       OpenTelemetry service name (default: anyexec)
  -queue.capacity N          Manual queue capacity, 0 for unbounded (default: 0)
  -tasks N                   Work items posted per executor (default: 8)
  -timeout <duration>        Time allowed for outstanding work (default: 5s)
`

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, rootUsage)
		return fmt.Errorf("missing command")
	}

	cmd := args[0]
	cmdArgs := args[1:]
	switch cmd {
	case "demo":
		return cmdDemo(cmdArgs, stdout, stderr)
	case "help":
		return cmdHelp(cmdArgs, stdout)
	default:
		fmt.Fprint(stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stdout, rootUsage)
		return nil
	}
	switch args[0] {
	case "demo":
		fmt.Fprint(stdout, demoUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

func cmdDemo(args []string, stdout, stderr io.Writer) error {
	configPath := ""
	var (
		logLevel, logFormat       string
		otelEndpoint, otelService string
		queueCapacity, tasks      int
	)
	timeout := 5 * time.Second

	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&configPath, "config", configPath, "TOML config file")
	fs.StringVar(&logLevel, "log.level", "", "Log level")
	fs.StringVar(&logFormat, "log.format", "", "Log format")
	fs.StringVar(&otelEndpoint, "otel.endpoint", "", "OTLP collector endpoint")
	fs.StringVar(&otelService, "otel.service", "", "OpenTelemetry service name")
	fs.IntVar(&queueCapacity, "queue.capacity", 0, "Manual queue capacity")
	fs.IntVar(&tasks, "tasks", 0, "Work items posted per executor")
	fs.DurationVar(&timeout, "timeout", timeout, "Time allowed for outstanding work")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(stderr, demoUsage)
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// Flags win over the file and the environment, but only when given.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log.level":
			cfg.LogLevel = logLevel
		case "log.format":
			cfg.LogFormat = logFormat
		case "otel.endpoint":
			cfg.OTelEndpoint = otelEndpoint
		case "otel.service":
			cfg.OTelService = otelService
		case "queue.capacity":
			cfg.QueueCapacity = queueCapacity
		case "tasks":
			cfg.Tasks = tasks
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}, stderr)
	if err != nil {
		return err
	}

	eventbus.Use(eventbus.New())
	defer eventbus.Use(nil)
	defer logging.Subscribe(logger)()

	shutdown, err := otel.Setup(cfg.OTelEndpoint, cfg.OTelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return runDemo(ctx, cfg, logger, stdout)
}

type demoTarget struct {
	name      string
	ex        execution.CompletionExecutor
	posted    int
	rejected  int
	completed atomic.Int64
	result    atomic.Int64
}

func runDemo(ctx context.Context, cfg config.Config, logger zerolog.Logger, stdout io.Writer) error {
	work := executors.NewWorkCount()
	queue := executors.NewQueue(cfg.QueueCapacity, work)
	defer queue.Close()

	var targets []*demoTarget
	for _, c := range []struct {
		name string
		ex   execution.CompletionExecutor
	}{
		{"inline", execution.New(executors.NewInline(work))},
		{"manual", execution.New(queue.Executor())},
		{"spawn", execution.New(executors.NewSpawn(nil, work))},
	} {
		ex, err := instrument.Wrap(c.name, c.ex)
		if err != nil {
			return err
		}
		targets = append(targets, &demoTarget{name: c.name, ex: ex})
	}

	for _, tg := range targets {
		for i := 0; i < cfg.Tasks; i++ {
			err := completion.Post(tg.ex, func() { tg.completed.Add(1) })
			switch {
			case err == nil:
				tg.posted++
			case errors.Is(err, executors.ErrQueueFull):
				tg.rejected++
			default:
				return fmt.Errorf("%s: post: %w", tg.name, err)
			}
		}
		// A bounded queue needs room for the result delivered below.
		queue.RunAll()

		n := int64(cfg.Tasks)
		err := completion.Start(ctx, tg.ex,
			func(ctx context.Context) (int64, error) { return n * (n + 1) / 2, nil },
			func(sum int64, err error) {
				if err == nil {
					tg.result.Store(sum)
				}
			},
			completion.WithLogger(logger),
		)
		if err != nil {
			return fmt.Errorf("%s: start: %w", tg.name, err)
		}
	}

	if err := drain(ctx, queue, work); err != nil {
		return fmt.Errorf("outstanding work: %w", err)
	}

	for _, tg := range targets {
		fmt.Fprintf(stdout, "%-8s posted=%d rejected=%d completed=%d result=%d\n",
			tg.name, tg.posted, tg.rejected, tg.completed.Load(), tg.result.Load())
	}
	fmt.Fprintf(stdout, "outstanding=%d\n", work.Outstanding())
	return nil
}

// drain runs queued work until nothing is outstanding. Results delivered by
// background operations land in the queue after it was last run, so it is
// polled until the count reaches zero.
func drain(ctx context.Context, queue *executors.Queue, work *executors.WorkCount) error {
	for {
		queue.RunAll()
		poll, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		err := work.Wait(poll)
		cancel()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}
