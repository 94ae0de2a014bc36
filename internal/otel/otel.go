package otel

import (
	"context"
	"errors"
	"sync"

	"github.com/hanpama/anyexec/internal/eventbus"
	"github.com/hanpama/anyexec/internal/events"
	"github.com/hanpama/anyexec/internal/workid"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Setup configures OpenTelemetry and attaches eventbus subscribers.
// If endpoint is empty, no telemetry is configured.
func Setup(endpoint, service string) (func(context.Context) error, error) {
	if endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}
	exp, err := otlptracegrpc.New(context.Background(),
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithDialOption(grpc.WithTransportCredentials(insecure.NewCredentials())))
	if err != nil {
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(service),
		)),
	)
	otel.SetTracerProvider(tp)

	unsubscribe := NewSubscriber(otel.Tracer("anyexec")).Register()

	return func(ctx context.Context) error {
		unsubscribe()
		return tp.Shutdown(ctx)
	}, nil
}

// Subscriber turns executor events into spans. A span starts when a work
// item starts running and ends when it finishes.
type Subscriber struct {
	tracer trace.Tracer
	spans  sync.Map // work ID -> trace.Span
}

func NewSubscriber(tracer trace.Tracer) *Subscriber {
	return &Subscriber{tracer: tracer}
}

// Register subscribes s to the global event bus.
func (s *Subscriber) Register() (unsubscribe func()) {
	unsubs := []func(){
		eventbus.Subscribe(s.started),
		eventbus.Subscribe(s.finished),
		eventbus.Subscribe(s.rejected),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

func (s *Subscriber) started(ctx context.Context, e events.WorkStarted) {
	id, ok := workid.FromContext(ctx)
	if !ok {
		return
	}
	_, span := s.tracer.Start(ctx, "executor.work")
	span.SetAttributes(
		attribute.String("executor.name", e.Executor),
		attribute.String("executor.work_id", id.String()),
		attribute.Int64("executor.queue_delay_ns", e.QueueDelay.Nanoseconds()),
	)
	s.spans.Store(id, span)
}

func (s *Subscriber) finished(ctx context.Context, e events.WorkFinished) {
	id, _ := workid.FromContext(ctx)
	v, ok := s.spans.LoadAndDelete(id)
	if !ok {
		return
	}
	span := v.(trace.Span)
	span.SetAttributes(attribute.Bool("executor.panicked", e.Panicked))
	if e.Panicked {
		span.SetStatus(codes.Error, "work panicked")
	}
	span.End()
}

// rejected records refused work as a span of its own, since it never starts.
func (s *Subscriber) rejected(ctx context.Context, e events.WorkRejected) {
	id, ok := workid.FromContext(ctx)
	if !ok {
		return
	}
	_, span := s.tracer.Start(ctx, "executor.reject")
	span.SetAttributes(
		attribute.String("executor.name", e.Executor),
		attribute.String("executor.work_id", id.String()),
	)
	err := e.Err
	if err == nil {
		err = errors.New("work rejected")
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()
}
