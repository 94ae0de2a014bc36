package otel

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/hanpama/anyexec/internal/eventbus"
	"github.com/hanpama/anyexec/internal/events"
	"github.com/hanpama/anyexec/internal/workid"
)

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	eventbus.Use(eventbus.New())
	t.Cleanup(func() { eventbus.Use(nil) })

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	unsubscribe := NewSubscriber(tp.Tracer("test")).Register()
	t.Cleanup(unsubscribe)
	return rec
}

func attrs(s sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	m := map[attribute.Key]attribute.Value{}
	for _, kv := range s.Attributes() {
		m[kv.Key] = kv.Value
	}
	return m
}

func TestSubscriber_WorkSpan(t *testing.T) {
	rec := setupRecorder(t)
	ctx, id := workid.NewContext(context.Background())

	eventbus.Publish(ctx, events.WorkScheduled{Executor: "pool"})
	eventbus.Publish(ctx, events.WorkStarted{Executor: "pool", QueueDelay: 1500})
	require.Empty(t, rec.Ended())
	require.Len(t, rec.Started(), 1)
	eventbus.Publish(ctx, events.WorkFinished{Executor: "pool"})

	ended := rec.Ended()
	require.Len(t, ended, 1)
	span := ended[0]
	require.Equal(t, "executor.work", span.Name())
	a := attrs(span)
	require.Equal(t, "pool", a["executor.name"].AsString())
	require.Equal(t, id.String(), a["executor.work_id"].AsString())
	require.EqualValues(t, 1500, a["executor.queue_delay_ns"].AsInt64())
	require.False(t, a["executor.panicked"].AsBool())
	require.Equal(t, codes.Unset, span.Status().Code)
}

func TestSubscriber_PanickedWork(t *testing.T) {
	rec := setupRecorder(t)
	ctx, _ := workid.NewContext(context.Background())

	eventbus.Publish(ctx, events.WorkStarted{Executor: "pool"})
	eventbus.Publish(ctx, events.WorkFinished{Executor: "pool", Panicked: true})

	ended := rec.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, codes.Error, ended[0].Status().Code)
}

func TestSubscriber_InterleavedWork(t *testing.T) {
	rec := setupRecorder(t)
	ctxA, idA := workid.NewContext(context.Background())
	ctxB, _ := workid.NewContext(context.Background())

	eventbus.Publish(ctxA, events.WorkStarted{Executor: "a"})
	eventbus.Publish(ctxB, events.WorkStarted{Executor: "b"})
	eventbus.Publish(ctxA, events.WorkFinished{Executor: "a"})

	ended := rec.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, idA.String(), attrs(ended[0])["executor.work_id"].AsString())

	eventbus.Publish(ctxB, events.WorkFinished{Executor: "b"})
	require.Len(t, rec.Ended(), 2)
}

func TestSubscriber_Rejected(t *testing.T) {
	rec := setupRecorder(t)
	ctx, _ := workid.NewContext(context.Background())

	eventbus.Publish(ctx, events.WorkRejected{Executor: "q", Err: errors.New("queue full")})

	ended := rec.Ended()
	require.Len(t, ended, 1)
	require.Equal(t, "executor.reject", ended[0].Name())
	require.Equal(t, codes.Error, ended[0].Status().Code)
	require.Equal(t, "queue full", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1, "the error is recorded as a span event")
}

func TestSubscriber_IgnoresEventsWithoutWorkID(t *testing.T) {
	rec := setupRecorder(t)
	eventbus.Publish(context.Background(), events.WorkStarted{Executor: "a"})
	eventbus.Publish(context.Background(), events.WorkFinished{Executor: "a"})
	require.Empty(t, rec.Started())
}

func TestSetup_NoEndpoint(t *testing.T) {
	shutdown, err := Setup("", "svc")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}
