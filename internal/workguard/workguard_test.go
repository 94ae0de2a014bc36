package workguard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanpama/anyexec/internal/execution"
	"github.com/hanpama/anyexec/internal/executors"
)

func TestGuard_TracksWorkUntilReset(t *testing.T) {
	work := executors.NewWorkCount()
	ex := execution.New(executors.NewInline(work))

	g, err := New(ex)
	require.NoError(t, err)
	require.True(t, g.OwnsWork())
	require.EqualValues(t, 1, work.Outstanding())

	want, err := ex.Require(execution.WorkTracked)
	require.NoError(t, err)
	require.True(t, g.Executor().Equal(want))
	_, err = want.Require(execution.WorkUntracked)
	require.NoError(t, err)
	require.EqualValues(t, 1, work.Outstanding())

	g.Reset()
	require.False(t, g.OwnsWork())
	require.EqualValues(t, 0, work.Outstanding())

	g.Reset()
	require.EqualValues(t, 0, work.Outstanding(), "second Reset must be a no-op")
}

func TestGuard_CopyOfExecutorStillSchedules(t *testing.T) {
	queue := executors.NewQueue(0, nil)
	g, err := New(execution.New(queue.Executor()))
	require.NoError(t, err)

	ex := g.Executor()
	g.Reset()

	require.NoError(t, ex.Execute(func() {}))
	require.Equal(t, 1, queue.Pending())
}

func TestGuard_EmptyExecutor(t *testing.T) {
	g, err := New(execution.Empty())
	require.ErrorIs(t, err, execution.ErrInvalidState)
	require.Nil(t, g)
}

func TestGuard_AlreadyTrackedExecutor(t *testing.T) {
	work := executors.NewWorkCount()
	tracked, err := execution.New(executors.NewInline(work)).Require(execution.WorkTracked)
	require.NoError(t, err)
	require.EqualValues(t, 1, work.Outstanding())

	g, err := New(tracked)
	require.NoError(t, err)
	require.True(t, g.Executor().Equal(tracked))
	require.EqualValues(t, 1, work.Outstanding())

	g.Reset()
	require.False(t, g.OwnsWork())
	require.EqualValues(t, 1, work.Outstanding(), "the caller's tracking must survive Reset")
}
