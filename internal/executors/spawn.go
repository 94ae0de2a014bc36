package executors

import "github.com/hanpama/anyexec/internal/execution"

//go:generate mockgen -source=spawn.go -destination=mocks/mock_spawner.go -package=mocks

// Spawner starts a function in the background.
type Spawner interface {
	Do(fn func())
}

// GoSpawner starts every function on a new goroutine.
type GoSpawner struct{}

func (GoSpawner) Do(fn func()) {
	go fn()
}

// Spawn hands every work item to a Spawner. A spawned item counts as
// outstanding work until it returns.
//
// Spawn values are compared by Spawner, so the Spawner's dynamic type must be
// comparable.
type Spawn struct {
	spawner Spawner
	work    *WorkCount
	traits
}

// NewSpawn returns a Spawn executor. A nil s defaults to GoSpawner and a nil
// w gets a private counter.
func NewSpawn(s Spawner, w *WorkCount) Spawn {
	if s == nil {
		s = GoSpawner{}
	}
	if w == nil {
		w = NewWorkCount()
	}
	return Spawn{spawner: s, work: w}
}

func (e Spawn) Execute(f func()) error {
	e.work.start()
	e.spawner.Do(func() {
		defer e.work.finish()
		f()
	})
	return nil
}

func (e Spawn) Require(p execution.Property) Spawn {
	e.traits = e.traits.apply(e.work, p)
	return e
}

func (e Spawn) Work() *WorkCount { return e.work }
