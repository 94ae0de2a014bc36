package events

// PropertyApplied is emitted when an instrumented executor applies a
// property. Property is the property's name.
type PropertyApplied struct {
	Executor string
	Property string
}
