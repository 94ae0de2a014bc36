package execution

// AnyExecutor is a type-erased executor with no guaranteed properties. The
// zero value is empty.
type AnyExecutor struct {
	target any
	table  *opTable
}

// NewAny wraps e. Passing a CompletionExecutor or an AnyExecutor re-wraps the
// target it holds rather than nesting one box inside another.
func NewAny[E Schedulable](e E) AnyExecutor {
	switch v := any(e).(type) {
	case AnyExecutor:
		return v
	case CompletionExecutor:
		return v.Any()
	}
	return AnyExecutor{target: e, table: anyTable[E]()}
}

// IsEmpty reports whether a holds no target.
func (a AnyExecutor) IsEmpty() bool {
	return a.table == nil
}

// Execute schedules f on the held target.
func (a AnyExecutor) Execute(f func()) error {
	if a.table == nil {
		return ErrInvalidState
	}
	return a.table.execute(a.target, f)
}

// Equal reports whether a and other are both empty, or hold equal values of
// the same concrete type.
func (a AnyExecutor) Equal(other AnyExecutor) bool {
	return sameTarget(a.target, a.table, other.target, other.table)
}

// Swap exchanges the targets of a and other.
func (a *AnyExecutor) Swap(other *AnyExecutor) {
	*a, *other = *other, *a
}

// Move returns the current value of a and leaves a empty.
func (a *AnyExecutor) Move() AnyExecutor {
	m := *a
	*a = AnyExecutor{}
	return m
}

// Reset releases the held target and leaves a empty.
func (a *AnyExecutor) Reset() {
	*a = AnyExecutor{}
}
