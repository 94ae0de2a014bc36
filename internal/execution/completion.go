package execution

// CompletionExecutor is a type-erased executor supporting the standard
// properties. The zero value is empty.
//
// Assigning a CompletionExecutor copies the held value; the copy and the
// original are independent values that compare equal.
type CompletionExecutor struct {
	target any
	table  *opTable
}

// New wraps e. It only compiles for types satisfying Target.
func New[E Target[E]](e E) CompletionExecutor {
	return CompletionExecutor{target: e, table: completionTable[E]()}
}

// Empty returns an empty executor. It is equivalent to the zero value.
func Empty() CompletionExecutor {
	return CompletionExecutor{}
}

// IsEmpty reports whether c holds no target.
func (c CompletionExecutor) IsEmpty() bool {
	return c.table == nil
}

// Execute schedules f on the held target. The target's error, if any, is
// returned unmodified.
func (c CompletionExecutor) Execute(f func()) error {
	if c.table == nil {
		return ErrInvalidState
	}
	return c.table.execute(c.target, f)
}

// Equal reports whether c and other are both empty, or hold equal values of
// the same concrete type.
func (c CompletionExecutor) Equal(other CompletionExecutor) bool {
	return sameTarget(c.target, c.table, other.target, other.table)
}

// Require returns a new executor reflecting p. The receiver is unchanged.
func (c CompletionExecutor) Require(p Property) (CompletionExecutor, error) {
	if c.table == nil {
		return CompletionExecutor{}, ErrInvalidState
	}
	if !p.Valid() {
		return CompletionExecutor{}, ErrUnsupportedProperty
	}
	return CompletionExecutor{target: c.table.require(c.target, p), table: c.table}, nil
}

// Prefer is Require for the standard properties, which every target
// supports. A zero Property is ignored and yields a copy of c.
func (c CompletionExecutor) Prefer(p Property) (CompletionExecutor, error) {
	if c.table == nil {
		return CompletionExecutor{}, ErrInvalidState
	}
	if !p.Valid() {
		return c, nil
	}
	return c.Require(p)
}

// SupportsExtension reports whether RequireExtension would forward p to the
// held target. It is false for an empty executor.
func (c CompletionExecutor) SupportsExtension(p Extension) bool {
	if c.table == nil {
		return false
	}
	return c.table.supportsExt(c.target, p)
}

// RequireExtension applies a property outside the standard set. It returns
// ErrUnsupportedProperty unless the target implements ExtensionRequirer and
// supports p.
func (c CompletionExecutor) RequireExtension(p Extension) (CompletionExecutor, error) {
	if c.table == nil {
		return CompletionExecutor{}, ErrInvalidState
	}
	next, err := c.table.requireExt(c.target, p)
	if err != nil {
		return CompletionExecutor{}, err
	}
	return CompletionExecutor{target: next, table: c.table}, nil
}

// PreferExtension is RequireExtension, except that an unsupported extension
// yields a copy of c instead of an error.
func (c CompletionExecutor) PreferExtension(p Extension) (CompletionExecutor, error) {
	if c.table == nil {
		return CompletionExecutor{}, ErrInvalidState
	}
	if !c.table.supportsExt(c.target, p) {
		return c, nil
	}
	return c.RequireExtension(p)
}

// Any narrows c to an AnyExecutor holding the same target.
func (c CompletionExecutor) Any() AnyExecutor {
	return AnyExecutor{target: c.target, table: c.table}
}

// Swap exchanges the targets of c and other.
func (c *CompletionExecutor) Swap(other *CompletionExecutor) {
	*c, *other = *other, *c
}

// Move returns the current value of c and leaves c empty.
func (c *CompletionExecutor) Move() CompletionExecutor {
	m := *c
	*c = CompletionExecutor{}
	return m
}

// Reset releases the held target and leaves c empty.
func (c *CompletionExecutor) Reset() {
	*c = CompletionExecutor{}
}
