package execution

// Schedulable is the constraint for values stored in an AnyExecutor.
//
// Execute accepts one unit of work and arranges for it to be invoked
// according to the implementation's own policy. A returned error means the
// work was not scheduled. Values are compared with ==, so two values must be
// equal exactly when they schedule work onto the same place in the same way.
//
// An interface type, or a struct with an interface field, satisfies
// comparable even when its dynamic value does not. Equal reports false for
// such values instead of panicking.
type Schedulable interface {
	comparable
	Execute(f func()) error
}

// Target is the constraint for values stored in a CompletionExecutor.
//
// In addition to Schedulable, Require must accept each of the four standard
// properties and return a value reflecting it. Returning the receiver
// unchanged is a valid answer when the property has no meaning for the
// implementation. Require must not fail for a standard property.
type Target[E any] interface {
	Schedulable
	Require(p Property) E
}

// ExtensionRequirer is implemented by targets that accept properties outside
// the standard set.
//
// SupportsExtension reports whether RequireExtension would accept p.
// RequireExtension returns a value reflecting p, or an error that the
// CompletionExecutor passes to its caller unmodified.
type ExtensionRequirer[E any] interface {
	SupportsExtension(p Extension) bool
	RequireExtension(p Extension) (E, error)
}
