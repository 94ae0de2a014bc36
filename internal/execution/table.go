package execution

import (
	"reflect"
	"sync"
)

// opTable describes how to operate on targets of one concrete type. Tables
// hold no mutable state; a single table per type is shared by every box.
type opTable struct {
	typ     reflect.Type
	execute func(target any, f func()) error
	equal   func(a, b any) bool

	// Set only for tables built for CompletionExecutor.
	require     func(target any, p Property) any
	supportsExt func(target any, p Extension) bool
	requireExt  func(target any, p Extension) (any, error)
}

var (
	completionTables sync.Map // reflect.Type -> *opTable
	anyTables        sync.Map // reflect.Type -> *opTable
)

func loadTable(cache *sync.Map, typ reflect.Type, build func() *opTable) *opTable {
	if t, ok := cache.Load(typ); ok {
		return t.(*opTable)
	}
	t, _ := cache.LoadOrStore(typ, build())
	return t.(*opTable)
}

func completionTable[E Target[E]]() *opTable {
	typ := reflect.TypeFor[E]()
	return loadTable(&completionTables, typ, func() *opTable {
		return &opTable{
			typ:         typ,
			execute:     executeTarget[E],
			equal:       equalTargets[E],
			require:     requireTarget[E],
			supportsExt: supportsExtension[E],
			requireExt:  requireExtension[E],
		}
	})
}

func anyTable[E Schedulable]() *opTable {
	typ := reflect.TypeFor[E]()
	return loadTable(&anyTables, typ, func() *opTable {
		return &opTable{
			typ:     typ,
			execute: executeTarget[E],
			equal:   equalTargets[E],
		}
	})
}

func executeTarget[E Schedulable](target any, f func()) error {
	v, _ := target.(E)
	return v.Execute(f)
}

// equalTargets reports false instead of panicking when E is an interface
// type, or holds one, and the dynamic values are not comparable.
func equalTargets[E Schedulable](a, b any) (equal bool) {
	x, _ := a.(E)
	y, _ := b.(E)
	defer func() {
		if recover() != nil {
			equal = false
		}
	}()
	return x == y
}

func requireTarget[E Target[E]](target any, p Property) any {
	v, _ := target.(E)
	return v.Require(p)
}

func supportsExtension[E Target[E]](target any, p Extension) bool {
	v, _ := target.(E)
	r, ok := any(v).(ExtensionRequirer[E])
	return ok && r.SupportsExtension(p)
}

func requireExtension[E Target[E]](target any, p Extension) (any, error) {
	v, _ := target.(E)
	r, ok := any(v).(ExtensionRequirer[E])
	if !ok || !r.SupportsExtension(p) {
		return nil, ErrUnsupportedProperty
	}
	next, err := r.RequireExtension(p)
	if err != nil {
		return nil, err
	}
	return next, nil
}

// sameTarget reports whether two (target, table) pairs are both empty or hold
// equal values of the same concrete type. Tables from different erasures are
// distinct pointers, so the type is compared instead of the table.
func sameTarget(a any, at *opTable, b any, bt *opTable) bool {
	if at == nil || bt == nil {
		return at == nil && bt == nil
	}
	if at.typ != bt.typ {
		return false
	}
	return at.equal(a, b)
}
