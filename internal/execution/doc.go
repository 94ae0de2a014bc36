// Package execution implements type-erased executor values for completion
// handlers.
//
// # Overview
//
// Asynchronous operations schedule their completion handlers onto an
// executor chosen by the caller: a goroutine spawner, a manually drained
// queue, an inline runner, or anything else that can accept a unit of work.
// Parameterizing every API over the concrete executor type would make the
// executor a compile-time choice, so this package provides value types that
// hide the concrete type while keeping a fixed operation set:
//
//   - CompletionExecutor holds any Target and guarantees the four standard
//     properties (WorkTracked, WorkUntracked, RelationshipFork,
//     RelationshipContinuation).
//   - AnyExecutor holds any Schedulable and guarantees no properties. A
//     CompletionExecutor narrows to an AnyExecutor with Any; there is no
//     conversion in the other direction.
//
// # Admission
//
// Admission is decided by the compiler. New only instantiates for types that
// satisfy Target: comparable, an Execute(func()) error method, and a Require
// method that answers every standard property with a new value of the same
// type. A type lacking any of these has no constructor; there is no run-time
// check that could produce a half-working value. AnyExecutor does not
// satisfy Target, so a value with a smaller guaranteed property set cannot
// be widened into a CompletionExecutor.
//
// # Dispatch
//
// Each box stores the concrete value as an interface value together with a
// pointer to an operation table. Tables are built once per concrete type,
// carry no mutable state and are shared by every box holding that type.
//
// # Empty state
//
// The zero value is empty, as is the result of Empty, the source of Move and
// a box after Reset. Execute, Require, Prefer and the extension variants fail
// with ErrInvalidState on an empty box. All empty boxes are equal to each
// other and unequal to every non-empty box.
//
// # Property negotiation
//
// Require and Prefer never mutate the receiver. For the standard properties
// they call the target's own Require and wrap the result in a new box that
// shares the table; they cannot fail on a non-empty box. Properties outside
// the standard set travel through RequireExtension and PreferExtension, which
// forward to targets implementing ExtensionRequirer and report
// ErrUnsupportedProperty otherwise.
//
// # Errors
//
// The box adds exactly two failures of its own, ErrInvalidState and
// ErrUnsupportedProperty. Errors returned by the target pass through
// unmodified.
//
// # Concurrency
//
// Boxes are plain values with no internal locking. Execute only reads the
// box and may be called concurrently; whether the work then runs inline, on
// another goroutine, or later is decided by the target.
package execution
