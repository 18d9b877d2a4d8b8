// Package value implements the runtime data model of tinyscript.
//
// A [Value] is a small tagged union. Scalars (null, bool, int, float and
// native functions) are stored inline. Lists, strings, objects and native
// records live on the heap behind a single-threaded reference count.
//
// # Ownership
//
// Passing a Value moves ownership unless a function documents that it
// borrows. [Value.Ref] creates an additional owner and [Value.Release] drops
// one; the allocation is destroyed when its last owner releases it.
// Releasing an allocation that was already destroyed panics. [Live] reports
// the number of heap allocations that are still reachable from some owner,
// which makes leaks visible in tests.
//
// Reference cycles through lists and objects are never collected.
//
// Operators never fail. Operands of unsupported kinds produce [Null].
package value
