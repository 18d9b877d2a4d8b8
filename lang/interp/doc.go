// Package interp finalizes and evaluates tinyscript syntax trees.
//
// [Finalize] prepares a tree produced by the parser: it validates the
// shapes evaluation depends on, classifies every identifier as global or
// local, and gives every function literal a closure handle. An [Interp]
// then walks the finalized tree.
//
// Evaluation state is explicit. Each function activation owns a fresh
// local scope, and all activations share the interpreter's global scope.
// Reading a name searches the locals and then the globals, and a name bound
// in neither reads as null. Assigning to a name that is already bound
// replaces it where it is bound; otherwise the name is created in the
// globals if the script declared it global and in the locals if not.
//
// Value mismatches evaluate to null rather than failing. The only runtime
// error is calling a value that is not a function ([ErrNotCallable]), which
// stops the script and is returned by [Interp.Exec].
package interp
