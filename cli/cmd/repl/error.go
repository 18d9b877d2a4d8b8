package repl

import "github.com/ardnew/tinyscript/pkg"

// Sentinel errors.
var (
	ErrOutOfBounds  = pkg.NewError("history index out of range")
	ErrEditDeclined = pkg.NewError("edit declined")
	ErrClosed       = pkg.NewError("session closed")
)
