package interp

import "github.com/ardnew/tinyscript/pkg"

var (
	ErrMalformedAST = pkg.NewError("malformed syntax tree")
	ErrFinalized    = pkg.NewError("syntax tree already finalized")
	ErrNotCallable  = pkg.NewError("value is not callable")
	ErrNotScript    = pkg.NewError("root node is not a script")
	ErrClosed       = pkg.NewError("interpreter closed")
)

// fatal carries an error that aborts the running script. It is raised with
// panic and recovered at the Exec boundary.
type fatal struct {
	err error
}
