package lang

import "github.com/ardnew/tinyscript/pkg"

var (
	ErrReadInput = pkg.NewError("failed to read input")
	ErrClosed    = pkg.NewError("script closed")
)
