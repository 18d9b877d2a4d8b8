package lexer

import "github.com/ardnew/tinyscript/pkg"

var (
	ErrDecode             = pkg.NewError("malformed UTF-8 input")
	ErrUnexpectedChar     = pkg.NewError("unexpected character")
	ErrUnterminatedString = pkg.NewError("unterminated string")
	ErrRule               = pkg.NewError("invalid token rule")
)
