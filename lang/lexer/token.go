package lexer

import (
	"fmt"
	"strconv"
)

// Class identifies which kind of rule produced a token.
type Class uint8

const (
	ClassChar Class = iota + 1
	ClassNumber
	ClassSequence
	ClassString
	ClassWord
)

func (c Class) String() string {
	switch c {
	case ClassChar:
		return "char"
	case ClassNumber:
		return "number"
	case ClassSequence:
		return "sequence"
	case ClassString:
		return "string"
	case ClassWord:
		return "word"
	default:
		return "class(" + strconv.Itoa(int(c)) + ")"
	}
}

// Symbol is a language-specific token identifier assigned by the rule that
// produced the token.
type Symbol int16

// Position is a 1-based line and column in the source. Columns count
// codepoints, not bytes.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Token is one classified lexical unit.
//
// Char holds the matched codepoint of char tokens. Number tokens carry both
// Int and Float; which one is meaningful depends on the symbol (integer or
// decimal form). Sequence and string tokens carry Text.
type Token struct {
	Text   string
	Int    int64
	Float  float64
	Line   int
	Column int
	// Indent is the number of whitespace codepoints consumed on the current
	// line before this token.
	Indent int
	Char   rune
	Symbol Symbol
	Class  Class
}

// Pos returns the position of the first codepoint of t.
func (t Token) Pos() Position { return Position{Line: t.Line, Column: t.Column} }

// Lexeme returns a printable representation of the token's payload.
func (t Token) Lexeme() string {
	switch t.Class {
	case ClassChar:
		return string(t.Char)
	case ClassNumber:
		if t.Text != "" {
			return t.Text
		}

		return strconv.FormatInt(t.Int, 10)
	default:
		return t.Text
	}
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%d) %q at %s indent %d",
		t.Class, t.Symbol, t.Lexeme(), t.Pos(), t.Indent)
}
