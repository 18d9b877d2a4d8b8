package lexer

import (
	"fmt"
	"log/slog"
	"unicode/utf8"
)

// Purpose distinguishes rules that emit tokens from rules whose matches are
// discarded.
type Purpose uint8

const (
	PurposeToken Purpose = iota
	PurposeComment
)

// Format selects escape decoding for string rules.
type Format uint8

const (
	// FormatRaw keeps the codepoint following an escape verbatim.
	FormatRaw Format = iota
	// FormatC additionally decodes \n and \t.
	FormatC
)

// Range is an inclusive codepoint range.
type Range struct {
	Lo, Hi rune
}

// Contains reports whether r lies within the range.
func (g Range) Contains(r rune) bool { return r >= g.Lo && r <= g.Hi }

// Rule is one entry of a lexer configuration. Construct rules with the
// package functions rather than by hand.
type Rule struct {
	Word   string
	Ranges []Range
	Base   int
	// Char is the codepoint of a char rule, or the required opening
	// codepoint of a number rule (zero for none).
	Char          rune
	Decimal       rune
	Open          rune
	Close         rune
	Escape        rune
	Symbol        Symbol
	DecimalSymbol Symbol
	Class         Class
	Purpose       Purpose
	Format        Format
}

// Char returns a rule matching the single codepoint c.
func Char(sym Symbol, c rune) Rule {
	return Rule{Class: ClassChar, Symbol: sym, Char: c}
}

// Word returns a rule matching the exact literal w.
func Word(sym Symbol, w string) Rule {
	return Rule{Class: ClassWord, Symbol: sym, Word: w}
}

// Number returns a rule matching integer literals in base.
func Number(sym Symbol, base int) Rule {
	return Rule{Class: ClassNumber, Symbol: sym, Base: base}
}

// WithDecimal returns a copy of a number rule that accepts marker as a
// decimal point. Literals containing it are emitted with symbol sym.
func (r Rule) WithDecimal(marker rune, sym Symbol) Rule {
	r.Decimal = marker
	r.DecimalSymbol = sym

	return r
}

// WithOpening returns a copy of a number rule that only matches literals
// prefixed by c, such as '$' for hexadecimal.
func (r Rule) WithOpening(c rune) Rule {
	r.Char = c

	return r
}

// Sequence returns a rule matching the longest run of codepoints inside
// ranges.
func Sequence(sym Symbol, ranges ...Range) Rule {
	return Rule{Class: ClassSequence, Symbol: sym, Ranges: ranges}
}

// String returns a rule matching text delimited by open and close, where
// escape (if nonzero) makes the following codepoint literal.
func String(sym Symbol, open, close, escape rune, format Format) Rule {
	return Rule{
		Class:  ClassString,
		Symbol: sym,
		Open:   open,
		Close:  close,
		Escape: escape,
		Format: format,
	}
}

// Comment returns a string rule whose matches are discarded. A comment
// closed by a newline leaves that newline in the input.
func Comment(open, close rune) Rule {
	return Rule{
		Class:   ClassString,
		Purpose: PurposeComment,
		Open:    open,
		Close:   close,
	}
}

// Validate reports whether r is well formed.
func (r Rule) Validate() error {
	bad := func(reason string) error {
		return ErrRule.Wrap(fmt.Errorf("%s", reason)).
			With(slog.String("class", r.Class.String()), slog.Int("symbol", int(r.Symbol)))
	}

	switch r.Class {
	case ClassChar:
		if r.Char == 0 {
			return bad("char rule without codepoint")
		}

	case ClassNumber:
		if r.Base < 2 || r.Base > 36 {
			return bad(fmt.Sprintf("base %d out of range [2, 36]", r.Base))
		}

		if r.Decimal != 0 && digitValue(r.Decimal, r.Base) >= 0 {
			return bad("decimal marker is a digit")
		}

	case ClassSequence:
		if len(r.Ranges) == 0 {
			return bad("sequence rule without ranges")
		}

	case ClassString:
		if r.Open == 0 || r.Close == 0 {
			return bad("string rule without delimiters")
		}

	case ClassWord:
		if r.Word == "" || !utf8.ValidString(r.Word) {
			return bad("word rule without valid literal")
		}

	default:
		return bad("unknown rule class")
	}

	return nil
}

func (r *Rule) inRanges(c rune) bool {
	for _, g := range r.Ranges {
		if g.Contains(c) {
			return true
		}
	}

	return false
}

// digitValue returns the value of c as a digit in base, or -1.
func digitValue(c rune, base int) int {
	var d int

	switch {
	case c >= '0' && c <= '9':
		d = int(c - '0')
	case c >= 'a' && c <= 'z':
		d = int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		d = int(c-'A') + 10
	default:
		return -1
	}

	if d >= base {
		return -1
	}

	return d
}
