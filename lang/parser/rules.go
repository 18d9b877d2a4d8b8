package parser

import (
	"strconv"

	"github.com/ardnew/tinyscript/lang/lexer"
)

// Token symbols produced by [Rules].
const (
	SymAppend lexer.Symbol = iota + 1
	SymAssign
	SymBinAnd
	SymBinOr
	SymColon
	SymComma
	SymDivide
	SymEquals
	SymIdent
	SymInt
	SymLCurly
	SymLParen
	SymLSquare
	SymMinus
	SymMultiply
	SymNewline
	SymNot
	SymNotEquals
	SymPeriod
	SymPlus
	SymRCurly
	SymReal
	SymRParen
	SymRSquare
	SymString
)

var symbolNames = [...]string{
	SymAppend:    "APPEND",
	SymAssign:    "ASSIGN",
	SymBinAnd:    "BIN_AND",
	SymBinOr:     "BIN_OR",
	SymColon:     "COLON",
	SymComma:     "COMMA",
	SymDivide:    "DIVIDE",
	SymEquals:    "EQUALS",
	SymIdent:     "IDENT",
	SymInt:       "INT",
	SymLCurly:    "LCURLY",
	SymLParen:    "LPAREN",
	SymLSquare:   "LSQUARE",
	SymMinus:     "MINUS",
	SymMultiply:  "MULTIPLY",
	SymNewline:   "NEWLINE",
	SymNot:       "NOT",
	SymNotEquals: "NOT_EQUALS",
	SymPeriod:    "PERIOD",
	SymPlus:      "PLUS",
	SymRCurly:    "RCURLY",
	SymReal:      "REAL",
	SymRParen:    "RPAREN",
	SymRSquare:   "RSQUARE",
	SymString:    "STRING",
}

// SymbolName returns the name of a token symbol produced by [Rules].
func SymbolName(sym lexer.Symbol) string {
	if sym > 0 && int(sym) < len(symbolNames) {
		return symbolNames[sym]
	}

	return "SYMBOL(" + strconv.Itoa(int(sym)) + ")"
}

var identRanges = []lexer.Range{
	{Lo: 'a', Hi: 'z'},
	{Lo: 'A', Hi: 'Z'},
	{Lo: '0', Hi: '9'},
	{Lo: '_', Hi: '_'},
}

// Rules returns the lexer configuration for script source. Order matters:
// multi-codepoint words precede the single codepoints they start with, and
// numbers precede identifiers.
func Rules() []lexer.Rule {
	return []lexer.Rule{
		lexer.Comment('#', '\n'),
		lexer.Word(SymAppend, ".."),
		lexer.Word(SymEquals, "=="),
		lexer.Word(SymNotEquals, "!="),
		lexer.Char(SymAssign, '='),
		lexer.Char(SymBinAnd, '&'),
		lexer.Char(SymBinOr, '|'),
		lexer.Char(SymColon, ':'),
		lexer.Char(SymComma, ','),
		lexer.Char(SymDivide, '/'),
		lexer.Char(SymLParen, '('),
		lexer.Char(SymLCurly, '{'),
		lexer.Char(SymLSquare, '['),
		lexer.Char(SymMinus, '-'),
		lexer.Char(SymMultiply, '*'),
		lexer.Char(SymNewline, '\n'),
		lexer.Char(SymNot, '!'),
		lexer.Char(SymPeriod, '.'),
		lexer.Char(SymPlus, '+'),
		lexer.Char(SymRParen, ')'),
		lexer.Char(SymRCurly, '}'),
		lexer.Char(SymRSquare, ']'),
		lexer.Number(SymInt, 10).WithDecimal('.', SymReal),
		lexer.Number(SymInt, 16).WithOpening('$'),
		lexer.Sequence(SymIdent, identRanges...),
		lexer.String(SymString, '\'', '\'', '\\', lexer.FormatC),
	}
}
