package parser

import (
	"bytes"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ardnew/tinyscript/pkg"
)

var ErrSyntax = pkg.NewError("syntax error")

// SyntaxError describes the first failure encountered while parsing.
//
// Err holds the lexical error that ended the token stream, if that is what
// caused the failure.
type SyntaxError struct {
	File   string
	Msg    string
	Source string
	Err    error
	Line   int
	Column int
}

// Error formats the failure with the offending source line and a caret
// under the failing column.
func (e *SyntaxError) Error() string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(e.File)
		sb.WriteByte(':')
	}

	sb.WriteString(strconv.Itoa(e.Line))
	sb.WriteByte(':')
	sb.WriteString(strconv.Itoa(e.Column))
	sb.WriteString(": ")
	sb.WriteString(ErrSyntax.Error())
	sb.WriteString(": ")
	sb.WriteString(e.Msg)

	if e.Source == "" {
		return sb.String()
	}

	num := strconv.Itoa(e.Line)

	sb.WriteString("\n  ")
	sb.WriteString(num)
	sb.WriteString(" | ")
	sb.WriteString(e.Source)
	sb.WriteByte('\n')

	// 2 leading spaces + " | " (3 chars)
	sb.WriteString(strings.Repeat(" ", len(num)+5))

	// Tabs are echoed so the caret lines up with the displayed source.
	col := 1
	for _, r := range e.Source {
		if col >= e.Column {
			break
		}

		if r == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}

		col++
	}

	sb.WriteByte('^')

	return sb.String()
}

// Unwrap makes both [ErrSyntax] and the lexical cause visible to
// errors.Is.
func (e *SyntaxError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrSyntax, e.Err}
	}

	return []error{ErrSyntax}
}

// LogValue implements slog.LogValuer.
func (e *SyntaxError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.Msg),
		slog.String("file", e.File),
		slog.Int("line", e.Line),
		slog.Int("column", e.Column),
	)
}

// sourceLine returns line n (1-based) of src without its terminator.
func sourceLine(src []byte, n int) string {
	lines := bytes.Split(src, []byte{'\n'})
	if n < 1 || n > len(lines) {
		return ""
	}

	return strings.TrimRight(string(lines[n-1]), "\r")
}
