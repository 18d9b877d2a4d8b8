package value

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Fprint writes the printed form of v to w.
//
// Bools print as true or false, floats in %g notation, lists as
// "(a, b)", strings as 'text', and objects as one member per line indented
// by two spaces per nesting level. A list or object that contains itself
// prints as "(...)" or "{...}" where it recurs.
func Fprint(w io.Writer, v Value) error {
	bw := bufio.NewWriter(w)
	printValue(bw, v, 0, nil)

	return bw.Flush()
}

// String returns the printed form of v. See [Fprint].
func (v Value) String() string {
	var sb strings.Builder

	printValue(&sb, v, 0, nil)

	return sb.String()
}

// Text returns the contents of a string value unquoted, and the printed
// form of any other value.
func (v Value) Text() string {
	if v.kind == KindString {
		return v.str.String()
	}

	return v.String()
}

type printer interface {
	io.Writer
	io.ByteWriter
	io.StringWriter
}

// printValue writes v. active holds the lists and objects being printed by
// the enclosing calls.
func printValue(w printer, v Value, indent int, active map[any]bool) {
	var cell any

	switch v.kind {
	case KindList:
		cell = v.list
	case KindObject:
		cell = v.obj
	}

	if cell != nil {
		if active[cell] {
			if v.kind == KindList {
				w.WriteString("(...)")
			} else {
				w.WriteString("{...}")
			}

			return
		}

		if active == nil {
			active = make(map[any]bool)
		}

		active[cell] = true
		defer delete(active, cell)
	}

	switch v.kind {
	case KindNull:
		w.WriteString("null")
	case KindBool:
		w.WriteString(strconv.FormatBool(v.n != 0))
	case KindInt:
		w.WriteString(strconv.FormatInt(v.n, 10))
	case KindFloat:
		w.WriteString(strconv.FormatFloat(v.f, 'g', 6, 64))
	case KindString:
		w.WriteByte('\'')
		w.Write(v.str.b)
		w.WriteByte('\'')
	case KindList:
		w.WriteByte('(')

		for i, item := range v.list.items {
			if i > 0 {
				w.WriteString(", ")
			}

			printValue(w, item, indent+1, active)
		}

		w.WriteByte(')')
	case KindNative:
		w.WriteString("<native: ")
		w.WriteString(v.nat.Type)
		w.WriteByte('>')
	case KindFunc:
		w.WriteString("<native function>")
	case KindObject:
		w.WriteString("{\n")

		for i, m := range v.obj.members {
			writeIndent(w, indent+1)
			printValue(w, m.Key, 0, active)
			w.WriteString(": ")
			printValue(w, m.Val, indent+1, active)

			if i+1 < len(v.obj.members) {
				w.WriteByte(',')
			}

			w.WriteByte('\n')
		}

		writeIndent(w, indent)
		w.WriteByte('}')
	}
}

func writeIndent(w printer, n int) {
	for range n {
		w.WriteString("  ")
	}
}
