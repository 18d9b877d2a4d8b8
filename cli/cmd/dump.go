package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/tinyscript/lang"
	"github.com/ardnew/tinyscript/lang/ast"
	"github.com/ardnew/tinyscript/lang/lexer"
	"github.com/ardnew/tinyscript/lang/parser"
)

// Dump prints the syntax tree or the token stream of a script without
// running it.
type Dump struct {
	Format  string `default:"text" enum:"text,yaml,json,binary" help:"Syntax tree output format (${enum})." short:"f"`
	Indent  int    `default:"2"                                 help:"Indent width for YAML and JSON."     short:"i"`
	Tokens  bool   `                                            help:"List tokens instead of the tree."    short:"t"`
	Lenient bool   `                                            help:"Skip unknown characters."            short:"l"`

	Source string `arg:"" default:"-" help:"Script file or '-' for stdin." name:"source"`
}

// Run executes the dump command.
func (d *Dump) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	out := outputFrom(ctx)
	opts := scriptOptions(ctx, d.Lenient)

	if d.Tokens {
		opts = append(opts, lang.WithTokenObserver(func(tok lexer.Token) {
			fmt.Fprintln(out, formatToken(tok))
		}))
	}

	script, err := lang.ParseFile(ctx, d.Source, opts...)
	if err != nil {
		return ErrDump.Wrap(err).With(slog.String("source", d.Source))
	}
	defer script.Close()

	if d.Tokens {
		return nil
	}

	if err := writeTree(out, script.Root(), d.Format, d.Indent); err != nil {
		return ErrDump.Wrap(err).With(
			slog.String("source", script.Name),
			slog.String("format", d.Format),
		)
	}

	return nil
}

// formatToken renders one token as "line:column<TAB>SYMBOL<TAB>lexeme".
func formatToken(tok lexer.Token) string {
	return fmt.Sprintf("%d:%d\t%s\t%s",
		tok.Line, tok.Column, parser.SymbolName(tok.Symbol), strconv.Quote(tok.Lexeme()))
}

func writeTree(w io.Writer, root *ast.Node, format string, indent int) error {
	switch format {
	case "yaml":
		return yaml.NewEncoder(w, yaml.Indent(indent)).Encode(root.Dump())
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", fmt.Sprintf("%*s", indent, ""))

		return enc.Encode(root.Dump())
	case "binary":
		return root.Encode(w)
	default:
		return root.Print(w)
	}
}
