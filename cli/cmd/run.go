package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/ardnew/tinyscript/lang"
	"github.com/ardnew/tinyscript/lang/value"
	"github.com/ardnew/tinyscript/log"
)

// Run parses and executes a script.
type Run struct {
	Lenient bool `help:"Skip unknown characters and accept unterminated strings." short:"l"`
	Globals bool `help:"Print the global scope when the script finishes."         short:"g"`

	Source string   `arg:"" default:"-"  help:"Script file or '-' for stdin."        name:"source"`
	Args   []string `arg:"" optional:""  help:"Arguments bound to the args global." name:"args"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	opts := append(scriptOptions(ctx, r.Lenient), lang.WithArgs(r.Args...))

	script, err := lang.ParseFile(ctx, r.Source, opts...)
	if err != nil {
		return ErrScript.Wrap(err).With(slog.String("source", r.Source))
	}
	defer script.Close()

	in := script.Interp()

	includes, err := runIncludes(ctx, in, opts...)
	defer closeAll(includes)
	defer in.Close()

	if err != nil {
		return err
	}

	log.DebugContext(ctx, "run",
		slog.String("source", script.Name),
		slog.Any("args", r.Args),
		slog.Int("includes", len(includes)),
	)

	if err := in.Exec(ctx, script.Root()); err != nil {
		return ErrScript.Wrap(err).With(slog.String("source", script.Name))
	}

	if !r.Globals {
		return nil
	}

	out := outputFrom(ctx)

	if err := value.Fprint(out, in.Globals()); err != nil {
		return err
	}

	_, err = io.WriteString(out, "\n")

	return err
}
