package lang

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/readahead"

	"github.com/ardnew/tinyscript/lang/interp"
	"github.com/ardnew/tinyscript/lang/parser"
)

// StdinName is the file name [ParseFile] reads from standard input.
const StdinName = "-"

// ParseString parses and finalizes src. The name is used in error
// messages.
func ParseString(ctx context.Context, name, src string, opts ...Option) (*Script, error) {
	return parse(ctx, name, []byte(src), opts...)
}

// ParseReader reads r to the end and parses its contents.
func ParseReader(ctx context.Context, name string, r io.Reader, opts ...Option) (*Script, error) {
	// Prefetch the input while earlier chunks are being copied.
	ra := readahead.NewReader(r)
	defer ra.Close()

	src, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("name", name))
	}

	return parse(ctx, name, src, opts...)
}

// ParseFile parses the file at path, or standard input if path is
// [StdinName].
func ParseFile(ctx context.Context, path string, opts ...Option) (*Script, error) {
	if path == StdinName {
		return ParseReader(ctx, "<stdin>", os.Stdin, opts...)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	return ParseReader(ctx, path, f, opts...)
}

func parse(ctx context.Context, name string, src []byte, opts ...Option) (*Script, error) {
	s := &Script{Name: name}
	applyOptions(&s.opts, opts...)

	popts := []parser.Option{
		parser.WithLogger(s.opts.logger),
		parser.WithLenient(s.opts.lenient),
	}

	if s.opts.observer != nil {
		popts = append(popts, parser.WithObserver(s.opts.observer))
	}

	root, err := parser.Parse(ctx, name, src, popts...)
	if err != nil {
		return nil, err
	}

	if err := interp.Finalize(root); err != nil {
		root.Release()

		return nil, err
	}

	s.root = root

	s.opts.logger.TraceContext(ctx, "script ready",
		slog.String("name", name),
		slog.Int("bytes", len(src)),
	)

	return s, nil
}

// RunString parses src and runs it once.
func RunString(ctx context.Context, name, src string, opts ...Option) error {
	s, err := ParseString(ctx, name, src, opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	return s.Run(ctx)
}
