package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/ardnew/tinyscript/lang"
	"github.com/ardnew/tinyscript/lang/interp"
	"github.com/ardnew/tinyscript/log"
	"github.com/ardnew/tinyscript/module"
)

type (
	contextKey  struct{}
	includesKey struct{}
	outputKey   struct{}
)

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// WithOutput returns a new context.Context whose commands write to w
// instead of [os.Stdout].
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	return os.Stdout
}

// fileKey uniquely identifies a file by its device and inode numbers.
// This handles deduplication across symlinks, absolute/relative paths, and
// special device files.
type fileKey struct {
	dev uint64
	ino uint64
}

// WithIncludes returns a new context.Context holding the script files to
// run before the command's own script.
//
// Paths are deduplicated by resolving symlinks and comparing device/inode
// pairs, so a file named twice runs once. Every "-" collapses into a single
// stdin entry placed last. Files that cannot be resolved are kept so that
// running them reports the error.
func WithIncludes(ctx context.Context, paths []string) context.Context {
	return context.WithValue(ctx, includesKey{}, uniqueIncludes(paths))
}

func includesFrom(ctx context.Context) []string {
	paths, _ := ctx.Value(includesKey{}).([]string)

	return paths
}

func uniqueIncludes(paths []string) []string {
	if len(paths) == 0 {
		return nil
	}

	var (
		out   = make([]string, 0, len(paths))
		seen  = make(map[fileKey]struct{})
		stdin bool
	)

	for _, path := range paths {
		if path == lang.StdinName {
			stdin = true

			continue
		}

		key, ok := keyOf(path)
		if ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		out = append(out, path)
	}

	if stdin {
		out = append(out, lang.StdinName)
	}

	return out
}

// keyOf returns the device/inode key of the file path resolves to.
func keyOf(path string) (fileKey, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fileKey{}, false
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return fileKey{}, false
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return fileKey{}, false
	}

	return makeFileKey(info)
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true
}

// scriptOptions returns the parse and run options shared by the commands.
func scriptOptions(ctx context.Context, lenient bool) []lang.Option {
	return []lang.Option{
		lang.WithLogger(log.Default()),
		lang.WithLenient(lenient),
		lang.WithOutput(outputFrom(ctx)),
		lang.WithModules(module.Default()),
	}
}

// runIncludes parses each include file and runs it in in. The parsed
// scripts are returned, even on error, and must be closed after in.
func runIncludes(
	ctx context.Context,
	in *interp.Interp,
	opts ...lang.Option,
) ([]*lang.Script, error) {
	var scripts []*lang.Script

	for _, path := range includesFrom(ctx) {
		s, err := lang.ParseFile(ctx, path, opts...)
		if err != nil {
			return scripts, ErrInclude.Wrap(err).With(slog.String("include", path))
		}

		scripts = append(scripts, s)

		if err := in.Exec(ctx, s.Root()); err != nil {
			return scripts, ErrInclude.Wrap(err).With(slog.String("include", path))
		}
	}

	return scripts, nil
}

func closeAll(scripts []*lang.Script) {
	for _, s := range scripts {
		s.Close()
	}
}
