// Package log provides a small structured logging interface built on
// [log/slog].
//
// A [Logger] is created with [Make] and configured with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"))
//
//	logger.Info("script loaded", slog.String("file", "main.ts"))
//
// Every method accepts [slog.Attr] values only, which keeps call sites
// explicit about attribute types. The zero Logger is valid and discards
// everything, so library packages can hold a Logger field without requiring
// callers to configure one.
//
// # Levels
//
// In addition to the four [slog] levels, [LevelTrace] sits below debug and
// is used by the interpreter for per-node evaluation tracing.
//
// # Default logger
//
// Package-level functions ([Debug], [Info], [ErrorContext], ...) write to a
// process-wide default logger writing to stderr. [Config] replaces its
// options and [Default] returns a copy for injection into other packages.
//
// # Pretty output
//
// With [WithPretty] enabled, text output colors keys and values and JSON
// output is indented one attribute per line.
package log
