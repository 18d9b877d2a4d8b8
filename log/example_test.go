package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/tinyscript/log"
)

func Example_levels() {
	logger := log.Make(os.Stdout, log.WithLevel(log.LevelWarn), log.WithTimeLayout("none"))

	logger.Info("info message")
	logger.Warn("warning message", slog.String("key", "value"))
	// Output: level=WARN msg="warning message" key=value
}

func Example_withAttributes() {
	logger := log.Make(os.Stdout, log.WithTimeLayout("none")).
		With(slog.String("file", "main.ts"))

	logger.Info("parsed", slog.Int("nodes", 12))
	// Output: level=INFO msg=parsed file=main.ts nodes=12
}
