// Package cli contains the command line interface for tinyscript.
//
// # Usage
//
// Without a command, the arguments name a script and the strings bound to
// its args global:
//
//	tinyscript script.ts one two
//	echo 'say("hi")' | tinyscript
//
// The commands are:
//
//   - run: parse and execute a script (the default)
//   - dump: print the syntax tree or token stream of a script
//   - repl: start an interactive session
//   - init: write the current flags to the configuration file
//
// The global --include flag names scripts that run first in the same
// interpreter, so their globals are visible to the main script or session.
//
// # Configuration
//
// Flags are also read from config.yaml (and config.yaml.json) in the user
// configuration directory. See [resolve] for the YAML layout. Command-line
// flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o tinyscript .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/tinyscript/pprof)
package cli
