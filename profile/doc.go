// Package profile provides optional runtime profiling backed by
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof .
//	tinyscript --pprof-mode cpu run script.ts
//
// Without the tag [Profiler.Start] returns a no-op and [Modes] is empty.
// Profiles are written to [Profiler.Path] and inspected with
// "go tool pprof".
package profile
