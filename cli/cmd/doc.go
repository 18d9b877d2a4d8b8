// Package cmd implements the tinyscript subcommands: run, dump, repl and
// init.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// to the YAML configuration file.
	ConfigIdentifier = "config"
)
