// Package cmd implements the dolang subcommands: run, fmt, init and repl.
//
// Commands receive a [context.Context] carrying the parsed [kong.Context]
// (see [WithContext]) and read kong variables by the identifiers declared
// here.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the YAML configuration file written by [Init].
	ConfigIdentifier = "config"

	// MaxDepthIdentifier is the kong variable identifier containing the
	// default nesting and call depth limit.
	MaxDepthIdentifier = "maxDepth"
)
