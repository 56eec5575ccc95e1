// Package cli contains the command line interface for dolang.
//
// # Usage
//
//	dolang [flags] [script.do]            run a script (stdin if omitted)
//	dolang fmt [native|json|yaml|ast] FILE format a script
//	dolang repl [script.do]               interactive session
//	dolang init [--force]                 write the configuration file
//
// A script's printed output goes to stdout. Errors are reported on stderr
// with the offending source line, and the exit status is non-zero.
//
// # Configuration
//
// Flag defaults are read from config.json and then config.yaml in the user
// configuration directory (for example ~/.config/dolang). Values in the YAML
// file take precedence over the JSON file, and command-line flags take
// precedence over both. The YAML file nests command flags under the command
// name:
//
//	log-level: info
//	run:
//	  max-depth: 500
//	repl:
//	  no-history: true
//
// `dolang init` writes the current flag values to config.yaml.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o dolang .
//
// Then --pprof-mode selects the profile (allocs, block, clock, cpu,
// goroutine, heap, mem, mutex, thread, trace) and --pprof-dir its output
// directory.
package cli
