// Package cli contains the command line interface for expression-parser.
//
// # Usage
//
//	expression-parser [flags] <expr> ...
//	expression-parser fmt --style=double "a=='x'||b"
//	expression-parser ast --format=json "not (a or b)"
//	expression-parser tokens "f(1, 'x')"
//	expression-parser repl --watch -b bindings.yaml
//	expression-parser init
//
// Eval is the default command, so a bare expression is evaluated.
//
// # Bindings
//
// Variables and functions come from bindings documents named with
// -b/--bindings ("-" reads one from stdin) and from -D/--set NAME=VALUE,
// which is applied last:
//
//	expression-parser -b bindings.yaml -D limit=5 "counter < limit"
//
// # Configuration
//
// Flag defaults are read from config.json and then config.yaml in the
// user configuration directory (for example ~/.config/expression-parser).
// The YAML file is a flat map of flag names to values; "init" writes one
// holding the current values:
//
//	log-level: debug
//	log-pretty: false
//	bindings:
//	  - /home/me/bindings.yaml
//
// Command-line flags override configured values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, ...)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: a pprof
//     directory under the user cache directory)
package cli
