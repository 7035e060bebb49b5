// Package cmd implements the expression-parser subcommands: eval, fmt, ast,
// tokens, init and repl.
//
// Commands read their expression from positional arguments, or from standard
// input when the only argument is "-". Bindings files and "name=value"
// overrides given on the command line reach commands through the context;
// see [WithBindingFiles] and [WithOverrides].
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path
	// to the configuration file.
	ConfigIdentifier = "config"
)
