// Package log provides leveled structured logging on top of [log/slog].
//
// A [Logger] is an immutable value configured with functional options when
// it is made. The zero Logger discards everything, which lets libraries hold
// one without requiring callers to supply it.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("expression parsed", slog.Int("tokens", 7))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true),
//		log.WithPretty(false))
//
// [Logger.Wrap] derives a logger with some settings changed, and
// [Logger.With] one that adds attributes to every message.
//
// # Levels
//
// Five levels are defined: [LevelTrace], [LevelDebug], [LevelInfo],
// [LevelWarn] and [LevelError]. Trace sits below slog's debug level and is
// used for step-by-step diagnostics such as parser and evaluator progress.
//
// # Package-Level Logger
//
// The package-level functions ([Info], [DebugContext], ...) write through a
// default logger that writes to standard error. [Config] reconfigures it and
// [SetDefault] replaces it. Calls without a context use
// [DefaultContextProvider].
//
// # Output Formats
//
// [FormatText] (the default) writes key=value lines and [FormatJSON] writes
// JSON objects. With [WithPretty] enabled, both are colorized for terminals.
package log
