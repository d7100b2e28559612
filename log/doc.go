// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// Options such as time layout, caller information and output format are
// applied when a [Logger] is made, using functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("script loaded", slog.String("path", "demo.snek"))
//	logger.Error("run failed", slog.Any("error", err))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// The package-level functions ([Info], [Debug], ...) use a default logger
// writing to stderr, reconfigured with [Config].
//
// # Adding Attributes
//
//	logger = logger.With(slog.String("command", "run"))
//	logger.Info("started") // includes command=run
//
// # Context-Aware Logging
//
// Each level has a context-aware and a context-unaware variant. The
// context-unaware forms use [DefaultContextProvider], which returns
// [context.TODO] by default.
//
// # Levels
//
// [LevelTrace], [LevelDebug], [LevelInfo], [LevelWarn] and [LevelError].
// Trace sits below slog's Debug and is rendered as TRACE.
//
// # Output Formats
//
// [FormatJSON] (default) and [FormatText]. With [WithPretty] enabled, both
// forms are colorized with lipgloss when the output is a terminal; JSON is
// then indented one field per line.
package log
