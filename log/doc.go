// Package log provides leveled structured logging built on [log/slog].
//
// A [Logger] is created with [Make] and configured with functional options.
// Configuration is fixed at creation; [Logger.Wrap] derives a reconfigured
// copy and [Logger.With] derives a copy with extra attributes.
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("RFC3339Nano"))
//
//	logger.Debug("parse complete", slog.Int("statements", 12))
//
// Attributes are always [slog.Attr] values; the loosely typed key/value form
// of [slog.Logger] is not used.
//
// # Levels
//
// In addition to the four slog levels the package defines [LevelTrace], which
// the interpreter uses for per-call and per-builtin records.
//
// # Package-Level Logger
//
// The functions [Trace], [Debug], [Info], [Warn], and [Error] (and their
// Context variants) write through a process-wide logger that starts out
// writing text to [os.Stderr]. Use [Config] to reconfigure it.
//
// Functions and methods that take no context use the one returned by
// [DefaultContextProvider].
//
// # Output
//
// [FormatText] writes key=value lines and [FormatJSON] writes JSON objects.
// With [WithPretty] enabled (the default) both are colorized and the JSON
// form is indented.
package log
