// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("interpreter started", slog.String("version", "1.0.0"))
//	logger.Error("evaluation failed", slog.Any("error", err))
//
// # Configuration
//
// Configure the logger using functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// # Adding Attributes
//
// Attributes can be added to the logger to be included in all subsequent
// log messages using the [Logger.With] method:
//
//	logger = logger.With(slog.String("component", "eval"))
//	logger.Info("expression evaluated") // includes component=eval
//
// # Context-Aware Logging
//
// Each logging level has both a context-aware and context-unaware variant:
//
//	logger.InfoContext(ctx, "evaluating program")
//	logger.Info("message without context") // uses DefaultContextProvider
//
// Context-unaware functions internally call their context-aware counterparts
// using [DefaultContextProvider], which returns [context.TODO] by default.
//
// # Supported Levels
//
// The package supports five log levels: [LevelTrace], [LevelDebug],
// [LevelInfo], [LevelWarn], and [LevelError]. Messages below the configured
// level are discarded. Trace sits below Debug and carries per-expression
// evaluation detail.
//
// # Output Formats
//
// Two output formats are supported: [FormatText] (default) and
// [FormatJSON]. The default colorized pretty printing can be disabled
// with [WithPretty] for machine-readable output.
//
// # Package-Level Logger
//
// Top-level functions mirror the [Logger] methods and write through a
// package-level logger directed at standard error. [Config] reconfigures
// it in place, and [Default] hands it to code that takes a [Logger] value.
package log
