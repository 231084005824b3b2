package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPackage_LogFunctions_UseDefaultLogger(t *testing.T) {
	// Save original logger and restore after test
	original := defaultLog
	defer func() { defaultLog = original }()

	var buf bytes.Buffer
	defaultLog = Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON), WithPretty(false))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
		msg   string
	}{
		{"Trace", Trace, "TRACE", "trace message"},
		{"Debug", Debug, "DEBUG", "debug message"},
		{"Info", Info, "INFO", "info message"},
		{"Warn", Warn, "WARN", "warn message"},
		{"Error", Error, "ERROR", "error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn(tt.msg, slog.String("key", "value"))

			output := buf.String()
			if !strings.Contains(output, tt.msg) {
				t.Errorf(
					"expected output to contain message %q, got: %s",
					tt.msg,
					output,
				)
			}
			if !strings.Contains(output, tt.level) {
				t.Errorf(
					"expected output to contain level %q, got: %s",
					tt.level,
					output,
				)
			}
			if !strings.Contains(output, `"key":"value"`) {
				t.Errorf("expected output to contain attribute, got: %s", output)
			}
		})
	}
}

func TestPackage_ContextFunctions_UseDefaultLogger(t *testing.T) {
	original := defaultLog
	defer func() { defaultLog = original }()

	tests := []struct {
		name    string
		logFunc func(string, ...slog.Attr)
	}{
		{"TraceContext", func(msg string, attrs ...slog.Attr) {
			TraceContext(DefaultContextProvider(), msg, attrs...)
		}},
		{"DebugContext", func(msg string, attrs ...slog.Attr) {
			DebugContext(DefaultContextProvider(), msg, attrs...)
		}},
		{"InfoContext", func(msg string, attrs ...slog.Attr) {
			InfoContext(DefaultContextProvider(), msg, attrs...)
		}},
		{"WarnContext", func(msg string, attrs ...slog.Attr) {
			WarnContext(DefaultContextProvider(), msg, attrs...)
		}},
		{"ErrorContext", func(msg string, attrs ...slog.Attr) {
			ErrorContext(DefaultContextProvider(), msg, attrs...)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Config(WithOutput(&buf), WithLevel(LevelTrace))

			tt.logFunc("package context test")

			output := buf.String()
			if !strings.Contains(output, "package context test") {
				t.Error("expected message to be logged using package context function")
			}
		})
	}
}

func TestPackage_Config_Reconfigures(t *testing.T) {
	original := defaultLog
	defer func() { defaultLog = original }()

	var buf bytes.Buffer
	Config(WithOutput(&buf), WithLevel(LevelError), WithPretty(false))

	Info("filtered message")
	if buf.Len() > 0 {
		t.Error("info message logged after raising level to Error")
	}

	Config(WithLevel(LevelInfo))

	Info("visible message")
	if !strings.Contains(buf.String(), "visible message") {
		t.Error("info message not logged after lowering level back to Info")
	}
}

func TestPackage_Default_ReturnsPackageLogger(t *testing.T) {
	original := defaultLog
	defer func() { defaultLog = original }()

	var buf bytes.Buffer
	Config(WithOutput(&buf), WithPretty(false))

	Default().Info("through accessor")

	if !strings.Contains(buf.String(), "through accessor") {
		t.Error("expected Default() to hand out the package-level logger")
	}
}
