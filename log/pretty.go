package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
)

// ANSI color codes for pretty printing.
const (
	colorReset   = "\033[0m"
	colorGray    = "\033[90m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
)

// colorize writes s wrapped in the given ANSI color.
func colorize(buf *bytes.Buffer, color, s string) {
	buf.WriteString(color)
	buf.WriteString(s)
	buf.WriteString(colorReset)
}

// levelColor selects the color used to render a log level.
func levelColor(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level >= slog.LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}

// colorValue writes a slog value with a color chosen by its kind.
func colorValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		// Strings in cyan, no quotes
		colorize(buf, colorCyan, v.String())

	case slog.KindInt64:
		colorize(buf, colorYellow, strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		colorize(buf, colorYellow, strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		colorize(buf, colorYellow, strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			colorize(buf, colorGreen, "true")
		} else {
			colorize(buf, colorRed, "false")
		}

	case slog.KindDuration:
		colorize(buf, colorMagenta, v.Duration().String())

	case slog.KindTime:
		colorize(buf, colorBlue, v.Time().String())

	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			// Render through Level so trace reads "trace", not "DEBUG-4".
			colorize(buf, levelColor(level), Level(level).String())

			return
		}

		colorize(buf, colorCyan, v.String())

	default:
		colorize(buf, colorCyan, v.String())
	}
}

// prettyTextHandler renders records as colorized key=value text.
type prettyTextHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	groups []string
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{
		opts:   *opts,
		mu:     &sync.Mutex{},
		w:      w,
		groups: []string{},
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	if !r.Time.IsZero() {
		h.writeAttr(buf, slog.Time(slog.TimeKey, r.Time))
	}

	h.writeAttr(buf, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			h.writeAttr(buf, slog.String(
				slog.SourceKey,
				fmt.Sprintf("%s:%d", src.File, src.Line),
			))
		}
	}

	h.writeAttr(buf, slog.String(slog.MessageKey, r.Message))

	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(buf, a)

		return true
	})

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyTextHandler) WithAttrs([]slog.Attr) slog.Handler {
	return &prettyTextHandler{
		opts:   h.opts,
		mu:     h.mu,
		w:      h.w,
		groups: h.groups,
	}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{
		opts:   h.opts,
		mu:     h.mu,
		w:      h.w,
		groups: append(h.groups[:len(h.groups):len(h.groups)], name),
	}
}

func (h *prettyTextHandler) writeAttr(buf *bytes.Buffer, a slog.Attr) {
	if buf.Len() > 0 {
		buf.WriteByte(' ')
	}

	colorize(buf, colorGray, a.Key)
	buf.WriteByte('=')
	colorValue(buf, a.Value)
}

// prettyJSONHandler renders records as colorized multiline JSON-shaped
// output. The output is for human eyes, not for machine parsing.
type prettyJSONHandler struct {
	opts slog.HandlerOptions
	mu   *sync.Mutex
	w    io.Writer
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{
		opts: *opts,
		mu:   &sync.Mutex{},
		w:    w,
	}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{\n")

	first := true

	if !r.Time.IsZero() {
		h.writeField(
			buf,
			slog.TimeKey,
			slog.StringValue(r.Time.Format("2006-01-02T15:04:05Z07:00")),
			&first,
		)
	}

	h.writeField(buf, slog.LevelKey, slog.AnyValue(r.Level), &first)

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			h.writeField(buf, slog.SourceKey, slog.StringValue(
				fmt.Sprintf("%s:%d", src.File, src.Line),
			), &first)
		}
	}

	h.writeField(buf, slog.MessageKey, slog.StringValue(r.Message), &first)

	r.Attrs(func(a slog.Attr) bool {
		h.writeField(buf, a.Key, a.Value, &first)

		return true
	})

	buf.WriteString("\n}\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyJSONHandler) WithAttrs([]slog.Attr) slog.Handler {
	return &prettyJSONHandler{
		opts: h.opts,
		mu:   h.mu,
		w:    h.w,
	}
}

func (h *prettyJSONHandler) WithGroup(string) slog.Handler {
	return &prettyJSONHandler{
		opts: h.opts,
		mu:   h.mu,
		w:    h.w,
	}
}

func (h *prettyJSONHandler) writeField(
	buf *bytes.Buffer,
	key string,
	value slog.Value,
	first *bool,
) {
	if !*first {
		buf.WriteString(",\n")
	}

	*first = false

	buf.WriteString("  ")
	colorize(buf, colorGray, key)
	buf.WriteString(": ")
	colorValue(buf, value)
}
