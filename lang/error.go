package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrUnboundSymbol     = NewError("unbound symbol")
	ErrInvalidDefine     = NewError("invalid define")
	ErrEmptySequence     = NewError("empty sequence")
	ErrNotAProcedure     = NewError("not a procedure")
	ErrArity             = NewError("wrong number of arguments")
	ErrInvalidExpression = NewError("invalid expression")
	ErrInvalidDomain     = NewError("invalid domain")
	ErrRecursionLimit    = NewError("recursion limit exceeded")
	ErrCancelled         = NewError("evaluation cancelled")
	ErrParse             = NewError("parse error")
	ErrReadInput         = NewError("failed to read input")
)

// Error represents an evaluation or parse error with optional structured
// logging attributes. It implements both error and slog.LogValuer.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether e matches the target sentinel. Two Errors match when
// they share the same base message, so that derived errors created with
// [Error.With] still satisfy errors.Is against their sentinel.
func (e *Error) Is(target error) bool {
	te := &Error{}
	if !errors.As(target, &te) {
		return false
	}

	return e.msg == te.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		attrs: e.attrs, // Share attrs
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: newAttrs,
	}
}

// ParseError reports a syntax error with its position in the source.
type ParseError struct {
	Message string
	Source  string // The original source input
	Line    int    // 1-based line of the offending token
	Col     int    // 1-based column of the offending token
}

// NewParseError creates a ParseError at the given source position.
func NewParseError(msg, source string, line, col int) *ParseError {
	return &ParseError{
		Message: msg,
		Source:  source,
		Line:    line,
		Col:     col,
	}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	var buf strings.Builder

	buf.WriteString("parse error at line ")
	buf.WriteString(strconv.Itoa(e.Line))
	buf.WriteString(", column ")
	buf.WriteString(strconv.Itoa(e.Col))
	buf.WriteString(": ")
	buf.WriteString(e.Message)

	if snippet := e.snippet(); snippet != "" {
		buf.WriteString("\n")
		buf.WriteString(snippet)
	}

	return buf.String()
}

// Unwrap ties every ParseError to the ErrParse sentinel.
func (e *ParseError) Unwrap() error { return ErrParse }

// LogValue implements slog.LogValuer.
func (e *ParseError) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("error", e.Message),
		slog.Int("line", e.Line),
		slog.Int("column", e.Col),
	)
}

// snippet renders the offending source line with a column marker.
func (e *ParseError) snippet() string {
	if e.Source == "" || e.Line < 1 {
		return ""
	}

	lines := strings.Split(e.Source, "\n")
	if e.Line > len(lines) {
		return ""
	}

	var src strings.Builder

	// Print the line with line number, then a marker under the column.
	src.WriteString("  ")
	src.WriteString(strconv.Itoa(e.Line))
	src.WriteString(" | ")
	src.WriteString(lines[e.Line-1])
	src.WriteRune('\n')

	// +5 accounts for: 2 leading spaces + " | " (3 chars)
	padding := strings.Repeat(" ", len(strconv.Itoa(e.Line))+5)
	if e.Col > 0 {
		padding += strings.Repeat(" ", e.Col-1)
	}

	src.WriteString(padding + "^")

	return src.String()
}
