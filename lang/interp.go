package lang

import (
	"context"
	"io"
	"log/slog"

	"github.com/sulaip1/plotscript/log"
)

// Interpreter evaluates PlotScript programs against a persistent global
// environment. Definitions made by one evaluation remain visible to the
// next, including definitions made before an evaluation failed.
//
// An Interpreter is not safe for concurrent use; callers serialize access.
type Interpreter struct {
	env      *Environment
	startup  string
	logger   log.Logger
	maxDepth int
	cache    bool
}

// Option configures interpreter behavior.
type Option func(*Interpreter)

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the package default logger is used.
func WithLogger(logger log.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

// WithMaxDepth sets the maximum evaluation recursion depth.
func WithMaxDepth(depth int) Option {
	return func(in *Interpreter) {
		in.maxDepth = depth
	}
}

// WithStartup sets program text evaluated into the global environment when
// the interpreter is created and again on each Reset.
func WithStartup(source string) Option {
	return func(in *Interpreter) {
		in.startup = source
	}
}

// WithCache enables or disables the process-wide parse cache for sources
// evaluated by this interpreter. Enabled unless set otherwise.
func WithCache(enabled bool) Option {
	return func(in *Interpreter) {
		in.cache = enabled
	}
}

// applyInterpDefaults sets default option values on an Interpreter.
func applyInterpDefaults(in *Interpreter) {
	in.logger = log.Default()
	in.maxDepth = DefaultMaxDepth
	in.cache = true
}

// New creates an interpreter with a fresh global environment holding the
// builtin procedures and constants, then evaluates the startup program if
// one was configured.
func New(ctx context.Context, opts ...Option) (*Interpreter, error) {
	var in Interpreter

	applyInterpDefaults(&in)

	for _, opt := range opts {
		opt(&in)
	}

	in.env = NewGlobalEnvironment()

	err := in.runStartup(ctx)
	if err != nil {
		return nil, err
	}

	return &in, nil
}

func (in *Interpreter) runStartup(ctx context.Context) error {
	if in.startup == "" {
		return nil
	}

	_, err := in.EvalString(ctx, in.startup)
	if err != nil {
		return WrapError(err).With(slog.String("phase", "startup"))
	}

	return nil
}

// EvalString parses and evaluates program text.
// Expressions are evaluated left to right against the interpreter's global
// environment; the result of the last expression is returned. On error the
// environment keeps any definitions made before the failure.
func (in *Interpreter) EvalString(ctx context.Context, source string) (Expression, error) {
	var (
		program Program
		err     error
	)

	if in.cache {
		program, err = NewSourceFromString(source).Program()
	} else {
		program, err = ParseProgram(source)
	}

	if err != nil {
		return NoneExpression(), err
	}

	return in.EvalProgram(ctx, program)
}

// EvalReader reads a complete program from r and evaluates it.
// The reader is drained through an asynchronous read-ahead buffer.
func (in *Interpreter) EvalReader(ctx context.Context, r io.Reader) (Expression, error) {
	source, err := ReadSource(r)
	if err != nil {
		return NoneExpression(), err
	}

	return in.EvalString(ctx, source)
}

// EvalProgram evaluates an already parsed program.
func (in *Interpreter) EvalProgram(ctx context.Context, program Program) (Expression, error) {
	in.logger.TraceContext(
		ctx,
		"evaluate program",
		slog.Int("expressions", len(program)),
	)

	result := NoneExpression()

	for _, e := range program {
		var err error

		result, err = e.eval(newEvalState(ctx, in.logger, in.maxDepth), in.env)
		if err != nil {
			return NoneExpression(), err
		}
	}

	return result, nil
}

// EvalExpression evaluates a single expression tree against the
// interpreter's global environment.
func (in *Interpreter) EvalExpression(ctx context.Context, e Expression) (Expression, error) {
	return e.eval(newEvalState(ctx, in.logger, in.maxDepth), in.env)
}

// Symbols returns the sorted names bound in the global environment,
// including builtins and any symbols defined by evaluated programs.
func (in *Interpreter) Symbols() []string {
	return in.env.Symbols()
}

// Lookup resolves a symbol bound in the global environment to a copy of
// its value. Builtin procedure names do not resolve as values.
func (in *Interpreter) Lookup(symbol string) (Expression, bool) {
	value, err := in.env.Lookup(symbol)
	if err != nil {
		return NoneExpression(), false
	}

	return value, true
}

// Reset discards the global environment, rebuilds the builtins, and
// re-evaluates the startup program if one was configured.
func (in *Interpreter) Reset(ctx context.Context) error {
	in.logger.TraceContext(ctx, "reset environment")

	in.env = NewGlobalEnvironment()

	return in.runStartup(ctx)
}
