package lang

import (
	"context"
	"log/slog"

	"github.com/sulaip1/plotscript/log"
)

// DefaultMaxDepth bounds evaluation recursion. Each nested eval counts one
// level, so the bound tracks expression-tree depth plus lambda call depth.
const DefaultMaxDepth = 1024

// evalState threads per-evaluation context through the recursion: the
// cancellation token, the logger, and the depth budget.
type evalState struct {
	ctx      context.Context
	logger   log.Logger
	depth    int
	maxDepth int
}

func newEvalState(ctx context.Context, logger log.Logger, maxDepth int) *evalState {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	return &evalState{ctx: ctx, logger: logger, maxDepth: maxDepth}
}

// enter is the suspension point at the top of every dispatch: it fails on
// a done context or an exhausted depth budget, and otherwise claims one
// recursion level.
func (st *evalState) enter() error {
	if err := st.cancelled(); err != nil {
		return err
	}

	if st.depth >= st.maxDepth {
		return ErrRecursionLimit.With(slog.Int("limit", st.maxDepth))
	}

	st.depth++

	return nil
}

func (st *evalState) leave() { st.depth-- }

// cancelled reports a done context as ErrCancelled.
func (st *evalState) cancelled() error {
	if err := st.ctx.Err(); err != nil {
		return ErrCancelled.Wrap(err)
	}

	return nil
}

// Eval evaluates the expression against env with default limits and the
// package logger. The context is checked at every dispatch and at each
// plot-sampling iteration; cancellation surfaces as ErrCancelled.
func (e Expression) Eval(ctx context.Context, env *Environment) (Expression, error) {
	return e.eval(newEvalState(ctx, log.Default(), DefaultMaxDepth), env)
}

func (e Expression) eval(st *evalState, env *Environment) (Expression, error) {
	if err := st.enter(); err != nil {
		return NoneExpression(), err
	}
	defer st.leave()

	switch e.head.Kind() {
	case KindNumber, KindComplex, KindString:
		if len(e.tail) != 0 {
			return NoneExpression(), ErrInvalidExpression.With(
				slog.String("head", e.head.String()),
				slog.String("reason", "literal with arguments"),
			)
		}

		return e.Clone(), nil
	case KindSymbol:
		name := e.head.Symbol()
		if len(e.tail) == 0 && !IsKeyword(name) {
			return env.Lookup(name)
		}

		return e.evalForm(st, env, name)
	case KindList, KindLambda:
		// Constructed data and lambda values evaluate to themselves.
		return e.Clone(), nil
	case KindNone:
		if len(e.tail) != 0 {
			return NoneExpression(), ErrInvalidExpression.With(
				slog.String("reason", "none head with arguments"),
			)
		}

		return e.Clone(), nil
	default:
		return NoneExpression(), ErrInvalidExpression.With(
			slog.String("head", e.head.Kind().String()),
		)
	}
}

// evalForm dispatches a symbol-headed form to its special-form handler or
// to ordinary application.
func (e Expression) evalForm(st *evalState, env *Environment, name string) (Expression, error) {
	st.logger.TraceContext(st.ctx, "evaluating form",
		slog.String("head", name),
		slog.Int("arguments", len(e.tail)),
		slog.Int("depth", st.depth),
	)

	switch name {
	case "define":
		return e.handleDefine(st, env)
	case "begin":
		return e.handleBegin(st, env)
	case "lambda":
		return e.handleLambda(env)
	case "apply":
		return e.handleApply(st, env)
	case "map":
		return e.handleMap(st, env)
	case "set-property":
		return e.handleSetProperty(st, env)
	case "get-property":
		return e.handleGetProperty(st, env)
	case "discrete-plot":
		return e.handleDiscretePlot(st, env)
	case "continuous-plot":
		return e.handleContinuousPlot(st, env)
	default:
		return e.evalApplication(st, env, name)
	}
}

// handleDefine binds a symbol in the current frame to the evaluated value
// of its second argument. The value is evaluated before anything is bound,
// so a failed define leaves the environment untouched.
func (e Expression) handleDefine(st *evalState, env *Environment) (Expression, error) {
	if len(e.tail) != 2 {
		return NoneExpression(), ErrInvalidDefine.With(slog.Int("arguments", len(e.tail)))
	}

	target := e.tail[0]
	if !target.head.IsSymbol() || len(target.tail) != 0 {
		return NoneExpression(), ErrInvalidDefine.With(
			slog.String("target", target.head.String()),
			slog.String("reason", "first argument must be a symbol"),
		)
	}

	name := target.head.Symbol()
	if IsKeyword(name) {
		return NoneExpression(), ErrInvalidDefine.With(
			slog.String("symbol", name),
			slog.String("reason", "reserved keyword"),
		)
	}

	if _, protected := protectedNames[name]; protected {
		return NoneExpression(), ErrInvalidDefine.With(
			slog.String("symbol", name),
			slog.String("reason", "builtin constant"),
		)
	}

	value, err := e.tail[1].eval(st, env)
	if err != nil {
		return NoneExpression(), err
	}

	env.Define(name, value)

	return value, nil
}

// handleBegin evaluates each argument in order and yields the last result.
func (e Expression) handleBegin(st *evalState, env *Environment) (Expression, error) {
	if len(e.tail) == 0 {
		return NoneExpression(), ErrEmptySequence.With(slog.String("form", "begin"))
	}

	result := NoneExpression()

	for i := range e.tail {
		v, err := e.tail[i].eval(st, env)
		if err != nil {
			return NoneExpression(), err
		}

		result = v
	}

	return result, nil
}

// handleLambda constructs a lambda value without evaluating anything: the
// formals are normalized into a list of symbols, the body is stored as
// written, and the current environment is captured by reference so free
// variables resolve in the defining scope.
func (e Expression) handleLambda(env *Environment) (Expression, error) {
	if len(e.tail) != 2 {
		return NoneExpression(), ErrInvalidExpression.With(
			slog.String("form", "lambda"),
			slog.Int("arguments", len(e.tail)),
		)
	}

	formals, err := e.tail[0].lambdaFormals()
	if err != nil {
		return NoneExpression(), err
	}

	return newLambda(formals, e.tail[1].Clone(), env), nil
}

// lambdaFormals normalizes a formal-parameter node into a list of bare
// symbols. The parser produces "(x y)" as a symbol-headed node whose
// children are the remaining symbols; a list-headed node of symbols is
// accepted for programmatically built trees.
func (e Expression) lambdaFormals() (Expression, error) {
	malformed := func() error {
		return ErrInvalidExpression.With(
			slog.String("form", "lambda"),
			slog.String("reason", "formal parameters must be symbols"),
		)
	}

	var symbols []Expression

	switch {
	case e.head.IsSymbol():
		symbols = append(symbols, NewSymbol(e.head.Symbol()))
	case e.head.IsList():
		// no leading symbol; children carry all formals
	default:
		return NoneExpression(), malformed()
	}

	for i := range e.tail {
		child := e.tail[i]
		if !child.head.IsSymbol() || len(child.tail) != 0 {
			return NoneExpression(), malformed()
		}

		symbols = append(symbols, NewSymbol(child.head.Symbol()))
	}

	if len(symbols) == 0 {
		return NoneExpression(), malformed()
	}

	return NewList(symbols...), nil
}

// callLambda applies a lambda value to already-evaluated arguments: a
// fresh child frame of the captured environment, positional binding, then
// body evaluation in that frame.
func (st *evalState) callLambda(fn Expression, args []Expression) (Expression, error) {
	if len(fn.tail) != 2 || !fn.tail[0].head.IsList() || fn.scope == nil {
		return NoneExpression(), ErrInvalidExpression.With(
			slog.String("reason", "malformed lambda value"),
		)
	}

	formals := fn.tail[0]
	if len(args) != len(formals.tail) {
		return NoneExpression(), ErrArity.With(
			slog.String("form", "lambda call"),
			slog.Int("want", len(formals.tail)),
			slog.Int("got", len(args)),
		)
	}

	frame := fn.scope.ChildFrame()
	for i := range formals.tail {
		frame.Define(formals.tail[i].head.Symbol(), args[i])
	}

	return fn.tail[1].eval(st, frame)
}

// resolveCallable evaluates a form's callee position to either a builtin
// procedure or a lambda value. A bare symbol naming a builtin resolves to
// the procedure; anything else must evaluate to a lambda.
func (e Expression) resolveCallable(st *evalState, env *Environment, form string) (Procedure, Expression, error) {
	if e.head.IsSymbol() && len(e.tail) == 0 {
		if proc, ok := env.Procedure(e.head.Symbol()); ok {
			return proc, NoneExpression(), nil
		}
	}

	fn, err := e.eval(st, env)
	if err != nil {
		return nil, NoneExpression(), err
	}

	if !fn.head.IsLambda() {
		return nil, NoneExpression(), ErrNotAProcedure.With(
			slog.String("form", form),
			slog.String("kind", fn.head.Kind().String()),
		)
	}

	return nil, fn, nil
}

// handleApply calls a procedure or lambda with an argument list built from
// an evaluated list expression.
func (e Expression) handleApply(st *evalState, env *Environment) (Expression, error) {
	if len(e.tail) != 2 {
		return NoneExpression(), ErrArity.With(
			slog.String("form", "apply"),
			slog.Int("want", 2),
			slog.Int("got", len(e.tail)),
		)
	}

	proc, fn, err := e.tail[0].resolveCallable(st, env, "apply")
	if err != nil {
		return NoneExpression(), err
	}

	list, err := e.tail[1].eval(st, env)
	if err != nil {
		return NoneExpression(), err
	}

	if !list.head.IsList() {
		return NoneExpression(), ErrInvalidExpression.With(
			slog.String("form", "apply"),
			slog.String("reason", "second argument must be a list"),
		)
	}

	if proc != nil {
		return proc(list.tail)
	}

	return st.callLambda(fn, list.tail)
}

// handleMap applies a procedure or one-argument lambda to each element of
// an evaluated list, preserving order. Evaluation stops at the first
// failure.
func (e Expression) handleMap(st *evalState, env *Environment) (Expression, error) {
	if len(e.tail) != 2 {
		return NoneExpression(), ErrArity.With(
			slog.String("form", "map"),
			slog.Int("want", 2),
			slog.Int("got", len(e.tail)),
		)
	}

	proc, fn, err := e.tail[0].resolveCallable(st, env, "map")
	if err != nil {
		return NoneExpression(), err
	}

	if proc == nil {
		// The lambda is called once per element; its formal count must
		// be exactly one before any element is touched.
		if formals := fn.tail[0]; len(formals.tail) != 1 {
			return NoneExpression(), ErrArity.With(
				slog.String("form", "map"),
				slog.Int("want", 1),
				slog.Int("got", len(formals.tail)),
			)
		}
	}

	list, err := e.tail[1].eval(st, env)
	if err != nil {
		return NoneExpression(), err
	}

	if !list.head.IsList() {
		return NoneExpression(), ErrInvalidExpression.With(
			slog.String("form", "map"),
			slog.String("reason", "second argument must be a list"),
		)
	}

	out := Expression{head: ListAtom(), tail: make([]Expression, 0, len(list.tail))}

	for i := range list.tail {
		if err := st.cancelled(); err != nil {
			return NoneExpression(), err
		}

		var v Expression
		if proc != nil {
			v, err = proc(list.tail[i : i+1])
		} else {
			v, err = st.callLambda(fn, list.tail[i:i+1])
		}

		if err != nil {
			return NoneExpression(), err
		}

		out.tail = append(out.tail, v)
	}

	return out, nil
}

// handleSetProperty evaluates target, name, and value in order, then
// yields a copy of the target carrying the property. The stored target is
// never mutated.
func (e Expression) handleSetProperty(st *evalState, env *Environment) (Expression, error) {
	if len(e.tail) != 3 {
		return NoneExpression(), ErrArity.With(
			slog.String("form", "set-property"),
			slog.Int("want", 3),
			slog.Int("got", len(e.tail)),
		)
	}

	target, err := e.tail[0].eval(st, env)
	if err != nil {
		return NoneExpression(), err
	}

	name, err := st.propertyName(env, e.tail[1], "set-property")
	if err != nil {
		return NoneExpression(), err
	}

	value, err := e.tail[2].eval(st, env)
	if err != nil {
		return NoneExpression(), err
	}

	return target.SetProperty(name, value), nil
}

// handleGetProperty evaluates target and name, then yields a copy of the
// named property value, or the None expression when absent.
func (e Expression) handleGetProperty(st *evalState, env *Environment) (Expression, error) {
	if len(e.tail) != 2 {
		return NoneExpression(), ErrArity.With(
			slog.String("form", "get-property"),
			slog.Int("want", 2),
			slog.Int("got", len(e.tail)),
		)
	}

	target, err := e.tail[0].eval(st, env)
	if err != nil {
		return NoneExpression(), err
	}

	name, err := st.propertyName(env, e.tail[1], "get-property")
	if err != nil {
		return NoneExpression(), err
	}

	value, _ := target.Property(name)

	return value, nil
}

// propertyName evaluates a property-name argument, which must yield a
// string.
func (st *evalState) propertyName(env *Environment, arg Expression, form string) (string, error) {
	name, err := arg.eval(st, env)
	if err != nil {
		return "", err
	}

	if !name.head.IsString() {
		return "", ErrInvalidExpression.With(
			slog.String("form", form),
			slog.String("reason", "property name must be a string"),
		)
	}

	return name.head.Text(), nil
}

// evalApplication is the generic call rule: arguments evaluate eagerly
// left to right in the caller's environment, then the head symbol resolves
// to a builtin procedure or a bound lambda.
func (e Expression) evalApplication(st *evalState, env *Environment, name string) (Expression, error) {
	args := make([]Expression, len(e.tail))

	for i := range e.tail {
		v, err := e.tail[i].eval(st, env)
		if err != nil {
			return NoneExpression(), err
		}

		args[i] = v
	}

	if proc, ok := env.Procedure(name); ok {
		return proc(args)
	}

	fn, err := env.Lookup(name)
	if err != nil {
		return NoneExpression(), err
	}

	if !fn.head.IsLambda() {
		return NoneExpression(), ErrNotAProcedure.With(
			slog.String("symbol", name),
			slog.String("kind", fn.head.Kind().String()),
		)
	}

	return st.callLambda(fn, args)
}
