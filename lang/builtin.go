package lang

import (
	"log/slog"
	"math"
	"math/cmplx"
)

// installBuiltins populates a root frame with the builtin procedures and
// the named constants pi, e, and I.
func installBuiltins(env *Environment) {
	procs := map[string]Procedure{
		"+":      procAdd,
		"-":      procSubNeg,
		"*":      procMul,
		"/":      procDiv,
		"sqrt":   procSqrt,
		"^":      procPow,
		"ln":     procLn,
		"sin":    unaryReal("sin", math.Sin),
		"cos":    unaryReal("cos", math.Cos),
		"tan":    unaryReal("tan", math.Tan),
		"real":   unaryComplex("real", func(v complex128) Expression { return NewNumber(real(v)) }),
		"imag":   unaryComplex("imag", func(v complex128) Expression { return NewNumber(imag(v)) }),
		"mag":    unaryComplex("mag", func(v complex128) Expression { return NewNumber(cmplx.Abs(v)) }),
		"arg":    unaryComplex("arg", func(v complex128) Expression { return NewNumber(cmplx.Phase(v)) }),
		"conj":   unaryComplex("conj", func(v complex128) Expression { return NewComplex(cmplx.Conj(v)) }),
		"list":   procList,
		"first":  procFirst,
		"rest":   procRest,
		"length": procLength,
		"append": procAppend,
		"join":   procJoin,
		"range":  procRange,
	}

	for name, proc := range procs {
		env.defineProcedure(name, proc)
	}

	env.Define("pi", NewNumber(math.Pi))
	env.Define("e", NewNumber(math.E))
	env.Define("I", NewComplex(complex(0, 1)))
}

// operands validates that every argument is a number or complex value and
// returns them promoted to complex, along with whether any argument was
// complex to begin with.
func operands(name string, args []Expression) ([]complex128, bool, error) {
	vals := make([]complex128, len(args))
	anyComplex := false

	for i, a := range args {
		switch {
		case a.head.IsNumber():
			vals[i] = complex(a.head.Number(), 0)
		case a.head.IsComplex():
			vals[i] = a.head.Complex()
			anyComplex = true
		default:
			return nil, false, ErrInvalidExpression.With(
				slog.String("procedure", name),
				slog.String("argument", a.head.Kind().String()),
			)
		}
	}

	return vals, anyComplex, nil
}

// numeric narrows a complex result back to a number Expression unless any
// operand was complex.
func numeric(v complex128, anyComplex bool) Expression {
	if anyComplex {
		return NewComplex(v)
	}

	return NewNumber(real(v))
}

func arity(name string, want, got int) error {
	if want == got {
		return nil
	}

	return ErrArity.With(
		slog.String("procedure", name),
		slog.Int("want", want),
		slog.Int("got", got),
	)
}

func procAdd(args []Expression) (Expression, error) {
	vals, anyComplex, err := operands("+", args)
	if err != nil {
		return NoneExpression(), err
	}

	sum := complex(0, 0)
	for _, v := range vals {
		sum += v
	}

	return numeric(sum, anyComplex), nil
}

func procMul(args []Expression) (Expression, error) {
	vals, anyComplex, err := operands("*", args)
	if err != nil {
		return NoneExpression(), err
	}

	prod := complex(1, 0)
	for _, v := range vals {
		prod *= v
	}

	return numeric(prod, anyComplex), nil
}

// procSubNeg negates a single operand or subtracts the second from the
// first.
func procSubNeg(args []Expression) (Expression, error) {
	vals, anyComplex, err := operands("-", args)
	if err != nil {
		return NoneExpression(), err
	}

	switch len(vals) {
	case 1:
		return numeric(-vals[0], anyComplex), nil
	case 2:
		return numeric(vals[0]-vals[1], anyComplex), nil
	default:
		return NoneExpression(), ErrArity.With(
			slog.String("procedure", "-"),
			slog.String("want", "1 or 2"),
			slog.Int("got", len(vals)),
		)
	}
}

// procDiv divides the first operand by the second, or yields the
// reciprocal of a single operand.
func procDiv(args []Expression) (Expression, error) {
	vals, anyComplex, err := operands("/", args)
	if err != nil {
		return NoneExpression(), err
	}

	switch len(vals) {
	case 1:
		return numeric(1/vals[0], anyComplex), nil
	case 2:
		return numeric(vals[0]/vals[1], anyComplex), nil
	default:
		return NoneExpression(), ErrArity.With(
			slog.String("procedure", "/"),
			slog.String("want", "1 or 2"),
			slog.Int("got", len(vals)),
		)
	}
}

// procSqrt takes the square root, promoting a negative number to the
// principal complex root.
func procSqrt(args []Expression) (Expression, error) {
	if err := arity("sqrt", 1, len(args)); err != nil {
		return NoneExpression(), err
	}

	a := args[0]
	switch {
	case a.head.IsNumber():
		if v := a.head.Number(); v >= 0 {
			return NewNumber(math.Sqrt(v)), nil
		}

		return NewComplex(cmplx.Sqrt(complex(a.head.Number(), 0))), nil
	case a.head.IsComplex():
		return NewComplex(cmplx.Sqrt(a.head.Complex())), nil
	default:
		return NoneExpression(), ErrInvalidExpression.With(
			slog.String("procedure", "sqrt"),
			slog.String("argument", a.head.Kind().String()),
		)
	}
}

func procPow(args []Expression) (Expression, error) {
	if err := arity("^", 2, len(args)); err != nil {
		return NoneExpression(), err
	}

	vals, anyComplex, err := operands("^", args)
	if err != nil {
		return NoneExpression(), err
	}

	if !anyComplex {
		return NewNumber(math.Pow(real(vals[0]), real(vals[1]))), nil
	}

	return NewComplex(cmplx.Pow(vals[0], vals[1])), nil
}

// procLn takes the natural logarithm of a positive number.
func procLn(args []Expression) (Expression, error) {
	if err := arity("ln", 1, len(args)); err != nil {
		return NoneExpression(), err
	}

	if !args[0].head.IsNumber() {
		return NoneExpression(), ErrInvalidExpression.With(
			slog.String("procedure", "ln"),
			slog.String("argument", args[0].head.Kind().String()),
		)
	}

	v := args[0].head.Number()
	if v <= 0 {
		return NoneExpression(), ErrInvalidDomain.With(
			slog.String("procedure", "ln"),
			slog.String("argument", formatNumber(v)),
		)
	}

	return NewNumber(math.Log(v)), nil
}

// unaryReal adapts a real-valued math function of one real argument.
func unaryReal(name string, fn func(float64) float64) Procedure {
	return func(args []Expression) (Expression, error) {
		if err := arity(name, 1, len(args)); err != nil {
			return NoneExpression(), err
		}

		if !args[0].head.IsNumber() {
			return NoneExpression(), ErrInvalidExpression.With(
				slog.String("procedure", name),
				slog.String("argument", args[0].head.Kind().String()),
			)
		}

		return NewNumber(fn(args[0].head.Number())), nil
	}
}

// unaryComplex adapts an accessor requiring one complex argument.
func unaryComplex(name string, fn func(complex128) Expression) Procedure {
	return func(args []Expression) (Expression, error) {
		if err := arity(name, 1, len(args)); err != nil {
			return NoneExpression(), err
		}

		if !args[0].head.IsComplex() {
			return NoneExpression(), ErrInvalidExpression.With(
				slog.String("procedure", name),
				slog.String("argument", args[0].head.Kind().String()),
			)
		}

		return fn(args[0].head.Complex()), nil
	}
}

func procList(args []Expression) (Expression, error) {
	return NewList(args...), nil
}

func procFirst(args []Expression) (Expression, error) {
	if err := arity("first", 1, len(args)); err != nil {
		return NoneExpression(), err
	}

	list := args[0]
	if !list.head.IsList() {
		return NoneExpression(), ErrInvalidExpression.With(
			slog.String("procedure", "first"),
			slog.String("argument", list.head.Kind().String()),
		)
	}

	if len(list.tail) == 0 {
		return NoneExpression(), ErrEmptySequence.With(slog.String("procedure", "first"))
	}

	return list.tail[0].Clone(), nil
}

func procRest(args []Expression) (Expression, error) {
	if err := arity("rest", 1, len(args)); err != nil {
		return NoneExpression(), err
	}

	list := args[0]
	if !list.head.IsList() {
		return NoneExpression(), ErrInvalidExpression.With(
			slog.String("procedure", "rest"),
			slog.String("argument", list.head.Kind().String()),
		)
	}

	if len(list.tail) == 0 {
		return NoneExpression(), ErrEmptySequence.With(slog.String("procedure", "rest"))
	}

	return NewList(list.tail[1:]...), nil
}

func procLength(args []Expression) (Expression, error) {
	if err := arity("length", 1, len(args)); err != nil {
		return NoneExpression(), err
	}

	if !args[0].head.IsList() {
		return NoneExpression(), ErrInvalidExpression.With(
			slog.String("procedure", "length"),
			slog.String("argument", args[0].head.Kind().String()),
		)
	}

	return NewNumber(float64(args[0].TailLen())), nil
}

// procAppend copies a list with one more value at its end.
func procAppend(args []Expression) (Expression, error) {
	if err := arity("append", 2, len(args)); err != nil {
		return NoneExpression(), err
	}

	if !args[0].head.IsList() {
		return NoneExpression(), ErrInvalidExpression.With(
			slog.String("procedure", "append"),
			slog.String("argument", args[0].head.Kind().String()),
		)
	}

	out := args[0].Clone()
	out.AppendExpression(args[1])

	return out, nil
}

// procJoin concatenates two lists.
func procJoin(args []Expression) (Expression, error) {
	if err := arity("join", 2, len(args)); err != nil {
		return NoneExpression(), err
	}

	for _, a := range args {
		if !a.head.IsList() {
			return NoneExpression(), ErrInvalidExpression.With(
				slog.String("procedure", "join"),
				slog.String("argument", a.head.Kind().String()),
			)
		}
	}

	out := args[0].Clone()
	for i := range args[1].tail {
		out.AppendExpression(args[1].tail[i])
	}

	return out, nil
}

// procRange builds the list (begin, begin+inc, ...) up to and including
// end.
func procRange(args []Expression) (Expression, error) {
	if err := arity("range", 3, len(args)); err != nil {
		return NoneExpression(), err
	}

	for _, a := range args {
		if !a.head.IsNumber() {
			return NoneExpression(), ErrInvalidExpression.With(
				slog.String("procedure", "range"),
				slog.String("argument", a.head.Kind().String()),
			)
		}
	}

	begin, end, inc := args[0].head.Number(), args[1].head.Number(), args[2].head.Number()

	if begin > end {
		return NoneExpression(), ErrInvalidDomain.With(
			slog.String("procedure", "range"),
			slog.String("reason", "begin greater than end"),
		)
	}

	if inc <= 0 {
		return NoneExpression(), ErrInvalidDomain.With(
			slog.String("procedure", "range"),
			slog.String("reason", "increment not positive"),
		)
	}

	// Index-based stepping keeps the element count stable under
	// floating-point accumulation.
	out := Expression{head: ListAtom()}
	steps := int(math.Floor((end-begin)/inc + 1e-9))

	for i := 0; i <= steps; i++ {
		out.Append(NumberAtom(begin + float64(i)*inc))
	}

	return out, nil
}
