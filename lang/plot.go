package lang

import (
	"log/slog"
	"math"
	"strconv"
)

// plotOptions collects the recognized entries of a plot options list.
// Unrecognized keys are ignored, matching the original program.
type plotOptions struct {
	title         string
	abscissaLabel string
	ordinateLabel string
	textScale     float64
	pointSize     float64
	lineThickness float64
	connectLines  bool
	samples       int
}

func defaultPlotOptions() plotOptions {
	return plotOptions{
		textScale:     D,
		pointSize:     P,
		lineThickness: C,
		samples:       int(N),
	}
}

// handleDiscretePlot compiles a list of (x y) pairs into point primitives,
// optional connecting lines, and bound/label text primitives.
func (e Expression) handleDiscretePlot(st *evalState, env *Environment) (Expression, error) {
	if len(e.tail) < 1 || len(e.tail) > 2 {
		return NoneExpression(), ErrArity.With(
			slog.String("form", "discrete-plot"),
			slog.String("want", "1 or 2"),
			slog.Int("got", len(e.tail)),
		)
	}

	data, err := e.tail[0].eval(st, env)
	if err != nil {
		return NoneExpression(), err
	}

	pairs, err := dataPairs(data, "discrete-plot")
	if err != nil {
		return NoneExpression(), err
	}

	opts := defaultPlotOptions()
	if len(e.tail) == 2 {
		if opts, err = st.evalPlotOptions(env, e.tail[1], "discrete-plot"); err != nil {
			return NoneExpression(), err
		}
	}

	scale := newPlotScale(pairBounds(pairs))

	out := Expression{head: ListAtom()}

	for i := range pairs {
		out.tail = append(out.tail, pointPrimitive(pairs[i], opts.pointSize))
	}

	if opts.connectLines {
		for i := 1; i < len(pairs); i++ {
			out.tail = append(out.tail, linePrimitive(pairs[i-1], pairs[i], opts.lineThickness))
		}
	}

	out.tail = append(out.tail, plotLabels(scale, opts)...)
	out.putProperty(PropertyObjectName, NewString(objectDiscrete))

	return out, nil
}

// handleContinuousPlot samples a one-argument lambda across a numeric
// domain and compiles the samples into connected line primitives plus the
// same bound/label text primitives as handleDiscretePlot.
func (e Expression) handleContinuousPlot(st *evalState, env *Environment) (Expression, error) {
	if len(e.tail) < 2 || len(e.tail) > 3 {
		return NoneExpression(), ErrArity.With(
			slog.String("form", "continuous-plot"),
			slog.String("want", "2 or 3"),
			slog.Int("got", len(e.tail)),
		)
	}

	fn, err := e.tail[0].eval(st, env)
	if err != nil {
		return NoneExpression(), err
	}

	if !fn.head.IsLambda() {
		return NoneExpression(), ErrNotAProcedure.With(
			slog.String("form", "continuous-plot"),
			slog.String("kind", fn.head.Kind().String()),
		)
	}

	lo, hi, err := st.evalDomain(env, e.tail[1])
	if err != nil {
		return NoneExpression(), err
	}

	opts := defaultPlotOptions()
	if len(e.tail) == 3 {
		if opts, err = st.evalPlotOptions(env, e.tail[2], "continuous-plot"); err != nil {
			return NoneExpression(), err
		}
	}

	if opts.samples < 2 {
		return NoneExpression(), ErrInvalidDomain.With(
			slog.String("form", "continuous-plot"),
			slog.String("reason", "fewer than two samples"),
		)
	}

	pairs, err := st.samplePairs(fn, lo, hi, opts.samples)
	if err != nil {
		return NoneExpression(), err
	}

	scale := newPlotScale(pairBounds(pairs))

	out := Expression{head: ListAtom()}

	for i := 1; i < len(pairs); i++ {
		out.tail = append(out.tail, linePrimitive(pairs[i-1], pairs[i], opts.lineThickness))
	}

	out.tail = append(out.tail, plotLabels(scale, opts)...)
	out.putProperty(PropertyObjectName, NewString(objectContinuous))

	return out, nil
}

// evalDomain evaluates a domain argument to the numeric interval [lo, hi).
func (st *evalState) evalDomain(env *Environment, arg Expression) (lo, hi float64, err error) {
	domain, err := arg.eval(st, env)
	if err != nil {
		return 0, 0, err
	}

	if !domain.isCoordinatePair() {
		return 0, 0, ErrInvalidExpression.With(
			slog.String("form", "continuous-plot"),
			slog.String("reason", "domain must be a list of two numbers"),
		)
	}

	lo, hi = domain.coordinates()
	if lo >= hi {
		return 0, 0, ErrInvalidDomain.With(
			slog.String("form", "continuous-plot"),
			slog.String("low", formatNumber(lo)),
			slog.String("high", formatNumber(hi)),
		)
	}

	return lo, hi, nil
}

// samplePairs invokes the lambda at count evenly spaced points across
// [lo, hi], checking for cancellation every iteration. Each sample must
// yield a number.
func (st *evalState) samplePairs(fn Expression, lo, hi float64, count int) ([]Expression, error) {
	step := (hi - lo) / float64(count-1)
	pairs := make([]Expression, 0, count)

	for i := range count {
		if err := st.cancelled(); err != nil {
			return nil, err
		}

		x := lo + float64(i)*step
		if i == count-1 {
			x = hi
		}

		y, err := st.callLambda(fn, []Expression{NewNumber(x)})
		if err != nil {
			return nil, err
		}

		if !y.head.IsNumber() {
			return nil, ErrInvalidExpression.With(
				slog.String("form", "continuous-plot"),
				slog.String("reason", "sampled lambda must yield a number"),
				slog.String("got", y.head.Kind().String()),
			)
		}

		pairs = append(pairs, NewList(NewNumber(x), NewNumber(y.head.Number())))
	}

	return pairs, nil
}

// dataPairs validates that data is a non-empty list of coordinate pairs
// and returns copies of the pair expressions.
func dataPairs(data Expression, form string) ([]Expression, error) {
	invalid := func(reason string) error {
		return ErrInvalidExpression.With(
			slog.String("form", form),
			slog.String("reason", reason),
		)
	}

	if !data.head.IsList() {
		return nil, invalid("data must be a list")
	}

	if len(data.tail) == 0 {
		return nil, invalid("data is empty")
	}

	pairs := make([]Expression, len(data.tail))

	for i := range data.tail {
		if !data.tail[i].isCoordinatePair() {
			return nil, invalid("data must contain lists of two numbers")
		}

		pairs[i] = data.tail[i].Clone()
	}

	return pairs, nil
}

// evalPlotOptions evaluates an options argument: a list of (key value)
// pairs with string keys.
func (st *evalState) evalPlotOptions(env *Environment, arg Expression, form string) (plotOptions, error) {
	opts := defaultPlotOptions()

	invalid := func(reason string) error {
		return ErrInvalidExpression.With(
			slog.String("form", form),
			slog.String("reason", reason),
		)
	}

	list, err := arg.eval(st, env)
	if err != nil {
		return opts, err
	}

	if !list.head.IsList() {
		return opts, invalid("options must be a list")
	}

	for i := range list.tail {
		entry := list.tail[i]
		if !entry.head.IsList() || len(entry.tail) != 2 || !entry.tail[0].head.IsString() {
			return opts, invalid("options must contain (key value) pairs with string keys")
		}

		key, value := entry.tail[0].head.Text(), entry.tail[1]

		switch key {
		case "title":
			opts.title, err = optionText(key, value, form)
		case "abscissa-label":
			opts.abscissaLabel, err = optionText(key, value, form)
		case "ordinate-label":
			opts.ordinateLabel, err = optionText(key, value, form)
		case "text-scale":
			opts.textScale, err = optionNumber(key, value, form)
		case "point-size":
			opts.pointSize, err = optionNumber(key, value, form)
		case "line-thickness":
			opts.lineThickness, err = optionNumber(key, value, form)
		case "lines":
			var v float64
			if v, err = optionNumber(key, value, form); err == nil {
				opts.connectLines = v != 0
			}
		case "samples":
			var v float64
			if v, err = optionNumber(key, value, form); err == nil {
				opts.samples = int(v)
			}
		default:
			// Unknown options are ignored.
		}

		if err != nil {
			return opts, err
		}
	}

	return opts, nil
}

func optionText(key string, value Expression, form string) (string, error) {
	if !value.head.IsString() {
		return "", ErrInvalidExpression.With(
			slog.String("form", form),
			slog.String("option", key),
			slog.String("reason", "value must be a string"),
		)
	}

	return value.head.Text(), nil
}

func optionNumber(key string, value Expression, form string) (float64, error) {
	if !value.head.IsNumber() {
		return 0, ErrInvalidExpression.With(
			slog.String("form", form),
			slog.String("option", key),
			slog.String("reason", "value must be a number"),
		)
	}

	return value.head.Number(), nil
}

// plotScale maps data-space coordinates onto the abstract N-by-N canvas
// with the ordinate negated, screen-style.
type plotScale struct {
	xmin, xmax float64
	ymin, ymax float64
	xscale     float64
	yscale     float64
}

func newPlotScale(xmin, xmax, ymin, ymax float64) plotScale {
	s := plotScale{xmin: xmin, xmax: xmax, ymin: ymin, ymax: ymax, xscale: 1, yscale: 1}

	if span := xmax - xmin; span > 0 {
		s.xscale = N / span
	}

	if span := ymax - ymin; span > 0 {
		s.yscale = N / span
	}

	return s
}

func (s plotScale) x(v float64) float64 { return v * s.xscale }
func (s plotScale) y(v float64) float64 { return -v * s.yscale }

// pairBounds computes the data-space bounding box of coordinate pairs.
func pairBounds(pairs []Expression) (xmin, xmax, ymin, ymax float64) {
	for i := range pairs {
		x, y := pairs[i].coordinates()

		if i == 0 {
			xmin, xmax, ymin, ymax = x, x, y, y

			continue
		}

		xmin = min(xmin, x)
		xmax = max(xmax, x)
		ymin = min(ymin, y)
		ymax = max(ymax, y)
	}

	return xmin, xmax, ymin, ymax
}

// pointPrimitive styles a coordinate pair as a drawable point. Its
// position is the unscaled input pair.
func pointPrimitive(pair Expression, size float64) Expression {
	p := pair.Clone()
	p.putProperty(PropertyObjectName, NewString(objectPoint))
	p.putProperty(PropertyPosition, pair.Clone())
	p.putProperty(PropertySize, NewNumber(size))

	return p
}

// linePrimitive styles a pair of endpoints as a drawable segment.
func linePrimitive(from, to Expression, thickness float64) Expression {
	l := NewList(from, to)
	l.putProperty(PropertyObjectName, NewString(objectLine))
	l.putProperty(PropertyThickness, NewNumber(thickness))

	return l
}

// textPrimitive styles a string as a drawable label anchored at the given
// canvas position.
func textPrimitive(text string, x, y, scale float64) Expression {
	t := NewString(text)
	t.putProperty(PropertyObjectName, NewString(objectText))
	t.putProperty(PropertyPosition, NewList(NewNumber(x), NewNumber(y)))
	t.putProperty(PropertyTextScale, NewNumber(scale))

	return t
}

// plotLabels builds the bound labels and, when configured, the title and
// axis labels, positioned on the scaled canvas. Bound labels sit A units
// outside the data box; the title and axis labels sit B units outside.
func plotLabels(s plotScale, o plotOptions) []Expression {
	centerX := (s.x(s.xmin) + s.x(s.xmax)) / 2
	centerY := (s.y(s.ymin) + s.y(s.ymax)) / 2

	labels := []Expression{
		textPrimitive(formatTick(s.xmin), s.x(s.xmin), s.y(s.ymin)+A, o.textScale),
		textPrimitive(formatTick(s.xmax), s.x(s.xmax), s.y(s.ymin)+A, o.textScale),
		textPrimitive(formatTick(s.ymin), s.x(s.xmin)-A, s.y(s.ymin), o.textScale),
		textPrimitive(formatTick(s.ymax), s.x(s.xmin)-A, s.y(s.ymax), o.textScale),
	}

	if o.title != "" {
		labels = append(labels, textPrimitive(o.title, centerX, s.y(s.ymax)-B, o.textScale))
	}

	if o.abscissaLabel != "" {
		labels = append(labels, textPrimitive(o.abscissaLabel, centerX, s.y(s.ymin)+B, o.textScale))
	}

	if o.ordinateLabel != "" {
		t := textPrimitive(o.ordinateLabel, s.x(s.xmin)-B, centerY, o.textScale)
		t.putProperty(PropertyTextRotation, NewNumber(-math.Pi/2))
		labels = append(labels, t)
	}

	return labels
}

// formatTick renders a bound value with two significant digits.
func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 2, 64)
}
