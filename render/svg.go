package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/sulaip1/plotscript/lang"
)

// ErrNotAPlot is returned when the expression given to SVG is not the
// result of a plotting form.
var ErrNotAPlot = errors.New("expression is not a plot")

const (
	// DefaultSize is the rendered width in pixels.
	DefaultSize = 512.0
	// DefaultMargin is the padding around the drawing in canvas units.
	DefaultMargin = 2.0
)

// options configures SVG emission.
type options struct {
	size   float64
	margin float64
}

// Option configures renderer behavior.
type Option func(*options)

// WithSize sets the rendered width in pixels. The height follows from the
// aspect ratio of the drawing.
func WithSize(px float64) Option {
	return func(o *options) {
		o.size = px
	}
}

// WithMargin sets the padding around the drawing in canvas units.
func WithMargin(units float64) Option {
	return func(o *options) {
		o.margin = units
	}
}

func defaultOptions() options {
	return options{size: DefaultSize, margin: DefaultMargin}
}

// SVG renders a compiled plot expression as an SVG document on w.
//
// Point and line primitives carry data-space coordinates; text primitives
// carry canvas-space coordinates. The data box is mapped onto the same
// fixed canvas extent the plot compiler used for label placement, so the
// geometry lines up, and the whole canvas becomes the SVG viewBox. Sizes,
// thicknesses, and text scales are emitted in canvas units.
func SVG(w io.Writer, plot lang.Expression, opts ...Option) error {
	if !plot.IsPlot() {
		return ErrNotAPlot
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	scale := plotScaleOf(plot)
	box := boundingBoxOf(plot, scale)
	box.pad(o.margin)

	width := o.size

	height := width
	if box.width() > 0 {
		height = width * box.height() / box.width()
	}

	var buf bytes.Buffer

	fmt.Fprintf(&buf,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`+"\n",
		num(width), num(height),
		num(box.minX), num(box.minY), num(box.width()), num(box.height()),
	)

	for i := 0; i < plot.TailLen(); i++ {
		e := plot.At(i)

		switch {
		case e.IsPoint():
			writePoint(&buf, e, scale)
		case e.IsLine():
			writeLine(&buf, e, scale)
		case e.IsText():
			writeText(&buf, e)
		}
	}

	buf.WriteString("</svg>\n")

	_, err := w.Write(buf.Bytes())

	return err
}

// Summary describes a plot as a one-line primitive count, for printing in
// place of the full primitive list. The second return is false when the
// expression is not a plot.
func Summary(e lang.Expression) (string, bool) {
	if !e.IsPlot() {
		return "", false
	}

	kind := "continuous"
	if e.IsDiscrete() {
		kind = "discrete"
	}

	var points, lines, texts int

	for i := 0; i < e.TailLen(); i++ {
		p := e.At(i)

		switch {
		case p.IsPoint():
			points++
		case p.IsLine():
			lines++
		case p.IsText():
			texts++
		}
	}

	return fmt.Sprintf("%s plot: %d points, %d lines, %d labels",
		kind, points, lines, texts), true
}

// canvasScale maps data-space coordinates onto the canvas the plot
// compiler placed its labels on: each axis stretched to the fixed canvas
// extent, ordinate negated so positive y points up.
type canvasScale struct {
	xscale float64
	yscale float64
}

func (s canvasScale) apply(x, y float64) (float64, float64) {
	return x * s.xscale, -y * s.yscale
}

// plotScaleOf derives the data-to-canvas scale from the point and line
// primitives. A degenerate axis span maps one to one.
func plotScaleOf(plot lang.Expression) canvasScale {
	first := true

	var xmin, xmax, ymin, ymax float64

	extend := func(pair lang.Expression) {
		x, y := pairXY(pair)

		if first {
			xmin, xmax, ymin, ymax = x, x, y, y
			first = false

			return
		}

		xmin = min(xmin, x)
		xmax = max(xmax, x)
		ymin = min(ymin, y)
		ymax = max(ymax, y)
	}

	for i := 0; i < plot.TailLen(); i++ {
		e := plot.At(i)

		switch {
		case e.IsPoint():
			extend(e.GetPosition())
		case e.IsLine():
			extend(e.At(0))
			extend(e.At(1))
		}
	}

	s := canvasScale{xscale: 1, yscale: 1}

	if span := xmax - xmin; span > 0 {
		s.xscale = lang.N / span
	}

	if span := ymax - ymin; span > 0 {
		s.yscale = lang.N / span
	}

	return s
}

// box is an axis-aligned canvas-space bounding rectangle.
type box struct {
	minX, minY float64
	maxX, maxY float64
	any        bool
}

func (b *box) extend(x, y float64) {
	if !b.any {
		b.minX, b.maxX, b.minY, b.maxY = x, x, y, y
		b.any = true

		return
	}

	b.minX = min(b.minX, x)
	b.maxX = max(b.maxX, x)
	b.minY = min(b.minY, y)
	b.maxY = max(b.maxY, y)
}

func (b *box) pad(margin float64) {
	b.minX -= margin
	b.minY -= margin
	b.maxX += margin
	b.maxY += margin
}

func (b box) width() float64  { return b.maxX - b.minX }
func (b box) height() float64 { return b.maxY - b.minY }

// boundingBoxOf covers every primitive's canvas-space position.
func boundingBoxOf(plot lang.Expression, scale canvasScale) box {
	var b box

	for i := 0; i < plot.TailLen(); i++ {
		e := plot.At(i)

		switch {
		case e.IsPoint():
			b.extend(scale.apply(pairXY(e.GetPosition())))
		case e.IsLine():
			b.extend(scale.apply(pairXY(e.At(0))))
			b.extend(scale.apply(pairXY(e.At(1))))
		case e.IsText():
			b.extend(pairXY(e.GetPosition()))
		}
	}

	if !b.any {
		b.extend(0, 0)
	}

	return b
}

func writePoint(buf *bytes.Buffer, e lang.Expression, scale canvasScale) {
	x, y := scale.apply(pairXY(e.GetPosition()))
	r := e.GetSize().Head().Number() / 2

	fmt.Fprintf(buf, `  <circle cx="%s" cy="%s" r="%s" fill="black"/>`+"\n",
		num(x), num(y), num(r))
}

func writeLine(buf *bytes.Buffer, e lang.Expression, scale canvasScale) {
	x1, y1 := scale.apply(pairXY(e.At(0)))
	x2, y2 := scale.apply(pairXY(e.At(1)))
	thickness := e.GetThickness().Head().Number()

	fmt.Fprintf(buf,
		`  <line x1="%s" y1="%s" x2="%s" y2="%s" stroke="black" stroke-width="%s" stroke-linecap="round"/>`+"\n",
		num(x1), num(y1), num(x2), num(y2), num(thickness))
}

func writeText(buf *bytes.Buffer, e lang.Expression) {
	x, y := pairXY(e.GetPosition())
	size := e.GetTextScale().Head().Number()
	rotation := e.GetTextRotation().Head().Number()

	buf.WriteString(`  <text x="` + num(x) + `" y="` + num(y) + `"`)
	buf.WriteString(` font-size="` + num(size) + `"`)
	buf.WriteString(` text-anchor="middle" dominant-baseline="middle"`)

	if rotation != 0 {
		degrees := rotation * 180 / math.Pi
		buf.WriteString(
			` transform="rotate(` + num(degrees) + ` ` + num(x) + ` ` + num(y) + `)"`,
		)
	}

	buf.WriteString(`>` + escapeText(e.Head().Text()) + "</text>\n")
}

// pairXY reads a two-number coordinate pair. Anything else reads as the
// origin; primitives built by the plot compiler are always well formed.
func pairXY(pair lang.Expression) (x, y float64) {
	return pair.At(0).Head().Number(), pair.At(1).Head().Number()
}

// num renders a coordinate or style value with the shortest exact
// representation, folding negative zero into zero.
func num(v float64) string {
	if v == 0 {
		v = 0
	}

	return strconv.FormatFloat(v, 'g', -1, 64)
}

// xmlEscaper covers the characters XML text content cannot carry
// verbatim. Attribute values here are always numeric, so only element
// text needs escaping.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

func escapeText(s string) string {
	return xmlEscaper.Replace(s)
}
