package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/sulaip1/plotscript/lang"
	"github.com/sulaip1/plotscript/log"
	"github.com/sulaip1/plotscript/render"
)

// Plot evaluates PlotScript source and renders the resulting plot as SVG.
// The last value produced must be a discrete-plot or continuous-plot
// result.
type Plot struct {
	Output string  `default:"-"   help:"Output SVG file or '-' for stdout"       name:"output" short:"o"`
	Canvas float64 `default:"512" help:"Rendered canvas width in pixels"         name:"canvas"`
	Expr   string  `              help:"Inline expression evaluated after all sources" name:"expr" short:"e"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin" name:"source" optional:""`
}

// Run executes the plot command.
func (p *Plot) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	in, err := lang.New(ctx)
	if err != nil {
		return err
	}

	result, err := evalSources(ctx, in, p.Source, p.Expr)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "plot"))
	}

	var w io.Writer = os.Stdout

	if p.Output != stdinSource {
		file, err := os.Create(p.Output)
		if err != nil {
			return ErrWriteOutput.
				With(slog.String("file", p.Output)).
				Wrap(err)
		}
		defer file.Close()

		w = file
	}

	err = render.SVG(w, result, render.WithSize(p.Canvas))
	if err != nil {
		return err
	}

	log.DebugContext(
		ctx,
		"rendered plot",
		slog.String("output", p.Output),
		slog.Float64("canvas", p.Canvas),
	)

	return nil
}
