package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/sulaip1/plotscript/lang"
)

// Fmt parses PlotScript source and reprints it in the chosen format.
type Fmt struct {
	Format string `default:"native" enum:"native,ast,json,yaml" help:"Output format"                       short:"F"`
	Indent int    `default:"2"                                  help:"Indent width for formatted output"   short:"i"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin" name:"source" optional:""`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	file, err := openSource(f.Source)
	if err != nil {
		return err
	}
	defer file.Close()

	program, err := lang.ParseReader(file)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("format", f.Format))
	}

	switch f.Format {
	case "ast":
		return program.FormatAST(ctx, os.Stdout, f.Indent)
	case "json":
		return program.FormatJSON(ctx, os.Stdout, f.Indent)
	case "yaml":
		return program.FormatYAML(ctx, os.Stdout, f.Indent)
	default:
		return program.Format(ctx, os.Stdout, f.Indent)
	}
}
