package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sulaip1/plotscript/lang"
	"github.com/sulaip1/plotscript/render"
)

// Run evaluates PlotScript source and prints the final result.
//
// Startup scripts given with -s load first, in order, then the source
// file (or stdin), then the inline expression if one was given. All of
// them share one global environment, so scripts can define procedures
// the expression uses.
type Run struct {
	Expr    string   `help:"Inline expression evaluated after all sources"        name:"expr"   short:"e"`
	Scripts []string `help:"Startup script(s) resolved on the script search path" name:"script" short:"s"`

	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin" name:"source" optional:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	in, err := lang.New(ctx)
	if err != nil {
		return err
	}

	if err := loadScripts(ctx, in, r.Scripts); err != nil {
		return err
	}

	result, err := evalSources(ctx, in, r.Source, r.Expr)
	if err != nil {
		return lang.WrapError(err).
			With(slog.String("command", "run"))
	}

	printResult(result)

	return nil
}

// loadScripts resolves and evaluates startup scripts into the
// interpreter's global environment.
func loadScripts(
	ctx context.Context,
	in *lang.Interpreter,
	names []string,
) error {
	scripts, err := resolveScripts(names, scriptSearchPath(ctx))
	if err != nil {
		return err
	}

	for _, path := range scripts {
		file, err := openSource(path)
		if err != nil {
			return err
		}

		_, err = in.EvalReader(ctx, file)

		file.Close()

		if err != nil {
			return lang.WrapError(err).
				With(slog.String("script", path))
		}
	}

	return nil
}

// evalSources evaluates the source operand and the inline expression,
// returning the last result produced. The default "-" source is skipped
// when an expression was given, so `-e` alone does not wait on stdin.
func evalSources(
	ctx context.Context,
	in *lang.Interpreter,
	source, expr string,
) (lang.Expression, error) {
	result := lang.NoneExpression()

	if source != stdinSource || expr == "" {
		file, err := openSource(source)
		if err != nil {
			return result, err
		}
		defer file.Close()

		result, err = in.EvalReader(ctx, file)
		if err != nil {
			return result, err
		}
	}

	if expr != "" {
		return in.EvalString(ctx, expr)
	}

	return result, nil
}

// printResult prints an evaluation result in native syntax. Plot results
// print as a primitive-count summary instead of the full primitive list.
func printResult(result lang.Expression) {
	if summary, ok := render.Summary(result); ok {
		fmt.Println(summary)

		return
	}

	fmt.Println(result)
}
