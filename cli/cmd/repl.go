package cmd

import (
	"context"

	"github.com/sulaip1/plotscript/cli/cmd/repl"
	"github.com/sulaip1/plotscript/lang"
	"github.com/sulaip1/plotscript/log"
)

// Repl starts an interactive session. Definitions persist for the life
// of the session, and input history persists across sessions in the
// cache directory.
type Repl struct {
	Scripts []string `help:"Startup script(s) resolved on the script search path" name:"script" short:"s"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	in, err := lang.New(ctx)
	if err != nil {
		return err
	}

	if err := loadScripts(ctx, in, r.Scripts); err != nil {
		return err
	}

	cache := "."

	if ktx := kongContextFrom(ctx); ktx != nil {
		if dir, ok := ktx.Model.Vars()[CacheIdentifier]; ok {
			cache = dir
		}
	}

	return repl.Run(ctx, in, cache, log.Default())
}
