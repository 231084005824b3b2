// Package cli contains the command line interface for plotscript.
//
// # Commands
//
//   - run: evaluate a source file, stdin, or an inline expression
//     (default command)
//   - fmt: reformat source as native syntax, a tree dump, JSON, or YAML
//   - plot: evaluate source and render the resulting plot as SVG
//   - init: write the active configuration to the user config directory
//   - repl: start an interactive session
//
// Bare invocations read a program from stdin:
//
//	echo "(+ 1 2)" | plotscript
//
// Inline expressions skip stdin:
//
//	plotscript -e "(sqrt 2)"
//	plotscript -s defs.pls -e "(area 7)"
//
// Scripts named without a path are searched for on PLOTSCRIPT_PATH, then
// the scripts directory under the user config directory, then the working
// directory.
//
// # Configuration
//
// Flag values resolve from the command line, then environment variables
// (PLOTSCRIPT_ prefixed), then the configuration file, then built-in
// defaults. The configuration file is plotscript.yaml in the user config
// directory; a plotscript.json sibling is also honored.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (StampMilli, RFC3339, ...)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu,
//     goroutine, heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/plotscript/pprof)
package cli
