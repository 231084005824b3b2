package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/sulaip1/plotscript/log"
)

// logFormat is a custom type that configures the logger format as a side
// effect of parsing via encoding.TextUnmarshaler.
type logFormat string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-format flag, this method is called, allowing us
// to configure the logger early enough to affect error messages during parsing.
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel is a custom type that configures the logger level as a side
// effect of parsing via encoding.TextUnmarshaler.
type logLevel string

// UnmarshalText implements encoding.TextUnmarshaler.
// As Kong parses the --log-level flag, this method is called, allowing us
// to configure the logger early enough to affect error messages during parsing.
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"info"       enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"text"       enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"StampMilli"                         help:"Set timestamp format."`
	Caller     bool      `default:"false"                              help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                               help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":  strings.Join(slices.Collect(log.Levels()), ","),
		"logFormatEnum": strings.Join(slices.Collect(log.Formats()), ","),
	}
}

func (*logConfig) group() kong.Group {
	var group kong.Group

	group.Key = "log"
	group.Title = "Logging options"

	return group
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scan performs an early pass over command-line arguments to extract and
// apply logger configuration before Kong begins parsing. This ensures the
// logger is configured properly regardless of flag position on the command
// line.
//
// While logFormat and logLevel implement encoding.TextUnmarshaler to
// configure the logger as flags are encountered during parsing, boolean
// flags like Pretty don't go through that interface. This pre-scan ensures
// all logger flags are applied early.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		name, value, assigned := splitFlag(args[i])

		switch name {
		case "--log-level":
			if !assigned {
				value, i = flagOperand(args, i)
			}

			_ = f.Level.UnmarshalText([]byte(value))

		case "--log-format":
			if !assigned {
				value, i = flagOperand(args, i)
			}

			_ = f.Format.UnmarshalText([]byte(value))

		case "--log-pretty", "--no-log-pretty":
			f.Pretty = boolFlag(name == "--log-pretty", value, assigned)
			log.Config(log.WithPretty(f.Pretty))

		case "--log-caller", "--no-log-caller":
			f.Caller = boolFlag(name == "--log-caller", value, assigned)
			log.Config(log.WithCaller(f.Caller))
		}
	}
}

// splitFlag splits a "--flag=value" argument into its name and value.
func splitFlag(arg string) (name, value string, assigned bool) {
	if !strings.HasPrefix(arg, "--") {
		return arg, "", false
	}

	if eq := strings.IndexByte(arg, '='); eq != -1 {
		return arg[:eq], arg[eq+1:], true
	}

	return arg, "", false
}

// flagOperand consumes the next argument as a flag value unless it looks
// like another flag.
func flagOperand(args []string, i int) (string, int) {
	if i+1 < len(args) && len(args[i+1]) > 0 && args[i+1][0] != '-' {
		return args[i+1], i + 1
	}

	return "", i
}

// boolFlag interprets one occurrence of a negatable boolean flag.
// Without an explicit "=value", the positive form enables and the
// negated form disables.
func boolFlag(positive bool, value string, assigned bool) bool {
	if assigned {
		if v, err := strconv.ParseBool(value); err == nil {
			if positive {
				return v
			}

			return !v
		}
	}

	return positive
}
