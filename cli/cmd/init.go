package cmd

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/sulaip1/plotscript/log"
	"github.com/sulaip1/plotscript/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// configFileMode is the permission mode of the generated configuration
// file.
const configFileMode = 0o600

// Init generates a configuration file with the active flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		panic("internal error: config path undefined")
	}

	// Check if file exists and force not set
	_, err = os.Stat(confPath)
	if err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	data, err := yaml.MarshalContext(
		ctx,
		i.flagValues(ctx),
		yaml.Indent(defaultConfigIndent),
	)
	if err != nil {
		return ErrYAMLMarshal.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	err = os.WriteFile(confPath, data, configFileMode)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// flagValues collects the active value of every persistent flag, in
// declaration order, as an ordered YAML mapping. Hidden flags, the help
// and version flags, and profiling flags are not part of a persisted
// configuration.
func (i *Init) flagValues(ctx context.Context) yaml.MapSlice {
	ktx := kongContextFrom(ctx)

	prefixIgnore := []string{"help", "version", profile.Tag}

	var values yaml.MapSlice

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		value := ktx.FlagValue(flag)
		if skipFlagValue(value) {
			continue
		}

		values = append(values, yaml.MapItem{Key: flag.Name, Value: value})
	}

	return values
}

// skipFlagValue reports whether a flag value carries nothing worth
// persisting.
func skipFlagValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []string:
		return len(v) == 0
	default:
		return false
	}
}
