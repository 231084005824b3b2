package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// resolveYAML is a [kong.ConfigurationLoader] that reads flag values from
// a YAML mapping of flag names to values.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolveYAML, "/path/to/plotscript.yaml")
//
// The mapping is flat: each key names a flag, with hyphenated and
// underscored spellings both accepted (a file may say either "log-level"
// or "log_level"). Values follow ordinary YAML typing; numbers are
// converted to strings because that is how kong applies resolved values.
//
// Example configuration file:
//
//	log-level: debug
//	log-format: text
//	log-pretty: true
//
// Command-line flags override configuration file values.
func resolveYAML(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	values := map[string]any{}

	if err := yaml.Unmarshal(data, &values); err != nil {
		// A malformed file resolves as empty rather than failing every
		// command before parsing begins.
		return config{}, nil
	}

	flat := make(config, len(values))
	for key, value := range values {
		flat[key] = flagText(value)
	}

	return flat, nil
}

// config implements [kong.Resolver] for YAML flag mappings.
type config map[string]any

// Validate implements [kong.Resolver].
func (r config) Validate(*kong.Application) error {
	// No validation needed - the config was already parsed successfully
	return nil
}

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	// Kong flags use hyphens (e.g., "log-level") but YAML keys may use
	// underscores. Try both forms.
	name := flag.Name
	underscoreName := strings.ReplaceAll(name, "-", "_")

	if value, ok := r[name]; ok {
		return value, nil
	}

	if value, ok := r[underscoreName]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}

// flagText renders scalar config values the way kong expects them.
// Numbers arrive from the YAML decoder as integer or float types, but
// kong parses resolved values from strings.
func flagText(value any) any {
	switch v := value.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return value
	}
}
