// Package cmd implements the plotscript subcommands: run, fmt, plot,
// init, and repl.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"

	// ScriptPathIdentifier is the kong variable identifier containing the
	// list-separated directories searched for bare script names.
	ScriptPathIdentifier = "scriptpath"
)
