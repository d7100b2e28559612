// Package cmd implements the snek subcommands: run, tokens, fmt, js, repl
// and init.
//
// Every command that takes a SCRIPT argument accepts a file path, "-" for
// stdin, or a bare name looked up in the search path (see [WithSearchPath]),
// with or without the [ScriptExt] extension. Parse and runtime errors are
// rendered with [lang.Diagnostic] on the diagnostic writer before they are
// returned.
package cmd

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path of
	// the configuration script.
	ConfigIdentifier = "config"
)

// SearchPathEnv names the environment variable listing script directories.
const SearchPathEnv = "SNEK_PATH"

// ScriptExt is the conventional extension of snek scripts.
const ScriptExt = ".snek"
