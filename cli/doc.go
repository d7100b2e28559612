// Package cli contains the command line interface for snek.
//
// # Commands
//
//	snek [run] SCRIPT      run a script; the default command
//	snek tokens SCRIPT     print the token stream
//	snek fmt [source|ast|json|yaml] SCRIPT
//	snek js SCRIPT         lower a script to JavaScript
//	snek repl [SCRIPT]     interactive session, optionally preloaded
//	snek init              write the configuration script
//
// SCRIPT is a path, a name resolved against the search path (directories
// given with -I, then those in $SNEK_PATH), or "-" for stdin. The ".snek"
// extension may be omitted.
//
// # Configuration
//
// Flag defaults are read from config.json and then from config.snek in the
// user configuration directory. The latter is an ordinary snek script; its
// top-level variables name flags, with '_' standing in for '-':
//
//	log_level = "debug"
//	max_depth = 16
//
// Command-line flags override both files. "snek init" writes config.snek
// from the flags in effect.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: json or text
//   - --log-time-layout: timestamp layout (RFC3339, Kitchen, ...)
//   - --[no-]log-caller: include caller information
//   - --[no-]log-pretty: colorize output
//
// Logger flags are applied before the rest of the command line is parsed,
// wherever they appear.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o snek .
//
// Then --pprof-mode selects a profile (cpu, heap, trace, ...) written under
// --pprof-dir. CPU samples taken while a script runs carry a "script" label.
package cli
