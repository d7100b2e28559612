package cli

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/snek/lang"
	"github.com/ardnew/snek/log"
)

// resolve returns a [kong.ConfigurationLoader] that runs a snek script and
// exposes its top-level variables as flag values.
//
// Flag names use hyphens; the script may use either the flag name or the
// same name with underscores, since hyphens cannot appear in identifiers:
//
//	log_level = "debug"
//	log_pretty = False
//	max_depth = 16
//	include = "lib,vendor"
//
// Numbers are passed to kong as decimal strings and nil variables are
// ignored. Slice flags take a single string split on the flag separator.
// Command-line flags override config file values.
//
// A script that fails to parse or run is reported and otherwise ignored, so
// a broken config never prevents repairing it from the command line.
func resolve(ctx context.Context, opts ...lang.Option) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var text strings.Builder

		ast, err := lang.ParseReader(ctx, io.TeeReader(r, &text), opts...)
		if err != nil {
			return config{}, ignored(ctx, err, text.String())
		}

		scope := lang.NewScope()

		_, err = ast.Run(ctx, scope)
		if err != nil {
			return config{}, ignored(ctx, err, text.String())
		}

		return makeConfig(scope), nil
	}
}

func ignored(ctx context.Context, err error, src string) error {
	log.WarnContext(ctx, "configuration ignored",
		slog.Any("error", err),
		slog.String("diagnostic", lang.Diagnostic(err, src)),
	)

	return nil
}

// config implements [kong.Resolver] over the variables of a config script.
type config map[string]any

func makeConfig(scope *lang.Scope) config {
	c := make(config, scope.Len())

	for name, v := range scope.All() {
		switch v.Type() {
		case lang.TypeNumber:
			// kong parses numeric flags from strings
			c[name] = strconv.FormatInt(v.AsNumber(), 10)
		case lang.TypeBool:
			c[name] = v.AsBool()
		case lang.TypeString:
			c[name] = v.AsString()
		}
	}

	return c
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil //nolint:nilnil
}
