package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ardnew/snek/lang"
	"github.com/ardnew/snek/log"
	"github.com/ardnew/snek/profile"
)

// Dump formats accepted by [Run].
const (
	DumpNone = "none"
	DumpText = "text"
	DumpYAML = "yaml"
	DumpJSON = "json"
)

// Run executes a script in a fresh root scope.
type Run struct {
	Expect []string `help:"Boolean expr-lang expression that must hold over the final variables (repeatable)." placeholder:"EXPR" short:"e"`
	Dump   string   `default:"none" enum:"none,text,yaml,json" help:"Print the final variables as ${enum}."                 short:"d"`
	Indent int      `default:"2"                              help:"Indent width for YAML output."                          short:"i"`

	Script string `arg:"" default:"-" help:"Script path, name in the search path, or '-' for stdin." name:"script"`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ast, src, err := parseScript(ctx, r.Script)
	if err != nil {
		return err
	}

	scope := lang.NewScope()

	profile.Do(ctx, src.name, func(ctx context.Context) {
		_, err = ast.Run(ctx, scope)
	})

	if err != nil {
		return report(ctx, src, err)
	}

	log.DebugContext(ctx, "script executed",
		slog.String("script", src.name),
		slog.Int("variables", scope.Len()),
	)

	err = r.dump(ctx, scope)
	if err != nil {
		return err
	}

	return r.check(ctx, src, scope)
}

func (r *Run) dump(ctx context.Context, scope *lang.Scope) error {
	out, _ := outputFrom(ctx)

	var err error

	switch r.Dump {
	case DumpText:
		err = scope.Format(out, makeTheme(out).highlight())

	case DumpYAML:
		err = scope.FormatYAML(ctx, out, r.Indent)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

	case DumpJSON:
		err = scope.FormatJSON(ctx, out)
		if err != nil {
			return ErrJSONMarshal.Wrap(err)
		}
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// check evaluates every expectation, reporting each one that fails.
func (r *Run) check(ctx context.Context, src *script, scope *lang.Scope) error {
	_, errOut := outputFrom(ctx)

	var errs []error

	for _, expect := range r.Expect {
		err := lang.Expect(scope, expect)
		if err == nil {
			log.DebugContext(ctx, "expectation met", slog.String("expect", expect))

			continue
		}

		_, _ = fmt.Fprintf(errOut, "%s: %v: %s\n", src.name, err, expect)

		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return ErrExpectation.
			With(slog.String("script", src.name), slog.Int("failed", len(errs))).
			Wrap(errors.Join(errs...))
	}

	return nil
}
