package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/snek/log"
)

// JS lowers a script to JavaScript.
type JS struct {
	Script string `arg:"" default:"-" help:"Script path, name in the search path, or '-' for stdin." name:"script"`
}

// Run executes the js command.
func (j *JS) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ast, src, err := parseScript(ctx, j.Script)
	if err != nil {
		return err
	}

	out, _ := outputFrom(ctx)

	err = ast.CompileJS(ctx, out)
	if err != nil {
		return ErrWriteOutput.With(slog.String("script", src.name)).Wrap(err)
	}

	log.DebugContext(ctx, "script compiled", slog.String("script", src.name))

	return nil
}
