package cmd

import (
	"context"
	"log/slog"

	"github.com/ardnew/snek/lang"
	"github.com/ardnew/snek/log"
)

// Tokens prints the token stream of a script.
type Tokens struct {
	YAML   bool `help:"Print tokens as YAML instead of a table."`
	Indent int  `default:"2" help:"Indent width for YAML output." short:"i"`

	Script string `arg:"" default:"-" help:"Script path, name in the search path, or '-' for stdin." name:"script"`
}

// Run executes the tokens command.
func (t *Tokens) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, err := readScript(ctx, t.Script)
	if err != nil {
		return err
	}

	tokens, err := lang.Tokenize(src.text)
	if err != nil {
		return report(ctx, src, err)
	}

	log.DebugContext(ctx, "script tokenized",
		slog.String("script", src.name),
		slog.Int("tokens", len(tokens)),
	)

	out, _ := outputFrom(ctx)

	if t.YAML {
		err = lang.TokensYAML(ctx, out, tokens, t.Indent)
		if err != nil {
			return ErrYAMLMarshal.Wrap(err)
		}

		return nil
	}

	err = lang.FormatTokens(out, tokens, makeTheme(out).highlight())
	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
