package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/snek/cli/cmd/repl"
	"github.com/ardnew/snek/log"
)

// Repl starts an interactive session.
type Repl struct {
	History   string `help:"History file (default: ${cache}/history.utf8)." placeholder:"PATH" type:"path"`
	NoHistory bool   `help:"Do not read or write a history file."`

	Script string `arg:"" help:"Script to run before the first prompt." name:"script" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg := repl.Config{
		HistoryPath: r.historyPath(ctx),
		Logger:      log.Default(),
		Options:     parseOptionsFrom(ctx),
	}

	var src *script

	if r.Script != "" && r.Script != stdinSource {
		src, err = readScript(ctx, r.Script)
		if err != nil {
			return err
		}

		cfg.Source = strings.NewReader(src.text)
		cfg.Name = src.name
	}

	log.DebugContext(ctx, "starting repl",
		slog.String("history", cfg.HistoryPath),
		slog.String("script", cfg.Name),
	)

	err = repl.Run(ctx, cfg)
	if err != nil && src != nil {
		return report(ctx, src, err)
	}

	return err
}

// historyPath returns the history file, creating its directory as needed.
// Empty means history is not persisted.
func (r *Repl) historyPath(ctx context.Context) string {
	if r.NoHistory {
		return ""
	}

	path := r.History
	if path == "" {
		ktx := kongContextFrom(ctx)
		if ktx == nil {
			return ""
		}

		cache, ok := ktx.Model.Vars()[CacheIdentifier]
		if !ok || cache == "" {
			return ""
		}

		path = filepath.Join(cache, repl.HistoryFile)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		log.WarnContext(ctx, "history disabled",
			slog.String("path", path),
			slog.Any("error", err),
		)

		return ""
	}

	return path
}
