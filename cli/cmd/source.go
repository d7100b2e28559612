package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/snek/lang"
	"github.com/ardnew/snek/log"
)

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// script is a loaded source file.
type script struct {
	name string // path as opened, or "<stdin>"
	text string
}

// locate resolves a SCRIPT argument to a readable path. Paths that exist
// are used as given. Otherwise each search directory is tried with the name
// as given and with [ScriptExt] appended; names containing a separator are
// only tried relative to the working directory.
func locate(ctx context.Context, arg string) (string, error) {
	candidates := []string{arg}
	if filepath.Ext(arg) != ScriptExt {
		candidates = append(candidates, arg+ScriptExt)
	}

	for _, path := range candidates {
		if isFile(path) {
			return path, nil
		}
	}

	if !strings.ContainsRune(arg, filepath.Separator) && !filepath.IsAbs(arg) {
		for _, dir := range searchPathFrom(ctx) {
			for _, name := range candidates {
				path := filepath.Join(dir, name)
				if isFile(path) {
					log.DebugContext(ctx, "script found in search path",
						slog.String("name", arg),
						slog.String("path", path),
					)

					return path, nil
				}
			}
		}
	}

	return "", ErrScriptNotFound.
		With(slog.String("script", arg)).
		Wrap(fs.ErrNotExist)
}

func isFile(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

// openScript opens the script named by arg.
func openScript(ctx context.Context, arg string) (io.ReadCloser, string, error) {
	if arg == stdinSource || arg == "" {
		return io.NopCloser(os.Stdin), "<stdin>", nil
	}

	path, err := locate(ctx, arg)
	if err != nil {
		return nil, "", err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, "", ErrOpenScript.With(slog.String("path", path)).Wrap(err)
	}

	return file, path, nil
}

// readScript loads the full text of the script named by arg.
func readScript(ctx context.Context, arg string) (*script, error) {
	r, name, err := openScript(ctx, arg)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrOpenScript.With(slog.String("path", name)).Wrap(err)
	}

	return &script{name: name, text: string(data)}, nil
}

// parseScript opens and parses the script named by arg. The text read is
// kept alongside the AST so that errors can be rendered against it.
func parseScript(ctx context.Context, arg string) (*lang.AST, *script, error) {
	r, name, err := openScript(ctx, arg)
	if err != nil {
		return nil, nil, err
	}
	defer r.Close()

	var text bytes.Buffer

	ast, err := lang.ParseReader(ctx, io.TeeReader(r, &text), parseOptionsFrom(ctx)...)
	src := &script{name: name, text: text.String()}

	if err != nil {
		return nil, src, report(ctx, src, err)
	}

	log.DebugContext(ctx, "script parsed",
		slog.String("script", name),
		slog.Int("statements", len(ast.Body)),
	)

	return ast, src, nil
}

// report writes a diagnostic for err to the diagnostic writer and returns
// err wrapped with the script name. Errors that are not located in the
// script are returned unchanged.
func report(ctx context.Context, src *script, err error) error {
	var le *lang.Error
	if !errors.As(err, &le) {
		return err
	}

	if _, ok := le.Span(); !ok {
		return err
	}

	_, errOut := outputFrom(ctx)
	_, _ = fmt.Fprintf(errOut, "%s: %s", src.name, lang.Diagnostic(err, src.text))

	return ErrScript.With(slog.String("script", src.name)).Wrap(err)
}
