package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ardnew/mung"

	"github.com/ardnew/snek/lang"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type (
	searchPathKey   struct{}
	parseOptionsKey struct{}
	outputKey       struct{}

	output struct {
		out, err io.Writer
	}
)

// WithOutput returns a new context.Context whose commands write results to
// out and diagnostics to errOut instead of stdout and stderr.
func WithOutput(ctx context.Context, out, errOut io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, output{out: out, err: errOut})
}

func outputFrom(ctx context.Context) (out, errOut io.Writer) {
	o, ok := ctx.Value(outputKey{}).(output)
	if !ok {
		return os.Stdout, os.Stderr
	}

	return o.out, o.err
}

// WithParseOptions returns a new context.Context carrying the options used
// by every command that parses a script.
func WithParseOptions(ctx context.Context, opts ...lang.Option) context.Context {
	return context.WithValue(ctx, parseOptionsKey{}, opts)
}

func parseOptionsFrom(ctx context.Context) []lang.Option {
	opts, _ := ctx.Value(parseOptionsKey{}).([]lang.Option)

	return opts
}

// WithSearchPath returns a new context.Context containing the directories
// searched for scripts named without a path.
//
// The include directories come first, followed by the entries of the
// [SearchPathEnv] environment variable. Entries that are not directories are
// dropped, and directories reached through more than one entry (symlinks,
// relative and absolute spellings) are kept only at their first position.
func WithSearchPath(ctx context.Context, include []string) context.Context {
	return context.WithValue(ctx, searchPathKey{}, buildSearchPath(include, os.Getenv(SearchPathEnv)))
}

func searchPathFrom(ctx context.Context) []string {
	dirs, _ := ctx.Value(searchPathKey{}).([]string)

	return dirs
}

func buildSearchPath(include []string, env string) []string {
	delim := string(os.PathListSeparator)

	// mung prepends prefix items one at a time, which would reverse the
	// includes, so they go in front of its result here instead.
	joined := mung.Make(
		mung.WithSubjectItems(env),
		mung.WithDelim(delim),
		mung.WithFilter(isDir),
	).String()

	seen := make(map[fileKey]struct{})

	var dirs []string

	for _, dir := range append(slices.Clone(include), strings.Split(joined, delim)...) {
		if dir == "" {
			continue
		}

		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}

		if key, ok := makeFileKey(info); ok {
			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
		}

		dirs = append(dirs, filepath.Clean(dir))
	}

	return dirs
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// fileKey uniquely identifies a file by its device and inode numbers.
type fileKey struct {
	dev uint64
	ino uint64
}

// makeFileKey creates a fileKey from os.FileInfo.
// Returns false if the underlying Sys() data is not of type *syscall.Stat_t.
func makeFileKey(info os.FileInfo) (key fileKey, ok bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return fileKey{dev: uint64(stat.Dev), ino: stat.Ino}, true //nolint:unconvert
}
