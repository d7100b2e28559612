package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalRegistry maps a source key (source hash combined with options hash)
// to the parse result of that source.
var globalRegistry sync.Map

// state holds the parse result for one source key. The body is shared by
// every AST returned for the key and must not be modified.
type state struct {
	once   sync.Once
	body   Block
	source string
	err    error
}

// hashOptions hashes the options that change the parse result.
func hashOptions(opts optionsKey) uint64 {
	return xxh3.HashString("maxDepth=" + strconv.Itoa(opts.maxDepth))
}

// ParseReader parses input from an io.Reader and returns the AST.
// Parse results are cached by content, so reading the same source again
// returns an AST sharing the previously parsed statements.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*AST, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return parseStringCached(ctx, string(data), opts...)
}

// parseStringCached parses a string with caching.
func parseStringCached(
	ctx context.Context,
	source string,
	opts ...Option,
) (*AST, error) {
	ast := new(AST)

	applyDefaults(ast)
	applyOptions(ast, opts...)

	sourceHash := xxh3.HashString(source)
	optsHash := hashOptions(ast.opts)
	sourceKey := strconv.FormatUint(sourceHash^optsHash, 36)

	value, cacheHit := globalRegistry.LoadOrStore(sourceKey, new(state))
	entry := value.(*state) //nolint:forcetypeassert

	ast.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.Int("source_bytes", len(source)),
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", cacheHit),
	)

	entry.once.Do(func() {
		parsed, err := ParseString(ctx, source, opts...)
		if err != nil {
			entry.err = err

			return
		}

		entry.body = parsed.Body
		entry.source = parsed.Source
	})

	if entry.err != nil {
		return nil, entry.err
	}

	ast.Body = entry.body
	ast.Source = entry.source

	return ast, nil
}

// ClearCache removes all cached parse results.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalRegistry.Clear()
}
