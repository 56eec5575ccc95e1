package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parsed programs keyed by the hash of their source and
// the options that affect parsing. Programs are immutable after parsing, so
// a cached program may be shared by any number of interpreters.
var globalCache sync.Map

// state tracks the parse of a single source.
type state struct {
	once sync.Once
	prog *Program
	err  error
}

// hashOptions encodes the parse-relevant options using gob and hashes them
// with xxh3.
func hashOptions(o options) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	_ = enc.Encode(o.maxDepth)

	return xxh3.Hash(buf.Bytes())
}

// ReadSource reads all of r through a read-ahead buffer and returns it as
// program source.
func ReadSource(r io.Reader) (string, error) {
	// Read ahead asynchronously so I/O overlaps with buffer growth.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return string(data), nil
}

// ParseReader reads all of r and parses it as a program.
// Parsed programs are cached by content, so parsing the same source again
// returns the same *Program without re-parsing.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	source, err := ReadSource(r)
	if err != nil {
		return nil, err
	}

	return ParseCached(ctx, source, opts...)
}

// ParseCached is like [Parse] but returns a previously parsed *Program when
// the same source has already been parsed with equivalent options.
func ParseCached(ctx context.Context, source string, opts ...Option) (*Program, error) {
	o := makeOptions(opts...)

	o.logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(source)),
	)

	return parseCached(ctx, source, o, opts...)
}

// parseCached parses source at most once per (source, options) pair.
func parseCached(
	ctx context.Context,
	source string,
	o options,
	opts ...Option,
) (*Program, error) {
	sourceHash := xxh3.HashString(source)
	optsHash := hashOptions(o)
	sourceKey := strconv.FormatUint(sourceHash^optsHash, 36)

	value, cacheHit := globalCache.LoadOrStore(sourceKey, new(state))

	entry, ok := value.(*state)
	if !ok {
		return nil, ErrReadInput.
			With(slog.String("issue", "invalid entry type in cache"))
	}

	o.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", cacheHit),
	)

	entry.once.Do(func() {
		entry.prog, entry.err = Parse(ctx, source, opts...)
	})

	if entry.err != nil {
		// Failed parses are not cached.
		globalCache.CompareAndDelete(sourceKey, entry)

		return nil, entry.err
	}

	return entry.prog, nil
}

// ClearCache removes all cached programs.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
