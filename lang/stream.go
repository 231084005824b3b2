package lang

import (
	"io"
	"iter"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

var (
	// globalCache stores top-level definitions keyed by (source_hash:symbol).
	// This allows efficient lookup without re-parsing full programs.
	globalCache sync.Map

	// globalRegistry tracks parse state by source hash.
	globalRegistry sync.Map
)

// state tracks parsing state and the top-level definition list for a source.
type state struct {
	once    sync.Once
	program Program
	defined []string // Symbols bound by top-level define forms
	err     error
}

// Source provides streaming access to a PlotScript program.
// It parses on demand and caches results process-wide by content hash, so
// the same text is parsed at most once per process.
type Source struct {
	reader    io.Reader
	source    string
	sourceKey string
	metadata  *state
}

// NewSource creates a lazily parsed source from an io.Reader.
// The reader will not be consumed until first program access.
func NewSource(r io.Reader) *Source {
	var p Source

	p.reader = r
	p.metadata = new(state)

	return &p
}

// NewSourceFromString creates a lazily parsed source from program text.
func NewSourceFromString(source string) *Source {
	// Create source key (hash) for caching - using xxhash3 for performance
	hash := xxh3.Hash([]byte(source))
	sourceKey := strconv.FormatUint(hash, 36)

	// Get or create metadata entry
	entry := new(state)
	value, _ := globalRegistry.LoadOrStore(sourceKey, entry)
	metadata, ok := value.(*state)
	if !ok {
		metadata = entry
	}

	return &Source{
		source:    source,
		sourceKey: sourceKey,
		metadata:  metadata,
	}
}

// ensureParsed ensures the source has been read and parsed.
// This extracts and caches top-level definitions on first access.
func (p *Source) ensureParsed() error {
	p.metadata.once.Do(func() {
		// Read source if from reader
		if p.source == "" && p.reader != nil {
			// Wrap reader with async read-ahead for concurrent I/O.
			// This allows data to be pre-fetched while we process previous chunks.
			ra := readahead.NewReader(p.reader)
			defer ra.Close()

			data, err := io.ReadAll(ra)
			if err != nil {
				p.metadata.err = ErrReadInput.Wrap(err).
					With(slog.String("source", "reader"))

				return
			}

			p.source = string(data)

			// Generate source key - using xxhash3 for performance
			hash := xxh3.Hash(data)
			p.sourceKey = strconv.FormatUint(hash, 36)
		}

		program, err := ParseProgram(p.source)
		if err != nil {
			p.metadata.err = WrapError(err).With(
				slog.Int("source_length", len(p.source)),
			)

			return
		}

		p.metadata.program = program

		// Cache each top-level definition individually and track symbols
		for _, e := range program {
			name, ok := definitionName(e)
			if !ok {
				continue
			}

			p.metadata.defined = append(p.metadata.defined, name)
			cacheKey := p.sourceKey + ":" + name
			globalCache.Store(cacheKey, e)
		}
	})

	return p.metadata.err
}

// definitionName reports the symbol bound by a top-level define form.
func definitionName(e Expression) (string, bool) {
	if e.head.Kind() != KindSymbol || e.head.Symbol() != "define" {
		return "", false
	}

	if len(e.tail) != 2 || e.tail[0].head.Kind() != KindSymbol ||
		len(e.tail[0].tail) != 0 {
		return "", false
	}

	return e.tail[0].head.Symbol(), true
}

// Program returns the complete parsed program.
// The result is a deep copy; the cached tree is never shared with callers.
func (p *Source) Program() (Program, error) {
	err := p.ensureParsed()
	if err != nil {
		return nil, err
	}

	return p.metadata.program.Clone(), nil
}

// Definition retrieves a top-level define form by the symbol it binds.
// Returns an error if parsing fails or the symbol is not defined.
func (p *Source) Definition(name string) (Expression, error) {
	err := p.ensureParsed()
	if err != nil {
		return NoneExpression(), err
	}

	cacheKey := p.sourceKey + ":" + name
	if value, ok := globalCache.Load(cacheKey); ok {
		if e, ok := value.(Expression); ok {
			return e.Clone(), nil
		}
	}

	return NoneExpression(), ErrUnboundSymbol.
		With(slog.String("symbol", name))
}

// Definitions returns an iterator over top-level define forms, keyed by the
// symbol each binds, in program order.
// If parsing fails, the iterator yields no values.
func (p *Source) Definitions() iter.Seq2[string, Expression] {
	return func(yield func(string, Expression) bool) {
		err := p.ensureParsed()
		if err != nil {
			return
		}

		for _, id := range p.metadata.defined {
			cacheKey := p.sourceKey + ":" + id
			if value, ok := globalCache.Load(cacheKey); ok {
				if e, ok := value.(Expression); ok {
					if !yield(id, e.Clone()) {
						return
					}
				}
			}
		}
	}
}

// Functional-style interfaces for direct use without creating a Source
// instance.

// ReadSource drains r through an asynchronous read-ahead buffer and returns
// its contents as program text.
func ReadSource(r io.Reader) (string, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return "", ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	return string(data), nil
}

// ParseReader parses a complete program from an io.Reader.
// The reader is drained through an asynchronous read-ahead buffer.
func ParseReader(r io.Reader) (Program, error) {
	return NewSource(r).Program()
}

// DefinitionsFrom returns an iterator over top-level define forms from an
// io.Reader.
func DefinitionsFrom(r io.Reader) iter.Seq2[string, Expression] {
	return NewSource(r).Definitions()
}

// ClearCache removes all cached programs and source metadata.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
	globalRegistry.Clear()
}
