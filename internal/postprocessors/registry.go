package postprocessors

import (
	"fmt"
	"slices"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
	"github.com/campusnotice/noticeagent/internal/postprocessors/chunker"
)

// Builder constructs a stage from its table in config.toml,
// e.g. [pipeline.chunker].
type Builder func(cfg map[string]any) (driven.PostProcessor, error)

// Registry resolves pipeline stage names to builders.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// NewDefaultRegistry creates a registry with the built-in stages.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(chunker.Name, buildChunker)
	return r
}

// Register binds name to builder, replacing any earlier binding.
func (r *Registry) Register(name string, builder Builder) {
	r.builders[name] = builder
}

// Build creates the stage called name.
func (r *Registry) Build(name string, cfg map[string]any) (driven.PostProcessor, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("processor %q: %w", name, domain.ErrUnsupportedType)
	}
	return builder(cfg)
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns the registered stage names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// buildChunker reads chunk_size and overlap, both in runes.
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option
	if size, ok := intValue(cfg, "chunk_size"); ok {
		if size <= 0 {
			return nil, fmt.Errorf("chunker: chunk_size must be positive: %w", domain.ErrInvalidInput)
		}
		opts = append(opts, chunker.WithChunkSize(size))
	}
	if overlap, ok := intValue(cfg, "overlap"); ok {
		opts = append(opts, chunker.WithOverlap(overlap))
	}
	return chunker.New(opts...), nil
}

// intValue reads an integer that TOML or JSON decoding may have widened.
func intValue(cfg map[string]any, key string) (int, bool) {
	switch v := cfg[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
