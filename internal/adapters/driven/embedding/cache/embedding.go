// Package cache provides an embedding service decorator that memoises vectors.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default cache lifetimes.
const (
	DefaultTTL             = 30 * time.Minute
	DefaultCleanupInterval = 10 * time.Minute
)

// EmbeddingService wraps another embedding service and memoises single-text
// embeddings, so a repeated query costs one provider call.
// Batches bypass the cache; they are only issued by sync.
type EmbeddingService struct {
	next  driven.EmbeddingService
	cache *gocache.Cache
}

// New wraps next with a cache whose entries expire after ttl.
func New(next driven.EmbeddingService, ttl time.Duration) *EmbeddingService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &EmbeddingService{
		next:  next,
		cache: gocache.New(ttl, DefaultCleanupInterval),
	}
}

// Embed returns the cached vector for text, or embeds and stores it.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if x, found := s.cache.Get(text); found {
		return clone(x.([]float32)), nil
	}

	vec, err := s.next.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	s.cache.Set(text, clone(vec), gocache.DefaultExpiration)
	return vec, nil
}

// EmbedBatch delegates to the wrapped service.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	return s.next.EmbedBatch(ctx, texts)
}

// Dimensions returns the wrapped service's dimensions.
func (s *EmbeddingService) Dimensions() int {
	return s.next.Dimensions()
}

// ModelName returns the wrapped service's model name.
func (s *EmbeddingService) ModelName() string {
	return s.next.ModelName()
}

// Ping delegates to the wrapped service.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// Close flushes the cache and closes the wrapped service.
func (s *EmbeddingService) Close() error {
	s.cache.Flush()
	return s.next.Close()
}

func clone(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
