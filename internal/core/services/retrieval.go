package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
	"github.com/campusnotice/noticeagent/internal/core/ports/driving"
	"github.com/campusnotice/noticeagent/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// passageSeparator separates rendered passages in the context block.
const passageSeparator = "\n\n---\n\n"

// RetrievalService embeds a query, searches the vector index and renders
// the hits with their provenance labels.
type RetrievalService struct {
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	topK     int
}

// NewRetrievalService creates a retrieval service.
// topK <= 0 uses domain.DefaultTopK.
func NewRetrievalService(embedder driven.EmbeddingService, index driven.VectorIndex, topK int) *RetrievalService {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &RetrievalService{
		embedder: embedder,
		index:    index,
		topK:     topK,
	}
}

// AssembleContext retrieves the top k passages for query and renders them
// in rank order. Returns domain.ErrNoContext when there is no index or
// nothing matched; the query is not embedded when the index is missing.
func (s *RetrievalService) AssembleContext(ctx context.Context, query string, k int) (*domain.AssembledContext, error) {
	if s.index == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if k <= 0 {
		k = s.topK
	}

	exists, err := s.index.Exists(ctx)
	if err != nil {
		return nil, fmt.Errorf("check index: %w", err)
	}
	if !exists {
		return nil, domain.ErrNoContext
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.index.Search(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	if len(hits) == 0 {
		return nil, domain.ErrNoContext
	}

	logger.Debug("Retrieved %d passages for %q", len(hits), query)

	return &domain.AssembledContext{
		Text: renderContext(hits),
		Hits: hits,
	}, nil
}

// renderContext formats hits as "[LABEL Source: origin]\ntext" blocks.
func renderContext(hits []domain.RetrievalHit) string {
	var b strings.Builder
	for i := range hits {
		if i > 0 {
			b.WriteString(passageSeparator)
		}
		p := &hits[i].Passage
		fmt.Fprintf(&b, "[%s Source: %s]\n%s", p.SourceType.Label(), p.Origin, p.Content)
	}
	return b.String()
}
