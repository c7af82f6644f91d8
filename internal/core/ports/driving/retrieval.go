package driving

import (
	"context"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// RetrievalService assembles provenance-labelled context for a query.
type RetrievalService interface {
	// AssembleContext retrieves the top k passages for query and renders them.
	// k <= 0 uses the configured default. Returns domain.ErrNoContext when no
	// index is available.
	AssembleContext(ctx context.Context, query string, k int) (*domain.AssembledContext, error)
}
