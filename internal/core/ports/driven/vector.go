package driven

import (
	"context"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// VectorIndex stores index entries and answers similarity queries.
// It is the only mutable state shared between ingestion and retrieval.
type VectorIndex interface {
	// Rebuild replaces the entire content with entries. Readers observe
	// either the old or the new content, never a mix. On failure the old
	// content stays active and the error wraps domain.ErrIndexBuildFailed.
	Rebuild(ctx context.Context, entries []domain.IndexEntry) error

	// Search returns up to k hits ordered by descending cosine similarity.
	// Equal scores keep insertion order. An empty index returns no hits.
	Search(ctx context.Context, query []float32, k int) ([]domain.RetrievalHit, error)

	// Exists reports whether a non-empty index is available.
	Exists(ctx context.Context) (bool, error)

	// Info describes the current content.
	Info(ctx context.Context) (domain.IndexInfo, error)

	// Close releases resources.
	Close() error
}

// IndexMeta identifies how a persisted snapshot was produced.
type IndexMeta struct {
	// Model is the embedding model name.
	Model string

	// Dimensions is the vector size.
	Dimensions int
}

// IndexSnapshotStore persists the content of an in-memory vector index.
type IndexSnapshotStore interface {
	// Replace atomically replaces the stored snapshot.
	Replace(ctx context.Context, meta IndexMeta, entries []domain.IndexEntry) error

	// Load returns the stored snapshot in insertion order.
	// Returns a zero meta and no entries when nothing is stored.
	Load(ctx context.Context) (IndexMeta, []domain.IndexEntry, error)
}
