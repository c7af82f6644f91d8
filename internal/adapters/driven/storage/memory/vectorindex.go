package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
	"github.com/campusnotice/noticeagent/internal/logger"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// BackendName is reported in IndexInfo when no snapshot store is attached.
const BackendName = "memory"

// snapshot is one immutable generation of index content.
type snapshot struct {
	entries []domain.IndexEntry
	unit    [][]float32 // L2-normalised copies of the entry vectors
	dims    int
}

// VectorIndex is a brute-force cosine similarity index held in memory.
// Searches are lock-free; rebuilds are serialised.
type VectorIndex struct {
	current atomic.Pointer[snapshot]
	writeMu sync.Mutex

	store   driven.IndexSnapshotStore
	meta    driven.IndexMeta
	backend string
}

// Option configures a VectorIndex.
type Option func(*VectorIndex)

// WithSnapshotStore persists every rebuild to store before it becomes visible.
// meta records the embedding model and dimensions the snapshot was built with.
func WithSnapshotStore(store driven.IndexSnapshotStore, meta driven.IndexMeta, backend string) Option {
	return func(v *VectorIndex) {
		v.store = store
		v.meta = meta
		v.backend = backend
	}
}

// NewVectorIndex creates an empty index.
func NewVectorIndex(opts ...Option) *VectorIndex {
	v := &VectorIndex{backend: BackendName}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Restore loads the persisted snapshot, if any. A snapshot built with a
// different model or dimension is ignored so the next sync rebuilds it.
func (v *VectorIndex) Restore(ctx context.Context) error {
	if v.store == nil {
		return nil
	}

	meta, entries, err := v.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load index snapshot: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}
	if v.meta.Model != "" && meta.Model != v.meta.Model {
		logger.Warn("Stored index was built with model %q, configured model is %q; run sync to rebuild", meta.Model, v.meta.Model)
		return nil
	}
	if v.meta.Dimensions != 0 && meta.Dimensions != v.meta.Dimensions {
		logger.Warn("Stored index has %d dimensions, expected %d; run sync to rebuild", meta.Dimensions, v.meta.Dimensions)
		return nil
	}

	snap, err := newSnapshot(entries)
	if err != nil {
		logger.Warn("Stored index is inconsistent (%v); run sync to rebuild", err)
		return nil
	}

	v.writeMu.Lock()
	v.current.Store(snap)
	v.writeMu.Unlock()

	logger.Debug("Restored %d index entries from snapshot", len(entries))
	return nil
}

// Rebuild replaces the entire content with entries.
func (v *VectorIndex) Rebuild(ctx context.Context, entries []domain.IndexEntry) error {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexBuildFailed, err)
	}

	snap, err := newSnapshot(entries)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexBuildFailed, err)
	}
	if v.meta.Dimensions != 0 && snap.dims != 0 && snap.dims != v.meta.Dimensions {
		return fmt.Errorf("%w: vectors have %d dimensions, index expects %d: %w",
			domain.ErrIndexBuildFailed, snap.dims, v.meta.Dimensions, domain.ErrDimensionMismatch)
	}

	if v.store != nil {
		meta := v.meta
		meta.Dimensions = snap.dims
		if err := v.store.Replace(ctx, meta, snap.entries); err != nil {
			return fmt.Errorf("%w: persist snapshot: %w", domain.ErrIndexBuildFailed, err)
		}
	}

	v.current.Store(snap)
	return nil
}

// newSnapshot copies entries and validates that all vectors share one dimension.
func newSnapshot(entries []domain.IndexEntry) (*snapshot, error) {
	snap := &snapshot{
		entries: make([]domain.IndexEntry, len(entries)),
		unit:    make([][]float32, len(entries)),
	}
	for i, e := range entries {
		if len(e.Vector) == 0 {
			return nil, fmt.Errorf("entry %d (%s) has no vector", i, e.Passage.ID)
		}
		if i == 0 {
			snap.dims = len(e.Vector)
		} else if len(e.Vector) != snap.dims {
			return nil, fmt.Errorf("entry %d has %d dimensions, want %d: %w",
				i, len(e.Vector), snap.dims, domain.ErrDimensionMismatch)
		}
		vec := make([]float32, len(e.Vector))
		copy(vec, e.Vector)
		snap.entries[i] = domain.IndexEntry{Vector: vec, Passage: e.Passage}
		snap.unit[i] = normalizeL2(vec)
	}
	return snap, nil
}

// Search returns up to k hits by descending cosine similarity.
func (v *VectorIndex) Search(ctx context.Context, query []float32, k int) ([]domain.RetrievalHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap := v.current.Load()
	if snap == nil || len(snap.entries) == 0 || k <= 0 {
		return []domain.RetrievalHit{}, nil
	}
	if len(query) != snap.dims {
		return nil, fmt.Errorf("query has %d dimensions, index has %d: %w",
			len(query), snap.dims, domain.ErrDimensionMismatch)
	}

	q := normalizeL2(query)
	order := make([]int, len(snap.entries))
	scores := make([]float64, len(snap.entries))
	for i := range snap.entries {
		order[i] = i
		scores[i] = dot(q, snap.unit[i])
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	hits := make([]domain.RetrievalHit, k)
	for rank, idx := range order[:k] {
		hits[rank] = domain.RetrievalHit{
			Passage: snap.entries[idx].Passage,
			Score:   scores[idx],
			Rank:    rank,
		}
	}
	return hits, nil
}

// Exists reports whether the index holds any entries.
func (v *VectorIndex) Exists(_ context.Context) (bool, error) {
	snap := v.current.Load()
	return snap != nil && len(snap.entries) > 0, nil
}

// Info describes the current content.
func (v *VectorIndex) Info(_ context.Context) (domain.IndexInfo, error) {
	info := domain.IndexInfo{Backend: v.backend}
	if snap := v.current.Load(); snap != nil {
		info.Entries = len(snap.entries)
		info.Dimensions = snap.dims
	}
	return info, nil
}

// Close releases resources.
func (v *VectorIndex) Close() error {
	return nil
}
