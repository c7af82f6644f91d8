package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
	"github.com/campusnotice/noticeagent/internal/core/ports/driving"
	"github.com/campusnotice/noticeagent/internal/logger"
)

// Ensure SyncOrchestrator implements the interface.
var _ driving.SyncOrchestrator = (*SyncOrchestrator)(nil)

// historyKeep is how many sync runs are retained in history.
const historyKeep = 100

// SyncOrchestrator rebuilds the vector index from the data directory.
// Every sync is a full rebuild: discover, normalise, chunk, embed, swap.
type SyncOrchestrator struct {
	connector driven.Connector
	registry  driven.NormaliserRegistry
	pipeline  driven.PostProcessorPipeline
	embedder  driven.EmbeddingService
	index     driven.VectorIndex

	// Optional collaborators.
	lock      driven.SyncLock
	history   driven.SyncHistoryStore
	batchSize int
	now       func() time.Time

	// running is held for the duration of a sync.
	running sync.Mutex

	mu     sync.RWMutex
	status domain.SyncStatus
}

// SyncOption configures a SyncOrchestrator.
type SyncOption func(*SyncOrchestrator)

// WithBatchSize sets how many passages are embedded per request.
func WithBatchSize(n int) SyncOption {
	return func(o *SyncOrchestrator) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithSyncLock serialises syncs with other processes sharing the data directory.
func WithSyncLock(lock driven.SyncLock) SyncOption {
	return func(o *SyncOrchestrator) {
		o.lock = lock
	}
}

// WithSyncHistory records every sync attempt.
func WithSyncHistory(store driven.SyncHistoryStore) SyncOption {
	return func(o *SyncOrchestrator) {
		o.history = store
	}
}

// NewSyncOrchestrator creates a new sync orchestrator.
func NewSyncOrchestrator(
	connector driven.Connector,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	opts ...SyncOption,
) *SyncOrchestrator {
	o := &SyncOrchestrator{
		connector: connector,
		registry:  registry,
		pipeline:  pipeline,
		embedder:  embedder,
		index:     index,
		batchSize: domain.DefaultBatchSize,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Sync performs a full rebuild of the index.
// Returns domain.ErrSyncInProgress if another sync holds the lock, and
// domain.ErrNoDocumentsFound if nothing usable was discovered. On any
// failure the previous index content stays active.
func (o *SyncOrchestrator) Sync(ctx context.Context, trigger string) (*domain.SyncResult, error) {
	if !o.running.TryLock() {
		return nil, domain.ErrSyncInProgress
	}
	defer o.running.Unlock()

	if o.lock != nil {
		ok, err := o.lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire sync lock: %w", err)
		}
		if !ok {
			return nil, domain.ErrSyncInProgress
		}
		defer func() {
			if err := o.lock.Unlock(); err != nil {
				logger.Warn("release sync lock: %v", err)
			}
		}()
	}

	o.mu.Lock()
	o.status.Running = true
	o.mu.Unlock()

	started := o.now()
	logger.Section("Sync")
	logger.Info("Starting sync (trigger: %s)", trigger)

	result, err := o.rebuild(ctx)
	ended := o.now()
	if result != nil {
		result.StartedAt = started
		result.Duration = ended.Sub(started)
	}

	o.finish(ended, result, err)
	o.record(ctx, trigger, started, ended, result, err)

	if err != nil {
		logger.Error("Sync failed: %v", err)
		return nil, err
	}
	logger.Info("Sync complete: %d documents, %d passages, %d skipped",
		result.Documents, result.Passages, result.Skipped)
	return result, nil
}

// Status returns the current sync status.
func (o *SyncOrchestrator) Status() domain.SyncStatus {
	o.mu.RLock()
	defer o.mu.RUnlock()

	status := o.status
	if status.LastResult != nil {
		last := *status.LastResult
		status.LastResult = &last
	}
	return status
}

// History returns recent sync runs, newest first.
// Returns nil when no history store is configured.
func (o *SyncOrchestrator) History(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	if o.history == nil {
		return nil, nil
	}
	return o.history.Recent(ctx, limit)
}

// rebuild runs the pipeline and swaps the new entries into the index.
func (o *SyncOrchestrator) rebuild(ctx context.Context) (*domain.SyncResult, error) {
	if err := o.connector.Validate(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNoDocumentsFound, err)
	}

	result := &domain.SyncResult{}
	passages, err := o.collect(ctx, result)
	if err != nil {
		return nil, err
	}
	if result.Documents == 0 || len(passages) == 0 {
		return nil, domain.ErrNoDocumentsFound
	}

	entries, err := o.embed(ctx, passages)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexBuildFailed, err)
	}

	if err := o.index.Rebuild(ctx, entries); err != nil {
		return nil, fmt.Errorf("rebuild index: %w", err)
	}

	result.Passages = len(entries)
	return result, nil
}

// collect drains the connector, normalising and chunking each document.
// Per-file failures are counted as skipped and do not stop the sync.
//
//nolint:gocognit // Drains two channels until both are closed
func (o *SyncOrchestrator) collect(ctx context.Context, result *domain.SyncResult) ([]domain.Passage, error) {
	docsCh, errsCh := o.connector.FullSync(ctx)

	var passages []domain.Passage
	for docsCh != nil || errsCh != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()

		case err, ok := <-errsCh:
			if !ok {
				errsCh = nil
				continue
			}
			logger.Warn("Skipping file: %v", err)
			result.Skipped++

		case raw, ok := <-docsCh:
			if !ok {
				docsCh = nil
				continue
			}
			docPassages, ok := o.process(ctx, &raw)
			if !ok {
				result.Skipped++
				continue
			}
			result.Documents++
			switch raw.SourceType {
			case domain.SourceTypeOfficialNotice:
				result.OfficialNotices++
			case domain.SourceTypeDynamicUpdate:
				result.DynamicUpdates++
			}
			passages = append(passages, docPassages...)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return passages, nil
}

// process turns one raw document into passages.
// Returns false if the document could not be used.
func (o *SyncOrchestrator) process(ctx context.Context, raw *domain.RawDocument) ([]domain.Passage, bool) {
	normalised, err := o.registry.Normalise(ctx, raw)
	if err != nil {
		logger.Warn("Skipping %s: %v", raw.Origin, err)
		return nil, false
	}

	doc := &normalised.Document
	if doc.IsEmpty() {
		logger.Debug("Skipping %s: no extractable text", raw.Origin)
		return nil, false
	}

	passages, err := o.pipeline.Process(ctx, doc)
	if err != nil {
		logger.Warn("Skipping %s: %v", raw.Origin, err)
		return nil, false
	}
	if len(passages) == 0 {
		return nil, false
	}

	logger.Debug("%s: %d passages", raw.Origin, len(passages))
	return passages, true
}

// embed generates vectors for passages in batches, preserving order.
func (o *SyncOrchestrator) embed(ctx context.Context, passages []domain.Passage) ([]domain.IndexEntry, error) {
	entries := make([]domain.IndexEntry, 0, len(passages))

	for start := 0; start < len(passages); start += o.batchSize {
		end := min(start+o.batchSize, len(passages))
		batch := passages[start:end]

		texts := make([]string, len(batch))
		for i := range batch {
			texts[i] = batch[i].Content
		}

		vectors, err := o.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed passages %d-%d: %w", start, end, err)
		}
		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("embed passages %d-%d: got %d vectors", start, end, len(vectors))
		}

		for i := range batch {
			entries = append(entries, domain.IndexEntry{Vector: vectors[i], Passage: batch[i]})
		}
		logger.Debug("Embedded %d/%d passages", end, len(passages))
	}

	return entries, nil
}

// finish updates the status snapshot after a sync attempt.
func (o *SyncOrchestrator) finish(ended time.Time, result *domain.SyncResult, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.status.Running = false
	o.status.LastSync = ended
	if err != nil {
		o.status.LastError = err.Error()
		return
	}
	o.status.LastError = ""
	o.status.LastResult = result
}

// record stores the attempt in sync history. Failures are logged only.
func (o *SyncOrchestrator) record(
	ctx context.Context,
	trigger string,
	started, ended time.Time,
	result *domain.SyncResult,
	syncErr error,
) {
	if o.history == nil {
		return
	}

	run := &domain.SyncRun{
		Trigger:   trigger,
		StartedAt: started,
		EndedAt:   ended,
		Success:   syncErr == nil,
	}
	if syncErr != nil {
		run.Error = syncErr.Error()
	}
	if result != nil {
		run.Documents = result.Documents
		run.Passages = result.Passages
	}

	// The sync context may already be cancelled; history is still wanted.
	ctx = context.WithoutCancel(ctx)
	if err := o.history.Record(ctx, run); err != nil {
		logger.Warn("record sync run: %v", err)
		return
	}
	if err := o.history.Prune(ctx, historyKeep); err != nil {
		logger.Warn("prune sync history: %v", err)
	}
}
