package driving

import (
	"context"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// SyncOrchestrator rebuilds the vector index from the data directory.
type SyncOrchestrator interface {
	// Sync performs a full rebuild and reports what was indexed.
	// Trigger names the caller for the sync history.
	Sync(ctx context.Context, trigger string) (*domain.SyncResult, error)

	// Status returns the current sync status.
	Status() domain.SyncStatus

	// History returns recent sync runs, newest first.
	History(ctx context.Context, limit int) ([]domain.SyncRun, error)
}
