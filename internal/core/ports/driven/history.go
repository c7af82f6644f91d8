package driven

import (
	"context"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// SyncHistoryStore records sync runs.
type SyncHistoryStore interface {
	// Record stores a finished run.
	Record(ctx context.Context, run *domain.SyncRun) error

	// Recent returns the most recent runs, newest first.
	Recent(ctx context.Context, limit int) ([]domain.SyncRun, error)

	// Prune keeps only the most recent 'keep' runs.
	Prune(ctx context.Context, keep int) error
}
