package driven

import (
	"context"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// SchedulerStore keeps the background sync schedule across restarts, so
// a restarted server waits for the next due time instead of syncing at
// once.
type SchedulerStore interface {
	// GetTask returns nil, nil for an unknown ID.
	GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error)

	// SaveTask upserts by ID.
	SaveTask(ctx context.Context, task *domain.ScheduledTask) error

	RecordResult(ctx context.Context, result *domain.TaskResult) error

	// GetTaskHistory lists up to limit results, newest first.
	GetTaskHistory(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error)

	// PruneHistory drops all but the newest keep results of each task.
	PruneHistory(ctx context.Context, keep int) error
}
