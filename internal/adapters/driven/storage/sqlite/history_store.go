package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
)

// syncHistoryStore implements driven.SyncHistoryStore.
type syncHistoryStore struct {
	store *Store
}

var _ driven.SyncHistoryStore = (*syncHistoryStore)(nil)

// Record stores a finished run, assigning an ID when missing.
func (s *syncHistoryStore) Record(ctx context.Context, run *domain.SyncRun) error {
	if run == nil {
		return domain.ErrInvalidInput
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_runs (id, trigger_name, started_at, ended_at, success, error, documents, passages)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Trigger,
		run.StartedAt.UTC().Format(timeLayout),
		run.EndedAt.UTC().Format(timeLayout),
		boolToInt(run.Success), nullString(run.Error),
		run.Documents, run.Passages)
	if err != nil {
		return fmt.Errorf("recording sync run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first.
func (s *syncHistoryStore) Recent(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, trigger_name, started_at, ended_at, success, error, documents, passages
		FROM sync_runs ORDER BY started_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sync runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.SyncRun //nolint:prealloc // size unknown from query
	for rows.Next() {
		var run domain.SyncRun
		var startedAt, endedAt string
		var success int
		var errMsg sql.NullString
		if err := rows.Scan(&run.ID, &run.Trigger, &startedAt, &endedAt,
			&success, &errMsg, &run.Documents, &run.Passages); err != nil {
			return nil, fmt.Errorf("scanning sync run: %w", err)
		}
		if run.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, fmt.Errorf("parsing start of sync run %s: %w", run.ID, err)
		}
		if run.EndedAt, err = time.Parse(timeLayout, endedAt); err != nil {
			return nil, fmt.Errorf("parsing end of sync run %s: %w", run.ID, err)
		}
		run.Success = success == 1
		run.Error = errMsg.String
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync runs: %w", err)
	}
	return runs, nil
}

// Prune keeps only the most recent keep runs.
func (s *syncHistoryStore) Prune(ctx context.Context, keep int) error {
	_, err := s.store.db.ExecContext(ctx, `
		DELETE FROM sync_runs WHERE id NOT IN (
			SELECT id FROM sync_runs ORDER BY started_at DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return fmt.Errorf("pruning sync runs: %w", err)
	}
	return nil
}
