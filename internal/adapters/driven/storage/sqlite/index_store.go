package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
)

// indexSnapshotStore implements driven.IndexSnapshotStore.
type indexSnapshotStore struct {
	store *Store
}

var _ driven.IndexSnapshotStore = (*indexSnapshotStore)(nil)

// Replace swaps the stored snapshot for entries in one transaction.
func (s *indexSnapshotStore) Replace(ctx context.Context, meta driven.IndexMeta, entries []domain.IndexEntry) error {
	return s.store.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM index_entries"); err != nil {
			return fmt.Errorf("clearing index entries: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM index_meta"); err != nil {
			return fmt.Errorf("clearing index meta: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO index_entries (seq, passage_id, document_id, origin, source_type,
				position, start_offset, end_offset, content, vector)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("preparing insert: %w", err)
		}
		defer stmt.Close()

		for i, e := range entries {
			p := e.Passage
			if _, err := stmt.ExecContext(ctx, i, p.ID, p.DocumentID, p.Origin, string(p.SourceType),
				p.Position, p.Start, p.End, p.Content, float32SliceToBytes(e.Vector)); err != nil {
				return fmt.Errorf("inserting entry %d: %w", i, err)
			}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO index_meta (id, model, dimensions, entries, updated_at)
			VALUES (1, ?, ?, ?, ?)
		`, meta.Model, meta.Dimensions, len(entries), time.Now().UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("writing index meta: %w", err)
		}
		return nil
	})
}

// Load returns the stored snapshot ordered by insertion sequence.
func (s *indexSnapshotStore) Load(ctx context.Context) (driven.IndexMeta, []domain.IndexEntry, error) {
	var meta driven.IndexMeta
	var count int

	row := s.store.db.QueryRowContext(ctx, "SELECT model, dimensions, entries FROM index_meta WHERE id = 1")
	if err := row.Scan(&meta.Model, &meta.Dimensions, &count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return driven.IndexMeta{}, nil, nil
		}
		return driven.IndexMeta{}, nil, fmt.Errorf("reading index meta: %w", err)
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT passage_id, document_id, origin, source_type, position,
			start_offset, end_offset, content, vector
		FROM index_entries ORDER BY seq
	`)
	if err != nil {
		return driven.IndexMeta{}, nil, fmt.Errorf("querying index entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.IndexEntry, 0, count)
	for rows.Next() {
		var p domain.Passage
		var sourceType string
		var blob []byte
		if err := rows.Scan(&p.ID, &p.DocumentID, &p.Origin, &sourceType, &p.Position,
			&p.Start, &p.End, &p.Content, &blob); err != nil {
			return driven.IndexMeta{}, nil, fmt.Errorf("scanning index entry: %w", err)
		}
		p.SourceType = domain.SourceType(sourceType)
		entries = append(entries, domain.IndexEntry{Vector: bytesToFloat32Slice(blob), Passage: p})
	}
	if err := rows.Err(); err != nil {
		return driven.IndexMeta{}, nil, fmt.Errorf("iterating index entries: %w", err)
	}

	return meta, entries, nil
}
