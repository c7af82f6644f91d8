package pgvector

import (
	"context"
	"fmt"
	"sync"

	"github.com/pgvector/pgvector-go"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// BackendName is reported in IndexInfo.
const BackendName = "pgvector"

// insertBatchSize bounds rows per INSERT during a rebuild.
const insertBatchSize = 500

// VectorIndex stores passages and embeddings in PostgreSQL. A rebuild is one
// transaction, so concurrent readers see the previous content until commit.
type VectorIndex struct {
	db      *gorm.DB
	writeMu sync.Mutex
}

// Open connects to dsn, enables the vector extension and migrates the schema.
func Open(ctx context.Context, dsn string) (*VectorIndex, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pgvector: index.dsn is required")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("pgvector: connect: %w", err)
	}

	v := &VectorIndex{db: db}
	if err := v.migrate(ctx); err != nil {
		v.Close()
		return nil, err
	}
	return v, nil
}

func (v *VectorIndex) migrate(ctx context.Context) error {
	db := v.db.WithContext(ctx)
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("pgvector: enable extension: %w", err)
	}
	if err := db.AutoMigrate(&passageRow{}); err != nil {
		return fmt.Errorf("pgvector: migrate: %w", err)
	}
	return nil
}

// Rebuild replaces all rows with entries inside one transaction.
func (v *VectorIndex) Rebuild(ctx context.Context, entries []domain.IndexEntry) error {
	v.writeMu.Lock()
	defer v.writeMu.Unlock()

	dims := 0
	rows := make([]passageRow, len(entries))
	for i, e := range entries {
		if i == 0 {
			dims = len(e.Vector)
		}
		if len(e.Vector) == 0 || len(e.Vector) != dims {
			return fmt.Errorf("%w: entry %d has %d dimensions, want %d: %w",
				domain.ErrIndexBuildFailed, i, len(e.Vector), dims, domain.ErrDimensionMismatch)
		}
		rows[i] = toRow(i, e)
	}

	err := v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM " + passageRow{}.TableName()).Error; err != nil {
			return fmt.Errorf("clear passages: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(rows, insertBatchSize).Error; err != nil {
			return fmt.Errorf("insert passages: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIndexBuildFailed, err)
	}
	return nil
}

// Search orders by cosine distance, then insertion sequence.
func (v *VectorIndex) Search(ctx context.Context, query []float32, k int) ([]domain.RetrievalHit, error) {
	if k <= 0 {
		return []domain.RetrievalHit{}, nil
	}

	info, err := v.Info(ctx)
	if err != nil {
		return nil, err
	}
	if info.Entries == 0 {
		return []domain.RetrievalHit{}, nil
	}
	if len(query) != info.Dimensions {
		return nil, fmt.Errorf("query has %d dimensions, index has %d: %w",
			len(query), info.Dimensions, domain.ErrDimensionMismatch)
	}

	vec := pgvector.NewVector(query)
	var rows []scoredRow
	err = v.db.WithContext(ctx).
		Model(&passageRow{}).
		Select("*, 1 - (embedding <=> ?) AS score", vec).
		Order(gorm.Expr("embedding <=> ?", vec)).
		Order("seq").
		Limit(k).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("pgvector: search: %w", err)
	}

	hits := make([]domain.RetrievalHit, len(rows))
	for i, r := range rows {
		hits[i] = domain.RetrievalHit{Passage: r.toPassage(), Score: r.Score, Rank: i}
	}
	return hits, nil
}

// Exists reports whether any passage is stored.
func (v *VectorIndex) Exists(ctx context.Context) (bool, error) {
	info, err := v.Info(ctx)
	if err != nil {
		return false, err
	}
	return info.Entries > 0, nil
}

// Info counts rows and reads the stored vector size.
func (v *VectorIndex) Info(ctx context.Context) (domain.IndexInfo, error) {
	var stats struct {
		Entries    int
		Dimensions int
	}
	err := v.db.WithContext(ctx).
		Model(&passageRow{}).
		Select("COUNT(*) AS entries, COALESCE(MAX(vector_dims(embedding)), 0) AS dimensions").
		Scan(&stats).Error
	if err != nil {
		return domain.IndexInfo{}, fmt.Errorf("pgvector: info: %w", err)
	}
	return domain.IndexInfo{Backend: BackendName, Entries: stats.Entries, Dimensions: stats.Dimensions}, nil
}

// Close closes the underlying connection pool.
func (v *VectorIndex) Close() error {
	sqlDB, err := v.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
