package pgvector

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// testDSNEnv names a PostgreSQL database with the vector extension available.
const testDSNEnv = "NOTICEAGENT_TEST_PG_DSN"

func openTestIndex(t *testing.T) *VectorIndex {
	t.Helper()
	dsn := os.Getenv(testDSNEnv)
	if dsn == "" {
		t.Skipf("%s not set", testDSNEnv)
	}
	idx, err := Open(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = idx.Rebuild(context.Background(), nil)
		_ = idx.Close()
	})
	return idx
}

func entry(id string, st domain.SourceType, vec ...float32) domain.IndexEntry {
	return domain.IndexEntry{
		Vector: vec,
		Passage: domain.Passage{
			ID: id, DocumentID: "doc", Origin: id + ".txt", SourceType: st,
			Content: "content " + id, Position: 2, Start: 5, End: 20,
		},
	}
}

func TestRowConversion(t *testing.T) {
	e := entry("p1", domain.SourceTypeDynamicUpdate, 0.5, 0.25)
	row := toRow(7, e)

	assert.Equal(t, int64(7), row.Seq)
	assert.Equal(t, []float32{0.5, 0.25}, row.Embedding.Slice())
	assert.Equal(t, e.Passage, row.toPassage())
	assert.Equal(t, "notice_passages", row.TableName())
}

func TestOpen_RequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), "")
	assert.Error(t, err)
}

func TestVectorIndex_RebuildAndSearch(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Rebuild(ctx, []domain.IndexEntry{
		entry("tie-a", domain.SourceTypeOfficialNotice, 1, 1),
		entry("exact", domain.SourceTypeDynamicUpdate, 1, 0),
		entry("tie-b", domain.SourceTypeOfficialNotice, 2, 2),
	}))

	exists, err := idx.Exists(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	hits, err := idx.Search(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "exact", hits[0].Passage.ID)
	assert.Equal(t, domain.SourceTypeDynamicUpdate, hits[0].Passage.SourceType)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-5)
	assert.Equal(t, "tie-a", hits[1].Passage.ID)
	assert.Equal(t, "tie-b", hits[2].Passage.ID)

	_, err = idx.Search(ctx, []float32{1, 0, 0}, 3)
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	info, err := idx.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.IndexInfo{Backend: BackendName, Entries: 3, Dimensions: 2}, info)
}

func TestVectorIndex_RebuildRejectsMixedDimensions(t *testing.T) {
	idx := openTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.Rebuild(ctx, []domain.IndexEntry{entry("keep", domain.SourceTypeOfficialNotice, 1, 0)}))

	err := idx.Rebuild(ctx, []domain.IndexEntry{
		entry("a", domain.SourceTypeOfficialNotice, 1, 0),
		entry("b", domain.SourceTypeOfficialNotice, 1, 0, 0),
	})
	assert.ErrorIs(t, err, domain.ErrIndexBuildFailed)

	hits, err := idx.Search(ctx, []float32{1, 0}, 5)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "keep", hits[0].Passage.ID)
}
