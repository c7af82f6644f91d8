package sqlite

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestStore opens a store in a temporary directory.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func TestNewStore_CreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	store, err := NewStore(dir)
	require.NoError(t, err)
	defer store.Close()

	assert.Equal(t, filepath.Join(dir, DatabaseFile), store.Path())
	assert.FileExists(t, store.Path())
}

func TestNewStore_ReopenKeepsSchema(t *testing.T) {
	dir := t.TempDir()

	first, err := NewStore(dir)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := NewStore(dir)
	require.NoError(t, err)
	defer second.Close()

	var version int
	require.NoError(t, second.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 3, version)
}

func TestMigrate_SkipsAppliedAndUnnumbered(t *testing.T) {
	store := setupTestStore(t)

	fsys := fstest.MapFS{
		"004_extra.up.sql":   {Data: []byte("CREATE TABLE extra (id INTEGER);")},
		"001_index.up.sql":   {Data: []byte("THIS WOULD FAIL;")},
		"readme.up.sql":      {Data: []byte("ALSO INVALID;")},
		"004_extra.down.sql": {Data: []byte("DROP TABLE extra;")},
	}
	require.NoError(t, store.migrate(fsys))

	var name string
	require.NoError(t, store.db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='extra'").Scan(&name))
	assert.Equal(t, "extra", name)
}

func TestMigrate_FailureRollsBack(t *testing.T) {
	store := setupTestStore(t)

	fsys := fstest.MapFS{
		"005_broken.up.sql": {Data: []byte("CREATE TABLE half (id INTEGER); NOT SQL;")},
	}
	require.Error(t, store.migrate(fsys))

	var version int
	require.NoError(t, store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 3, version)
}

func TestFloat32Conversion(t *testing.T) {
	in := []float32{0, 1.5, -2.25, 3.4e38}
	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}
