package ledger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/redhook/pkg/domain"
)

func TestFileStore_Load(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("missing file", func(t *testing.T) {
		store := NewFileStore(Params{Path: filepath.Join(t.TempDir(), "none.json"), Now: clock})
		rec := store.Load(context.Background())
		assert.NotNil(t, rec)
		assert.Empty(t, rec)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sent.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
		store := NewFileStore(Params{Path: path, Now: clock})
		rec := store.Load(context.Background())
		assert.NotNil(t, rec)
		assert.Empty(t, rec)
	})

	t.Run("expiry and naive timestamps", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sent.json")
		content := map[string]string{
			"recent": now.Add(-6 * 24 * time.Hour).Format(time.RFC3339),
			"old":    now.Add(-8 * 24 * time.Hour).Format(time.RFC3339),
			"naive":  now.In(time.Local).Add(-time.Hour).Format("2006-01-02T15:04:05.000000"),
			"broken": "not a time",
		}
		data, err := json.Marshal(content)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data, 0o600))

		store := NewFileStore(Params{Path: path, Now: clock})
		rec := store.Load(context.Background())
		assert.Len(t, rec, 2)
		assert.True(t, rec.Has("recent"))
		assert.True(t, rec.Has("naive"))
		assert.False(t, rec.Has("old"))
		assert.False(t, rec.Has("broken"))
	})
}

func TestFileStore_SaveLoad(t *testing.T) {
	now := time.Now()
	path := filepath.Join(t.TempDir(), "sent.json")
	store := NewFileStore(Params{Path: path})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domain.SentRecord{"a": now, "b": now.Add(-time.Hour)}))
	require.NoError(t, store.Save(ctx, domain.SentRecord{"b": now}))

	rec := store.Load(ctx)
	assert.Len(t, rec, 1)
	assert.True(t, rec["b"].Equal(now))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n    \"b\": ")

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestFileStore_SaveError(t *testing.T) {
	store := NewFileStore(Params{Path: filepath.Join(t.TempDir(), "missing-dir", "sent.json")})
	err := store.Save(context.Background(), domain.SentRecord{"a": time.Now()})
	require.Error(t, err)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	store, err := Open(ctx, Params{Type: TypeJSON, Path: filepath.Join(t.TempDir(), "sent.json")})
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, store)
	require.NoError(t, store.Close())

	store, err = Open(ctx, Params{Type: TypeSQLite, DSN: "file:" + filepath.Join(t.TempDir(), "l.db") + "?mode=rwc"})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteStore{}, store)
	require.NoError(t, store.Close())

	_, err = Open(ctx, Params{Type: "redis"})
	require.Error(t, err)
}
