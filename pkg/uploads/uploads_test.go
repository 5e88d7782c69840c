package uploads

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecureFilename(t *testing.T) {
	tbl := []struct {
		in, out string
	}{
		{"My cool movie.mov", "My_cool_movie.mov"},
		{"../../../etc/passwd", "etc_passwd"},
		{"i contain cool \xfcml\xe4uts.txt", "i_contain_cool_mluts.txt"},
		{"Füße.png", "Fue.png"},
		{"résumé.jpg", "resume.jpg"},
		{"..", ""},
		{"", ""},
		{"  spaced   out .gif", "spaced_out_.gif"},
		{"con.png", "_con.png"},
		{"a\\b\\c.mp4", "a_b_c.mp4"},
		{"we!rd$name.webm", "werdname.webm"},
	}
	for _, tt := range tbl {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.out, SecureFilename(tt.in))
		})
	}
}

func TestExt(t *testing.T) {
	assert.Equal(t, "png", Ext("a.PNG"))
	assert.Equal(t, "gz", Ext("a.tar.gz"))
	assert.Equal(t, "", Ext("noext"))
	assert.Equal(t, "", Ext("trailing."))
}

func TestStore_SaveOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewStore(dir, time.Hour)
	require.NoError(t, err)

	path, err := store.Save("../my cat.png", strings.NewReader("meow"))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(filepath.Base(path), "-my_cat.png"), path)

	rc, err := store.Open(path)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "meow", string(data))

	_, err = store.Save("...", strings.NewReader("x"))
	require.Error(t, err)
}

func TestStore_SaveSameName(t *testing.T) {
	store, err := NewStore(t.TempDir(), time.Hour)
	require.NoError(t, err)

	pathA, err := store.Save("cat.png", strings.NewReader("AAAA"))
	require.NoError(t, err)
	pathB, err := store.Save("cat.png", strings.NewReader("BBBB-other"))
	require.NoError(t, err)
	assert.NotEqual(t, pathA, pathB)

	data, err := os.ReadFile(pathA) //nolint:gosec // test file
	require.NoError(t, err)
	assert.Equal(t, "AAAA", string(data), "second save leaves the first file intact")
}

func TestStore_Remove(t *testing.T) {
	store, err := NewStore(t.TempDir(), time.Hour)
	require.NoError(t, err)

	path, err := store.Save("cat.png", strings.NewReader("x"))
	require.NoError(t, err)
	require.NoError(t, store.Remove(path))
	assert.NoFileExists(t, path)
	require.NoError(t, store.Remove(path), "already removed")
}

func TestStore_Cleanup(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, 24*time.Hour)
	require.NoError(t, err)

	now := time.Now()
	oldPath, err := store.Save("old.png", strings.NewReader("old"))
	require.NoError(t, err)
	require.NoError(t, os.Chtimes(oldPath, now.Add(-25*time.Hour), now.Add(-25*time.Hour)))

	freshPath, err := store.Save("fresh.png", strings.NewReader("fresh"))
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o750))

	removed, err := store.Cleanup(now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, oldPath)
	assert.FileExists(t, freshPath)
	assert.DirExists(t, filepath.Join(dir, "subdir"))
}

func TestJanitor_Run(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, time.Hour)
	require.NoError(t, err)

	path, err := store.Save("stale.mp4", strings.NewReader("x"))
	require.NoError(t, err)
	old := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(path, old, old))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	j := NewJanitor(store, 10*time.Millisecond)
	go func() { done <- j.Run(ctx) }()

	assert.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return os.IsNotExist(err)
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
