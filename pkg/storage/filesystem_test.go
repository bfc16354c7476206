package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveListDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("b.jpg", []byte("b"))
	require.NoError(t, err)
	_, err = store.Save("a.mp4", []byte("aa"))
	require.NoError(t, err)
	_, err = store.Save(".hidden", []byte("x"))
	require.NoError(t, err)

	files, err := store.List()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.mp4", files[0].Name)
	assert.Equal(t, int64(2), files[0].Size)
	assert.True(t, store.Exists("b.jpg"))

	require.NoError(t, store.Delete("b.jpg"))
	assert.False(t, store.Exists("b.jpg"))
	require.NoError(t, store.Delete("missing.jpg"))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Save("../escape.txt", []byte("x"))
	assert.ErrorIs(t, err, ErrOutsideRoot)
	_, err = store.Save("/etc/passwd", []byte("x"))
	assert.ErrorIs(t, err, ErrOutsideRoot)
}

func TestLocalStorageSaveStreamLimit(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	n, err := store.SaveStream("ok.bin", strings.NewReader("12345"), 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	_, err = store.SaveStream("big.bin", strings.NewReader("123456"), 5)
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.False(t, store.Exists("big.bin"))
}

func TestLocalStorageCleanupOlderThan(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	_, err = store.Save("old.json", []byte("{}"))
	require.NoError(t, err)
	_, err = store.Save("new.json", []byte("{}"))
	require.NoError(t, err)
	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "old.json"), past, past))

	deleted, err := store.CleanupOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, []string{"old.json"}, deleted)
	assert.True(t, store.Exists("new.json"))
}
