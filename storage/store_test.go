package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestWriteAtomic_ReplacesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "doc.json")

	require.NoError(t, WriteAtomic(path, strings.NewReader("first")))
	require.NoError(t, WriteAtomic(path, strings.NewReader("second")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no staging files are left behind")
	assert.Equal(t, "doc.json", entries[0].Name())
}

func TestWriteAtomic_FailureKeepsOldContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	err := WriteAtomic(path, failingReader{})
	require.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, IsStagingFile(e.Name()), "staging file %s left behind", e.Name())
	}
}

func TestLocalStorage(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	t.Run("save", func(t *testing.T) {
		path, err := store.Save("a/b.txt", strings.NewReader("hello"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(store.BasePath(), "a", "b.txt"), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello", string(data))
	})

	t.Run("save json", func(t *testing.T) {
		path, err := store.SaveJSON("list.json", []string{"a.jpg", "b.jpg"})
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "[\n  \"a.jpg\",\n  \"b.jpg\"\n]\n", string(data))
	})

	t.Run("paths outside the base are rejected", func(t *testing.T) {
		_, err := store.GetFullPath("../escape.txt")
		assert.ErrorIs(t, err, ErrOutsideBase)

		_, err = store.Save("/etc/passwd", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrOutsideBase)

		inside := filepath.Join(store.BasePath(), "ok.txt")
		full, err := store.GetFullPath(inside)
		require.NoError(t, err)
		assert.Equal(t, inside, full)
	})

	t.Run("delete missing file", func(t *testing.T) {
		assert.NoError(t, store.Delete("never-existed.txt"))
	})

	t.Run("delete", func(t *testing.T) {
		_, err := store.Save("gone.txt", strings.NewReader("x"))
		require.NoError(t, err)
		require.NoError(t, store.Delete("gone.txt"))
		assert.NoFileExists(t, filepath.Join(store.BasePath(), "gone.txt"))

		assert.ErrorIs(t, store.Delete("../outside.txt"), ErrOutsideBase)
	})
}

func TestIsStagingFile(t *testing.T) {
	assert.True(t, IsStagingFile(".doc.json.1234.tmp"))
	assert.False(t, IsStagingFile("doc.json"))
	assert.False(t, IsStagingFile("notes.tmp"))
}
