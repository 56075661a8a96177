package storage_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	appstorage "portfolio/internal/storage"
	storage "portfolio/internal/storage/filestorage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupFileStorage(t *testing.T) (*storage.LocalFileStorage, string) {
	t.Helper()

	tempDir := t.TempDir()

	fs, err := storage.NewLocalFileStorage(tempDir, "http://test.local/uploads/")
	require.NoError(t, err)

	return fs, tempDir
}

func TestLocalFileStorage_Save(t *testing.T) {
	fs, _ := setupFileStorage(t)
	ctx := context.Background()

	t.Run("successful save", func(t *testing.T) {
		size, err := fs.Save(ctx, strings.NewReader("test content"), "items/1/test.txt", "text/plain")
		require.NoError(t, err)
		assert.Equal(t, int64(12), size)

		// Проверяем содержимое файла
		data, err := os.ReadFile(fs.GetFullPath("items/1/test.txt"))
		require.NoError(t, err)
		assert.Equal(t, "test content", string(data))
	})

	t.Run("save with context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := fs.Save(ctx, strings.NewReader("data"), "items/1/cancelled.txt", "")
		assert.ErrorIs(t, err, context.Canceled)

		_, statErr := os.Stat(fs.GetFullPath("items/1/cancelled.txt"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("path escaping base dir", func(t *testing.T) {
		_, err := fs.Save(ctx, strings.NewReader("x"), "../outside.txt", "")
		assert.Error(t, err)

		_, err = fs.Save(ctx, strings.NewReader("x"), "", "")
		assert.Error(t, err)
	})
}

func TestLocalFileStorage_Delete(t *testing.T) {
	fs, _ := setupFileStorage(t)
	ctx := context.Background()

	t.Run("successful delete", func(t *testing.T) {
		_, err := fs.Save(ctx, bytes.NewBufferString("content"), "to_delete.txt", "")
		require.NoError(t, err)

		require.NoError(t, fs.Delete(ctx, "to_delete.txt"))

		_, err = os.Stat(fs.GetFullPath("to_delete.txt"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("delete non-existent file", func(t *testing.T) {
		err := fs.Delete(ctx, "nonexistent.txt")
		assert.ErrorIs(t, err, appstorage.ErrFileNotFound)
	})
}

func TestLocalFileStorage_URL(t *testing.T) {
	fs, tempDir := setupFileStorage(t)

	assert.Equal(t, "http://test.local/uploads/items/3/a.jpg", fs.URL("items/3/a.jpg"))
	assert.Equal(t, filepath.Join(tempDir, "items/3/a.jpg"), fs.GetFullPath("items/3/a.jpg"))
}

func TestNewLocalFileStorage(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		fs, err := storage.NewLocalFileStorage(filepath.Join(t.TempDir(), "nested"), "/uploads")
		require.NoError(t, err)
		assert.NotNil(t, fs)
	})

	t.Run("invalid directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

		_, err := storage.NewLocalFileStorage(filepath.Join(file, "sub"), "/uploads")
		assert.Error(t, err)
	})
}

func TestConcurrentSaves(t *testing.T) {
	fs, _ := setupFileStorage(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := fs.Save(ctx, strings.NewReader("data"), fmt.Sprintf("concurrent/%d.txt", i), "")
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	entries, err := os.ReadDir(fs.GetFullPath("concurrent"))
	require.NoError(t, err)
	assert.Len(t, entries, 10)
}
