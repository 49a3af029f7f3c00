package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStorage_UploadDownloadDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	path, size, err := store.Upload(context.Background(), "rfq-1", "drawing.pdf", "application/pdf", strings.NewReader("pdf bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(9), size)
	assert.Equal(t, "rfq-1", filepath.Dir(path))
	assert.Equal(t, ".pdf", filepath.Ext(path))

	rc, err := store.Download(context.Background(), path)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(data))

	require.NoError(t, store.Delete(context.Background(), path))
	// Deleting again is a no-op
	require.NoError(t, store.Delete(context.Background(), path))

	_, err = store.Download(context.Background(), path)
	assert.Error(t, err)
}

func TestArchiver_Save(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	archiver := NewArchiver(store, zap.NewNop())
	path, err := archiver.Save(context.Background(), "rfq-9", "spec.xlsx", "application/vnd.ms-excel", []byte{0x1, 0x2})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "rfq-9"))
}
