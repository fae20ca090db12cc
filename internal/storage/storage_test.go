package storage

import (
	"bytes"
	"coffee_platform/internal/domain"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func TestDetectImage(t *testing.T) {
	img, err := DetectImage(pngBytes(t))
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, ".png", img.Ext)
	assert.Equal(t, "7.png", img.FileName(7))

	_, err = DetectImage([]byte("%PDF-1.4 not an image"))
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestDiskStoreReplace(t *testing.T) {
	root := t.TempDir()
	store := NewDiskStore(root, "/public")
	ctx := context.Background()
	img, err := DetectImage(pngBytes(t))
	require.NoError(t, err)

	url, err := Replace(ctx, store, FolderUsers, 3, "", img)
	require.NoError(t, err)
	assert.Equal(t, "/public/users/3.png", url)
	assert.FileExists(t, filepath.Join(root, "users", "3.png"))

	// A stale file with another extension is removed before the new one is written
	stale := filepath.Join(root, "users", "3.jpg")
	require.NoError(t, os.WriteFile(stale, []byte("x"), 0o644))
	url, err = Replace(ctx, store, FolderUsers, 3, "/public/users/3.jpg", img)
	require.NoError(t, err)
	assert.Equal(t, "/public/users/3.png", url)
	assert.NoFileExists(t, stale)
}

func TestDiskStoreDeleteIgnoresForeignURLs(t *testing.T) {
	root := t.TempDir()
	outside := filepath.Join(root, "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))
	store := NewDiskStore(filepath.Join(root, "public"), "/public")

	assert.NoError(t, store.Delete(context.Background(), "https://cdn.example.com/a.png"))
	assert.NoError(t, store.Delete(context.Background(), "/public/../keep.txt"))
	assert.NoError(t, store.Delete(context.Background(), "/public/users/missing.png"))
	assert.FileExists(t, outside)
}
