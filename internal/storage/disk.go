package storage

import (
	"context"       // Request context
	"errors"        // Error inspection
	"io/fs"         // Not-exist checks
	"os"            // File system
	"path"          // Keys
	"path/filepath" // OS paths
	"strconv"       // ID formatting
)

// DiskStore keeps files below a root directory served statically
type DiskStore struct {
	root    string
	baseURL string
}

// NewDiskStore serves files from root under baseURL, e.g. "public" and "/public"
func NewDiskStore(root, baseURL string) *DiskStore {
	return &DiskStore{root: root, baseURL: baseURL}
}

// Root is the directory files are written to
func (d *DiskStore) Root() string {
	return d.root
}

func (d *DiskStore) Save(ctx context.Context, folder, name string, img *Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := path.Join(folder, name)
	full := filepath.Join(d.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, img.Data, 0o644); err != nil {
		return "", err
	}
	return publicURL(d.baseURL, key), nil
}

func (d *DiskStore) Delete(_ context.Context, url string) error {
	key, ok := keyFromURL(d.baseURL, url)
	if !ok {
		return nil
	}
	err := os.Remove(filepath.Join(d.root, filepath.FromSlash(key)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
