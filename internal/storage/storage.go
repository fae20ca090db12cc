// Package storage saves uploaded images and maps them to public URLs.
package storage

import (
	"coffee_platform/internal/domain" // Validation errors
	"context"                         // Request context
	"io"                              // Upload reading
	"mime/multipart"                  // Multipart file headers
	"path"                            // URL paths
	"strings"                         // Prefix handling

	"github.com/gabriel-vasile/mimetype" // Content sniffing
)

// Folders uploads are grouped under
const (
	FolderUsers      = "users"
	FolderShopLogos  = "shops/logos"
	FolderShopCovers = "shops/covers"
	FolderProducts   = "products"
	MaxImageBytes    = 5 << 20
)

var allowedImages = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// Store persists files and serves them under a public URL
type Store interface {
	// Save writes data as folder/name and returns its public URL
	Save(ctx context.Context, folder, name string, img *Image) (string, error)
	// Delete removes the file behind a URL returned by Save; unknown URLs are ignored
	Delete(ctx context.Context, url string) error
}

// Image is a sniffed upload
type Image struct {
	Data        []byte
	ContentType string
	Ext         string
}

// FileName names the stored file after the owning entity
func (img *Image) FileName(id uint) string {
	return formatID(id) + img.Ext
}

// ReadImage loads an uploaded file and accepts it only if its content is an image
func ReadImage(fh *multipart.FileHeader) (*Image, error) {
	if fh.Size > MaxImageBytes {
		return nil, domain.Invalid("Image must not exceed 5 MB.")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxImageBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxImageBytes {
		return nil, domain.Invalid("Image must not exceed 5 MB.")
	}
	return DetectImage(data)
}

// DetectImage sniffs data and rejects anything that is not an allowed image type
func DetectImage(data []byte) (*Image, error) {
	mt := mimetype.Detect(data)
	for _, allowed := range allowedImages {
		if mt.Is(allowed) {
			return &Image{Data: data, ContentType: mt.String(), Ext: mt.Extension()}, nil
		}
	}
	return nil, domain.Invalid("Only JPEG, PNG, WEBP or GIF images are allowed.")
}

// Replace deletes the previous file, if any, and saves img named after id
func Replace(ctx context.Context, s Store, folder string, id uint, previous string, img *Image) (string, error) {
	if previous != "" {
		if err := s.Delete(ctx, previous); err != nil {
			return "", err
		}
	}
	return s.Save(ctx, folder, img.FileName(id), img)
}

// keyFromURL strips the public base from url, reporting false for foreign URLs
func keyFromURL(base, url string) (string, bool) {
	prefix := strings.TrimSuffix(base, "/") + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := path.Clean(strings.TrimPrefix(url, prefix))
	if key == "." || strings.HasPrefix(key, "../") || key == ".." {
		return "", false
	}
	return key, true
}

func publicURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + key
}
