// Package storage is the object-store abstraction for product media.
//
// Two drivers exist: "local" (filesystem under STORAGE_LOCAL_ROOT) and "s3"
// (AWS S3 or any S3-compatible endpoint). Catalogue code only ever needs to
// turn a stored public URL back into a key and delete it:
//
//	disk := storage.Default()
//	if key, ok := disk.KeyFromURL(product.ImageURL); ok {
//	    _ = disk.Delete(ctx, key)
//	}
package storage

import (
	"context"
	"io"
	"strings"
)

// Disk is one storage backend.
type Disk interface {
	// Put writes r under key.
	Put(ctx context.Context, key string, r io.Reader) error
	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// URL is the public URL for key.
	URL(key string) string
	// KeyFromURL reverses URL. ok is false for URLs this disk did not issue.
	KeyFromURL(url string) (key string, ok bool)
}

// keyFromURL strips baseURL from url when it is a prefix.
func keyFromURL(baseURL, url string) (string, bool) {
	base := strings.TrimRight(baseURL, "/") + "/"
	if base == "/" || !strings.HasPrefix(url, base) {
		return "", false
	}
	key := strings.TrimPrefix(url, base)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}
