package storage

import (
	"context"
	"errors"
	"fmt"
)

// Purge deletes every url that disk issued. URLs from elsewhere are skipped.
// All deletions are attempted; the joined error reports the failures.
func Purge(ctx context.Context, disk Disk, urls []string) (deleted int, err error) {
	var errs []error
	for _, u := range urls {
		key, ok := disk.KeyFromURL(u)
		if !ok {
			continue
		}
		if delErr := disk.Delete(ctx, key); delErr != nil {
			errs = append(errs, fmt.Errorf("purge %s: %w", u, delErr))
			continue
		}
		deleted++
	}
	return deleted, errors.Join(errs...)
}
