package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDiskLifecycle(t *testing.T) {
	ctx := context.Background()
	d := NewLocalDisk(t.TempDir(), "http://localhost:8080/storage/")

	require.NoError(t, d.Put(ctx, "products/p1/main.jpg", strings.NewReader("img")))
	ok, err := d.Exists(ctx, "products/p1/main.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	url := d.URL("products/p1/main.jpg")
	assert.Equal(t, "http://localhost:8080/storage/products/p1/main.jpg", url)

	key, ok := d.KeyFromURL(url + "?v=2")
	require.True(t, ok)
	assert.Equal(t, "products/p1/main.jpg", key)

	require.NoError(t, d.Delete(ctx, key))
	require.NoError(t, d.Delete(ctx, key), "deleting twice is fine")
	ok, err = d.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeyFromURLRejectsForeignAndTraversal(t *testing.T) {
	d := NewLocalDisk(t.TempDir(), "https://cdn.example.com/media")

	_, ok := d.KeyFromURL("https://other.example.com/media/a.jpg")
	assert.False(t, ok)
	_, ok = d.KeyFromURL("https://cdn.example.com/media/../etc/passwd")
	assert.False(t, ok)
	_, ok = d.KeyFromURL("https://cdn.example.com/media/")
	assert.False(t, ok)
}

func TestPurgeSkipsForeignURLs(t *testing.T) {
	ctx := context.Background()
	d := NewLocalDisk(t.TempDir(), "https://cdn.example.com/media")
	require.NoError(t, d.Put(ctx, "a.jpg", strings.NewReader("a")))
	require.NoError(t, d.Put(ctx, "b.jpg", strings.NewReader("b")))

	n, err := Purge(ctx, d, []string{
		d.URL("a.jpg"),
		"https://elsewhere.example.com/c.jpg",
		d.URL("b.jpg"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
