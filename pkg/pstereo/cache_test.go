package pstereo

import(
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileCacheRoundTrip(t *testing.T) {
	cache := NewFileCache(t.TempDir())

	nf := NewNormalField(2, 1)
	nf.Set(0, 0, 0, 0, 1)
	nf.Set(1, 0, 1, 0, 0)

	require.NoError(t, cache.Store("somekey", nf))

	got, hit := cache.Lookup("somekey")
	require.True(t, hit)
	assert.Equal(t, nf.Width, got.Width)
	assert.Equal(t, nf.Height, got.Height)
	assert.Equal(t, nf.Vecs, got.Vecs)
}

func TestFileCacheMiss(t *testing.T) {
	cache := NewFileCache(t.TempDir())
	_, hit := cache.Lookup("nosuchkey")
	assert.False(t, hit)
}

func TestFileCacheCreatesDir(t *testing.T) {
	dir := t.TempDir() + "/nested/cache"
	cache := NewFileCache(dir)
	require.NoError(t, cache.Store("k", NewNormalField(1, 1)))

	_, hit := cache.Lookup("k")
	assert.True(t, hit)
}
