package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreBasicOps(t *testing.T) {
	db := MemStore()

	k, v := []byte("french"), []byte("fry")

	has, err := db.Has(k)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, db.Set(k, v))

	got, err := db.Get(k)
	require.NoError(t, err)
	assert.Equal(t, v, got)

	require.NoError(t, db.Delete(k))
	got, err = db.Get(k)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCacheWrapWriteAndDiscard(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("a"), []byte("1")))

	// discarded writes never reach the parent
	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("2")))
	require.NoError(t, cache.Delete([]byte("a")))
	cache.Discard()

	got, err := db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)
	got, err = db.Get([]byte("b"))
	require.NoError(t, err)
	assert.Nil(t, got)

	// written caches land atomically
	cache = db.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("2")))
	require.NoError(t, cache.Delete([]byte("a")))
	require.NoError(t, cache.Write())

	got, err = db.Get([]byte("a"))
	require.NoError(t, err)
	assert.Nil(t, got)
	got, err = db.Get([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), got)
}

func TestCacheWrapShadowsParentReads(t *testing.T) {
	db := MemStore()
	require.NoError(t, db.Set([]byte("k"), []byte("parent")))

	cache := db.CacheWrap()
	got, err := cache.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("parent"), got)

	require.NoError(t, cache.Set([]byte("k"), []byte("cache")))
	got, err = cache.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("cache"), got)

	require.NoError(t, cache.Delete([]byte("k")))
	got, err = cache.Get([]byte("k"))
	require.NoError(t, err)
	assert.Nil(t, got)

	has, err := cache.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, has)
}

func iterKeys(t *testing.T, it Iterator) []string {
	t.Helper()
	var keys []string
	for it.Valid() {
		keys = append(keys, string(it.Key()))
		if err := it.Next(); err != nil {
			t.Fatalf("next: %+v", err)
		}
	}
	it.Close()
	return keys
}

func TestIteratorMergesOverlayAndParent(t *testing.T) {
	db := MemStore()
	for _, k := range []string{"a", "c", "e"} {
		require.NoError(t, db.Set([]byte(k), []byte("base")))
	}

	cache := db.CacheWrap()
	require.NoError(t, cache.Set([]byte("b"), []byte("new")))  // insert between
	require.NoError(t, cache.Set([]byte("c"), []byte("over"))) // overwrite
	require.NoError(t, cache.Delete([]byte("e")))              // shadow delete

	it, err := cache.Iterator(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, iterKeys(t, it))

	rit, err := cache.ReverseIterator(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, iterKeys(t, rit))

	// the overwritten value must come from the overlay
	it, err = cache.Iterator([]byte("c"), []byte("d"))
	require.NoError(t, err)
	require.True(t, it.Valid())
	assert.Equal(t, []byte("over"), it.Value())
	it.Close()
}

func TestIteratorRange(t *testing.T) {
	db := MemStore()
	for _, k := range []string{"1", "2", "3", "4"} {
		require.NoError(t, db.Set([]byte(k), []byte(k)))
	}

	// end is exclusive
	it, err := db.Iterator([]byte("2"), []byte("4"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "3"}, iterKeys(t, it))
}
