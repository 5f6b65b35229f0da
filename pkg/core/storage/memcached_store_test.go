package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemCachedStorePersist(t *testing.T) {
	// Persistent store.
	ps := NewMemoryStore()
	// Cached store.
	ts := NewMemCachedStore(ps)
	// Persisting empty store should do nothing.
	c, err := ts.Persist()
	assert.Equal(t, nil, err)
	assert.Equal(t, 0, c)
	// Persisting one key should result in one key in ps and nothing in ts.
	assert.NoError(t, ts.Put([]byte("key"), []byte("value")))
	c, err = ts.Persist()
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, c)
	v, err := ps.Get([]byte("key"))
	assert.Equal(t, nil, err)
	assert.Equal(t, []byte("value"), v)
	v, err = ts.MemoryStore.Get([]byte("key"))
	assert.Equal(t, ErrKeyNotFound, err)
	assert.Equal(t, []byte(nil), v)
	// But the cached store still knows the key.
	v, err = ts.Get([]byte("key"))
	assert.Equal(t, nil, err)
	assert.Equal(t, []byte("value"), v)
	// Delete should be propagated on persist.
	assert.NoError(t, ts.Delete([]byte("key")))
	_, err = ts.Get([]byte("key"))
	assert.Equal(t, ErrKeyNotFound, err)
	c, err = ts.Persist()
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, c)
	_, err = ps.Get([]byte("key"))
	assert.Equal(t, ErrKeyNotFound, err)
}

func TestCachedGetFromPersistent(t *testing.T) {
	key := []byte("key")
	value := []byte("value")
	ps := NewMemoryStore()
	ts := NewMemCachedStore(ps)

	assert.NoError(t, ps.Put(key, value))
	val, err := ts.Get(key)
	assert.Nil(t, err)
	assert.Equal(t, value, val)
	assert.NoError(t, ts.Delete(key))
	val, err = ts.Get(key)
	assert.Equal(t, err, ErrKeyNotFound)
	assert.Nil(t, val)
}

func TestCachedSeek(t *testing.T) {
	var (
		// Given this prefix...
		goodPrefix = []byte{'f'}
		// these pairs should be found...
		lowerKVs = []kvSeen{
			{[]byte("fkey1"), []byte("publicvalue1")},
			{[]byte("fkey2"), []byte("publicvalue2")},
		}
		// and these should be not.
		deletedKVs = []kvSeen{
			{[]byte("fkey3"), []byte("deletedvalue1")},
		}
		// and these should be found too.
		updatedKVs = []kvSeen{
			{[]byte("fkey4"), []byte("updatedvalue1")},
			{[]byte("fkey5"), []byte("updatedvalue2")},
		}
		ps = NewMemoryStore()
		ts = NewMemCachedStore(ps)
	)
	for _, v := range lowerKVs {
		require.NoError(t, ps.Put(v.key, v.val))
	}
	for _, v := range deletedKVs {
		require.NoError(t, ps.Put(v.key, v.val))
		require.NoError(t, ts.Delete(v.key))
	}
	for _, v := range updatedKVs {
		require.NoError(t, ps.Put(v.key, []byte("stale")))
		require.NoError(t, ts.Put(v.key, v.val))
	}
	foundKVs := make(map[string][]byte)
	ts.Seek(goodPrefix, func(k, v []byte) bool {
		foundKVs[string(k)] = slice(v)
		return true
	})
	assert.Equal(t, len(foundKVs), len(lowerKVs)+len(updatedKVs))
	for _, kv := range lowerKVs {
		assert.Equal(t, kv.val, foundKVs[string(kv.key)])
	}
	for _, kv := range deletedKVs {
		_, ok := foundKVs[string(kv.key)]
		assert.Equal(t, false, ok)
	}
	for _, kv := range updatedKVs {
		assert.Equal(t, kv.val, foundKVs[string(kv.key)])
	}
}

func TestCachedSeekOrder(t *testing.T) {
	ps := NewMemoryStore()
	ts := NewMemCachedStore(ps)

	require.NoError(t, ps.Put([]byte("f2"), []byte("a")))
	require.NoError(t, ps.Put([]byte("f4"), []byte("b")))
	require.NoError(t, ts.Put([]byte("f1"), []byte("c")))
	require.NoError(t, ts.Put([]byte("f3"), []byte("d")))
	require.NoError(t, ts.Put([]byte("f5"), []byte("e")))

	var keys []string
	ts.Seek([]byte("f"), func(k, v []byte) bool {
		keys = append(keys, string(k))
		return true
	})
	assert.Equal(t, []string{"f1", "f2", "f3", "f4", "f5"}, keys)
}
