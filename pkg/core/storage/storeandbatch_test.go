package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidechain/tide-go/pkg/core/storage/dbconfig"
)

// kvSeen is used to test Seek implementations.
type kvSeen struct {
	key []byte
	val []byte
}

type dbSetup struct {
	name   string
	create func(t *testing.T) Store
}

func testStoreGetNonExistent(t *testing.T, s Store) {
	key := []byte("sparse")

	_, err := s.Get(key)
	assert.Equal(t, err, ErrKeyNotFound)
}

func testStorePutAndGet(t *testing.T, s Store) {
	key := []byte("foo")
	value := []byte("bar")

	require.NoError(t, s.Put(key, value))

	result, err := s.Get(key)
	assert.Nil(t, err)
	require.Equal(t, value, result)
}

func testStorePutBatch(t *testing.T, s Store) {
	var (
		key   = []byte("foo")
		value = []byte("bar")
		batch = s.Batch()
	)
	// Test that key and value are copied when batching.
	keycopy := slice(key)
	valuecopy := slice(value)

	batch.Put(keycopy, valuecopy)
	copy(valuecopy, key)
	copy(keycopy, value)

	require.NoError(t, s.PutBatch(batch))

	newVal, err := s.Get(key)
	assert.Nil(t, err)
	require.Equal(t, value, newVal)
	assert.Equal(t, value, newVal)
}

func testStoreSeek(t *testing.T, s Store) {
	for _, v := range []kvSeen{
		{[]byte("10"), []byte("bar")},
		{[]byte("11"), []byte("bara")},
		{[]byte("20"), []byte("barb")},
		{[]byte("21"), []byte("barc")},
		{[]byte("22"), []byte("bard")},
		{[]byte("30"), []byte("bare")},
		{[]byte("31"), []byte("barf")},
	} {
		require.NoError(t, s.Put(v.key, v.val))
	}

	var res []kvSeen
	s.Seek([]byte("2"), func(k, v []byte) bool {
		res = append(res, kvSeen{slice(k), slice(v)})
		return true
	})
	assert.Equal(t, []kvSeen{
		{[]byte("20"), []byte("barb")},
		{[]byte("21"), []byte("barc")},
		{[]byte("22"), []byte("bard")},
	}, res)

	// Early exit.
	res = res[:0]
	s.Seek([]byte("2"), func(k, v []byte) bool {
		res = append(res, kvSeen{slice(k), slice(v)})
		return false
	})
	assert.Equal(t, []kvSeen{{[]byte("20"), []byte("barb")}}, res)
}

func testStoreDeleteNonExistent(t *testing.T, s Store) {
	key := []byte("sparse")

	assert.NoError(t, s.Delete(key))
}

func testStorePutAndDelete(t *testing.T, s Store) {
	key := []byte("foo")
	value := []byte("bar")

	require.NoError(t, s.Put(key, value))
	require.NoError(t, s.Delete(key))

	_, err := s.Get(key)
	assert.Error(t, err)
	assert.Equal(t, err, ErrKeyNotFound)

	// Double delete.
	require.NoError(t, s.Delete(key))
}

func testStorePutBatchWithDelete(t *testing.T, s Store) {
	var (
		toBeStored = map[string][]byte{
			"foo": []byte("bar"),
			"bar": []byte("baz"),
		}
		deletedInBatch = map[string][]byte{
			"edc": []byte("rfv"),
			"tgb": []byte("yhn"),
		}
		readdedToBatch = map[string][]byte{
			"yhn": []byte("ujm"),
		}
		toBeDeleted = map[string][]byte{
			"qaz": []byte("wsx"),
		}
		toStay = map[string][]byte{
			"key": []byte("val"),
			"faa": []byte("bra"),
		}
	)
	for k, v := range toBeDeleted {
		require.NoError(t, s.Put([]byte(k), v))
	}
	for k, v := range toStay {
		require.NoError(t, s.Put([]byte(k), v))
	}
	batch := s.Batch()
	for k, v := range toBeStored {
		batch.Put([]byte(k), v)
	}
	for k := range toBeDeleted {
		batch.Delete([]byte(k))
	}
	for k, v := range readdedToBatch {
		batch.Put([]byte(k), v)
	}
	for k, v := range deletedInBatch {
		batch.Put([]byte(k), v)
	}
	for k := range deletedInBatch {
		batch.Delete([]byte(k))
	}
	for k, v := range readdedToBatch {
		batch.Put([]byte(k), v)
	}
	require.NoError(t, s.PutBatch(batch))
	toBe := []map[string][]byte{toStay, toBeStored, readdedToBatch}
	notToBe := []map[string][]byte{deletedInBatch, toBeDeleted}
	for _, kvs := range toBe {
		for k, v := range kvs {
			value, err := s.Get([]byte(k))
			assert.Nil(t, err)
			assert.Equal(t, value, v)
		}
	}
	for _, kvs := range notToBe {
		for k := range kvs {
			_, err := s.Get([]byte(k))
			assert.Equal(t, ErrKeyNotFound, err)
		}
	}
}

func newBoltStoreForTesting(t *testing.T) Store {
	s, err := NewBoltDBStore(dbconfig.BoltDBOptions{
		FilePath: filepath.Join(t.TempDir(), "test_bolt_db"),
	})
	require.NoError(t, err)
	return s
}

func newLevelDBForTesting(t *testing.T) Store {
	s, err := NewLevelDBStore(dbconfig.LevelDBOptions{
		DataDirectoryPath: t.TempDir(),
	})
	require.NoError(t, err)
	return s
}

func TestAllDBs(t *testing.T) {
	var tests = []dbSetup{
		{"BoltDB", newBoltStoreForTesting},
		{"LevelDB", newLevelDBForTesting},
		{"Memory", func(t *testing.T) Store { return NewMemoryStore() }},
		{"MemCached", func(t *testing.T) Store { return NewMemCachedStore(NewMemoryStore()) }},
	}
	var tcases = []struct {
		name string
		f    func(*testing.T, Store)
	}{
		{"GetNonExistent", testStoreGetNonExistent},
		{"PutAndGet", testStorePutAndGet},
		{"PutBatch", testStorePutBatch},
		{"Seek", testStoreSeek},
		{"DeleteNonExistent", testStoreDeleteNonExistent},
		{"PutAndDelete", testStorePutAndDelete},
		{"PutBatchWithDelete", testStorePutBatchWithDelete},
	}
	for _, db := range tests {
		for _, tc := range tcases {
			t.Run(db.name+"/"+tc.name, func(t *testing.T) {
				s := db.create(t)
				tc.f(t, s)
				require.NoError(t, s.Close())
			})
		}
	}
}
