package storage

// MemCachedStore is a wrapper around a persistent store that caches all
// changes being made for them to be later flushed in one batch.
type MemCachedStore struct {
	MemoryStore

	// Persistent Store.
	ps Store
}

type (
	// KeyValue represents a key-value pair.
	KeyValue struct {
		Key   []byte
		Value []byte

		Exists bool
	}

	// MemBatch represents a changeset to be persisted.
	MemBatch struct {
		Put     []KeyValue
		Deleted []KeyValue
	}
)

// NewMemCachedStore creates a new MemCachedStore object.
func NewMemCachedStore(lower Store) *MemCachedStore {
	return &MemCachedStore{
		MemoryStore: *NewMemoryStore(),
		ps:          lower,
	}
}

// Get implements the Store interface.
func (s *MemCachedStore) Get(key []byte) ([]byte, error) {
	s.mut.RLock()
	defer s.mut.RUnlock()
	k := string(key)
	if val, ok := s.mem[k]; ok {
		return val, nil
	}
	if _, ok := s.del[k]; ok {
		return nil, ErrKeyNotFound
	}
	return s.ps.Get(key)
}

// GetBatch returns the currently accumulated changeset.
func (s *MemCachedStore) GetBatch() *MemBatch {
	s.mut.RLock()
	defer s.mut.RUnlock()

	var b MemBatch

	b.Put = make([]KeyValue, 0, len(s.mem))
	for k, v := range s.mem {
		key := []byte(k)
		_, err := s.ps.Get(key)
		b.Put = append(b.Put, KeyValue{Key: key, Value: v, Exists: err == nil})
	}

	b.Deleted = make([]KeyValue, 0, len(s.del))
	for k := range s.del {
		key := []byte(k)
		_, err := s.ps.Get(key)
		b.Deleted = append(b.Deleted, KeyValue{Key: key, Exists: err == nil})
	}

	return &b
}

// Seek implements the Store interface. It merges cached changes with the
// persistent layer keeping the ascending key order, skipping deleted and
// overridden items.
func (s *MemCachedStore) Seek(key []byte, f func(k, v []byte) bool) {
	s.mut.RLock()
	defer s.mut.RUnlock()

	done := false
	memRes := make([]KeyValue, 0)
	s.MemoryStore.seek(key, func(k, v []byte) bool {
		memRes = append(memRes, KeyValue{Key: k, Value: v})
		return true
	})
	var i int
	s.ps.Seek(key, func(k, v []byte) bool {
		elem := string(k)
		if _, ok := s.del[elem]; ok {
			return true
		}
		if _, ok := s.mem[elem]; ok {
			return true
		}
		// Merge: emit every cached item sorted before k first.
		for i < len(memRes) && string(memRes[i].Key) < elem {
			if !f(memRes[i].Key, memRes[i].Value) {
				done = true
				return false
			}
			i++
		}
		if !f(k, v) {
			done = true
			return false
		}
		return true
	})
	for !done && i < len(memRes) {
		if !f(memRes[i].Key, memRes[i].Value) {
			break
		}
		i++
	}
}

// Persist flushes all the MemoryStore contents into the (supposedly)
// persistent store ps. The number of persisted keys is returned.
func (s *MemCachedStore) Persist() (int, error) {
	s.mut.Lock()
	defer s.mut.Unlock()

	keys := len(s.mem) + len(s.del)
	if keys == 0 {
		return 0, nil
	}

	batch := s.ps.Batch()
	for k, v := range s.mem {
		batch.Put([]byte(k), v)
	}
	for k := range s.del {
		batch.Delete([]byte(k))
	}

	err := s.ps.PutBatch(batch)
	if err == nil {
		s.mem = make(map[string][]byte)
		s.del = make(map[string]bool)
	}
	return keys, err
}

// Close implements the Store interface, clears up memory and closes the
// lower layer Store.
func (s *MemCachedStore) Close() error {
	// It's always successful.
	_ = s.MemoryStore.Close()
	return s.ps.Close()
}
