package escrowd

// ReadOnlyKVStore is the subset of store functionality that queries need.
// Handlers that only read state should accept this interface.
type ReadOnlyKVStore interface {
	// Get returns nil if the key does not exist.
	Get(key []byte) ([]byte, error)

	// Has checks for existence of a key.
	Has(key []byte) (bool, error)

	// Iterator over a domain of keys in ascending order. End is exclusive.
	// A nil start iterates from the first key, a nil end through the last.
	// CONTRACT: no writes may happen within a domain while an iterator
	// exists over it.
	Iterator(start, end []byte) (Iterator, error)

	// ReverseIterator over a domain of keys in descending order.
	// End is exclusive, same contract as Iterator.
	ReverseIterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write access to a store.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is the complete read-write access to a keyspace. All backing
// stores must implement at least this interface.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter

	// NewBatch returns a batch that can write to this store later.
	NewBatch() Batch
}

// Batch groups writes that are applied together when Write is called.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator walks over a range of keys.
//
//	for ; itr.Valid(); itr.Next() {
//		k, v := itr.Key(), itr.Value()
//	}
//	itr.Close()
type Iterator interface {
	// Valid returns whether the current position holds data. Once
	// invalid, an Iterator is forever invalid.
	Valid() bool

	// Next moves the cursor to the next key in iteration order.
	// Panics when the iterator is invalid.
	Next() error

	// Key returns the key under the cursor. Read-only, valid until Next.
	Key() []byte

	// Value returns the value under the cursor. Read-only, valid until Next.
	Value() []byte

	// Close releases the Iterator.
	Close()
}

// CacheableKVStore is a KVStore that supports cache wrapping. The cache
// wrap works like a database savepoint: all writes are buffered and either
// land together or are discarded together.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap is a scratch pad of uncommitted writes over a parent store.
// Call Write to flush them into the parent, or Discard to drop them.
type KVCacheWrap interface {
	// CacheableKVStore allows recursive wrapping.
	CacheableKVStore

	// Write flushes the buffered writes into the parent store.
	Write() error

	// Discard invalidates this cache wrap and drops all buffered data.
	Discard()
}

// CommitKVStore is a store that persists state durably between process
// restarts.
type CommitKVStore interface {
	CacheableKVStore

	// Close releases the backing resources.
	Close() error
}
