// Package leveldb implements the durable commit store on top of
// syndtr/goleveldb. All transaction writes reach the disk as a single
// leveldb batch, so a crash can never persist half of a transaction.
package leveldb

import (
	ldb "github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/custodia-labs/escrowd"
	"github.com/custodia-labs/escrowd/errors"
	"github.com/custodia-labs/escrowd/store"
)

// CommitStore is a CommitKVStore backed by a leveldb database.
type CommitStore struct {
	db *ldb.DB
}

var _ escrowd.CommitKVStore = (*CommitStore)(nil)

// NewCommitStore opens (or creates) the database under the given path.
func NewCommitStore(path string) (*CommitStore, error) {
	db, err := ldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %s: %s", path, err)
	}
	return &CommitStore{db: db}, nil
}

// Get returns nil if the key does not exist.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	value, err := s.db.Get(key, nil)
	if err == ldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "get: %s", err)
	}
	return value, nil
}

// Has checks for existence of a key.
func (s *CommitStore) Has(key []byte) (bool, error) {
	has, err := s.db.Has(key, nil)
	if err != nil {
		return false, errors.Wrapf(errors.ErrDatabase, "has: %s", err)
	}
	return has, nil
}

// Set writes a single key. Prefer batches via CacheWrap for anything that
// must be atomic.
func (s *CommitStore) Set(key, value []byte) error {
	if err := s.db.Put(key, value, wopts()); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "put: %s", err)
	}
	return nil
}

// Delete removes a single key.
func (s *CommitStore) Delete(key []byte) error {
	if err := s.db.Delete(key, wopts()); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "delete: %s", err)
	}
	return nil
}

// Iterator over a domain of keys in ascending order. End is exclusive.
func (s *CommitStore) Iterator(start, end []byte) (escrowd.Iterator, error) {
	it := s.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	return newIter(it, false)
}

// ReverseIterator over a domain of keys in descending order.
func (s *CommitStore) ReverseIterator(start, end []byte) (escrowd.Iterator, error) {
	it := s.db.NewIterator(&util.Range{Start: start, Limit: end}, nil)
	return newIter(it, true)
}

// NewBatch returns a batch whose Write lands as one atomic, synced
// leveldb write.
func (s *CommitStore) NewBatch() escrowd.Batch {
	return &batch{db: s.db, b: new(ldb.Batch)}
}

// CacheWrap gives savepoint semantics over the database. Write flushes the
// buffered operations as a single batch.
func (s *CommitStore) CacheWrap() escrowd.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, s.NewBatch(), nil)
}

// Close releases the database handle.
func (s *CommitStore) Close() error {
	return s.db.Close()
}

func wopts() *opt.WriteOptions {
	return &opt.WriteOptions{Sync: true}
}

type batch struct {
	db *ldb.DB
	b  *ldb.Batch
}

var _ escrowd.Batch = (*batch)(nil)

func (b *batch) Set(key, value []byte) error {
	b.b.Put(key, value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	return nil
}

func (b *batch) Write() error {
	if err := b.db.Write(b.b, wopts()); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "write batch: %s", err)
	}
	b.b.Reset()
	return nil
}

// iter adapts the leveldb iterator. The leveldb cursor starts before the
// first entry, our interface starts on it, so the adapter advances once on
// construction (to the last entry when walking backwards).
type iter struct {
	it      iterator.Iterator
	reverse bool
	valid   bool
}

func newIter(it iterator.Iterator, reverse bool) (*iter, error) {
	i := &iter{it: it, reverse: reverse}
	if reverse {
		i.valid = it.Last()
	} else {
		i.valid = it.First()
	}
	if err := it.Error(); err != nil {
		it.Release()
		return nil, errors.Wrapf(errors.ErrDatabase, "iterator: %s", err)
	}
	return i, nil
}

func (i *iter) Valid() bool {
	return i.valid
}

func (i *iter) Next() error {
	if !i.valid {
		panic("Advanced past the end!")
	}
	if i.reverse {
		i.valid = i.it.Prev()
	} else {
		i.valid = i.it.Next()
	}
	if err := i.it.Error(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "iterator: %s", err)
	}
	return nil
}

func (i *iter) Key() []byte {
	return cp(i.it.Key())
}

func (i *iter) Value() []byte {
	return cp(i.it.Value())
}

func (i *iter) Close() {
	i.it.Release()
	i.valid = false
}

// leveldb reuses the returned slices between moves
func cp(src []byte) []byte {
	out := make([]byte, len(src))
	copy(out, src)
	return out
}
