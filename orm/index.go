package orm

import (
	"bytes"

	escrowd "github.com/custodia-labs/escrowd"
	"github.com/custodia-labs/escrowd/errors"
)

const indexPrefix = "_i."

// Indexer calculates the secondary index key for a given object.
// Returning nil skips the object.
type Indexer func(Object) ([]byte, error)

// Index is a secondary index over some bucket data, keyed by an
// arbitrary value the Indexer computes. The value is one primary key
// (if unique) or a MultiRef set of primary keys.
//
// Indices here only ever grow. Records are never re-indexed under a
// different key and never removed, matching the append-only ledger
// they support.
type Index struct {
	name   string
	id     []byte
	unique bool
	index  Indexer
}

// NewIndex constructs an index named name over a bucket.
// Indexer calculates the index key for an object.
// unique enforces a unique constraint on the index.
func NewIndex(name string, indexer Indexer, unique bool) Index {
	return Index{
		name:   name,
		id:     []byte(indexPrefix + name + ":"),
		index:  indexer,
		unique: unique,
	}
}

// Name returns the name of this index.
func (i Index) Name() string {
	return i.name
}

// IndexKey is the full key we store in the db, including prefix.
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (i Index) IndexKey(key []byte) []byte {
	l := len(i.id)
	out := make([]byte, l+len(key))
	copy(out, i.id)
	copy(out[l:], key)
	return out
}

// Update maintains the reference to the object in the secondary index.
//
// prev == nil means insert. Once inserted, a record may be saved again
// only if its index key is unchanged; anything else is an attempt to
// rewrite history and returns ErrImmutable.
func (i Index) Update(db escrowd.KVStore, prev Object, save Object) error {
	type s struct{ a, b bool }
	sw := s{prev == nil, save == nil}
	switch sw {
	case s{true, true}:
		return errors.Wrap(errors.ErrHuman, "update requires at least one non-nil object")
	case s{true, false}:
		key, err := i.index(save)
		if err != nil {
			return err
		}
		return i.insert(db, key, save.Key())
	case s{false, true}:
		return errors.Wrap(errors.ErrImmutable, "cannot remove from index")
	case s{false, false}:
		return i.keep(prev, save)
	}
	return errors.Wrap(errors.ErrHuman, "you have violated the rules of boolean logic")
}

// keep verifies the update does not move the object under another index key.
func (i Index) keep(prev Object, save Object) error {
	if !bytes.Equal(prev.Key(), save.Key()) {
		return errors.Wrap(errors.ErrImmutable, "cannot modify the primary key of an object")
	}
	oldKey, err := i.index(prev)
	if err != nil {
		return err
	}
	newKey, err := i.index(save)
	if err != nil {
		return err
	}
	if !bytes.Equal(oldKey, newKey) {
		return errors.Wrapf(errors.ErrImmutable, "cannot re-index under %s", i.name)
	}
	return nil
}

func (i Index) insert(db escrowd.KVStore, index []byte, pk []byte) error {
	// don't deal with empty keys
	if len(index) == 0 {
		return nil
	}

	key := i.IndexKey(index)
	cur, err := db.Get(key)
	if err != nil {
		return err
	}

	if i.unique {
		if cur != nil {
			return errors.Wrap(errors.ErrDuplicate, i.name)
		}
		return db.Set(key, pk)
	}

	// otherwise, add one to a list....
	var data = new(MultiRef)
	if cur != nil {
		if err := data.Unmarshal(cur); err != nil {
			return err
		}
	}
	if err := data.Add(pk); err != nil {
		return err
	}
	save, err := data.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, save)
}

// GetAt returns a list of all primary keys that were indexed under the
// given value. May be nil when there are none.
func (i Index) GetAt(db escrowd.ReadOnlyKVStore, index []byte) ([][]byte, error) {
	key := i.IndexKey(index)
	val, err := db.Get(key)
	if err != nil {
		return nil, err
	}
	if val == nil {
		return nil, nil
	}
	if i.unique {
		return [][]byte{val}, nil
	}

	var data MultiRef
	if err := data.Unmarshal(val); err != nil {
		return nil, err
	}
	return data.Refs, nil
}
