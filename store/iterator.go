package store

import (
	"bytes"

	"github.com/google/btree"
)

// ascendRange snapshots the overlay entries within [start, end) in
// ascending order. The slice is taken eagerly; overlays are small (one
// transaction worth of writes) so this is cheap and avoids any concurrent
// mutation concerns.
func ascendRange(bt *btree.BTree, start, end []byte) []btree.Item {
	var items []btree.Item
	collect := func(item btree.Item) bool {
		items = append(items, item)
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	return items
}

// descendRange snapshots the overlay entries within the domain in
// descending order.
func descendRange(bt *btree.BTree, start, end []byte) []btree.Item {
	var items []btree.Item
	collect := func(item btree.Item) bool {
		items = append(items, item)
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Descend(collect)
	case start == nil:
		bt.DescendLessOrEqual(bkeyLess{end}, collect)
	case end == nil:
		bt.DescendGreaterThan(bkeyLess{start}, collect)
	default:
		bt.DescendRange(bkeyLess{end}, bkeyLess{start}, collect)
	}
	return items
}

// source marks where the current item comes from.
type source int32

const (
	us source = iota
	parent
	both
	none
)

// mergeIter combines overlay results with those of the parent store,
// taking into consideration overwrites and deletes.
type mergeIter struct {
	items   []btree.Item
	idx     int
	parent  Iterator
	reverse bool
}

var _ Iterator = (*mergeIter)(nil)

func newMergeIter(items []btree.Item, parent Iterator, reverse bool) (*mergeIter, error) {
	iter := &mergeIter{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
	if err := iter.skipAllDeleted(); err != nil {
		iter.Close()
		return nil, err
	}
	return iter, nil
}

// Valid returns true iff the iterator can be read.
func (i *mergeIter) Valid() bool {
	return i.overlayValid() || i.parentValid()
}

// Next moves the iterator to the next key in iteration order. Panics when
// the iterator is invalid.
func (i *mergeIter) Next() error {
	// advance either us, parent, or both
	switch i.firstKey() {
	case us:
		i.idx++
	case both:
		i.idx++
		fallthrough
	case parent:
		if err := i.parent.Next(); err != nil {
			return err
		}
	default:
		panic("Advanced past the end!")
	}

	// keep advancing over all deleted entries
	return i.skipAllDeleted()
}

// Key returns the key of the cursor.
func (i *mergeIter) Key() []byte {
	switch i.firstKey() {
	case us, both:
		return i.overlay().Key()
	case parent:
		return i.parent.Key()
	default: // none
		panic("Advanced past the end!")
	}
}

// Value returns the value of the cursor.
func (i *mergeIter) Value() []byte {
	switch i.firstKey() {
	case us, both:
		return i.overlay().(setItem).value
	case parent:
		return i.parent.Value()
	default: // none
		panic("Advanced past the end!")
	}
}

// Close releases the Iterator.
func (i *mergeIter) Close() {
	if i.parent != nil {
		i.parent.Close()
	}
	i.items = nil
}

// skipAllDeleted loops and skips any number of deleted items.
func (i *mergeIter) skipAllDeleted() error {
	for {
		skipped, err := i.skipDeleted()
		if err != nil {
			return err
		}
		if !skipped {
			return nil
		}
	}
}

// skipDeleted jumps over one deleted overlay entry, shadowing the parent
// entry of the same key when present. Returns true if it skipped, so the
// caller can try again.
func (i *mergeIter) skipDeleted() (bool, error) {
	src := i.firstKey()
	if src == us || src == both {
		if _, ok := i.overlay().(deletedItem); ok {
			i.idx++
			// if the parent had the same key, advance it as well
			if src == both {
				if err := i.parent.Next(); err != nil {
					return false, err
				}
			}
			return true, nil
		}
	}
	return false, nil
}

// firstKey selects the source with the lowest key (highest when reversed).
func (i *mergeIter) firstKey() source {
	// if only one or none is valid, it is clear which to use
	if !i.parentValid() {
		if !i.overlayValid() {
			return none
		}
		return us
	} else if !i.overlayValid() {
		return parent
	}

	// both are valid, compare keys
	cmp := bytes.Compare(i.parent.Key(), i.overlay().Key())
	if i.reverse {
		cmp = -cmp
	}
	switch {
	case cmp < 0:
		return parent
	case cmp > 0:
		return us
	default:
		return both
	}
}

func (i *mergeIter) overlay() keyer {
	return i.items[i.idx].(keyer)
}

func (i *mergeIter) overlayValid() bool {
	return i.idx < len(i.items)
}

// makes sure the parent is non-nil before checking if it is valid
func (i *mergeIter) parentValid() bool {
	return i.parent != nil && i.parent.Valid()
}
