package orm

import (
	"bytes"
	"encoding/json"

	"github.com/custodia-labs/escrowd/errors"
)

// MultiRef is the set of primary keys stored under one secondary index key.
// References are kept sorted, which for sequence-assigned keys equals
// insertion order. There is no Remove: index sets only grow.
type MultiRef struct {
	Refs [][]byte `json:"refs"`
}

var _ Model = (*MultiRef)(nil)

// NewMultiRef creates a MultiRef with any number of initial references.
func NewMultiRef(refs ...[]byte) (*MultiRef, error) {
	m := new(MultiRef)
	for _, r := range refs {
		if err := m.Add(r); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add inserts this reference in the multiref, keeping the sort order.
// Returns ErrDuplicate if already present.
func (m *MultiRef) Add(ref []byte) error {
	i, found := m.findRef(ref)
	if found {
		return errors.Wrap(errors.ErrDuplicate, "ref already in set")
	}
	// append to end
	if i == len(m.Refs) {
		m.Refs = append(m.Refs, ref)
		return nil
	}
	// or insert in the middle
	m.Refs = append(m.Refs, nil)
	copy(m.Refs[i+1:], m.Refs[i:])
	m.Refs[i] = ref
	return nil
}

// returns (index, found) where found is true if the ref was in the set,
// index is where it is (or where it should be)
func (m *MultiRef) findRef(ref []byte) (int, bool) {
	for i, r := range m.Refs {
		switch bytes.Compare(ref, r) {
		case -1:
			return i, false
		case 0:
			return i, true
		}
	}
	// hit the end, must append
	return len(m.Refs), false
}

// Marshal represents the set as JSON.
func (m *MultiRef) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Unmarshal parses the JSON representation.
func (m *MultiRef) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}

// Copy does a shallow copy of the slice of refs into a new MultiRef.
func (m *MultiRef) Copy() Model {
	refs := make([][]byte, len(m.Refs))
	copy(refs, m.Refs)
	return &MultiRef{Refs: refs}
}

// Validate returns an error on an empty set, which is never persisted.
func (m *MultiRef) Validate() error {
	if len(m.Refs) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no references")
	}
	return nil
}
