package orm

import (
	"encoding/binary"
	"fmt"

	escrowd "github.com/custodia-labs/escrowd"
	"github.com/custodia-labs/escrowd/errors"
)

const seqPrefix = "_s."

// Sequence maintains a strictly increasing counter in the database.
// Identifiers start at 1 and are dense: every NextVal call is expected
// to happen inside a transactional cache, so an aborted operation never
// burns a number.
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence for the given bucket and name.
func NewSequence(bucket, name string) Sequence {
	id := fmt.Sprintf("%s%s:%s", seqPrefix, bucket, name)
	return Sequence{id: []byte(id)}
}

// NextVal increments the sequence and returns its state as 8 bytes,
// big-endian. The first returned value encodes 1.
func (s Sequence) NextVal(db escrowd.KVStore) ([]byte, error) {
	_, bz, err := s.increment(db)
	return bz, err
}

// NextInt increments the sequence and returns its state as uint64.
func (s Sequence) NextInt(db escrowd.KVStore) (uint64, error) {
	val, _, err := s.increment(db)
	return val, err
}

// Latest returns the last value handed out, without modifying the
// counter. Zero means the sequence was never used.
func (s Sequence) Latest(db escrowd.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, errors.Wrap(err, "sequence read")
	}
	if raw == nil {
		return 0, nil
	}
	return DecodeSequence(raw)
}

func (s Sequence) increment(db escrowd.KVStore) (uint64, []byte, error) {
	val, err := s.Latest(db)
	if err != nil {
		return 0, nil, err
	}
	val++
	bz := EncodeSequence(val)
	if err := db.Set(s.id, bz); err != nil {
		return 0, nil, errors.Wrap(err, "sequence write")
	}
	return val, bz, nil
}

// EncodeSequence converts a counter value to its 8 byte key form.
func EncodeSequence(val uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, val)
	return bz
}

// DecodeSequence converts the 8 byte key form back to a counter value.
func DecodeSequence(bz []byte) (uint64, error) {
	if len(bz) != 8 {
		return 0, errors.Wrapf(errors.ErrInput, "sequence length %d", len(bz))
	}
	return binary.BigEndian.Uint64(bz), nil
}
