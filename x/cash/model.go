package cash

import (
	"encoding/json"

	escrowd "github.com/custodia-labs/escrowd"
	"github.com/custodia-labs/escrowd/coin"
	"github.com/custodia-labs/escrowd/errors"
	"github.com/custodia-labs/escrowd/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Set is the value stored per account.
type Set struct {
	Balance *coin.Amount `json:"balance"`
}

var _ orm.Model = (*Set)(nil)

// Validate requires the balance to be a well formed, non-negative amount.
func (s *Set) Validate() error {
	if s.Balance == nil {
		return errors.Wrap(errors.ErrEmpty, "balance")
	}
	return s.Balance.Validate()
}

// Copy makes a new set with the same balance.
func (s *Set) Copy() orm.Model {
	return &Set{Balance: s.Balance.Clone()}
}

// Marshal represents the set as JSON.
func (s *Set) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal parses the JSON representation.
func (s *Set) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, s)
}

// Wallet is the actual object that we want to pass around
// in our code. It contains a balance, as well as the
// address. It is connected to the Bucket to easily manipulate
// state.
//
// Wallet is a type-safe wrapper around orm.SimpleObj.
type Wallet struct {
	key   []byte
	value *Set
}

var _ orm.Object = (*Wallet)(nil)

// NewWallet creates an empty wallet with this address.
func NewWallet(key escrowd.Address) *Wallet {
	return &Wallet{
		key:   key,
		value: &Set{Balance: coin.NewAmount(0)},
	}
}

// Value gets the value stored in the object.
func (w Wallet) Value() escrowd.Persistent {
	return w.value
}

// Key returns the key to store the object under.
func (w Wallet) Key() []byte {
	return w.key
}

// Validate makes sure the fields aren't empty.
// And delegates to the value validator.
func (w Wallet) Validate() error {
	if err := escrowd.Address(w.key).Validate(); err != nil {
		return errors.Wrap(err, "wallet key")
	}
	return w.value.Validate()
}

// SetKey may be used to update the wallet address.
func (w *Wallet) SetKey(key []byte) {
	w.key = key
}

// Clone will make a copy of this object.
func (w *Wallet) Clone() orm.Object {
	res := &Wallet{
		value: w.value.Copy().(*Set),
	}
	// only copy key if non-nil
	if len(w.key) > 0 {
		res.key = append([]byte(nil), w.key...)
	}
	return res
}

// Balance returns the amount stored in the wallet.
func (w Wallet) Balance() *coin.Amount {
	return w.value.Balance
}

// Add modifies the wallet balance by the given amount.
func (w *Wallet) Add(a *coin.Amount) {
	w.value.Balance = w.value.Balance.Add(a)
}

// Subtract removes the given amount from the wallet balance.
// Fails with ErrAmount when the balance does not cover it.
func (w *Wallet) Subtract(a *coin.Amount) error {
	diff, err := w.value.Balance.Sub(a)
	if err != nil {
		return err
	}
	w.value.Balance = diff
	return nil
}

// AsWallet safely extracts a Wallet value from the object.
func AsWallet(obj orm.Object) *Wallet {
	if obj == nil {
		return nil
	}
	wal, ok := obj.(*Wallet)
	if !ok {
		return nil
	}
	return wal
}

// Bucket is a type-safe wrapper around orm.Bucket.
type Bucket struct {
	orm.Bucket
}

// NewBucket initializes a cash.Bucket with default name.
func NewBucket() Bucket {
	return Bucket{
		Bucket: orm.NewBucket(BucketName, NewWallet(nil)),
	}
}

// Get returns the wallet at this address, nil when absent.
func (b Bucket) Get(db escrowd.ReadOnlyKVStore, key escrowd.Address) (*Wallet, error) {
	obj, err := b.Bucket.Get(db, key)
	if err != nil {
		return nil, err
	}
	return AsWallet(obj), nil
}

// GetOrCreate returns the wallet at this address, creating an empty
// one when absent.
func (b Bucket) GetOrCreate(db escrowd.ReadOnlyKVStore, key escrowd.Address) (*Wallet, error) {
	wal, err := b.Get(db, key)
	if err == nil && wal == nil {
		wal = NewWallet(key)
	}
	return wal, err
}

// Save persists a wallet.
func (b Bucket) Save(db escrowd.KVStore, wal *Wallet) error {
	return b.Bucket.Save(db, wal)
}
