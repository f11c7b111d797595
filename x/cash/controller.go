package cash

import (
	escrowd "github.com/custodia-labs/escrowd"
	"github.com/custodia-labs/escrowd/coin"
	"github.com/custodia-labs/escrowd/errors"
)

// Controller is the functionality needed by other handlers to move
// funds around. This interface is the only contact point that code
// outside of this package should use.
type Controller interface {
	// MoveCoins moves the given amount from src to dest.
	// If src doesn't exist, or doesn't have sufficient
	// funds, it fails.
	MoveCoins(db escrowd.KVStore, src, dest escrowd.Address, amount *coin.Amount) error

	// IssueCoins adds the given amount to the destination address,
	// minting new funds. Used to seed accounts.
	IssueCoins(db escrowd.KVStore, dest escrowd.Address, amount *coin.Amount) error

	// Balance returns the amount held at the given address.
	// A missing wallet reports zero.
	Balance(db escrowd.ReadOnlyKVStore, addr escrowd.Address) (*coin.Amount, error)
}

// CashController is the standard implementation of the Controller
// interface, operating on the cash bucket.
type CashController struct {
	bucket Bucket
}

var _ Controller = CashController{}

// NewController returns a base CashController.
func NewController() CashController {
	return CashController{bucket: NewBucket()}
}

// MoveCoins moves the given amount from src to dest.
func (c CashController) MoveCoins(db escrowd.KVStore, src, dest escrowd.Address, amount *coin.Amount) error {
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "non-positive transfer")
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return err
	}
	if sender == nil {
		return errors.Wrapf(errors.ErrEmpty, "no account %s", src)
	}

	// a transfer to self only has to prove solvency
	if src.Equals(dest) {
		if sender.Balance().Cmp(amount) < 0 {
			return errors.ErrAmount.Newf("insufficient: %s < %s", sender.Balance(), amount)
		}
		return nil
	}

	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	if err := sender.Subtract(amount); err != nil {
		return err
	}
	recipient.Add(amount)

	// save them and return
	if err := c.bucket.Save(db, sender); err != nil {
		return err
	}
	return c.bucket.Save(db, recipient)
}

// IssueCoins attempts to add the given amount of funds to
// the destination address.
func (c CashController) IssueCoins(db escrowd.KVStore, dest escrowd.Address, amount *coin.Amount) error {
	if !amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "non-positive issue")
	}

	recipient, err := c.bucket.GetOrCreate(db, dest)
	if err != nil {
		return err
	}
	recipient.Add(amount)
	return c.bucket.Save(db, recipient)
}

// Balance returns the amount held at the given address.
func (c CashController) Balance(db escrowd.ReadOnlyKVStore, addr escrowd.Address) (*coin.Amount, error) {
	wal, err := c.bucket.Get(db, addr)
	if err != nil {
		return nil, err
	}
	if wal == nil {
		return coin.NewAmount(0), nil
	}
	return wal.Balance().Clone(), nil
}
