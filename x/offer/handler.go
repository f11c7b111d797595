package offer

import (
	escrowd "github.com/custodia-labs/escrowd"
	"github.com/custodia-labs/escrowd/errors"
	"github.com/custodia-labs/escrowd/orm"
	"github.com/custodia-labs/escrowd/x"
	"github.com/custodia-labs/escrowd/x/cash"
)

// RegisterRoutes will instantiate and register
// all handlers in this package.
func RegisterRoutes(r escrowd.Registry, auth x.Authenticator, control cash.Controller) {
	bucket := NewBucket()

	r.Handle(CreateOfferMsg{}.Path(), CreateOfferHandler{auth, bucket, control})
	r.Handle(CancelOfferMsg{}.Path(), CancelOfferHandler{auth, bucket, control})
	r.Handle(AcceptOfferMsg{}.Path(), AcceptOfferHandler{auth, bucket, control})
}

// CreateOfferHandler locks a payment in custody for the recipient.
type CreateOfferHandler struct {
	auth   x.Authenticator
	bucket orm.Bucket
	bank   cash.Controller
}

var _ escrowd.Handler = CreateOfferHandler{}

// Check just verifies it is properly formed and the caller is known.
func (h CreateOfferHandler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &escrowd.CheckResult{}, nil
}

// Deliver assigns the next offer id, records the offer and moves the
// payment from the creator to the offer custody account. Any failure
// leaves no trace: the dispatcher discards the whole write set.
func (h CreateOfferHandler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	msg, creator, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	key, err := offerSeq.NextVal(db)
	if err != nil {
		return nil, errors.Wrap(err, "cannot acquire key")
	}
	now, err := escrowd.DispatchTime(ctx)
	if err != nil {
		return nil, err
	}

	obj := NewOffer(key, creator, msg.Recipient, msg.Amount, escrowd.AsUnixTime(now))
	if err := h.bucket.Save(db, obj); err != nil {
		return nil, errors.Wrap(err, "cannot store offer")
	}

	// Deposit to the custody account.
	if err := h.bank.MoveCoins(db, creator, Condition(key).Address(), msg.Amount); err != nil {
		return nil, errors.Wrap(err, "fund custody")
	}

	off := AsOffer(obj)
	return &escrowd.DeliverResult{
		Data: key,
		Events: []escrowd.Event{CreateOfferEvent{
			OfferID:   off.ID,
			Creator:   creator,
			Recipient: msg.Recipient,
			Amount:    msg.Amount,
		}},
	}, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h CreateOfferHandler) validate(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*CreateOfferMsg, escrowd.Address, error) {
	var msg CreateOfferMsg
	if err := escrowd.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}

	creator := x.MainActor(ctx, h.auth)
	if creator == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "no caller")
	}
	return &msg, creator, nil
}

// CancelOfferHandler refunds an active offer to its creator.
type CancelOfferHandler struct {
	auth   x.Authenticator
	bucket orm.Bucket
	bank   cash.Controller
}

var _ escrowd.Handler = CancelOfferHandler{}

// Check just verifies all preconditions hold.
func (h CancelOfferHandler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &escrowd.CheckResult{}, nil
}

// Deliver marks the offer cancelled and refunds the caller. The
// authorization check guarantees the caller is the creator, but the
// release deliberately targets the caller.
func (h CancelOfferHandler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	key, off, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	off.Status = StatusCancelled
	if err := h.bucket.Save(db, orm.NewSimpleObj(key, off)); err != nil {
		return nil, errors.Wrap(err, "cannot store offer")
	}

	// Release custody back to the caller.
	if err := h.bank.MoveCoins(db, Condition(key).Address(), caller, off.Amount); err != nil {
		return nil, errors.Wrap(ErrCustodyTransfer, err.Error())
	}

	return &escrowd.DeliverResult{
		Data: key,
		Events: []escrowd.Event{CancelOfferEvent{
			OfferID: off.ID,
			Creator: caller,
			Amount:  off.Amount,
		}},
	}, nil
}

// validate does all common pre-processing between Check and Deliver.
// Precondition order is fixed: existence, then status, then authority.
func (h CancelOfferHandler) validate(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) ([]byte, *Offer, escrowd.Address, error) {
	var msg CancelOfferMsg
	if err := escrowd.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}

	key, off, err := loadOffer(db, h.bucket, msg.OfferID)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := requireActive(off); err != nil {
		return nil, nil, nil, err
	}

	caller := x.MainActor(ctx, h.auth)
	if !off.Creator.Equals(caller) {
		return nil, nil, nil, errors.Wrapf(ErrNotOfferCreator, "caller %s", caller)
	}
	return key, off, caller, nil
}

// AcceptOfferHandler pays an active offer out to its recipient.
type AcceptOfferHandler struct {
	auth   x.Authenticator
	bucket orm.Bucket
	bank   cash.Controller
}

var _ escrowd.Handler = AcceptOfferHandler{}

// Check just verifies all preconditions hold.
func (h AcceptOfferHandler) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &escrowd.CheckResult{}, nil
}

// Deliver marks the offer completed and pays the caller. The
// authorization check guarantees the caller is the recipient, but the
// release deliberately targets the caller.
func (h AcceptOfferHandler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	key, off, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	off.Status = StatusCompleted
	if err := h.bucket.Save(db, orm.NewSimpleObj(key, off)); err != nil {
		return nil, errors.Wrap(err, "cannot store offer")
	}

	// Release custody to the caller.
	if err := h.bank.MoveCoins(db, Condition(key).Address(), caller, off.Amount); err != nil {
		return nil, errors.Wrap(ErrCustodyTransfer, err.Error())
	}

	return &escrowd.DeliverResult{
		Data: key,
		Events: []escrowd.Event{AcceptOfferEvent{
			OfferID:   off.ID,
			Recipient: caller,
			Amount:    off.Amount,
		}},
	}, nil
}

// validate does all common pre-processing between Check and Deliver.
// Precondition order is fixed: existence, then status, then authority.
func (h AcceptOfferHandler) validate(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) ([]byte, *Offer, escrowd.Address, error) {
	var msg AcceptOfferMsg
	if err := escrowd.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}

	key, off, err := loadOffer(db, h.bucket, msg.OfferID)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := requireActive(off); err != nil {
		return nil, nil, nil, err
	}

	caller := x.MainActor(ctx, h.auth)
	if !off.Recipient.Equals(caller) {
		return nil, nil, nil, errors.Wrapf(ErrNotOfferRecipient, "caller %s", caller)
	}
	return key, off, caller, nil
}

func loadOffer(db escrowd.ReadOnlyKVStore, bucket orm.Bucket, id uint64) ([]byte, *Offer, error) {
	if id == 0 {
		return nil, nil, errors.Wrap(ErrNoSuchOffer, "id 0")
	}
	key := orm.EncodeSequence(id)
	obj, err := bucket.Get(db, key)
	if err != nil {
		return nil, nil, errors.Wrap(err, "cannot load offer")
	}
	if obj == nil {
		return nil, nil, errors.Wrapf(ErrNoSuchOffer, "id %d", id)
	}
	return key, AsOffer(obj), nil
}

func requireActive(off *Offer) error {
	switch off.Status {
	case StatusActive:
		return nil
	case StatusCompleted, StatusCancelled:
		return errors.Wrapf(ErrOfferNotActive, "status %s", off.Status)
	default:
		return errors.Wrapf(errors.ErrState, "status %d", off.Status)
	}
}
