package offer

import (
	"encoding/json"

	escrowd "github.com/custodia-labs/escrowd"
	"github.com/custodia-labs/escrowd/coin"
	"github.com/custodia-labs/escrowd/errors"
	"github.com/custodia-labs/escrowd/orm"
)

// BucketName is where we store the offers.
const BucketName = "offer"

// OfferStatus tracks how an offer was settled, if at all.
type OfferStatus uint8

const (
	// StatusActive is the initial state, funds are in custody.
	StatusActive OfferStatus = 1
	// StatusCompleted means the recipient accepted and was paid.
	StatusCompleted OfferStatus = 2
	// StatusCancelled means the creator cancelled and was refunded.
	StatusCancelled OfferStatus = 3
)

func (s OfferStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "invalid"
	}
}

// Validate ensures the status is one of the known values.
func (s OfferStatus) Validate() error {
	switch s {
	case StatusActive, StatusCompleted, StatusCancelled:
		return nil
	default:
		return errors.Wrapf(errors.ErrState, "status %d", s)
	}
}

// MarshalJSON renders the status as its string name.
func (s OfferStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses the string name back to a status.
func (s *OfferStatus) UnmarshalJSON(raw []byte) error {
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return err
	}
	switch name {
	case "active":
		*s = StatusActive
	case "completed":
		*s = StatusCompleted
	case "cancelled":
		*s = StatusCancelled
	default:
		return errors.Wrapf(errors.ErrState, "status %q", name)
	}
	return nil
}

// Offer is a payment locked in custody, waiting for exactly one of two
// settlements.
type Offer struct {
	ID        uint64           `json:"id"`
	Creator   escrowd.Address  `json:"creator"`
	Recipient escrowd.Address  `json:"recipient"`
	Amount    *coin.Amount     `json:"amount"`
	Status    OfferStatus      `json:"status"`
	CreatedAt escrowd.UnixTime `json:"created_at"`
}

var _ orm.Model = (*Offer)(nil)

// Validate ensures the offer is valid.
func (o *Offer) Validate() error {
	if o.ID == 0 {
		return errors.Wrap(errors.ErrEmpty, "id")
	}
	if err := o.Creator.Validate(); err != nil {
		return errors.Wrap(err, "creator")
	}
	if err := o.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if o.Amount == nil || !o.Amount.IsPositive() {
		return errors.Wrap(ErrZeroPayment, "amount")
	}
	if err := o.Status.Validate(); err != nil {
		return errors.Wrap(err, "status")
	}
	if err := o.CreatedAt.Validate(); err != nil {
		return errors.Wrap(err, "created at")
	}
	return nil
}

// Copy makes a deep copy of the offer.
func (o *Offer) Copy() orm.Model {
	return &Offer{
		ID:        o.ID,
		Creator:   o.Creator.Clone(),
		Recipient: o.Recipient.Clone(),
		Amount:    o.Amount.Clone(),
		Status:    o.Status,
		CreatedAt: o.CreatedAt,
	}
}

// Marshal represents the offer as JSON.
func (o *Offer) Marshal() ([]byte, error) {
	return json.Marshal(o)
}

// Unmarshal parses the JSON representation.
func (o *Offer) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, o)
}

// AsOffer extracts an *Offer value or nil from the object.
func AsOffer(obj orm.Object) *Offer {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*Offer)
}

// NewOffer creates an active offer orm.Object under the given key.
func NewOffer(
	key []byte,
	creator escrowd.Address,
	recipient escrowd.Address,
	amount *coin.Amount,
	createdAt escrowd.UnixTime,
) orm.Object {
	id, _ := orm.DecodeSequence(key)
	off := &Offer{
		ID:        id,
		Creator:   creator,
		Recipient: recipient,
		Amount:    amount,
		Status:    StatusActive,
		CreatedAt: createdAt,
	}
	return orm.NewSimpleObj(key, off)
}

// Condition calculates the custody account condition of an offer given
// the key.
func Condition(key []byte) escrowd.Condition {
	return escrowd.NewCondition("offer", "seq", key)
}

var offerSeq = orm.NewSequence(BucketName, orm.SeqID)

// NewBucket initializes an offer bucket with creator and recipient
// indices.
func NewBucket() orm.Bucket {
	proto := orm.NewSimpleObj(nil, new(Offer))
	return orm.NewBucket(BucketName, proto).
		WithIndex("creator", idxCreator, false).
		WithIndex("recipient", idxRecipient, false)
}

func toOffer(obj orm.Object) (*Offer, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	off, ok := obj.Value().(*Offer)
	if !ok {
		return nil, errors.Wrap(errors.ErrHuman, "can only take index of Offer")
	}
	return off, nil
}

func idxCreator(obj orm.Object) ([]byte, error) {
	off, err := toOffer(obj)
	if err != nil {
		return nil, err
	}
	return off.Creator, nil
}

func idxRecipient(obj orm.Object) ([]byte, error) {
	off, err := toOffer(obj)
	if err != nil {
		return nil, err
	}
	return off.Recipient, nil
}
