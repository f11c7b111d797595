package offer

import (
	"encoding/json"

	escrowd "github.com/custodia-labs/escrowd"
	"github.com/custodia-labs/escrowd/coin"
	"github.com/custodia-labs/escrowd/errors"
)

var (
	_ escrowd.Msg = (*CreateOfferMsg)(nil)
	_ escrowd.Msg = (*CancelOfferMsg)(nil)
	_ escrowd.Msg = (*AcceptOfferMsg)(nil)
)

// CreateOfferMsg locks the attached payment for the recipient.
type CreateOfferMsg struct {
	Recipient escrowd.Address `json:"recipient"`
	Amount    *coin.Amount    `json:"amount"`
}

// Path returns the routing path for this message.
func (CreateOfferMsg) Path() string {
	return "offer/create"
}

// Validate makes sure that this is sensible. A missing or non-positive
// payment is rejected before any state is touched.
func (m *CreateOfferMsg) Validate() error {
	if m.Amount == nil || !m.Amount.IsPositive() {
		return errors.Wrap(ErrZeroPayment, "amount")
	}
	if err := m.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	return nil
}

// Marshal represents the message as JSON.
func (m *CreateOfferMsg) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Unmarshal parses the JSON representation.
func (m *CreateOfferMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}

// CancelOfferMsg refunds an active offer to its creator.
type CancelOfferMsg struct {
	OfferID uint64 `json:"offer_id"`
}

// Path returns the routing path for this message.
func (CancelOfferMsg) Path() string {
	return "offer/cancel"
}

// Validate is a no-op. An id that was never assigned, zero included,
// surfaces as ErrNoSuchOffer when the offer is looked up.
func (m *CancelOfferMsg) Validate() error {
	return nil
}

// Marshal represents the message as JSON.
func (m *CancelOfferMsg) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Unmarshal parses the JSON representation.
func (m *CancelOfferMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}

// AcceptOfferMsg pays an active offer out to its recipient.
type AcceptOfferMsg struct {
	OfferID uint64 `json:"offer_id"`
}

// Path returns the routing path for this message.
func (AcceptOfferMsg) Path() string {
	return "offer/accept"
}

// Validate is a no-op, see CancelOfferMsg.Validate.
func (m *AcceptOfferMsg) Validate() error {
	return nil
}

// Marshal represents the message as JSON.
func (m *AcceptOfferMsg) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Unmarshal parses the JSON representation.
func (m *AcceptOfferMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, m)
}
