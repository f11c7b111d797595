package offer

import (
	escrowd "github.com/custodia-labs/escrowd"
	"github.com/custodia-labs/escrowd/coin"
)

// CreateOfferEvent is published when a new offer takes funds into
// custody.
type CreateOfferEvent struct {
	OfferID   uint64          `json:"offer_id"`
	Creator   escrowd.Address `json:"creator"`
	Recipient escrowd.Address `json:"recipient"`
	Amount    *coin.Amount    `json:"amount"`
}

func (CreateOfferEvent) EventType() string { return "createOffer" }

// CancelOfferEvent is published when an offer is refunded to its
// creator.
type CancelOfferEvent struct {
	OfferID uint64          `json:"offer_id"`
	Creator escrowd.Address `json:"creator"`
	Amount  *coin.Amount    `json:"amount"`
}

func (CancelOfferEvent) EventType() string { return "cancelOffer" }

// AcceptOfferEvent is published when an offer is paid out to its
// recipient.
type AcceptOfferEvent struct {
	OfferID   uint64          `json:"offer_id"`
	Recipient escrowd.Address `json:"recipient"`
	Amount    *coin.Amount    `json:"amount"`
}

func (AcceptOfferEvent) EventType() string { return "acceptOffer" }
