package offer

import (
	"github.com/custodia-labs/escrowd/errors"
)

// Reserved error space for this package is 1010-1020.
var (
	// ErrZeroPayment is returned when creating an offer without a
	// positive payment attached.
	ErrZeroPayment = errors.Register(1010, "offer payment must be more than 0")

	// ErrNoSuchOffer is returned when referencing an offer id that was
	// never assigned.
	ErrNoSuchOffer = errors.Register(1011, "no offer with this id")

	// ErrOfferNotActive is returned when settling an offer that was
	// already settled.
	ErrOfferNotActive = errors.Register(1012, "offer is not active")

	// ErrNotOfferCreator is returned when someone other than the
	// creator tries to cancel an offer.
	ErrNotOfferCreator = errors.Register(1013, "only the offer creator may cancel")

	// ErrNotOfferRecipient is returned when someone other than the
	// recipient tries to accept an offer.
	ErrNotOfferRecipient = errors.Register(1014, "only the offer recipient may accept")

	// ErrCustodyTransfer is returned when moving funds in or out of the
	// offer custody account fails.
	ErrCustodyTransfer = errors.Register(1015, "custody transfer failed")
)
