package offer

import (
	escrowd "github.com/custodia-labs/escrowd"
	"github.com/custodia-labs/escrowd/errors"
	"github.com/custodia-labs/escrowd/orm"
)

// Queries are read-only views over the offer ledger. They never write
// and report on committed state only.

// LastOfferID returns the highest offer id assigned so far, zero when
// no offer was ever created.
func LastOfferID(db escrowd.ReadOnlyKVStore) (uint64, error) {
	return offerSeq.Latest(db)
}

// OfferByID returns the offer stored under this id, nil when the id
// was never assigned.
func OfferByID(db escrowd.ReadOnlyKVStore, bucket orm.Bucket, id uint64) (*Offer, error) {
	if id == 0 {
		return nil, nil
	}
	obj, err := bucket.Get(db, orm.EncodeSequence(id))
	if err != nil {
		return nil, err
	}
	return AsOffer(obj), nil
}

// UserOffers returns all offers this address ever created, in creation
// order, any status.
func UserOffers(db escrowd.ReadOnlyKVStore, bucket orm.Bucket, creator escrowd.Address) ([]*Offer, error) {
	return indexed(db, bucket, "creator", creator)
}

// UserIncomingOffers returns all offers naming this address as
// recipient, in creation order, any status.
func UserIncomingOffers(db escrowd.ReadOnlyKVStore, bucket orm.Bucket, recipient escrowd.Address) ([]*Offer, error) {
	return indexed(db, bucket, "recipient", recipient)
}

// ActiveOffers returns every offer still awaiting settlement, in id
// order. It walks the full id range, the ledger keeps settled offers
// forever.
func ActiveOffers(db escrowd.ReadOnlyKVStore, bucket orm.Bucket) ([]*Offer, error) {
	last, err := LastOfferID(db)
	if err != nil {
		return nil, err
	}
	var active []*Offer
	for id := uint64(1); id <= last; id++ {
		off, err := OfferByID(db, bucket, id)
		if err != nil {
			return nil, err
		}
		if off == nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "gap at id %d", id)
		}
		if off.Status == StatusActive {
			active = append(active, off)
		}
	}
	return active, nil
}

// UserActiveOffers returns the offers this address created that are
// still active, in creation order.
func UserActiveOffers(db escrowd.ReadOnlyKVStore, bucket orm.Bucket, creator escrowd.Address) ([]*Offer, error) {
	all, err := UserOffers(db, bucket, creator)
	if err != nil {
		return nil, err
	}
	return onlyActive(all), nil
}

// UserIncomingActiveOffers returns the offers naming this address as
// recipient that are still active, in creation order.
func UserIncomingActiveOffers(db escrowd.ReadOnlyKVStore, bucket orm.Bucket, recipient escrowd.Address) ([]*Offer, error) {
	all, err := UserIncomingOffers(db, bucket, recipient)
	if err != nil {
		return nil, err
	}
	return onlyActive(all), nil
}

func indexed(db escrowd.ReadOnlyKVStore, bucket orm.Bucket, index string, addr escrowd.Address) ([]*Offer, error) {
	objs, err := bucket.GetIndexed(db, index, addr)
	if err != nil {
		return nil, err
	}
	offers := make([]*Offer, 0, len(objs))
	for _, obj := range objs {
		offers = append(offers, AsOffer(obj))
	}
	return offers, nil
}

func onlyActive(all []*Offer) []*Offer {
	var active []*Offer
	for _, off := range all {
		if off.Status == StatusActive {
			active = append(active, off)
		}
	}
	return active
}
