package offer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	escrowd "github.com/custodia-labs/escrowd"
	"github.com/custodia-labs/escrowd/coin"
	"github.com/custodia-labs/escrowd/escrowdtest"
	"github.com/custodia-labs/escrowd/orm"
	"github.com/custodia-labs/escrowd/store"
	"github.com/custodia-labs/escrowd/x/cash"
)

func TestQueriesEmptyLedger(t *testing.T) {
	db := store.MemStore()
	bucket := NewBucket()

	last, err := LastOfferID(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), last)

	off, err := OfferByID(db, bucket, 1)
	require.NoError(t, err)
	assert.Nil(t, off)

	off, err = OfferByID(db, bucket, 0)
	require.NoError(t, err)
	assert.Nil(t, off)

	active, err := ActiveOffers(db, bucket)
	require.NoError(t, err)
	assert.Empty(t, active)

	mine, err := UserOffers(db, bucket, escrowdtest.RandomAddress())
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestQueries(t *testing.T) {
	var (
		alice = escrowdtest.RandomAddress()
		bob   = escrowdtest.RandomAddress()
		carol = escrowdtest.RandomAddress()
	)

	db := store.MemStore()
	ctrl := cash.NewController()
	bucket := NewBucket()
	require.NoError(t, ctrl.IssueCoins(db, alice, coin.NewAmount(1000)))
	require.NoError(t, ctrl.IssueCoins(db, bob, coin.NewAmount(1000)))

	ctx := escrowdtest.Context()
	createFor := func(creator escrowd.Address, recipient escrowd.Address, amount int64) {
		t.Helper()
		h := CreateOfferHandler{helpers.Authenticate(creator), bucket, ctrl}
		_, err := h.Deliver(ctx, db, escrowdtest.NewTx(&CreateOfferMsg{
			Recipient: recipient,
			Amount:    coin.NewAmount(amount),
		}))
		require.NoError(t, err)
	}

	// id 1: alice -> bob, later cancelled
	// id 2: alice -> carol
	// id 3: bob -> carol, later accepted
	// id 4: alice -> bob
	createFor(alice, bob, 100)
	createFor(alice, carol, 200)
	createFor(bob, carol, 300)
	createFor(alice, bob, 400)

	cancel := CancelOfferHandler{helpers.Authenticate(alice), bucket, ctrl}
	_, err := cancel.Deliver(ctx, db, escrowdtest.NewTx(&CancelOfferMsg{OfferID: 1}))
	require.NoError(t, err)
	accept := AcceptOfferHandler{helpers.Authenticate(carol), bucket, ctrl}
	_, err = accept.Deliver(ctx, db, escrowdtest.NewTx(&AcceptOfferMsg{OfferID: 3}))
	require.NoError(t, err)

	ids := func(offers []*Offer) []uint64 {
		res := make([]uint64, len(offers))
		for i, off := range offers {
			res[i] = off.ID
		}
		return res
	}

	last, err := LastOfferID(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), last)

	// settled offers stay on the ledger
	off, err := OfferByID(db, bucket, 1)
	require.NoError(t, err)
	require.NotNil(t, off)
	assert.Equal(t, StatusCancelled, off.Status)

	all, err := UserOffers(db, bucket, alice)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2, 4}, ids(all))

	incoming, err := UserIncomingOffers(db, bucket, carol)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 3}, ids(incoming))

	active, err := ActiveOffers(db, bucket)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 4}, ids(active))

	mine, err := UserActiveOffers(db, bucket, alice)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 4}, ids(mine))

	incomingActive, err := UserIncomingActiveOffers(db, bucket, bob)
	require.NoError(t, err)
	assert.Equal(t, []uint64{4}, ids(incomingActive))

	incomingActive, err = UserIncomingActiveOffers(db, bucket, carol)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, ids(incomingActive))
}

// Settlements only flip the status, the index sets never shrink.
func TestIndexSetsAreAppendOnly(t *testing.T) {
	var (
		alice = escrowdtest.RandomAddress()
		bob   = escrowdtest.RandomAddress()
	)

	db := store.MemStore()
	ctrl := cash.NewController()
	bucket := NewBucket()
	require.NoError(t, ctrl.IssueCoins(db, alice, coin.NewAmount(100)))

	ctx := escrowdtest.Context()
	create := CreateOfferHandler{helpers.Authenticate(alice), bucket, ctrl}
	_, err := create.Deliver(ctx, db, escrowdtest.NewTx(&CreateOfferMsg{
		Recipient: bob,
		Amount:    coin.NewAmount(100),
	}))
	require.NoError(t, err)

	cancel := CancelOfferHandler{helpers.Authenticate(alice), bucket, ctrl}
	_, err = cancel.Deliver(ctx, db, escrowdtest.NewTx(&CancelOfferMsg{OfferID: 1}))
	require.NoError(t, err)

	refs, err := bucket.IndexRefs(db, "creator", alice)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{orm.EncodeSequence(1)}, refs)

	refs, err = bucket.IndexRefs(db, "recipient", bob)
	require.NoError(t, err)
	assert.Equal(t, [][]byte{orm.EncodeSequence(1)}, refs)
}
