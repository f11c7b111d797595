package cash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/escrowd/coin"
	"github.com/custodia-labs/escrowd/errors"
	"github.com/custodia-labs/escrowd/escrowdtest"
	"github.com/custodia-labs/escrowd/store"
	"github.com/custodia-labs/escrowd/x"
)

func TestIssueCoins(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()
	addr := escrowdtest.RandomAddress()

	// fresh account reports zero
	bal, err := ctrl.Balance(db, addr)
	require.NoError(t, err)
	assert.True(t, bal.IsZero())

	require.NoError(t, ctrl.IssueCoins(db, addr, coin.NewAmount(500)))
	require.NoError(t, ctrl.IssueCoins(db, addr, coin.NewAmount(250)))

	bal, err = ctrl.Balance(db, addr)
	require.NoError(t, err)
	assert.True(t, bal.Equals(coin.NewAmount(750)))

	// minting nothing is refused
	err = ctrl.IssueCoins(db, addr, coin.NewAmount(0))
	assert.True(t, errors.ErrAmount.Is(err))
}

func TestMoveCoins(t *testing.T) {
	var (
		alice = escrowdtest.RandomAddress()
		bob   = escrowdtest.RandomAddress()
	)

	cases := map[string]struct {
		funded  int64
		send    int64
		wantErr *errors.Error
		wantSrc int64
		wantDst int64
	}{
		"happy path": {
			funded:  1000,
			send:    400,
			wantSrc: 600,
			wantDst: 400,
		},
		"whole balance": {
			funded:  1000,
			send:    1000,
			wantSrc: 0,
			wantDst: 1000,
		},
		"insufficient funds": {
			funded:  100,
			send:    400,
			wantErr: errors.ErrAmount,
		},
		"non-positive amount": {
			funded:  100,
			send:    0,
			wantErr: errors.ErrAmount,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController()
			if tc.funded > 0 {
				require.NoError(t, ctrl.IssueCoins(db, alice, coin.NewAmount(tc.funded)))
			}

			err := ctrl.MoveCoins(db, alice, bob, coin.NewAmount(tc.send))
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
				return
			}
			require.NoError(t, err)

			src, err := ctrl.Balance(db, alice)
			require.NoError(t, err)
			assert.True(t, src.Equals(coin.NewAmount(tc.wantSrc)))

			dst, err := ctrl.Balance(db, bob)
			require.NoError(t, err)
			assert.True(t, dst.Equals(coin.NewAmount(tc.wantDst)))
		})
	}
}

func TestMoveCoinsMissingAccount(t *testing.T) {
	db := store.MemStore()
	ctrl := NewController()

	err := ctrl.MoveCoins(db, escrowdtest.RandomAddress(), escrowdtest.RandomAddress(), coin.NewAmount(10))
	assert.True(t, errors.ErrEmpty.Is(err))
}

func TestSendHandler(t *testing.T) {
	var (
		alice = escrowdtest.RandomAddress()
		bob   = escrowdtest.RandomAddress()
	)

	db := store.MemStore()
	ctrl := NewController()
	require.NoError(t, ctrl.IssueCoins(db, alice, coin.NewAmount(100)))

	var helpers x.TestHelpers
	h := NewSendHandler(helpers.Authenticate(alice), ctrl)

	tx := escrowdtest.NewTx(&SendMsg{
		Source:      alice,
		Destination: bob,
		Amount:      coin.NewAmount(30),
	})
	ctx := escrowdtest.Context()

	_, err := h.Check(ctx, db, tx)
	require.NoError(t, err)
	_, err = h.Deliver(ctx, db, tx)
	require.NoError(t, err)

	bal, err := ctrl.Balance(db, bob)
	require.NoError(t, err)
	assert.True(t, bal.Equals(coin.NewAmount(30)))

	// bob cannot spend alice's funds
	_, err = h.Deliver(ctx, db, escrowdtest.NewTx(&SendMsg{
		Source:      bob,
		Destination: alice,
		Amount:      coin.NewAmount(5),
	}))
	assert.True(t, errors.ErrUnauthorized.Is(err))
}
