package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	escrowd "github.com/custodia-labs/escrowd"
	"github.com/custodia-labs/escrowd/coin"
	"github.com/custodia-labs/escrowd/errors"
	"github.com/custodia-labs/escrowd/escrowdtest"
	"github.com/custodia-labs/escrowd/store"
	"github.com/custodia-labs/escrowd/x"
	"github.com/custodia-labs/escrowd/x/cash"
	"github.com/custodia-labs/escrowd/x/offer"
)

// writeThenFail writes a key and then errors, to prove the write never
// becomes visible.
type writeThenFail struct {
	err error
}

func (h writeThenFail) Check(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	return &escrowd.CheckResult{}, nil
}

func (h writeThenFail) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	if err := db.Set([]byte("dirty"), []byte("write")); err != nil {
		return nil, err
	}
	if h.err != nil {
		return nil, h.err
	}
	return &escrowd.DeliverResult{
		Events: []escrowd.Event{testEvent{}},
	}, nil
}

type testEvent struct{}

func (testEvent) EventType() string { return "test" }

func TestDispatcherRollsBackOnError(t *testing.T) {
	db := store.MemStore()
	var rec escrowdtest.Recorder
	boom := errors.ErrState.New("halfway")
	d := NewDispatcher(db, writeThenFail{err: boom}, &rec)

	_, err := d.Deliver(escrowdtest.Context(), escrowdtest.NewTx(nil))
	assert.True(t, errors.ErrState.Is(err))

	// the partial write is gone and no event escaped
	bz, err := db.Get([]byte("dirty"))
	require.NoError(t, err)
	assert.Nil(t, bz)
	assert.Empty(t, rec.Events)
}

func TestDispatcherCommitsAndEmits(t *testing.T) {
	db := store.MemStore()
	var rec escrowdtest.Recorder
	d := NewDispatcher(db, writeThenFail{}, &rec)

	_, err := d.Deliver(escrowdtest.Context(), escrowdtest.NewTx(nil))
	require.NoError(t, err)

	bz, err := db.Get([]byte("dirty"))
	require.NoError(t, err)
	assert.Equal(t, []byte("write"), bz)
	assert.Equal(t, []string{"test"}, rec.Types())
}

func TestDispatcherCheckLeavesNoTrace(t *testing.T) {
	db := store.MemStore()
	d := NewDispatcher(db, writeThenFail{}, nil)

	_, err := d.Check(escrowdtest.Context(), escrowdtest.NewTx(nil))
	require.NoError(t, err)

	bz, err := db.Get([]byte("dirty"))
	require.NoError(t, err)
	assert.Nil(t, bz)
}

func TestRouterUnknownPath(t *testing.T) {
	r := NewRouter()
	_, err := r.Deliver(escrowdtest.Context(), store.MemStore(), escrowdtest.NewTx(nil))
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestRecoveryDecorator(t *testing.T) {
	panicker := escrowd.CheckerFunc(func(escrowd.Context, escrowd.KVStore, escrowd.Tx) (*escrowd.CheckResult, error) {
		panic("offer ledger on fire")
	})
	h := ChainDecorators(NewRecovery()).WithHandler(panicHandler{panicker})

	_, err := h.Check(escrowdtest.Context(), store.MemStore(), escrowdtest.NewTx(nil))
	assert.True(t, errors.ErrPanic.Is(err))
}

type panicHandler struct {
	escrowd.Checker
}

func (p panicHandler) Deliver(ctx escrowd.Context, db escrowd.KVStore, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	panic("offer ledger on fire")
}

// A failed create must not burn an offer id: the sequence increment
// lives in the discarded write set.
func TestFailedCreateBurnsNoID(t *testing.T) {
	var (
		alice = escrowdtest.RandomAddress()
		bob   = escrowdtest.RandomAddress()
	)

	db := store.MemStore()
	ctrl := cash.NewController()
	auth := x.CtxAuth{}

	r := NewRouter()
	cash.RegisterRoutes(r, auth, ctrl)
	offer.RegisterRoutes(r, auth, ctrl)

	d := NewDispatcher(db, ChainDecorators(NewRecovery()).WithHandler(r), nil)

	create := func(caller escrowd.Address, amount int64) error {
		ctx := auth.SetCaller(escrowdtest.Context(), caller)
		_, err := d.Deliver(ctx, escrowdtest.NewTx(&offer.CreateOfferMsg{
			Recipient: bob,
			Amount:    coin.NewAmount(amount),
		}))
		return err
	}

	// no funds yet, the create fails
	err := create(alice, 100)
	assert.True(t, errors.ErrEmpty.Is(err), "unexpected error: %+v", err)

	require.NoError(t, ctrl.IssueCoins(db, alice, coin.NewAmount(100)))

	require.NoError(t, create(alice, 100))

	// the first successful create got id 1
	last, err := offer.LastOfferID(db)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), last)
}
