package app

import (
	"sync"
	"time"

	escrowd "github.com/custodia-labs/escrowd"
	"github.com/custodia-labs/escrowd/errors"
)

// Dispatcher applies transactions to the store, strictly one at a
// time. Every Deliver runs against a cache wrap of the backing store:
// either the whole write set of the transaction is committed, or none
// of it. Events are handed to the emitter only after the commit went
// through.
type Dispatcher struct {
	mu      sync.Mutex
	db      escrowd.CacheableKVStore
	handler escrowd.Handler
	emitter escrowd.Emitter
	now     func() time.Time
}

// NewDispatcher combines the store, the handler stack and the event
// emitter into the transaction processing core.
func NewDispatcher(db escrowd.CacheableKVStore, handler escrowd.Handler, emitter escrowd.Emitter) *Dispatcher {
	if emitter == nil {
		emitter = escrowd.NopEmitter{}
	}
	return &Dispatcher{
		db:      db,
		handler: handler,
		emitter: emitter,
		now:     time.Now,
	}
}

// WithClock replaces the wall clock, for tests.
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

// Check validates the transaction against current state without
// modifying it. The throwaway cache is always discarded.
func (d *Dispatcher) Check(ctx escrowd.Context, tx escrowd.Tx) (*escrowd.CheckResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx = escrowd.WithDispatchTime(ctx, d.now().UTC())
	cache := d.db.CacheWrap()
	defer cache.Discard()

	return d.handler.Check(ctx, cache, tx)
}

// Deliver executes the transaction. On success the write set is
// committed and the events of the result are published. On any error
// the store is untouched and nothing is published.
func (d *Dispatcher) Deliver(ctx escrowd.Context, tx escrowd.Tx) (*escrowd.DeliverResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ctx = escrowd.WithDispatchTime(ctx, d.now().UTC())
	cache := d.db.CacheWrap()

	res, err := d.handler.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	for _, ev := range res.Events {
		d.emitter.Emit(ev)
	}
	return res, nil
}

// Store exposes read access to committed state. Writes go through
// Deliver only.
func (d *Dispatcher) Store() escrowd.ReadOnlyKVStore {
	return d.db
}
