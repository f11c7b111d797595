package escrowd

// Handler is a core engine that can process a few specific messages.
// This could represent "create an offer" or "move funds between wallets".
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It is its own interface to allow better type control in Decorator
// arguments.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality like panic
// recovery or logging to many Handlers.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is an interface to register your handler, the setup side of a
// Router.
type Registry interface {
	Handle(path string, h Handler)
}

// CheckerFunc allows a function to implement Checker.
type CheckerFunc func(Context, KVStore, Tx) (*CheckResult, error)

func (c CheckerFunc) Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error) {
	return c(ctx, store, tx)
}

// DelivererFunc allows a function to implement Deliverer.
type DelivererFunc func(Context, KVStore, Tx) (*DeliverResult, error)

func (d DelivererFunc) Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error) {
	return d(ctx, store, tx)
}
