package escrowd

// Event is a notification about a completed state transition, meant for
// external observers. Concrete event types are declared by the extension
// packages.
type Event interface {
	// EventType names the kind of event, eg. "createOffer".
	EventType() string
}

// Emitter receives events of successfully committed transactions. Delivery
// is best effort: the state machine must never depend on an Emitter for
// correctness, so Emit returns nothing.
type Emitter interface {
	Emit(ev Event)
}

// NopEmitter drops all events.
type NopEmitter struct{}

var _ Emitter = NopEmitter{}

func (NopEmitter) Emit(Event) {}

// CheckResult captures any non-error result of a validation pass, to make
// sure people use error returns for error cases.
type CheckResult struct {
	// Data is a machine-parseable return value, like the id of a created
	// entity.
	Data []byte
	// Log is a human-readable informational string.
	Log string
}

// DeliverResult captures any non-error result of executing a transaction.
type DeliverResult struct {
	// Data is a machine-parseable return value, like the id of a created
	// entity.
	Data []byte
	// Log is a human-readable informational string.
	Log string
	// Events lists the notifications to publish once the transaction is
	// durably committed. They are dropped when the commit fails.
	Events []Event
}
