package escrowd

import (
	"reflect"

	"github.com/custodia-labs/escrowd/errors"
)

// Marshaller is anything that can be represented in binary.
//
// Marshal may validate the data before serializing it and unless you
// previously validated the struct, errors should be expected.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent supports Marshal and Unmarshal.
//
// This is separated from Marshaller, as Unmarshal almost always requires
// a pointer, and functions that only need to serialize can use the
// Marshaller interface to access non-pointers.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Msg is a request to make a state transition. It is just the request and
// must be validated by the handlers. The identity of the caller comes from
// the authenticator, not the message.
type Msg interface {
	Persistent

	// Validate performs a sanity check on the message content without
	// access to any state.
	Validate() error

	// Path returns the routing path of the message. It is used by the
	// Router to locate the proper Handler. Must be alphanumeric with
	// slashes, eg. "offer/create".
	Path() string
}

// Tx is the unit of work sent to the dispatcher. It wraps the message
// together with anything middleware needs to pass through, eg. caller
// attribution added by the transport layer.
type Tx interface {
	Persistent

	// GetMsg returns the action we wish to perform.
	GetMsg() (Msg, error)
}

// GetPath returns the path of the message, or (missing) if no message.
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg extracts the message from the transaction, verifies it is of the
// expected type, validates it and loads it into dest.
func LoadMsg(tx Tx, dest Msg) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "get msg")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrState, "transaction without a message")
	}
	if err := msg.Validate(); err != nil {
		return err
	}

	if !reflect.TypeOf(msg).AssignableTo(reflect.TypeOf(dest)) {
		return errors.ErrType.Newf("want %T, got %T", dest, msg)
	}
	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(msg).Elem())
	return nil
}
