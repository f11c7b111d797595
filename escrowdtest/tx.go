package escrowdtest

import (
	"encoding/json"

	escrowd "github.com/custodia-labs/escrowd"
)

// Tx is a transaction carrying a single message.
type Tx struct {
	// Msg is the message that is to be processed by this transaction.
	Msg escrowd.Msg
	// Err if set is returned by any method call.
	Err error
}

var _ escrowd.Tx = (*Tx)(nil)

// NewTx wraps a message into a transaction.
func NewTx(msg escrowd.Msg) *Tx {
	return &Tx{Msg: msg}
}

func (tx *Tx) GetMsg() (escrowd.Msg, error) {
	return tx.Msg, tx.Err
}

func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Err != nil {
		return nil, tx.Err
	}
	return json.Marshal(tx.Msg)
}

func (tx *Tx) Unmarshal(b []byte) error {
	if tx.Err != nil {
		return tx.Err
	}
	return json.Unmarshal(b, tx.Msg)
}
