package cash

import (
	"encoding/json"

	escrowd "github.com/custodia-labs/escrowd"
	"github.com/custodia-labs/escrowd/coin"
	"github.com/custodia-labs/escrowd/errors"
)

var _ escrowd.Msg = (*SendMsg)(nil)

const maxMemoSize = 128

// SendMsg transfers funds between two accounts.
type SendMsg struct {
	Source      escrowd.Address `json:"source"`
	Destination escrowd.Address `json:"destination"`
	Amount      *coin.Amount    `json:"amount"`
	Memo        string          `json:"memo,omitempty"`
}

// Path returns the routing path for this message.
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible.
func (s *SendMsg) Validate() error {
	if s.Amount == nil || !s.Amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "non-positive send")
	}
	if err := s.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := s.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(s.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrInput, "memo too long")
	}
	return nil
}

// Marshal represents the message as JSON.
func (s *SendMsg) Marshal() ([]byte, error) {
	return json.Marshal(s)
}

// Unmarshal parses the JSON representation.
func (s *SendMsg) Unmarshal(raw []byte) error {
	return json.Unmarshal(raw, s)
}
