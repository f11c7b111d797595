package offer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/escrowd/coin"
	"github.com/custodia-labs/escrowd/errors"
	"github.com/custodia-labs/escrowd/escrowdtest"
)

func TestOfferValidate(t *testing.T) {
	valid := func() *Offer {
		return &Offer{
			ID:        1,
			Creator:   escrowdtest.RandomAddress(),
			Recipient: escrowdtest.RandomAddress(),
			Amount:    coin.NewAmount(100),
			Status:    StatusActive,
			CreatedAt: 1700000000,
		}
	}

	assert.NoError(t, valid().Validate())

	missingID := valid()
	missingID.ID = 0
	assert.True(t, errors.ErrEmpty.Is(missingID.Validate()))

	zeroAmount := valid()
	zeroAmount.Amount = coin.NewAmount(0)
	assert.True(t, ErrZeroPayment.Is(zeroAmount.Validate()))

	badStatus := valid()
	badStatus.Status = 9
	assert.True(t, errors.ErrState.Is(badStatus.Validate()))
}

func TestOfferStatusJSON(t *testing.T) {
	off := &Offer{
		ID:        7,
		Creator:   escrowdtest.RandomAddress(),
		Recipient: escrowdtest.RandomAddress(),
		Amount:    coin.NewAmount(5),
		Status:    StatusCancelled,
		CreatedAt: 1700000000,
	}
	raw, err := off.Marshal()
	assert.NoError(t, err)
	assert.Contains(t, string(raw), `"status":"cancelled"`)

	var got Offer
	assert.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, StatusCancelled, got.Status)

	var bad Offer
	assert.Error(t, bad.Unmarshal([]byte(`{"status":"pending"}`)))
}

func TestCustodyConditionIsStable(t *testing.T) {
	key := escrowdtest.SequenceID(1)
	assert.Equal(t, Condition(key).Address(), Condition(key).Address())
	assert.NotEqual(t, Condition(key).Address(), Condition(escrowdtest.SequenceID(2)).Address())
}
