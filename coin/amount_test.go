package coin

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/escrowd/errors"
)

func TestAmountValidate(t *testing.T) {
	cases := map[string]struct {
		a       *Amount
		wantErr *errors.Error
	}{
		"nil amount":      {a: nil, wantErr: errors.ErrEmpty},
		"negative amount": {a: NewAmount(-1), wantErr: errors.ErrAmount},
		"zero amount":     {a: NewAmount(0), wantErr: nil},
		"positive amount": {a: NewAmount(44), wantErr: nil},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := tc.a.Validate()
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v, got %+v", tc.wantErr, err)
			}
		})
	}
}

func TestAmountArithmetic(t *testing.T) {
	a := NewAmount(100)
	b := NewAmount(30)

	sum := a.Add(b)
	assert.Equal(t, "130", sum.String())
	// inputs are untouched
	assert.Equal(t, "100", a.String())
	assert.Equal(t, "30", b.String())

	diff, err := a.Sub(b)
	assert.NoError(t, err)
	assert.Equal(t, "70", diff.String())

	if _, err := b.Sub(a); !errors.ErrAmount.Is(err) {
		t.Fatalf("subtracting below zero must fail, got %+v", err)
	}
}

func TestAmountBigValues(t *testing.T) {
	// bigger than any int64, matching a native chain token with 18
	// decimal places
	a, err := ParseAmount("123456789012345678901234567890")
	assert.NoError(t, err)
	assert.True(t, a.IsPositive())

	double := a.Add(a)
	assert.Equal(t, "246913578024691357802469135780", double.String())
}

func TestAmountJSON(t *testing.T) {
	raw, err := json.Marshal(NewAmount(55))
	assert.NoError(t, err)
	assert.Equal(t, `"55"`, string(raw))

	var fromString Amount
	assert.NoError(t, json.Unmarshal([]byte(`"120"`), &fromString))
	assert.True(t, fromString.Equals(NewAmount(120)))

	var fromNumber Amount
	assert.NoError(t, json.Unmarshal([]byte(`120`), &fromNumber))
	assert.True(t, fromNumber.Equals(NewAmount(120)))

	var bogus Amount
	if err := json.Unmarshal([]byte(`"12x"`), &bogus); !errors.ErrInput.Is(err) {
		t.Fatalf("want ErrInput, got %+v", err)
	}
}

func TestAmountNilSemantics(t *testing.T) {
	var nilAmount *Amount
	assert.True(t, nilAmount.IsZero())
	assert.False(t, nilAmount.IsPositive())
	assert.True(t, nilAmount.Equals(NewAmount(0)))
	assert.Equal(t, "0", nilAmount.String())
	assert.Nil(t, nilAmount.Clone())
}
