package errors

import (
	"fmt"
	"testing"
)

func TestIs(t *testing.T) {
	cases := map[string]struct {
		kind    *Error
		err     error
		wantIs  bool
	}{
		"root error matches itself": {
			kind:   ErrNotFound,
			err:    ErrNotFound,
			wantIs: true,
		},
		"wrapped error matches the root": {
			kind:   ErrNotFound,
			err:    Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"doubly wrapped error matches the root": {
			kind:   ErrState,
			err:    Wrap(Wrap(ErrState, "inner"), "outer"),
			wantIs: true,
		},
		"different kinds do not match": {
			kind:   ErrNotFound,
			err:    Wrap(ErrState, "gone"),
			wantIs: false,
		},
		"stdlib error does not match": {
			kind:   ErrNotFound,
			err:    fmt.Errorf("not found"),
			wantIs: false,
		},
		"nil kind matches nil error": {
			kind:   nil,
			err:    nil,
			wantIs: true,
		},
		"non-nil error does not match nil kind": {
			kind:   nil,
			err:    ErrNotFound,
			wantIs: false,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := tc.kind.Is(tc.err); got != tc.wantIs {
				t.Fatalf("want %v, got %v", tc.wantIs, got)
			}
		})
	}
}

func TestCode(t *testing.T) {
	cases := map[string]struct {
		err  error
		want uint32
	}{
		"nil":               {err: nil, want: 0},
		"root error":        {err: ErrAmount, want: 12},
		"wrapped root":      {err: Wrap(ErrAmount, "too little"), want: 12},
		"unclassified":      {err: fmt.Errorf("boom"), want: 1},
		"wrapped stdlib":    {err: Wrap(fmt.Errorf("boom"), "ctx"), want: 1},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := Code(tc.err); got != tc.want {
				t.Fatalf("want %d, got %d", tc.want, got)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(nil, "whatever"); err != nil {
		t.Fatalf("wrapping nil must return nil, got %+v", err)
	}
}

func TestWrappedErrorMessage(t *testing.T) {
	err := Wrap(ErrNotFound, "offer 5")
	const want = "offer 5: not found"
	if got := err.Error(); got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}

func TestRegisterPanicsOnReuse(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("reusing a code must panic")
		}
	}()
	Register(2, "duplicate of unauthorized")
}
