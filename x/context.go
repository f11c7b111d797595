package x

import (
	"context"

	escrowd "github.com/custodia-labs/escrowd"
)

type contextKey int

const contextKeyCaller contextKey = iota

// CtxAuth is an Authenticator backed by the dispatch context. The
// dispatcher resolves the caller before routing a transaction and
// stores it with SetCaller; handlers never see raw credentials.
type CtxAuth struct{}

var _ Authenticator = CtxAuth{}

// SetCaller stores the caller address in the context.
func (CtxAuth) SetCaller(ctx escrowd.Context, caller escrowd.Address) escrowd.Context {
	return context.WithValue(ctx, contextKeyCaller, caller)
}

// GetAddresses returns the caller stored in the context, may be empty.
func (CtxAuth) GetAddresses(ctx escrowd.Context) []escrowd.Address {
	// (val, ok) form to return nil instead of panic if unset
	val, _ := ctx.Value(contextKeyCaller).(escrowd.Address)
	if val == nil {
		return nil
	}
	return []escrowd.Address{val}
}

// HasAddress returns true iff the caller matches this address.
func (a CtxAuth) HasAddress(ctx escrowd.Context, addr escrowd.Address) bool {
	for _, have := range a.GetAddresses(ctx) {
		if have.Equals(addr) {
			return true
		}
	}
	return false
}
