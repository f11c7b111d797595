package x

import (
	escrowd "github.com/custodia-labs/escrowd"
)

// Authenticator is an interface we can use to extract authentication info
// from the context. This should be passed into the constructor of
// handlers, so we can plug in another authentication system,
// rather than hard-coding one mechanism for all extensions.
type Authenticator interface {
	// GetAddresses reveals all addresses whose authority the
	// current call carries.
	GetAddresses(escrowd.Context) []escrowd.Address
	// HasAddress checks if the call carries authority for this address.
	HasAddress(escrowd.Context, escrowd.Address) bool
}

// MultiAuth chains together many Authenticators into one.
type MultiAuth struct {
	impls []Authenticator
}

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator.
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth{impls}
}

// GetAddresses combines all addresses from all Authenticators.
func (m MultiAuth) GetAddresses(ctx escrowd.Context) []escrowd.Address {
	var res []escrowd.Address
	for _, impl := range m.impls {
		add := impl.GetAddresses(ctx)
		if len(add) > 0 {
			res = append(res, add...)
		}
	}
	return res
}

// HasAddress returns true iff any Authenticator supports this.
func (m MultiAuth) HasAddress(ctx escrowd.Context, addr escrowd.Address) bool {
	for _, impl := range m.impls {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainActor returns the first address if any, otherwise nil.
// For offer operations this is the caller on whose behalf
// the dispatcher runs the transaction.
func MainActor(ctx escrowd.Context, auth Authenticator) escrowd.Address {
	addrs := auth.GetAddresses(ctx)
	if len(addrs) == 0 {
		return nil
	}
	return addrs[0]
}

// HasAllAddresses returns true if all elements in required are
// also in context.
func HasAllAddresses(ctx escrowd.Context, auth Authenticator, required []escrowd.Address) bool {
	for _, r := range required {
		if !auth.HasAddress(ctx, r) {
			return false
		}
	}
	return true
}
