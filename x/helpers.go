package x

import (
	escrowd "github.com/custodia-labs/escrowd"
)

// TestHelpers returns helper objects for tests,
// encapsulated in one object to be easily imported in other packages.
type TestHelpers struct{}

// Authenticate returns an Authenticator that gives permissions
// to the given addresses.
func (TestHelpers) Authenticate(addrs ...escrowd.Address) Authenticator {
	return mockAuth{addrs}
}

type mockAuth struct {
	addrs []escrowd.Address
}

var _ Authenticator = mockAuth{}

func (a mockAuth) GetAddresses(escrowd.Context) []escrowd.Address {
	return a.addrs
}

func (a mockAuth) HasAddress(ctx escrowd.Context, addr escrowd.Address) bool {
	for _, have := range a.addrs {
		if have.Equals(addr) {
			return true
		}
	}
	return false
}
