// Package escrowdtest provides helpers for testing the offer service.
package escrowdtest

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"time"

	escrowd "github.com/custodia-labs/escrowd"
)

// RandomAddress returns a random account address.
func RandomAddress() escrowd.Address {
	bz := make([]byte, escrowd.AddressLength)
	if _, err := rand.Read(bz); err != nil {
		panic(err)
	}
	return escrowd.Address(bz)
}

// SequenceID returns the store key form of the n-th sequence value.
func SequenceID(n uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, n)
	return bz
}

// Context returns a context with the dispatch time set to the current
// wall clock, the way the dispatcher prepares it.
func Context() escrowd.Context {
	return escrowd.WithDispatchTime(context.Background(), time.Now())
}

// ContextAt returns a context with the dispatch time fixed at t.
func ContextAt(t time.Time) escrowd.Context {
	return escrowd.WithDispatchTime(context.Background(), t)
}
