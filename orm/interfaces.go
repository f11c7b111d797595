/*
Package orm provides an easy to use db wrapper.

It breaks the key space into prefixed sections called Buckets. Each bucket
contains only one type of object, has a primary index and may possess
secondary indexes. The ledger kept here is append-only: buckets know how to
create and overwrite records, never how to remove them, and index sets only
ever grow.
*/
package orm

import "github.com/custodia-labs/escrowd"

// Object is what is stored in the bucket. Key is joined with the bucket
// prefix to form the full db key.
type Object interface {
	Keyed
	Cloneable

	// Validate returns an error if the object is not in a valid state
	// to save to the db (field missing, out of range, ...).
	Validate() error

	Value() escrowd.Persistent
}

// Keyed is anything that can identify itself.
type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable will create a new object that can be loaded into.
type Cloneable interface {
	Clone() Object
}

// Model is implemented by all entities persisted through a bucket. It is a
// self-validating, copyable value.
type Model interface {
	escrowd.Persistent
	Validate() error
	Copy() Model
}
