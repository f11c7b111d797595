package store

import "github.com/custodia-labs/escrowd"

// Move references for all storage types into this package for shorter
// names everywhere.

type KVStore = escrowd.KVStore
type ReadOnlyKVStore = escrowd.ReadOnlyKVStore
type SetDeleter = escrowd.SetDeleter
type Batch = escrowd.Batch
type Iterator = escrowd.Iterator
type CacheableKVStore = escrowd.CacheableKVStore
type KVCacheWrap = escrowd.KVCacheWrap
type CommitKVStore = escrowd.CommitKVStore
