package cache

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"
)

// HashKey derives a dedupe key from the content of item. The item is encoded
// with msgpack and the bytes hashed with xxhash, so two items with the same
// exported field values share a key.
//
// It is meant for NewIncrementalFunc when T is not comparable (it holds
// slices or maps). Items that cannot be encoded fall back to their %#v form.
func HashKey[T any](item T) uint64 {
	data, err := msgpack.Marshal(item)
	if err != nil {
		return xxhash.Sum64String(fmt.Sprintf("%#v", item))
	}
	return xxhash.Sum64(data)
}
