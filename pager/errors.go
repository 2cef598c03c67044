package pager

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// TextCodeStoreError is attached to every StoreError.
const TextCodeStoreError = "STORE_ERROR"

// Store operations reported in StoreError metadata and metrics.
const (
	OpCount      = "count"
	OpFetchBatch = "fetch_batch"
)

// StoreError wraps a failure returned by a Store. The source stays reachable
// through errors.Is and errors.As.
//
// goerrors.Wrap keeps the category of a wrapped *goerrors.Error, so the
// source is attached by hand to make the external category win.
func StoreError(op string, err error) error {
	e := goerrors.New(fmt.Sprintf("store %s failed", op), goerrors.CategoryExternal).
		WithTextCode(TextCodeStoreError).
		WithMetadata(map[string]any{"op": op})
	e.Source = err
	return e
}

// IsStoreError reports whether err carries the StoreError kind.
func IsStoreError(err error) bool {
	if err == nil {
		return false
	}
	return goerrors.IsCategory(err, goerrors.CategoryExternal)
}

// StoreOp returns the operation recorded on a StoreError, or "".
func StoreOp(err error) string {
	var e *goerrors.Error
	if !goerrors.As(err, &e) || e.Category != goerrors.CategoryExternal {
		return ""
	}
	op, _ := e.Metadata["op"].(string)
	return op
}
