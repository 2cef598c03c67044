package pagination

import (
	goerrors "github.com/goliatone/go-errors"
)

// TextCodeInvalidArgument is attached to every InvalidArgument error.
const TextCodeInvalidArgument = "INVALID_ARGUMENT"

// InvalidArgument builds the error returned for malformed page parameters or
// missing constructor arguments. It is exported so stores and readers report
// argument problems with the same kind.
func InvalidArgument(field, message string) error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithTextCode(TextCodeInvalidArgument).
		WithMetadata(map[string]any{"field": field})
}

// IsInvalidArgument reports whether err carries the InvalidArgument kind.
func IsInvalidArgument(err error) bool {
	if err == nil {
		return false
	}
	return goerrors.IsCategory(err, goerrors.CategoryBadInput)
}
