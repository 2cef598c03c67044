// Package cursor encodes store positions as opaque continuation tokens.
//
// A token is the msgpack encoding of a position value, base64url encoded
// without padding so it can travel in URLs untouched. The empty token means
// "from the start" and is never produced by Encode.
package cursor

import (
	"encoding/base64"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/goliatone/go-repository-pager/pagination"
)

// MaxTokenLength bounds the tokens Decode accepts.
const MaxTokenLength = 4096

var encoding = base64.RawURLEncoding

// Encode returns the token for position.
func Encode(position any) (string, error) {
	data, err := msgpack.Marshal(position)
	if err != nil {
		return "", fmt.Errorf("encode cursor: %w", err)
	}
	return encoding.EncodeToString(data), nil
}

// Decode reads token into position, which must be a pointer. Malformed
// tokens fail with pagination.InvalidArgument.
func Decode(token string, position any) error {
	if token == "" {
		return pagination.InvalidArgument("token", "empty continuation token")
	}
	if len(token) > MaxTokenLength {
		return pagination.InvalidArgument("token", "continuation token too long")
	}

	data, err := encoding.DecodeString(token)
	if err != nil {
		return pagination.InvalidArgument("token", "continuation token is not base64url")
	}
	if err := msgpack.Unmarshal(data, position); err != nil {
		return pagination.InvalidArgument("token", "continuation token is not a valid position")
	}
	return nil
}
