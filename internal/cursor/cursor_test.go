package cursor

import (
	"strings"
	"testing"

	"github.com/goliatone/go-repository-pager/pagination"
)

type offsetPosition struct {
	Offset int `msgpack:"o"`
}

type keyPosition[K comparable] struct {
	Key K `msgpack:"k"`
}

func TestEncodeDecode(t *testing.T) {
	token, err := Encode(offsetPosition{Offset: 42})
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}
	if strings.ContainsAny(token, "+/=") {
		t.Errorf("expected a url-safe unpadded token, got %q", token)
	}

	var got offsetPosition
	if err := Decode(token, &got); err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if got.Offset != 42 {
		t.Errorf("expected offset 42 but got %d", got.Offset)
	}
}

func TestEncodeDecode_Keys(t *testing.T) {
	t.Run("string", func(t *testing.T) {
		testKeyRoundTrip(t, "user-123")
	})
	t.Run("int64", func(t *testing.T) {
		testKeyRoundTrip(t, int64(99))
	})
	t.Run("large int64", func(t *testing.T) {
		testKeyRoundTrip(t, int64(1)<<40)
	})
}

func testKeyRoundTrip[K comparable](t *testing.T, key K) {
	t.Helper()

	token, err := Encode(keyPosition[K]{Key: key})
	if err != nil {
		t.Fatalf("Encode() unexpected error: %v", err)
	}

	var got keyPosition[K]
	if err := Decode(token, &got); err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}
	if got.Key != key {
		t.Errorf("expected key %v but got %v", key, got.Key)
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "not base64", token: "%%%"},
		{name: "padded", token: "AA=="},
		{name: "not msgpack", token: "wQ"},
		{name: "too long", token: strings.Repeat("A", MaxTokenLength+1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got offsetPosition
			err := Decode(tt.token, &got)
			if !pagination.IsInvalidArgument(err) {
				t.Errorf("expected InvalidArgument but got: %v", err)
			}
		})
	}
}

// FuzzDecode checks that Decode never panics, and that any token it accepts
// survives a re-encode.
func FuzzDecode(f *testing.F) {
	for _, offset := range []int{0, 1, 10, 1 << 20, -1} {
		token, _ := Encode(offsetPosition{Offset: offset})
		f.Add(token)
	}
	f.Add("")
	f.Add("%%%")
	f.Add("AA==")
	f.Add("wQ")
	f.Add("gaFvzf__")
	f.Add(strings.Repeat("A", 10*1024))
	f.Add("日本語")

	f.Fuzz(func(t *testing.T, token string) {
		var pos offsetPosition
		err := Decode(token, &pos)
		if err != nil {
			if !pagination.IsInvalidArgument(err) {
				t.Fatalf("Decode(%q) returned %v, expected InvalidArgument", token, err)
			}
			return
		}

		again, err := Encode(pos)
		if err != nil {
			t.Fatalf("Encode(%+v) failed after a successful decode: %v", pos, err)
		}

		var round offsetPosition
		if err := Decode(again, &round); err != nil {
			t.Fatalf("Decode(%q) failed on a re-encoded token: %v", again, err)
		}
		if round != pos {
			t.Fatalf("round trip changed position: %+v != %+v", round, pos)
		}
	})
}
