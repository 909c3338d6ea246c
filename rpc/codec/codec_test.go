package codec

import (
	"bytes"
	"errors"
	"github.com/ValentinKolb/dTodo/rpc/common"
	"reflect"
	"strings"
	"testing"
)

// testCodecs is a map of codec name to factory function
var testCodecs = map[string]func() ICodec{
	"JSON":   NewJSONCodec,
	"GOB":    NewGOBCodec,
	"Binary": NewBinaryCodec,
}

// testCommands creates one command per variant plus a few edge cases
func testCommands() []common.Command {
	return []common.Command{
		common.NewStoreCommand("alice", `{"queued":[],"completed":[]}`),
		common.NewUpdateListCommand("alice", `{"queued":[{"todo_name":"Apple","quantity":"3","status":0}],"completed":[]}`),
		common.NewGetCommand("bob"),
		common.NewCreateOwnerCommand("carol"),
		common.NewListCatalogCommand(common.CatalogFruits),
		common.NewListCatalogCommand(common.CatalogSuppliers),
		common.NewDeleteOwnerCommand("dave"),

		// Empty payloads
		common.NewStoreCommand("", ""),
		common.NewGetCommand(""),

		// Non ascii payloads
		common.NewUpdateListCommand("jürgen", "äöü ✓"),
	}
}

// TestCommandRoundTrip tests that every command variant survives encode/decode
func TestCommandRoundTrip(t *testing.T) {
	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			c := factory()

			for i, cmd := range testCommands() {
				// Encode
				data, err := c.EncodeCommand(cmd)
				if err != nil {
					t.Errorf("Failed to encode command %d: %v", i, err)
					continue
				}

				// Decode
				result, err := c.DecodeCommand(data)
				if err != nil {
					t.Errorf("Failed to decode command %d: %v", i, err)
					continue
				}

				// Compare
				if !reflect.DeepEqual(cmd, result) {
					t.Errorf("Command %d doesn't match after round trip:\nOriginal: %#v\nResult: %#v",
						i, cmd, result)
				}

				// Encoding again must produce the same bytes
				again, err := c.EncodeCommand(result)
				if err != nil {
					t.Errorf("Failed to re-encode command %d: %v", i, err)
					continue
				}
				if !bytes.Equal(data, again) {
					t.Errorf("Command %d is not byte identical after round trip", i)
				}
			}
		})
	}
}

// TestCommandKinds tests that the variant is recoverable for each kind
func TestCommandKinds(t *testing.T) {
	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			c := factory()

			for kind := common.CmdStore; kind <= common.CmdDeleteOwner; kind++ {
				cmd, err := common.NewCommand(kind, "owner", "list")
				if err != nil {
					t.Fatalf("Failed to build command %s: %v", kind, err)
				}

				data, err := c.EncodeCommand(cmd)
				if err != nil {
					t.Errorf("Failed to encode command %s: %v", kind, err)
					continue
				}

				result, err := c.DecodeCommand(data)
				if err != nil {
					t.Errorf("Failed to decode command %s: %v", kind, err)
					continue
				}

				if result.Kind() != kind {
					t.Errorf("Command kind doesn't match after round trip: Expected %s, got %s",
						kind, result.Kind())
				}
			}
		})
	}
}

// TestResponseRoundTrip tests the three response shapes
func TestResponseRoundTrip(t *testing.T) {
	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			c := factory()

			// Plain string
			for _, text := range []string{common.RespInserted, common.CreatedOwnerText("alice"), ""} {
				data, err := c.EncodeResponse(common.NewTextResponse(text))
				if err != nil {
					t.Fatalf("Failed to encode text response: %v", err)
				}
				got, err := c.DecodeString(data)
				if err != nil {
					t.Fatalf("Failed to decode text response: %v", err)
				}
				if got != text {
					t.Errorf("Text mismatch: expected %q, got %q", text, got)
				}
			}

			// Optional string
			for _, value := range []*string{nil, common.StringPtr(""), common.StringPtr(`{"queued":[]}`)} {
				data, err := c.EncodeResponse(common.NewOptionalResponse(value))
				if err != nil {
					t.Fatalf("Failed to encode optional response: %v", err)
				}
				got, err := c.DecodeOptionalString(data)
				if err != nil {
					t.Fatalf("Failed to decode optional response: %v", err)
				}
				if !reflect.DeepEqual(value, got) {
					t.Errorf("Optional mismatch: expected %v, got %v", value, got)
				}
			}

			// String list
			for _, items := range [][]string{{}, {"Apple"}, {"Apple", "Orange", "Mango", "Pineapple"}} {
				data, err := c.EncodeResponse(common.NewStringsResponse(items))
				if err != nil {
					t.Fatalf("Failed to encode list response: %v", err)
				}
				got, err := c.DecodeStrings(data)
				if err != nil {
					t.Fatalf("Failed to decode list response: %v", err)
				}
				if !reflect.DeepEqual(items, got) {
					t.Errorf("List mismatch: expected %v, got %v", items, got)
				}
			}
		})
	}
}

// TestDecodeGarbage tests that garbage never panics and yields a DecodeError
func TestDecodeGarbage(t *testing.T) {
	inputs := [][]byte{
		nil,
		{},
		{0xff},
		{0xff, 0xff, 0xff, 0xff},
		[]byte("not a command"),
		[]byte(`{"owner":"alice"}`),
		[]byte(`{"kind":"explode"}`),
		bytes.Repeat([]byte{0x07}, 64),
	}

	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			c := factory()
			for i, in := range inputs {
				_, err := c.DecodeCommand(in)
				var decodeErr *common.DecodeError
				if !errors.As(err, &decodeErr) {
					t.Errorf("Input %d: expected DecodeError, got %v", i, err)
				}
			}
		})
	}
}

// TestDecodeTruncated tests that every strict prefix of an encoded command is rejected
func TestDecodeTruncated(t *testing.T) {
	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			c := factory()
			data, err := c.EncodeCommand(common.NewStoreCommand("alice", "a list payload"))
			if err != nil {
				t.Fatalf("Failed to encode: %v", err)
			}

			for n := 0; n < len(data); n++ {
				if _, err := c.DecodeCommand(data[:n]); err == nil {
					t.Errorf("Expected error for prefix of length %d", n)
				}
			}
		})
	}
}

// TestBinaryLayout pins the byte layout of the binary codec
func TestBinaryLayout(t *testing.T) {
	c := NewBinaryCodec()

	testCases := []struct {
		name string
		cmd  common.Command
		want []byte
	}{
		{
			name: "Get",
			cmd:  common.NewGetCommand("ab"),
			want: []byte{2, 0, 0, 0, 2, 0, 0, 0, 0, 0, 0, 0, 'a', 'b'},
		},
		{
			name: "ListCatalogB",
			cmd:  common.NewListCatalogCommand(common.CatalogSuppliers),
			want: []byte{5, 0, 0, 0},
		},
		{
			name: "Store",
			cmd:  common.NewStoreCommand("a", "b"),
			want: []byte{0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 'a', 1, 0, 0, 0, 0, 0, 0, 0, 'b'},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.EncodeCommand(tc.cmd)
			if err != nil {
				t.Fatalf("Failed to encode: %v", err)
			}
			if !bytes.Equal(got, tc.want) {
				t.Errorf("Layout mismatch:\nexpected %v\ngot      %v", tc.want, got)
			}
		})
	}
}

// TestInvalidBinaryData tests specific corrupt inputs for the binary codec
func TestInvalidBinaryData(t *testing.T) {
	c := NewBinaryCodec()

	testCases := []struct {
		name        string
		data        []byte
		expectError bool
	}{
		{
			name:        "Catalog command without fields",
			data:        []byte{4, 0, 0, 0},
			expectError: false,
		},
		{
			name:        "Unknown variant",
			data:        []byte{7, 0, 0, 0},
			expectError: true,
		},
		{
			name:        "Invalid length for owner",
			data:        []byte{2, 0, 0, 0, 5, 0, 0, 0, 0, 0, 0, 0, 'a', 'b', 'c'},
			expectError: true,
		},
		{
			name:        "Huge length for owner",
			data:        []byte{2, 0, 0, 0, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff},
			expectError: true,
		},
		{
			name:        "Trailing bytes",
			data:        []byte{4, 0, 0, 0, 0},
			expectError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.DecodeCommand(tc.data)

			if tc.expectError && err == nil {
				t.Errorf("Expected error but got none")
			} else if !tc.expectError && err != nil {
				t.Errorf("Did not expect error but got: %v", err)
			}
		})
	}
}

// TestResponseShapeMismatch tests that an error string is not mistaken for a catalog
func TestResponseShapeMismatch(t *testing.T) {
	for name, factory := range testCodecs {
		t.Run(name, func(t *testing.T) {
			c := factory()
			data, err := c.EncodeResponse(common.NewTextResponse(common.ErrOwnerNotFound.Error()))
			if err != nil {
				t.Fatalf("Failed to encode: %v", err)
			}
			if _, err := c.DecodeStrings(data); err == nil {
				t.Errorf("Expected a string response not to decode as list")
			}
			text, err := c.DecodeString(data)
			if err != nil || !strings.Contains(text, "owner not found") {
				t.Errorf("Expected error text, got %q (%v)", text, err)
			}
		})
	}
}

// TestNew tests the codec factory
func TestNew(t *testing.T) {
	for _, name := range []string{"binary", "json", "gob"} {
		c, err := New(name)
		if err != nil {
			t.Fatalf("Failed to create codec %s: %v", name, err)
		}
		if c.Name() != name {
			t.Errorf("Expected codec %s, got %s", name, c.Name())
		}
	}
	if _, err := New("xml"); err == nil {
		t.Errorf("Expected error for unknown codec")
	}
}
