package common

import (
	"errors"
	"fmt"
	"reflect"
	"testing"
)

func TestNormalizeName(t *testing.T) {
	testCases := map[string]string{
		"apple":       "Apple",
		"pineAPPLE":   "Pineapple",
		"john doe":    "John Doe",
		"  jane   DOE": "Jane Doe",
		"":            "",
		"äpfel":       "Äpfel",
	}

	for in, want := range testCases {
		if got := NormalizeName(in); got != want {
			t.Errorf("NormalizeName(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestPartitionRecords(t *testing.T) {
	records := []Record{
		{Name: "Orange", Quantity: "1", Status: StatusQueued},
		{Name: "Apple", Quantity: "2", Status: StatusCompleted},
		{Name: "Mango", Quantity: "3", Status: StatusQueued},
	}

	list := PartitionRecords(records)

	wantQueued := []Record{records[2], records[0]}
	wantCompleted := []Record{records[1]}
	if !reflect.DeepEqual(list.Queued, wantQueued) {
		t.Errorf("Queued mismatch: expected %v, got %v", wantQueued, list.Queued)
	}
	if !reflect.DeepEqual(list.Completed, wantCompleted) {
		t.Errorf("Completed mismatch: expected %v, got %v", wantCompleted, list.Completed)
	}

	// Empty input still yields empty partitions, not null
	empty, err := PartitionRecords(nil).Marshal()
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	if empty != `{"queued":[],"completed":[]}` {
		t.Errorf("Unexpected empty list encoding: %s", empty)
	}
}

func TestTodoListRoundTrip(t *testing.T) {
	list := PartitionRecords([]Record{
		{Name: "Apple", Quantity: "2", Status: StatusCompleted},
		{Name: "Mango", Quantity: "3", Status: StatusQueued},
	})

	s, err := list.Marshal()
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}
	parsed, err := UnmarshalTodoList(s)
	if err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if !reflect.DeepEqual(list, parsed) {
		t.Errorf("List mismatch after round trip:\nexpected %v\ngot      %v", list, parsed)
	}
}

func TestUnmarshalTodoListRepartitions(t *testing.T) {
	// a completed record in the queued partition is moved
	s := `{"queued":[{"todo_name":"Apple","quantity":"1","status":1}],"completed":[]}`
	list, err := UnmarshalTodoList(s)
	if err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if len(list.Queued) != 0 || len(list.Completed) != 1 {
		t.Errorf("Expected record to be re-partitioned, got %v", list)
	}
}

func TestUnmarshalTodoListInvalid(t *testing.T) {
	inputs := []string{
		"",
		"not json",
		`{"queued":[{"todo_name":"Apple","quantity":"1","status":7}],"completed":[]}`,
	}
	for _, in := range inputs {
		if _, err := UnmarshalTodoList(in); err == nil {
			t.Errorf("Expected error for %q", in)
		}
	}
}

func TestErrorTextRoundTrip(t *testing.T) {
	for _, known := range wireErrors {
		wrapped := fmt.Errorf("context: %w", known)

		text := ErrorText(wrapped)
		if text != known.Error() {
			t.Errorf("Expected %q, got %q", known.Error(), text)
		}

		remote := ParseRemoteError(text)
		if !errors.Is(remote, known) {
			t.Errorf("Expected %v to unwrap to %v", remote, known)
		}
	}
}

func TestParseRemoteErrorDecode(t *testing.T) {
	text := ErrorText(NewDecodeError("bad tag"))
	err := ParseRemoteError(text)

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("Expected DecodeError, got %v", err)
	}
	if decodeErr.Msg != "bad tag" {
		t.Errorf("Expected message %q, got %q", "bad tag", decodeErr.Msg)
	}
}

func TestParseRemoteErrorUnknown(t *testing.T) {
	err := ParseRemoteError("something odd")

	var remote *RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("Expected RemoteError, got %v", err)
	}
	if errors.Unwrap(err) != nil {
		t.Errorf("Expected no wrapped error, got %v", errors.Unwrap(err))
	}
}

func TestParsers(t *testing.T) {
	for k := CmdStore; k <= CmdDeleteOwner; k++ {
		parsed, err := ParseCommandKind(k.String())
		if err != nil || parsed != k {
			t.Errorf("ParseCommandKind(%s) = %v, %v", k, parsed, err)
		}
	}
	if _, err := ParseCommandKind("nope"); err == nil {
		t.Errorf("Expected error for unknown kind")
	}

	if c, err := ParseCatalog("B"); err != nil || c != CatalogSuppliers {
		t.Errorf("ParseCatalog(B) = %v, %v", c, err)
	}
	if _, err := ParseFramingMode("chunked"); err == nil {
		t.Errorf("Expected error for unknown framing")
	}
	if _, err := ParseLogLevel("loud"); err == nil {
		t.Errorf("Expected error for unknown log level")
	}
}

func TestCatalogKinds(t *testing.T) {
	if NewListCatalogCommand(CatalogFruits).Kind() != CmdListCatalogA {
		t.Errorf("Fruits must be sent as ListCatalogA")
	}
	if NewListCatalogCommand(CatalogSuppliers).Kind() != CmdListCatalogB {
		t.Errorf("Suppliers must be sent as ListCatalogB")
	}
}
