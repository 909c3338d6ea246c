package common

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// --------------------------------------------------------------------------
// Record
// --------------------------------------------------------------------------

// Status of a record. Only StatusQueued and StatusCompleted are valid.
type Status uint8

const (
	StatusQueued    Status = 0
	StatusCompleted Status = 1
)

// Valid reports whether s is one of the two known states
func (s Status) Valid() bool {
	return s == StatusQueued || s == StatusCompleted
}

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusCompleted:
		return "completed"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Record is a single item of a todo list. The name is the lookup key and is
// unique per owner.
type Record struct {
	Name     string `json:"todo_name"`
	Quantity string `json:"quantity"`
	Status   Status `json:"status"`
}

// --------------------------------------------------------------------------
// TodoList
// --------------------------------------------------------------------------

// TodoList is the queued/completed partition of the records of one owner.
// It is what gets serialized into the list payload of Store and UpdateList.
type TodoList struct {
	Queued    []Record `json:"queued"`
	Completed []Record `json:"completed"`
}

// PartitionRecords splits records by status. The partitions are sorted by name
// so that the same set of records always serializes to the same bytes.
func PartitionRecords(records []Record) TodoList {
	list := TodoList{
		Queued:    []Record{},
		Completed: []Record{},
	}
	for _, r := range records {
		if r.Status == StatusCompleted {
			list.Completed = append(list.Completed, r)
		} else {
			list.Queued = append(list.Queued, r)
		}
	}
	sort.Slice(list.Queued, func(i, j int) bool { return list.Queued[i].Name < list.Queued[j].Name })
	sort.Slice(list.Completed, func(i, j int) bool { return list.Completed[i].Name < list.Completed[j].Name })
	return list
}

// Records returns all records of the list (queued first)
func (l TodoList) Records() []Record {
	out := make([]Record, 0, len(l.Queued)+len(l.Completed))
	out = append(out, l.Queued...)
	return append(out, l.Completed...)
}

// Marshal returns the textual form of the list as sent inside Store and UpdateList
func (l TodoList) Marshal() (string, error) {
	b, err := json.Marshal(l)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// UnmarshalTodoList parses the textual form produced by TodoList.Marshal.
// Records are re-partitioned by their status, so a record can never appear in
// the wrong partition after parsing.
func UnmarshalTodoList(s string) (TodoList, error) {
	var raw TodoList
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return TodoList{}, fmt.Errorf("invalid todo list: %w", err)
	}
	for _, r := range raw.Records() {
		if !r.Status.Valid() {
			return TodoList{}, fmt.Errorf("invalid todo list: record %q has %s", r.Name, r.Status)
		}
	}
	return PartitionRecords(raw.Records()), nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// NormalizeName capitalizes every word of a record name and lower-cases the
// rest ("pineAPPLE" -> "Pineapple", "john doe" -> "John Doe").
// Catalog lookups are done on normalized names.
func NormalizeName(name string) string {
	words := strings.Fields(name)
	for i, w := range words {
		lower := []rune(strings.ToLower(w))
		lower[0] = []rune(strings.ToUpper(string(lower[0])))[0]
		words[i] = string(lower)
	}
	return strings.Join(words, " ")
}
