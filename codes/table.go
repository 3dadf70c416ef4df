package codes

import (
	"errors"
	"fmt"
	"strings"
)

// MaxNameLen is the longest name a Table accepts.
const MaxNameLen = 32

var (
	// ErrEmptyName is returned when adding an entry without a name.
	ErrEmptyName = errors.New("codes: empty name")

	// ErrNameTooLong is returned when a name exceeds MaxNameLen.
	ErrNameTooLong = errors.New("codes: name too long")
)

// Entry is one name/code association.
type Entry struct {
	Name string
	Code int
}

// Table is an unordered name to code association list.
//
// Add does not deduplicate: when a name is added twice, Lookup returns the first one.
// A Table is filled once and only read afterwards; it has no locking, so concurrent
// use is safe only after the last Add.
type Table struct {
	entries []Entry
}

// NewTable creates a Table from entries. It fails on the first invalid entry.
func NewTable(entries ...Entry) (*Table, error) {
	t := &Table{entries: make([]Entry, 0, len(entries))}
	for _, e := range entries {
		if err := t.Add(e.Name, e.Code); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// MustTable is like NewTable but panics on an invalid entry.
// It is meant for package-level tables built from literals.
func MustTable(entries ...Entry) *Table {
	t, err := NewTable(entries...)
	if err != nil {
		panic(err)
	}

	return t
}

// Add appends an association.
func (t *Table) Add(name string, code int) error {
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLen {
		return fmt.Errorf("%w: %q has %d bytes, max %d", ErrNameTooLong, name, len(name), MaxNameLen)
	}

	t.entries = append(t.entries, Entry{Name: name, Code: code})

	return nil
}

// Lookup returns the code of the first entry named name.
func (t *Table) Lookup(name string) (int, bool) {
	for _, e := range t.entries {
		if e.Name == name {
			return e.Code, true
		}
	}

	return 0, false
}

// LookupFold is Lookup with case-insensitive name matching.
func (t *Table) LookupFold(name string) (int, bool) {
	for _, e := range t.entries {
		if strings.EqualFold(e.Name, name) {
			return e.Code, true
		}
	}

	return 0, false
}

// NameOf returns the name of the first entry holding code.
func (t *Table) NameOf(code int) (string, bool) {
	for _, e := range t.entries {
		if e.Code == code {
			return e.Name, true
		}
	}

	return "", false
}

// Len returns the number of entries, duplicates included.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the entries in insertion order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)

	return out
}
