package extract

import (
	"github.com/vektah/gqlparser/v2/ast"
	"sort"
)

// Entry is one persisted operation.
type Entry struct {
	ID  int
	Key string
	// Name and Operation describe the operation as it was found in the source
	Name      string
	Operation ast.Operation
	// TransformedQuery is the minimized, possibly transformed, single operation document
	TransformedQuery *ast.QueryDocument
	Fragments        []string
}

// Manifest maps identity keys to entries and remembers the order in which
// keys were first added.
type Manifest struct {
	keys    []string
	entries map[string]Entry
}

func NewManifest() *Manifest {
	return &Manifest{
		entries: map[string]Entry{},
	}
}

// Set adds the entry, or replaces the entry stored under the same key while keeping its position.
func (m *Manifest) Set(entry Entry) {
	if _, ok := m.entries[entry.Key]; !ok {
		m.keys = append(m.keys, entry.Key)
	}
	m.entries[entry.Key] = entry
}

func (m *Manifest) Get(key string) (Entry, bool) {
	entry, ok := m.entries[key]
	return entry, ok
}

func (m *Manifest) ByID(id int) (Entry, bool) {
	for _, key := range m.keys {
		if m.entries[key].ID == id {
			return m.entries[key], true
		}
	}
	return Entry{}, false
}

func (m *Manifest) Len() int {
	return len(m.keys)
}

func (m *Manifest) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Entries returns all entries in insertion order.
func (m *Manifest) Entries() []Entry {
	entries := make([]Entry, 0, len(m.keys))
	for _, key := range m.keys {
		entries = append(entries, m.entries[key])
	}
	return entries
}

// SortedByID returns all entries ordered by id.
func (m *Manifest) SortedByID() []Entry {
	entries := m.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].ID < entries[j].ID
	})
	return entries
}

func (m *Manifest) Merge(other *Manifest) {
	if other == nil {
		return
	}
	for _, key := range other.keys {
		m.Set(other.entries[key])
	}
}

func (m *Manifest) Clone() *Manifest {
	clone := NewManifest()
	clone.Merge(m)
	return clone
}
