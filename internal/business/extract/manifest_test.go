package extract

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestManifest(t *testing.T) {
	m := NewManifest()
	m.Set(Entry{ID: 2, Key: "b"})
	m.Set(Entry{ID: 1, Key: "a"})
	m.Set(Entry{ID: 3, Key: "b", Name: "replaced"})

	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"b", "a"}, m.Keys())

	entry, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "replaced", entry.Name)

	byID, ok := m.ByID(1)
	assert.True(t, ok)
	assert.Equal(t, "a", byID.Key)

	_, ok = m.ByID(2)
	assert.False(t, ok)

	sorted := m.SortedByID()
	assert.Equal(t, "a", sorted[0].Key)
	assert.Equal(t, "b", sorted[1].Key)
}

func TestManifest_MergeAndClone(t *testing.T) {
	m := NewManifest()
	m.Set(Entry{ID: 1, Key: "a"})

	other := NewManifest()
	other.Set(Entry{ID: 2, Key: "b"})
	other.Set(Entry{ID: 1, Key: "a", Name: "again"})

	m.Merge(other)
	m.Merge(nil)

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	entry, _ := m.Get("a")
	assert.Equal(t, "again", entry.Name)

	clone := m.Clone()
	clone.Set(Entry{ID: 3, Key: "c"})
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 3, clone.Len())
}
