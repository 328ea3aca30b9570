// Package ordmap provides an insertion-ordered map used for dependency and
// task tables, where output order must stay stable across merges.
//
// Setting an existing key updates its value in place without moving it;
// new keys are appended. This keeps merged dependency listings diff-friendly:
// a platform override can change a constraint without relocating the entry.
package ordmap

// Map is an insertion-ordered map from K to V.
// The zero value is ready to use. Not safe for concurrent mutation.
type Map[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// New returns an empty ordered map.
func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{values: make(map[K]V)}
}

// Set inserts or updates key. An existing key keeps its position; a new key
// is appended after all current entries.
func (m *Map[K, V]) Set(key K, value V) {
	if m.values == nil {
		m.values = make(map[K]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it is present.
func (m *Map[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *Map[K, V]) Has(key K) bool {
	_, ok := m.values[key]
	return ok
}

// Len returns the number of entries.
func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (m *Map[K, V]) Keys() []K {
	if m == nil {
		return nil
	}
	out := make([]K, len(m.keys))
	copy(out, m.keys)
	return out
}

// Each calls fn for every entry in insertion order.
func (m *Map[K, V]) Each(fn func(key K, value V)) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Merge applies every entry of other onto m in other's order, with Set
// semantics: existing keys are updated in place, new keys appended.
func (m *Map[K, V]) Merge(other *Map[K, V]) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		m.Set(k, other.values[k])
	}
}

// Clone returns an independent copy preserving order.
func (m *Map[K, V]) Clone() *Map[K, V] {
	out := New[K, V]()
	m.Each(func(k K, v V) { out.Set(k, v) })
	return out
}
