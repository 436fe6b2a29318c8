package types

import (
	"iter"
	"slices"
)

// Keyed is an insertion-ordered map from an integer identifier to a value.
// Note types, decks and deck options are stored as JSON objects keyed by
// decimal ids; Keyed keeps those keys unique and remembers document order
// so serialization reproduces it. The zero value is ready to use.
type Keyed[V any] struct {
	keys  []int64
	items map[int64]V
}

// Set stores v under key. A new key is appended; an existing key keeps its
// position.
func (k *Keyed[V]) Set(key int64, v V) {
	if k.items == nil {
		k.items = make(map[int64]V)
	}
	if _, ok := k.items[key]; !ok {
		k.keys = append(k.keys, key)
	}
	k.items[key] = v
}

// Get returns the value stored under key.
func (k *Keyed[V]) Get(key int64) (V, bool) {
	v, ok := k.items[key]
	return v, ok
}

// Has reports whether key is present.
func (k *Keyed[V]) Has(key int64) bool {
	_, ok := k.items[key]
	return ok
}

// Delete removes key and reports whether it was present.
func (k *Keyed[V]) Delete(key int64) bool {
	if _, ok := k.items[key]; !ok {
		return false
	}
	delete(k.items, key)
	if i := slices.Index(k.keys, key); i >= 0 {
		k.keys = slices.Delete(k.keys, i, i+1)
	}
	return true
}

// Len returns the number of entries.
func (k *Keyed[V]) Len() int { return len(k.keys) }

// Keys returns a copy of the keys in order.
func (k *Keyed[V]) Keys() []int64 { return slices.Clone(k.keys) }

// All iterates entries in order.
func (k *Keyed[V]) All() iter.Seq2[int64, V] {
	return func(yield func(int64, V) bool) {
		for _, key := range k.keys {
			if !yield(key, k.items[key]) {
				return
			}
		}
	}
}

// Values returns the values in order.
func (k *Keyed[V]) Values() []V {
	out := make([]V, 0, len(k.keys))
	for _, key := range k.keys {
		out = append(out, k.items[key])
	}
	return out
}
