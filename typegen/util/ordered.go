package util

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// OrderedSet is a keyed collection that keeps the first value stored under
// each key and iterates in insertion order. Every dedup step of a synthesis
// run allocates its own.
type OrderedSet[K comparable, V any] struct {
	m *orderedmap.OrderedMap[K, V]
}

// NewOrderedSet returns an empty set.
func NewOrderedSet[K comparable, V any]() *OrderedSet[K, V] {
	return &OrderedSet[K, V]{m: orderedmap.New[K, V]()}
}

// Add stores v under k unless k is already present. It reports whether v
// was stored.
func (s *OrderedSet[K, V]) Add(k K, v V) bool {
	if _, present := s.m.Get(k); present {
		return false
	}
	s.m.Set(k, v)
	return true
}

// Get returns the value stored under k.
func (s *OrderedSet[K, V]) Get(k K) (V, bool) {
	return s.m.Get(k)
}

// Len returns the number of keys.
func (s *OrderedSet[K, V]) Len() int {
	return s.m.Len()
}

// Keys returns the keys in insertion order.
func (s *OrderedSet[K, V]) Keys() []K {
	keys := make([]K, 0, s.m.Len())
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Values returns the values in insertion order.
func (s *OrderedSet[K, V]) Values() []V {
	values := make([]V, 0, s.m.Len())
	for pair := s.m.Oldest(); pair != nil; pair = pair.Next() {
		values = append(values, pair.Value)
	}
	return values
}
