package lang

import (
	"cmp"
	"iter"
	"log/slog"
	"strconv"
)

// StorageID is an opaque index into a [StoragePool] of T. The type parameter
// keeps identifiers of different pools from being mixed up.
type StorageID[T any] struct {
	index int
}

// Index returns the position of the identified item in its pool.
func (id StorageID[T]) Index() int { return id.index }

// Compare orders identifiers by index.
func (id StorageID[T]) Compare(other StorageID[T]) int {
	return cmp.Compare(id.index, other.index)
}

func (id StorageID[T]) String() string { return "#" + strconv.Itoa(id.index) }

// StoragePool is an append-only arena. Identifiers are never recycled.
type StoragePool[T any] struct {
	items []T
}

// NextID returns the identifier the next pushed item will receive.
func (p *StoragePool[T]) NextID() StorageID[T] {
	return StorageID[T]{index: len(p.items)}
}

// Push appends item and returns the identifier previously reported by
// [StoragePool.NextID].
func (p *StoragePool[T]) Push(item T) StorageID[T] {
	id := p.NextID()
	p.items = append(p.items, item)

	return id
}

// Get returns the item identified by id. It panics if id did not come from p.
func (p *StoragePool[T]) Get(id StorageID[T]) T {
	if id.index < 0 || id.index >= len(p.items) {
		panic("lang: storage id " + id.String() + " out of range")
	}

	return p.items[id.index]
}

// Len returns the number of items in p.
func (p *StoragePool[T]) Len() int { return len(p.items) }

// All returns an iterator over the items of p in insertion order.
func (p *StoragePool[T]) All() iter.Seq2[StorageID[T], T] {
	return func(yield func(StorageID[T], T) bool) {
		for i, item := range p.items {
			if !yield(StorageID[T]{index: i}, item) {
				return
			}
		}
	}
}

// ManyToOneMap stores items that are each reachable by one or more keys.
type ManyToOneMap[K comparable, V any] struct {
	items []V
	keys  map[K]int
	order [][]K // keys of each item, in declaration order
}

// ContainsAny reports whether any of keys is present.
func (m *ManyToOneMap[K, V]) ContainsAny(keys ...K) bool {
	for _, k := range keys {
		if _, ok := m.keys[k]; ok {
			return true
		}
	}

	return false
}

// Insert adds item under every key, replacing earlier bindings of those
// keys. Use [ManyToOneMap.Declare] for the collision-checked path.
func (m *ManyToOneMap[K, V]) Insert(keys []K, item V) {
	if m.keys == nil {
		m.keys = make(map[K]int)
	}

	index := len(m.items)
	m.items = append(m.items, item)
	m.order = append(m.order, append([]K(nil), keys...))

	for _, k := range keys {
		m.keys[k] = index
	}
}

// Declare adds item under every key if none of them is already bound and no
// key repeats. Otherwise it fails with [ErrNameCollision] and m is unchanged.
func (m *ManyToOneMap[K, V]) Declare(keys []K, item V) error {
	if taken := m.collisions(keys); len(taken) > 0 {
		return collisionError(taken)
	}

	m.Insert(keys, item)

	return nil
}

// collisions returns the keys that are already bound or repeated in keys.
func (m *ManyToOneMap[K, V]) collisions(keys []K) []K {
	var taken []K

	seen := make(map[K]struct{}, len(keys))

	for _, k := range keys {
		_, bound := m.keys[k]
		_, dup := seen[k]

		if bound || dup {
			taken = append(taken, k)
		}

		seen[k] = struct{}{}
	}

	return taken
}

// Get returns the item bound to key.
func (m *ManyToOneMap[K, V]) Get(key K) (V, bool) {
	i, ok := m.keys[key]
	if !ok {
		var zero V

		return zero, false
	}

	return m.items[i], true
}

// Entries returns an iterator over each item with all of its keys.
func (m *ManyToOneMap[K, V]) Entries() iter.Seq2[[]K, V] {
	return func(yield func([]K, V) bool) {
		for i, item := range m.items {
			if !yield(m.order[i], item) {
				return
			}
		}
	}
}

// Keys returns an iterator over every bound key, in no particular order.
func (m *ManyToOneMap[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.keys {
			if !yield(k) {
				return
			}
		}
	}
}

// Len returns the number of items (not keys) in m.
func (m *ManyToOneMap[K, V]) Len() int { return len(m.items) }

func collisionError[K any](keys []K) *Error {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = toString(k)
	}

	return ErrNameCollision.With(slog.Any("names", names))
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}

	return "?"
}
