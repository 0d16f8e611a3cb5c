package indexmap

import (
	"slices"
)

// NewMap creates empty index map.
func NewMap() *Map {
	return &Map{
		buckets: map[string][]int{},
	}
}

// Map maps keys to ascending positions holding them.
type Map struct {
	buckets map[string][]int
}

// Positions returns positions stored under the key. Returned slice must not be modified.
func (m *Map) Positions(key string) []int {
	return m.buckets[key]
}

// Len returns the number of non-empty buckets.
func (m *Map) Len() int {
	return len(m.buckets)
}

// Add stores position under the key.
func (m *Map) Add(key string, pos int) {
	bucket := m.buckets[key]
	i, found := slices.BinarySearch(bucket, pos)
	if found {
		return
	}
	m.buckets[key] = slices.Insert(bucket, i, pos)
}

// Remove removes position from the key.
func (m *Map) Remove(key string, pos int) {
	bucket := m.buckets[key]
	i, found := slices.BinarySearch(bucket, pos)
	if !found {
		return
	}
	if len(bucket) == 1 {
		delete(m.buckets, key)
		return
	}
	m.buckets[key] = slices.Delete(bucket, i, i+1)
}

// Shift moves all the positions greater than or equal to from by delta.
// Caller guarantees that no position is moved onto or below another one which is not moved.
func (m *Map) Shift(from, delta int) {
	if delta == 0 {
		return
	}
	for _, bucket := range m.buckets {
		i, _ := slices.BinarySearch(bucket, from)
		for ; i < len(bucket); i++ {
			bucket[i] += delta
		}
	}
}

// Reverse mirrors positions in the collection of the given length.
func (m *Map) Reverse(length int) {
	for _, bucket := range m.buckets {
		for i, pos := range bucket {
			bucket[i] = length - 1 - pos
		}
		slices.Reverse(bucket)
	}
}
