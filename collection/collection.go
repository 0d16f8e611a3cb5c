package collection

import (
	"slices"
)

// New creates collection holding records. Nil records are holes.
func New[R any](records ...*R) *Collection[R] {
	return &Collection[R]{
		records: slices.Clone(records),
	}
}

// Collection is an ordered, possibly sparse, sequence of records.
type Collection[R any] struct {
	records []*R
}

// Len returns the length of the collection, holes included.
func (c *Collection[R]) Len() int {
	return len(c.records)
}

// At returns the record stored at the position. False is returned for holes and positions out of range.
func (c *Collection[R]) At(pos int) (*R, bool) {
	if pos < 0 || pos >= len(c.records) {
		return nil, false
	}
	r := c.records[pos]
	return r, r != nil
}

// Records returns the underlying slice. It must not be modified by the caller.
func (c *Collection[R]) Records() []*R {
	return c.records
}

// All iterates over positions and records, holes included.
func (c *Collection[R]) All() func(func(int, *R) bool) {
	return func(yield func(int, *R) bool) {
		for i, r := range c.records {
			if !yield(i, r) {
				return
			}
		}
	}
}

// Push appends records to the end.
func (c *Collection[R]) Push(records ...*R) {
	c.records = append(c.records, records...)
}

// Pop removes the last position.
func (c *Collection[R]) Pop() (*R, bool) {
	if len(c.records) == 0 {
		return nil, false
	}
	r := c.records[len(c.records)-1]
	c.records[len(c.records)-1] = nil
	c.records = c.records[:len(c.records)-1]
	return r, true
}

// Shift removes the first position.
func (c *Collection[R]) Shift() (*R, bool) {
	if len(c.records) == 0 {
		return nil, false
	}
	r := c.records[0]
	c.records = slices.Delete(c.records, 0, 1)
	return r, true
}

// Unshift inserts records at the beginning.
func (c *Collection[R]) Unshift(records ...*R) {
	c.records = slices.Insert(c.records, 0, records...)
}

// Splice removes deleteCount positions starting at start and inserts records there.
// Arguments must already be normalized. Removed records are returned.
func (c *Collection[R]) Splice(start, deleteCount int, records ...*R) []*R {
	removed := slices.Clone(c.records[start : start+deleteCount])
	c.records = slices.Replace(c.records, start, start+deleteCount, records...)
	return removed
}

// Set stores record at the position, extending the collection with holes if needed.
func (c *Collection[R]) Set(pos int, r *R) {
	if pos >= len(c.records) {
		c.SetLen(pos + 1)
	}
	c.records[pos] = r
}

// SetLen truncates the collection or extends it with holes.
func (c *Collection[R]) SetLen(n int) {
	if n <= len(c.records) {
		clear(c.records[n:])
		c.records = c.records[:n]
		return
	}
	c.records = append(c.records, make([]*R, n-len(c.records))...)
}

// Reverse reverses the order of positions.
func (c *Collection[R]) Reverse() {
	slices.Reverse(c.records)
}
