package collection

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type record struct {
	ID int
}

func records(c *Collection[record]) []int {
	ids := []int{}
	for _, r := range c.All() {
		if r == nil {
			ids = append(ids, 0)
			continue
		}
		ids = append(ids, r.ID)
	}
	return ids
}

func TestPushPop(t *testing.T) {
	requireT := require.New(t)

	c := New[record]()
	_, ok := c.Pop()
	requireT.False(ok)

	c.Push(&record{ID: 1}, &record{ID: 2})
	requireT.Equal([]int{1, 2}, records(c))

	r, ok := c.Pop()
	requireT.True(ok)
	requireT.Equal(2, r.ID)
	requireT.Equal([]int{1}, records(c))
}

func TestShiftUnshift(t *testing.T) {
	requireT := require.New(t)

	c := New(&record{ID: 1}, &record{ID: 2})
	c.Unshift(&record{ID: 3}, &record{ID: 4})
	requireT.Equal([]int{3, 4, 1, 2}, records(c))

	r, ok := c.Shift()
	requireT.True(ok)
	requireT.Equal(3, r.ID)
	requireT.Equal([]int{4, 1, 2}, records(c))
}

func TestSplice(t *testing.T) {
	requireT := require.New(t)

	c := New(&record{ID: 1}, &record{ID: 2}, &record{ID: 3})
	removed := c.Splice(1, 1, &record{ID: 4}, &record{ID: 5})
	requireT.Len(removed, 1)
	requireT.Equal(2, removed[0].ID)
	requireT.Equal([]int{1, 4, 5, 3}, records(c))

	removed = c.Splice(0, 4)
	requireT.Len(removed, 4)
	requireT.Equal(0, c.Len())
}

func TestSetExtendsWithHoles(t *testing.T) {
	requireT := require.New(t)

	c := New(&record{ID: 1})
	c.Set(3, &record{ID: 2})
	requireT.Equal([]int{1, 0, 0, 2}, records(c))

	_, ok := c.At(1)
	requireT.False(ok)
	_, ok = c.At(10)
	requireT.False(ok)
	_, ok = c.At(-1)
	requireT.False(ok)

	r, ok := c.At(3)
	requireT.True(ok)
	requireT.Equal(2, r.ID)
}

func TestSetLen(t *testing.T) {
	requireT := require.New(t)

	c := New(&record{ID: 1}, &record{ID: 2}, &record{ID: 3})
	c.SetLen(1)
	requireT.Equal([]int{1}, records(c))

	c.SetLen(3)
	requireT.Equal([]int{1, 0, 0}, records(c))
}

func TestReverse(t *testing.T) {
	requireT := require.New(t)

	c := New(&record{ID: 1}, nil, &record{ID: 3})
	c.Reverse()
	requireT.Equal([]int{3, 0, 1}, records(c))
}
