package indexable

import (
	"fmt"
	"slices"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"

	"github.com/outofforest/indexable/indices"
	"github.com/outofforest/indexable/types"
)

var propertyNames = []string{"George", "Lisa", "Mia", "Sam"}

type operationRunner struct {
	a      *Array[person]
	nextID uint64
}

func (r *operationRunner) newPerson(v int) *person {
	r.nextID++
	return &person{ID: r.nextID, Name: propertyNames[v%len(propertyNames)]}
}

func (r *operationRunner) existing(v int) *person {
	if r.a.Len() == 0 {
		return r.newPerson(v)
	}
	if p, _ := r.a.At(v % r.a.Len()); p != nil {
		return p
	}
	return r.newPerson(v)
}

// apply decodes single operation from v and runs it against the array.
func (r *operationRunner) apply(v int) {
	length := r.a.Len()
	arg1 := (v >> 4) % 8
	arg2 := (v >> 8) % 8
	arg3 := (v >> 12) % 8

	switch v % 13 {
	case 0:
		r.a.Push(r.newPerson(arg1))
	case 1:
		r.a.Pop()
	case 2:
		r.a.Shift()
	case 3:
		r.a.Unshift(r.newPerson(arg1), r.newPerson(arg2))
	case 4:
		records := make([]*person, 0, arg3%4)
		for i := range arg3 % 4 {
			records = append(records, r.newPerson(arg1+i))
		}
		r.a.Splice(arg1-4, arg2%4, records...)
	case 5:
		_ = r.a.Update(arg1%(length+1), func(p *person) {
			p.Name = propertyNames[arg2%len(propertyNames)]
		})
	case 6:
		r.a.SetLen(arg1)
	case 7:
		r.a.Delete(arg1)
	case 8:
		_ = r.a.Set(arg1, r.newPerson(arg2))
	case 9:
		r.a.Reverse()
	case 10:
		r.a.CopyWithin(arg1-4, arg2-4, arg3-4)
	case 11:
		r.a.Fill(r.existing(arg1), arg2-4, arg3-4)
	case 12:
		_ = r.a.Set(arg1, r.existing(arg2))
	}
}

func scanFunc(a *Array[person], f func(p *person) bool) []int {
	positions := []int{}
	for pos, p := range a.All() {
		if p != nil && f(p) {
			positions = append(positions, pos)
		}
	}
	return positions
}

func scan(a *Array[person], name string) []int {
	return scanFunc(a, func(p *person) bool {
		return p.Name == name
	})
}

func isEven(p *person) bool {
	return p.ID%2 == 0
}

func indexesMatchScan(a *Array[person]) bool {
	for _, name := range propertyNames {
		positions, err := a.AllIndexesOf(name)
		if err != nil || !slices.Equal(positions, scan(a, name)) {
			return false
		}
	}
	for _, name := range propertyNames {
		positions, err := a.AllIndexesOf(name, Key(evenNameIndexName))
		if err != nil || !slices.Equal(positions, scanFunc(a, func(p *person) bool {
			return p.Name == name && isEven(p)
		})) {
			return false
		}
	}
	for _, p := range a.Records() {
		if p == nil {
			continue
		}
		positions, err := a.AllIndexesOf(p, Key(indices.SelfIndexName))
		if err != nil || !slices.Equal(positions, scanFunc(a, func(r *person) bool {
			return r == p
		})) {
			return false
		}

		positions, err = a.AllIndexesOf(p.ID, Key("id"))
		if err != nil || !slices.Equal(positions, scanFunc(a, func(r *person) bool {
			return r.ID == p.ID
		})) {
			return false
		}
	}
	return true
}

func propertyParameters() *gopter.TestParameters {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	return parameters
}

const evenNameIndexName = "name,even"

func evenNameIndex(t *testing.T) indices.Index {
	index, err := indices.NewIfIndex("even", nameIndex(t), isEven)
	require.NoError(t, err)
	return index
}

func propertyArray(t *testing.T, c types.Config, threshold float64) *Array[person] {
	c.RebuildThreshold = threshold
	return New(c, getData()...).AddIndex(nameIndex(t), idIndex(t), evenNameIndex(t)).AddSelfIndex()
}

func TestPropertyIndexesMatchScan(t *testing.T) {
	c := config(t)
	properties := gopter.NewProperties(propertyParameters())

	for _, threshold := range []float64{0, 0.5, 2} {
		properties.Property(fmt.Sprintf("indexes match scan after every operation, threshold %.1f", threshold), prop.ForAll(
			func(ops []int) bool {
				r := &operationRunner{a: propertyArray(t, c, threshold), nextID: 100}
				for _, op := range ops {
					r.apply(op)
					if !indexesMatchScan(r.a) {
						return false
					}
				}
				return true
			},
			gen.SliceOf(gen.IntRange(0, 1<<16-1)),
		))
	}

	properties.TestingRun(t)
}

func TestPropertyRebuildEquivalence(t *testing.T) {
	c := config(t)
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("incremental indexes equal rebuilt ones", prop.ForAll(
		func(ops []int) bool {
			r := &operationRunner{a: propertyArray(t, c, types.DefaultConfig().RebuildThreshold), nextID: 100}
			for _, op := range ops {
				r.apply(op)
			}

			rebuilt := New(c, r.a.Records()...).AddIndex(nameIndex(t), idIndex(t), evenNameIndex(t))
			for _, key := range []string{"name", evenNameIndexName} {
				for _, name := range propertyNames {
					expected, err := rebuilt.AllIndexesOf(name, Key(key))
					if err != nil {
						return false
					}
					positions, err := r.a.AllIndexesOf(name, Key(key))
					if err != nil || !slices.Equal(expected, positions) {
						return false
					}
				}
			}
			for id := range r.nextID + 1 {
				expected, err := rebuilt.AllIndexesOf(id, Key("id"))
				if err != nil {
					return false
				}
				positions, err := r.a.AllIndexesOf(id, Key("id"))
				if err != nil || !slices.Equal(expected, positions) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1<<16-1)),
	))

	properties.TestingRun(t)
}

func TestPropertyDisableEnable(t *testing.T) {
	c := config(t)
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("operations on disabled indexes are caught up on enable", prop.ForAll(
		func(before, during []int) bool {
			r := &operationRunner{a: propertyArray(t, c, types.DefaultConfig().RebuildThreshold), nextID: 100}
			for _, op := range before {
				r.apply(op)
			}

			r.a.DisableIndex()
			for _, op := range during {
				r.apply(op)
			}
			if _, err := r.a.AllIndexesOf("George"); err == nil {
				return false
			}

			r.a.EnableIndex()
			return indexesMatchScan(r.a)
		},
		gen.SliceOf(gen.IntRange(0, 1<<16-1)),
		gen.SliceOf(gen.IntRange(0, 1<<16-1)),
	))

	properties.TestingRun(t)
}

func TestPropertyIndexOfFrom(t *testing.T) {
	c := config(t)
	properties := gopter.NewProperties(propertyParameters())

	properties.Property("IndexOf returns first matching position at or after from", prop.ForAll(
		func(ops []int, from int) bool {
			r := &operationRunner{a: propertyArray(t, c, types.DefaultConfig().RebuildThreshold), nextID: 100}
			for _, op := range ops {
				r.apply(op)
			}

			start := types.NormalizePosition(from, r.a.Len())
			for _, name := range propertyNames {
				expected := types.NotFound
				for _, pos := range scan(r.a, name) {
					if pos >= start {
						expected = pos
						break
					}
				}
				pos, err := r.a.IndexOf(name, FromIndex(from))
				if err != nil || pos != expected {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 1<<16-1)),
		gen.IntRange(-10, 10),
	))

	properties.TestingRun(t)
}
