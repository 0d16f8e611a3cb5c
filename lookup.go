package indexable

import (
	"slices"

	"github.com/samber/lo"

	"github.com/outofforest/indexable/indices"
	"github.com/outofforest/indexable/types"
)

type lookupOptions struct {
	key  string
	from int
}

// LookupOption configures lookup.
type LookupOption func(o *lookupOptions)

// Key selects the index used by lookup. If not provided, the default one is used.
func Key(name string) LookupOption {
	return func(o *lookupOptions) {
		o.key = name
	}
}

// FromIndex sets the position lookup starts from. Negative position is counted from the end of the array.
func FromIndex(pos int) LookupOption {
	return func(o *lookupOptions) {
		o.from = pos
	}
}

// IndexOf returns the first position holding the value, or types.NotFound.
func (a *Array[R]) IndexOf(value any, opts ...LookupOption) (int, error) {
	o := options(opts)
	positions, err := a.lookup(o.key, value)
	if err != nil {
		return types.NotFound, err
	}

	from := types.NormalizePosition(o.from, a.records.Len())
	i, _ := slices.BinarySearch(positions, from)
	if i == len(positions) {
		return types.NotFound, nil
	}
	return positions[i], nil
}

// AllIndexesOf returns all the positions holding the value in ascending order.
func (a *Array[R]) AllIndexesOf(value any, opts ...LookupOption) ([]int, error) {
	positions, err := a.lookup(options(opts).key, value)
	if err != nil {
		return nil, err
	}
	return append([]int{}, positions...), nil
}

// Get returns the first record holding the value.
func (a *Array[R]) Get(value any, opts ...LookupOption) (*R, bool, error) {
	pos, err := a.IndexOf(value, opts...)
	if err != nil || pos == types.NotFound {
		return nil, false, err
	}
	r, _ := a.records.At(pos)
	return r, true, nil
}

// GetAll returns all the records holding the value in the order of positions.
func (a *Array[R]) GetAll(value any, opts ...LookupOption) ([]*R, error) {
	positions, err := a.lookup(options(opts).key, value)
	if err != nil {
		return nil, err
	}
	records := a.records.Records()
	return lo.Map(positions, func(pos int, _ int) *R {
		return records[pos]
	}), nil
}

// Has reports whether any record holds the value.
func (a *Array[R]) Has(value any, opts ...LookupOption) (bool, error) {
	positions, err := a.lookup(options(opts).key, value)
	if err != nil {
		return false, err
	}
	return len(positions) > 0, nil
}

func (a *Array[R]) lookup(key string, value any) ([]int, error) {
	if tuple, ok := value.(indices.Tuple); ok {
		return a.registry.Lookup(key, tuple...)
	}
	return a.registry.Lookup(key, value)
}

func options(opts []LookupOption) lookupOptions {
	var o lookupOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
