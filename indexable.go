package indexable

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/indexable/collection"
	"github.com/outofforest/indexable/indexmap"
	"github.com/outofforest/indexable/indices"
	"github.com/outofforest/indexable/types"
)

var (
	// ErrKeyNotIndexed means that lookup refers to the key which has not been indexed.
	ErrKeyNotIndexed = indexmap.ErrKeyNotIndexed

	// ErrIndexDisabled means that lookup was requested while index is disabled.
	ErrIndexDisabled = indexmap.ErrIndexDisabled

	// ErrMissingRecord means that there is no record at the position to be updated.
	ErrMissingRecord = errors.New("cannot update field of missing record")

	// ErrInvalidPosition means that position is negative.
	ErrInvalidPosition = errors.New("invalid position")
)

// New creates indexable array holding records. Nil records are holes.
func New[R any](config types.Config, records ...*R) *Array[R] {
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	a := &Array[R]{
		config:   config,
		records:  collection.New(records...),
		registry: indexmap.NewRegistry[R](config),
	}
	a.registry.Rebuild(a.records.Records())
	return a
}

// From creates indexable array by converting each element of src using f.
func From[S, R any](config types.Config, src []S, f func(s S) *R) *Array[R] {
	records := make([]*R, 0, len(src))
	for _, s := range src {
		records = append(records, f(s))
	}
	return New(config, records...)
}

// Array is an ordered collection of records, possibly containing holes, with indices mapping field values
// to positions holding them. Indices are kept consistent as long as records are modified using methods of
// Array only.
type Array[R any] struct {
	config   types.Config
	records  *collection.Collection[R]
	registry *indexmap.Registry[R]
}

// Clone returns copy of the array, having the same indices registered. Records are shared.
func (a *Array[R]) Clone() *Array[R] {
	c := New(a.config, a.records.Records()...)
	c.AddIndex(a.registry.Indices()...)
	if def := a.registry.Default(); def != "" {
		if err := c.registry.SetDefault(def); err != nil {
			panic(err)
		}
	}
	if !a.registry.Enabled() {
		c.registry.Disable()
	}
	return c
}

// AddIndex registers indices. The first index ever registered becomes the default one.
// Indices already registered are skipped.
func (a *Array[R]) AddIndex(indexes ...indices.Index) *Array[R] {
	for _, index := range indexes {
		if err := a.registry.Register(index, a.records.Records()); err != nil {
			panic(err)
		}
		a.config.Logger.Debug("Index registered", zap.String("index", index.Name()))
	}
	return a
}

// AddSelfIndex registers index over record identity.
func (a *Array[R]) AddSelfIndex() *Array[R] {
	return a.AddIndex(indices.NewSelfIndex[R]())
}

// SetDefault sets the index used by lookups not specifying the key.
func (a *Array[R]) SetDefault(name string) error {
	return a.registry.SetDefault(name)
}

// DisableIndex stops maintaining indices. Lookups fail until index is enabled again.
func (a *Array[R]) DisableIndex() {
	a.registry.Disable()
}

// EnableIndex rebuilds indices and starts maintaining them again.
func (a *Array[R]) EnableIndex() {
	a.registry.Enable(a.records.Records())
}

// IndexEnabled reports whether indices are maintained.
func (a *Array[R]) IndexEnabled() bool {
	return a.registry.Enabled()
}

// Len returns the length of the array, holes included.
func (a *Array[R]) Len() int {
	return a.records.Len()
}

// At returns record stored at the position. False is returned for holes and positions out of range.
func (a *Array[R]) At(pos int) (*R, bool) {
	return a.records.At(pos)
}

// All iterates over positions and records. Holes are reported as nil records.
func (a *Array[R]) All() func(func(int, *R) bool) {
	return a.records.All()
}

// Records returns copy of the stored records. Holes are nil.
func (a *Array[R]) Records() []*R {
	return append([]*R{}, a.records.Records()...)
}
