package indices

import (
	"reflect"

	"github.com/pkg/errors"
)

// NewIfIndex creates new conditional index.
func NewIfIndex[T any](name string, subIndex Index, f func(o *T) bool) (*IfIndex[T], error) {
	if t := reflect.TypeFor[T](); t != subIndex.Type() {
		return nil, errors.Errorf("subindex type mismatch, expected: %s, got: %s", t, subIndex.Type())
	}

	return &IfIndex[T]{
		name:     subIndex.Name() + "," + name,
		subIndex: subIndex,
		indexer: ifIndexer[T]{
			subIndexer: subIndex.Indexer(),
			f:          f,
		},
	}, nil
}

// IfIndex indexes those elements from another index for which f returns true.
// Records rejected by f behave as if they did not have the indexed field at all.
type IfIndex[T any] struct {
	name     string
	subIndex Index
	indexer  ifIndexer[T]
}

// Name returns name of the index.
func (i *IfIndex[T]) Name() string {
	return i.name
}

// Type returns type of entity index is defined for.
func (i *IfIndex[T]) Type() reflect.Type {
	return i.subIndex.Type()
}

// NumOfArgs returns number of arguments taken by the index.
func (i *IfIndex[T]) NumOfArgs() uint64 {
	return i.subIndex.NumOfArgs()
}

// Indexer returns indexer computing keys.
func (i *IfIndex[T]) Indexer() Indexer {
	return i.indexer
}

type ifIndexer[T any] struct {
	subIndexer Indexer
	f          func(o *T) bool
}

func (ii ifIndexer[T]) FromArgs(args ...any) ([]byte, error) {
	return ii.subIndexer.FromArgs(args...)
}

func (ii ifIndexer[T]) FromObject(o reflect.Value) ([]byte, bool) {
	if !ii.f(o.Interface().(*T)) {
		return nil, false
	}
	return ii.subIndexer.FromObject(o)
}
