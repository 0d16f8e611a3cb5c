package indices

import (
	"reflect"

	"github.com/pkg/errors"
)

// NewMultiIndex creates new multiindex.
func NewMultiIndex(subIndices ...Index) (*MultiIndex, error) {
	if len(subIndices) == 0 {
		return nil, errors.Errorf("no subindices has been provided")
	}

	t := subIndices[0].Type()

	var numOfArgs uint64
	var name string
	subIndexers := make([]Indexer, 0, len(subIndices))
	for _, si := range subIndices {
		if si.Type() != t {
			return nil, errors.Errorf("wrong type, expected: %s, got: %s", t, si.Type())
		}
		numOfArgs += si.NumOfArgs()

		if name != "" {
			name += ","
		}
		name += si.Name()
		subIndexers = append(subIndexers, si.Indexer())
	}

	return &MultiIndex{
		name:       name,
		numOfArgs:  numOfArgs,
		entityType: t,
		indexer: &multiIndexer{
			subIndices:  subIndices,
			subIndexers: subIndexers,
			numOfArgs:   numOfArgs,
		},
	}, nil
}

// MultiIndex compiles many indices into a single one.
type MultiIndex struct {
	name       string
	numOfArgs  uint64
	entityType reflect.Type
	indexer    *multiIndexer
}

// Name returns name of the index.
func (i *MultiIndex) Name() string {
	return i.name
}

// Type returns type of entity index is defined for.
func (i *MultiIndex) Type() reflect.Type {
	return i.entityType
}

// NumOfArgs returns number of arguments taken by the index.
func (i *MultiIndex) NumOfArgs() uint64 {
	return i.numOfArgs
}

// Indexer returns indexer computing keys.
func (i *MultiIndex) Indexer() Indexer {
	return i.indexer
}

type multiIndexer struct {
	subIndices  []Index
	subIndexers []Indexer
	numOfArgs   uint64
}

// FromArgs requires values for all the subindices, buckets are matched exactly.
func (mi *multiIndexer) FromArgs(args ...any) ([]byte, error) {
	if uint64(len(args)) != mi.numOfArgs {
		return nil, errors.Errorf("expected %d arguments, got %d", mi.numOfArgs, len(args))
	}

	var startArg uint64
	var value []byte
	for i, index := range mi.subIndices {
		numOfArgs := index.NumOfArgs()
		subValue, err := mi.subIndexers[i].FromArgs(args[startArg : startArg+numOfArgs]...)
		if err != nil {
			return nil, errors.Wrapf(err, "argument for index %s", index.Name())
		}
		startArg += numOfArgs
		value = append(value, subValue...)
	}
	return value, nil
}

func (mi *multiIndexer) FromObject(o reflect.Value) ([]byte, bool) {
	var value []byte
	for _, si := range mi.subIndexers {
		b, ok := si.FromObject(o)
		if !ok {
			return nil, false
		}
		value = append(value, b...)
	}
	return value, true
}
