package indices

import (
	"reflect"

	"github.com/pkg/errors"
)

// NewFuncIndex creates index taking keys from f. It is the way to index records which are not structs,
// e.g. maps. Records for which f returns false are not indexed.
func NewFuncIndex[T any, K comparable](name string, f func(o *T) (K, bool)) (*FuncIndex[T, K], error) {
	if name == "" {
		return nil, errors.New("index name is empty")
	}
	keyType := reflect.TypeFor[K]()
	encode, err := encoderForType(keyType)
	if err != nil {
		return nil, err
	}

	return &FuncIndex[T, K]{
		name: name,
		indexer: funcIndexer[T, K]{
			keyType: keyType,
			encode:  encode,
			f:       f,
		},
	}, nil
}

// FuncIndex indexes records by the key returned by function.
type FuncIndex[T any, K comparable] struct {
	name    string
	indexer funcIndexer[T, K]
}

// Name returns name of the index.
func (i *FuncIndex[T, K]) Name() string {
	return i.name
}

// Type returns type of entity index is defined for.
func (i *FuncIndex[T, K]) Type() reflect.Type {
	return reflect.TypeFor[T]()
}

// NumOfArgs returns number of arguments taken by the index.
func (i *FuncIndex[T, K]) NumOfArgs() uint64 {
	return 1
}

// Indexer returns indexer computing keys.
func (i *FuncIndex[T, K]) Indexer() Indexer {
	return i.indexer
}

type funcIndexer[T any, K comparable] struct {
	keyType reflect.Type
	encode  func(v reflect.Value) []byte
	f       func(o *T) (K, bool)
}

func (fi funcIndexer[T, K]) FromArgs(args ...any) ([]byte, error) {
	if len(args) != 1 {
		return nil, errors.Errorf("expected 1 argument, got %d", len(args))
	}
	return encodeArg(args[0], fi.keyType, fi.encode)
}

func (fi funcIndexer[T, K]) FromObject(o reflect.Value) ([]byte, bool) {
	k, ok := fi.f(o.Interface().(*T))
	if !ok {
		return nil, false
	}
	key := fi.encode(reflect.ValueOf(&k).Elem())
	return key, key != nil
}
