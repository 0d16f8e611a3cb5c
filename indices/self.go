package indices

import (
	"encoding/binary"
	"reflect"

	"github.com/pkg/errors"
)

// NewSelfIndex creates index over record identity. Records are identified by their pointers.
func NewSelfIndex[T any]() *SelfIndex[T] {
	return &SelfIndex[T]{}
}

// SelfIndex indexes records by identity.
type SelfIndex[T any] struct{}

// Name returns name of the index.
func (i *SelfIndex[T]) Name() string {
	return SelfIndexName
}

// Type returns type of entity index is defined for.
func (i *SelfIndex[T]) Type() reflect.Type {
	return reflect.TypeFor[T]()
}

// NumOfArgs returns number of arguments taken by the index.
func (i *SelfIndex[T]) NumOfArgs() uint64 {
	return 1
}

// Indexer returns indexer computing keys.
func (i *SelfIndex[T]) Indexer() Indexer {
	return selfIndexer[T]{}
}

type selfIndexer[T any] struct{}

func (si selfIndexer[T]) FromArgs(args ...any) ([]byte, error) {
	if len(args) != 1 {
		return nil, errors.Errorf("expected 1 argument, got %d", len(args))
	}
	o, ok := args[0].(*T)
	if !ok {
		return nil, errors.Errorf("value of type %T cannot be used as %s", args[0], reflect.TypeFor[*T]())
	}
	if o == nil {
		return nil, errors.New("nil record")
	}
	return pointerToBytes(reflect.ValueOf(o)), nil
}

func (si selfIndexer[T]) FromObject(o reflect.Value) ([]byte, bool) {
	return pointerToBytes(o), true
}

func pointerToBytes(o reflect.Value) []byte {
	return binary.BigEndian.AppendUint64(nil, uint64(o.Pointer()))
}
