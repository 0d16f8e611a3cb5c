package indices

import (
	"reflect"
)

// SelfIndexName is the name of the index built over record identity.
const SelfIndexName = "$self"

// Tuple carries lookup values for indices taking more than one argument.
type Tuple []any

// Indexer computes keys of index buckets.
type Indexer interface {
	// FromArgs computes the key from values passed to lookup.
	FromArgs(args ...any) ([]byte, error)

	// FromObject computes the key from a pointer to the record. False is returned if record is not indexed.
	FromObject(o reflect.Value) ([]byte, bool)
}

// Index defines the interface of index.
type Index interface {
	Name() string
	Type() reflect.Type
	NumOfArgs() uint64
	Indexer() Indexer
}
