package indices

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelfIndex(t *testing.T) {
	requireT := require.New(t)

	index := NewSelfIndex[o]()
	requireT.Equal(SelfIndexName, index.Name())
	requireT.Equal(reflect.TypeOf(o{}), index.Type())
	requireT.EqualValues(1, index.NumOfArgs())

	v1 := &o{Value1: 1}
	v2 := &o{Value1: 1}

	key1, exists := index.Indexer().FromObject(reflect.ValueOf(v1))
	requireT.True(exists)
	key2, exists := index.Indexer().FromObject(reflect.ValueOf(v2))
	requireT.True(exists)
	requireT.NotEqual(key1, key2)

	value, err := index.Indexer().FromArgs(v1)
	requireT.NoError(err)
	requireT.Equal(key1, value)

	_, err = index.Indexer().FromArgs(*v1)
	requireT.Error(err)

	_, err = index.Indexer().FromArgs((*o)(nil))
	requireT.Error(err)
}
