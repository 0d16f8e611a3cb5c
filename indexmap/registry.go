package indexmap

import (
	"context"
	"reflect"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/indexable/indices"
	"github.com/outofforest/indexable/types"
	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
)

var (
	// ErrKeyNotIndexed means that there is no index registered under the requested key.
	ErrKeyNotIndexed = errors.New("key is not indexed")

	// ErrIndexDisabled means that index based operation was requested while indices are disabled.
	ErrIndexDisabled = errors.New("index based operations cannot be used while index is disabled")
)

// NewRegistry creates registry of indices defined for records of type R.
func NewRegistry[R any](config types.Config) *Registry[R] {
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	selfIndex := indices.NewSelfIndex[R]()
	return &Registry[R]{
		config:     config,
		entityType: reflect.TypeFor[R](),
		entries: []*entry{{
			index:   selfIndex,
			indexer: selfIndex.Indexer(),
			m:       NewMap(),
		}},
		byName:  map[string]*entry{},
		enabled: true,
	}
}

type entry struct {
	index   indices.Index
	indexer indices.Indexer
	m       *Map
}

// Registry keeps index maps of the collection.
// The identity map at entries[0] is always maintained, it becomes available for lookups once self index is
// registered.
type Registry[R any] struct {
	config      types.Config
	entityType  reflect.Type
	entries     []*entry
	byName      map[string]*entry
	defaultName string
	enabled     bool
}

// Register registers index and builds its map from records. Registering the same name again is a no-op.
func (r *Registry[R]) Register(index indices.Index, records []*R) error {
	if index.Type() != r.entityType {
		return errors.Errorf("index %s is defined for type %s, expected %s", index.Name(), index.Type(), r.entityType)
	}
	if _, exists := r.byName[index.Name()]; exists {
		return nil
	}

	var e *entry
	if index.Name() == indices.SelfIndexName {
		e = r.entries[0]
	} else {
		e = &entry{
			index:   index,
			indexer: index.Indexer(),
		}
		e.m = build(e.indexer, records)
		r.entries = append(r.entries, e)
	}

	r.byName[index.Name()] = e
	if r.defaultName == "" {
		r.defaultName = index.Name()
	}
	return nil
}

// Indices returns registered indices in the order of registration.
func (r *Registry[R]) Indices() []indices.Index {
	result := make([]indices.Index, 0, len(r.entries))
	for _, e := range r.entries {
		if r.byName[e.index.Name()] == e {
			result = append(result, e.index)
		}
	}
	return result
}

// Default returns the name of the default index.
func (r *Registry[R]) Default() string {
	return r.defaultName
}

// SetDefault sets the index used by lookups not specifying the key.
func (r *Registry[R]) SetDefault(name string) error {
	if _, exists := r.byName[name]; !exists {
		return errors.Wrapf(ErrKeyNotIndexed, "key %q", name)
	}
	r.defaultName = name
	return nil
}

// Enabled reports if indices are maintained.
func (r *Registry[R]) Enabled() bool {
	return r.enabled
}

// Disable stops maintaining indices.
func (r *Registry[R]) Disable() {
	r.enabled = false
}

// Enable rebuilds all the indices and starts maintaining them again.
func (r *Registry[R]) Enable(records []*R) {
	if r.enabled {
		return
	}
	r.Rebuild(records)
	r.enabled = true
}

// Rebuild builds all the index maps from scratch.
func (r *Registry[R]) Rebuild(records []*R) {
	maps := make([]*Map, len(r.entries))
	isParallel := len(r.entries) > 1 && r.config.ParallelRebuildSize > 0 &&
		len(records) >= r.config.ParallelRebuildSize

	if isParallel {
		ctx := logger.WithLogger(context.Background(), r.config.Logger)
		err := parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
			for i, e := range r.entries {
				spawn(e.index.Name(), parallel.Continue, func(ctx context.Context) error {
					maps[i] = build(e.indexer, records)
					return nil
				})
			}
			return nil
		})
		if err != nil {
			panic(errors.WithStack(err))
		}
	} else {
		for i, e := range r.entries {
			maps[i] = build(e.indexer, records)
		}
	}

	for i, e := range r.entries {
		e.m = maps[i]
	}

	r.config.Logger.Debug("Indices rebuilt",
		zap.Int("length", len(records)),
		zap.Int("indices", len(r.entries)),
		zap.Bool("parallel", isParallel))
}

// Add indexes record stored at the position.
func (r *Registry[R]) Add(pos int, record *R) {
	if !r.enabled || record == nil {
		return
	}
	o := reflect.ValueOf(record)
	for _, e := range r.entries {
		if k, ok := e.indexer.FromObject(o); ok {
			e.m.Add(string(k), pos)
		}
	}
}

// Remove removes record stored at the position from indices.
func (r *Registry[R]) Remove(pos int, record *R) {
	if !r.enabled || record == nil {
		return
	}
	o := reflect.ValueOf(record)
	for _, e := range r.entries {
		if k, ok := e.indexer.FromObject(o); ok {
			e.m.Remove(string(k), pos)
		}
	}
}

type key struct {
	value   string
	indexed bool
}

// Keys holds keys computed for the record by all the indices.
type Keys []key

// Keys computes keys of the record.
func (r *Registry[R]) Keys(record *R) Keys {
	if !r.enabled {
		return nil
	}
	o := reflect.ValueOf(record)
	keys := make(Keys, 0, len(r.entries))
	for _, e := range r.entries {
		k, ok := e.indexer.FromObject(o)
		keys = append(keys, key{value: string(k), indexed: ok})
	}
	return keys
}

// Rekey moves position between buckets of those indices for which the key of the record differs from
// the one taken before the record was modified.
func (r *Registry[R]) Rekey(pos int, oldKeys Keys, record *R) {
	if !r.enabled {
		return
	}
	for i, newKey := range r.Keys(record) {
		oldKey := oldKeys[i]
		if oldKey == newKey {
			continue
		}
		e := r.entries[i]
		if oldKey.indexed {
			e.m.Remove(oldKey.value, pos)
		}
		if newKey.indexed {
			e.m.Add(newKey.value, pos)
		}
	}
}

// Aliases returns all the positions holding the record. Returned slice must not be modified.
func (r *Registry[R]) Aliases(record *R) []int {
	k, _ := r.entries[0].indexer.FromObject(reflect.ValueOf(record))
	return r.entries[0].m.Positions(string(k))
}

// Shift moves all the indexed positions greater than or equal to from by delta.
func (r *Registry[R]) Shift(from, delta int) {
	if !r.enabled {
		return
	}
	for _, e := range r.entries {
		e.m.Shift(from, delta)
	}
}

// Reverse mirrors all the indexed positions.
func (r *Registry[R]) Reverse(length int) {
	if !r.enabled {
		return
	}
	for _, e := range r.entries {
		e.m.Reverse(length)
	}
}

// Lookup returns positions holding the value. Empty name means the default index.
// Returned slice must not be modified.
func (r *Registry[R]) Lookup(name string, args ...any) ([]int, error) {
	if !r.enabled {
		return nil, errors.WithStack(ErrIndexDisabled)
	}
	if name == "" {
		name = r.defaultName
	}
	e, exists := r.byName[name]
	if !exists {
		return nil, errors.Wrapf(ErrKeyNotIndexed, "key %q", name)
	}

	k, err := e.indexer.FromArgs(args...)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid value for index %s", name)
	}
	return e.m.Positions(string(k)), nil
}

func build[R any](indexer indices.Indexer, records []*R) *Map {
	m := NewMap()
	for pos, record := range records {
		if record == nil {
			continue
		}
		if k, ok := indexer.FromObject(reflect.ValueOf(record)); ok {
			// Positions come in ascending order so appending keeps buckets sorted.
			m.buckets[string(k)] = append(m.buckets[string(k)], pos)
		}
	}
	return m
}
