package indexable

import (
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/outofforest/indexable/types"
)

// Push appends records and returns the new length.
func (a *Array[R]) Push(records ...*R) int {
	length := a.records.Len()
	a.records.Push(records...)
	for i, r := range records {
		a.registry.Add(length+i, r)
	}
	return a.records.Len()
}

// Pop removes the last position and returns record stored there.
func (a *Array[R]) Pop() (*R, bool) {
	length := a.records.Len()
	if length == 0 {
		return nil, false
	}
	a.registry.Remove(length-1, a.records.Records()[length-1])
	return a.records.Pop()
}

// Shift removes the first position and returns record stored there.
func (a *Array[R]) Shift() (*R, bool) {
	if a.records.Len() == 0 {
		return nil, false
	}
	a.registry.Remove(0, a.records.Records()[0])
	a.registry.Shift(1, -1)
	return a.records.Shift()
}

// Unshift inserts records at the beginning and returns the new length.
func (a *Array[R]) Unshift(records ...*R) int {
	a.registry.Shift(0, len(records))
	a.records.Unshift(records...)
	for i, r := range records {
		a.registry.Add(i, r)
	}
	return a.records.Len()
}

// Splice removes deleteCount positions starting at start and inserts records in their place.
// Negative start is counted from the end of the array. Removed records are returned.
func (a *Array[R]) Splice(start, deleteCount int, records ...*R) []*R {
	length := a.records.Len()
	start = types.NormalizePosition(start, length)
	deleteCount = lo.Clamp(deleteCount, 0, length-start)

	if a.registry.Enabled() && a.exceedsThreshold(length, start, deleteCount, len(records)) {
		removed := a.records.Splice(start, deleteCount, records...)
		a.config.Logger.Debug("Splice exceeds rebuild threshold",
			zap.Int("length", length),
			zap.Int("start", start),
			zap.Int("deleted", deleteCount),
			zap.Int("inserted", len(records)))
		a.registry.Rebuild(a.records.Records())
		return removed
	}

	existing := a.records.Records()
	for pos := start; pos < start+deleteCount; pos++ {
		a.registry.Remove(pos, existing[pos])
	}
	a.registry.Shift(start+deleteCount, len(records)-deleteCount)
	removed := a.records.Splice(start, deleteCount, records...)
	for i, r := range records {
		a.registry.Add(start+i, r)
	}
	return removed
}

// exceedsThreshold decides if splice touches so many positions that rebuilding indices is cheaper
// than patching them.
func (a *Array[R]) exceedsThreshold(length, start, deleteCount, insertCount int) bool {
	changed := deleteCount + insertCount
	if deleteCount != insertCount {
		changed += length - start - deleteCount
	}
	total := max(length, length-deleteCount+insertCount)
	return float64(changed) > a.config.RebuildThreshold*float64(total)
}

// Update modifies record stored at the position using f and updates indices whose keys have changed.
// If the same record is stored at other positions, they are updated too.
func (a *Array[R]) Update(pos int, f func(r *R)) error {
	r, exists := a.records.At(pos)
	if !exists {
		return errors.Wrapf(ErrMissingRecord, "position %d", pos)
	}

	keys := a.registry.Keys(r)
	f(r)
	for _, p := range a.registry.Aliases(r) {
		a.registry.Rekey(p, keys, r)
	}
	return nil
}

// SetLen truncates the array or extends it with holes.
func (a *Array[R]) SetLen(n int) {
	if n < 0 {
		n = 0
	}
	existing := a.records.Records()
	for pos := n; pos < len(existing); pos++ {
		a.registry.Remove(pos, existing[pos])
	}
	a.records.SetLen(n)
}

// Delete turns the position into a hole. Length of the array does not change.
func (a *Array[R]) Delete(pos int) {
	r, exists := a.records.At(pos)
	if !exists {
		return
	}
	a.registry.Remove(pos, r)
	a.records.Set(pos, nil)
}

// Set stores record at the position. If position is beyond the length of the array, array is extended
// with holes. Nil record turns the position into a hole.
func (a *Array[R]) Set(pos int, r *R) error {
	if pos < 0 {
		return errors.Wrapf(ErrInvalidPosition, "position %d", pos)
	}
	a.set(pos, r)
	return nil
}

func (a *Array[R]) set(pos int, r *R) {
	if old, exists := a.records.At(pos); exists {
		a.registry.Remove(pos, old)
	}
	a.records.Set(pos, r)
	a.registry.Add(pos, r)
}

// Reverse reverses the order of positions.
func (a *Array[R]) Reverse() {
	a.registry.Reverse(a.records.Len())
	a.records.Reverse()
}

// CopyWithin copies records from range [start, end) to positions starting at target.
// Negative arguments are counted from the end of the array. Length of the array does not change.
func (a *Array[R]) CopyWithin(target, start, end int) {
	length := a.records.Len()
	target = types.NormalizePosition(target, length)
	start = types.NormalizePosition(start, length)
	end = types.NormalizePosition(end, length)
	count := min(end-start, length-target)
	if count <= 0 {
		return
	}

	src := append([]*R{}, a.records.Records()[start:start+count]...)
	for i, r := range src {
		a.set(target+i, r)
	}
}

// Fill stores record at positions in range [start, end).
// Negative arguments are counted from the end of the array. Length of the array does not change.
func (a *Array[R]) Fill(r *R, start, end int) {
	length := a.records.Len()
	start = types.NormalizePosition(start, length)
	end = types.NormalizePosition(end, length)
	for pos := start; pos < end; pos++ {
		a.set(pos, r)
	}
}
