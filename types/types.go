package types

import (
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// NotFound is returned by position lookups when nothing matches.
const NotFound = -1

// Config is the config of indexable array.
type Config struct {
	// RebuildThreshold is the fraction of the array length above which a splice
	// rebuilds indices from scratch instead of patching them.
	RebuildThreshold float64

	// ParallelRebuildSize is the minimal length of the array for which indices are rebuilt concurrently.
	// Zero disables parallel rebuilds.
	ParallelRebuildSize int

	// Logger receives debug logs about index rebuilds. Nil means logs are discarded.
	Logger *zap.Logger
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		RebuildThreshold:    0.5,
		ParallelRebuildSize: 100_000,
		Logger:              zap.NewNop(),
	}
}

// NormalizePosition converts position which might be negative, meaning it is counted from the end,
// to the absolute one clamped to [0, length].
func NormalizePosition(pos, length int) int {
	if pos < 0 {
		pos += length
	}
	return lo.Clamp(pos, 0, length)
}
