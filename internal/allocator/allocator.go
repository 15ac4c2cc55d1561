// Package allocator computes shared key pools for fact→dimension
// relationships so that generated fact rows join to existing dimension rows
// at a controlled overlap ratio.
package allocator

import (
	"fmt"
	"math"

	"github.com/demoforgehq/demoforge/internal/spec"
)

// DefaultOverlapRatio is the target fraction of dimension keys reachable
// from fact-table foreign keys.
const DefaultOverlapRatio = 0.70

// minSharedKeys is the smallest shared pool worth sampling from. Below it
// the ratio target is relaxed and the whole dimension key set is shared.
const minSharedKeys = 2

// RelKey identifies one fact→dimension relationship.
type RelKey struct {
	FactTable string
	DimTable  string
}

// JoinKeyPool partitions a dimension's prospective primary keys into a
// shared subset (reused by fact foreign keys) and a private remainder.
// Fact foreign-key values are drawn only from Shared, so every fact row
// joins to an existing dimension row; the fraction of dimension keys the
// facts can reach stays at len(Shared)/len(dimension keys).
type JoinKeyPool struct {
	DimTable  string
	DimColumn string
	// Shared holds the dimension keys fact rows may reference.
	Shared []int64
	// Private holds the dimension-only keys no fact row references.
	Private []int64
	// Relaxed is set when the dimension was too small to honor the ratio
	// and the entire key set was shared instead.
	Relaxed bool
}

// DimensionSize is the total number of dimension keys in the pool.
func (p *JoinKeyPool) DimensionSize() int {
	return len(p.Shared) + len(p.Private)
}

// Contains reports whether key is in the shared subset.
func (p *JoinKeyPool) Contains(key int64) bool {
	for _, k := range p.Shared {
		if k == key {
			return true
		}
	}
	return false
}

// Allocate computes one JoinKeyPool per fact→dimension relationship in the
// schema. Dimension primary keys are dense sequences starting at 1, sized
// by the dimension's row count; the first round(D*overlapRatio) keys form
// the shared subset. overlapRatio must lie in [0, 1].
func Allocate(schema *spec.CanonicalSchema, overlapRatio float64) (map[RelKey]*JoinKeyPool, error) {
	if overlapRatio < 0 || overlapRatio > 1 {
		return nil, fmt.Errorf("overlap ratio %v outside [0, 1]", overlapRatio)
	}

	pools := make(map[RelKey]*JoinKeyPool, len(schema.Relationships))
	for _, rel := range schema.Relationships {
		dim := schema.Table(rel.DimTable)
		if dim == nil {
			return nil, fmt.Errorf("relationship %s.%s references unknown dimension %s",
				rel.FactTable, rel.FactColumn, rel.DimTable)
		}

		key := RelKey{FactTable: rel.FactTable, DimTable: rel.DimTable}
		if _, ok := pools[key]; ok {
			// Multiple FK columns between the same pair share one pool.
			continue
		}

		pools[key] = poolFor(dim, rel.DimColumn, overlapRatio)
	}
	return pools, nil
}

func poolFor(dim *spec.Table, dimColumn string, ratio float64) *JoinKeyPool {
	d := dim.RowCount
	k := int(math.Round(float64(d) * ratio))

	pool := &JoinKeyPool{DimTable: dim.Name, DimColumn: dimColumn}
	if k < minSharedKeys {
		// Dimension too small for a meaningful split: treat every key as
		// shared and report the relaxation rather than silently missing
		// the ratio target.
		pool.Relaxed = true
		k = d
	}

	keys := make([]int64, d)
	for i := range keys {
		keys[i] = int64(i + 1)
	}
	pool.Shared = keys[:k]
	pool.Private = keys[k:]
	return pool
}
