package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/terrarium/components"
)

// Tracker maintains per-type population counts and regional diversity
// snapshots. Counts are owned state passed by reference into core calls,
// not a package-level singleton; single-writer-per-tick, no locking.
type Tracker struct {
	counts     map[string]int
	regionSize float64
}

// NewTracker creates a tracker. Regional diversity buckets positions into
// square regions of the given edge length.
func NewTracker(regionSize float64) *Tracker {
	if regionSize <= 0 {
		regionSize = 100
	}
	return &Tracker{
		counts:     make(map[string]int),
		regionSize: regionSize,
	}
}

// Rebuild replaces all counts from the given snapshot. It is a
// reset-and-rebuild, not an incremental merge: calling it with an empty
// list leaves the tracker empty, never at the previous snapshot.
func (t *Tracker) Rebuild(organisms []*components.Organism) {
	t.counts = make(map[string]int, len(t.counts))
	for _, org := range organisms {
		if org == nil {
			continue
		}
		t.counts[org.Type]++
	}
}

// Counts returns a copy of the type -> count mapping as of the last
// Rebuild or Add/Remove call.
func (t *Tracker) Counts() map[string]int {
	out := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}

// Count returns the count for one type.
func (t *Tracker) Count(typeName string) int {
	return t.counts[typeName]
}

// Total returns the total tracked population.
func (t *Tracker) Total() int {
	total := 0
	for _, v := range t.counts {
		total += v
	}
	return total
}

// Add increments a type count between rebuilds (births during a tick).
func (t *Tracker) Add(typeName string) {
	t.counts[typeName]++
}

// Remove decrements a type count between rebuilds (deaths during a tick).
func (t *Tracker) Remove(typeName string) {
	if t.counts[typeName] > 0 {
		t.counts[typeName]--
	}
}

// RegionDiversity is a per-region diversity snapshot.
type RegionDiversity struct {
	Col, Row  int
	Count     int     // organisms in the region
	Richness  int     // distinct types in the region
	Shannon   float64 // Shannon entropy of the type distribution
}

// RegionalDiversity buckets organisms by position and computes the
// Shannon diversity of each occupied region. Regions are returned in
// row-major order.
func (t *Tracker) RegionalDiversity(organisms []*components.Organism) []RegionDiversity {
	type regionKey struct{ col, row int }
	regions := make(map[regionKey]map[string]int)

	for _, org := range organisms {
		if org == nil {
			continue
		}
		key := regionKey{
			col: int(org.Pos.X / t.regionSize),
			row: int(org.Pos.Y / t.regionSize),
		}
		if regions[key] == nil {
			regions[key] = make(map[string]int)
		}
		regions[key][org.Type]++
	}

	keys := make([]regionKey, 0, len(regions))
	for key := range regions {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].row != keys[j].row {
			return keys[i].row < keys[j].row
		}
		return keys[i].col < keys[j].col
	})

	out := make([]RegionDiversity, 0, len(keys))
	for _, key := range keys {
		byType := regions[key]
		total := 0
		for _, n := range byType {
			total += n
		}

		probs := make([]float64, 0, len(byType))
		for _, n := range byType {
			probs = append(probs, float64(n)/float64(total))
		}

		out = append(out, RegionDiversity{
			Col:      key.col,
			Row:      key.row,
			Count:    total,
			Richness: len(byType),
			Shannon:  stat.Entropy(probs),
		})
	}
	return out
}
