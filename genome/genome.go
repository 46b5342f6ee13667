// Package genome implements heritable trait genomes: creation, expression,
// mutation, sexual combination, compatibility scoring, and color derivation.
package genome

import "sort"

// MutationEvent records one applied trait mutation.
type MutationEvent struct {
	Trait      string
	OldValue   float64
	NewValue   float64
	Generation int
}

// Genome is an immutable snapshot of heritable state. Operations on the
// Engine return new Genome values; the only in-place entry point is the
// Engine.Mutate compatibility wrapper.
type Genome struct {
	Archetype       string
	Traits          map[string]float64 // trait name -> value in [0,1]
	MutationRate    float64            // per-trait mutation probability
	Generation      int                // 0 for founders, max(parents)+1 for combined
	MutationHistory []MutationEvent    // append-only, never truncated
	ParentIDs       []uint64           // nil for founders, two entries for combined genomes
}

// Clone returns a deep copy so holders of the original never observe edits.
func (g Genome) Clone() Genome {
	c := g
	c.Traits = make(map[string]float64, len(g.Traits))
	for k, v := range g.Traits {
		c.Traits[k] = v
	}
	c.MutationHistory = append([]MutationEvent(nil), g.MutationHistory...)
	c.ParentIDs = append([]uint64(nil), g.ParentIDs...)
	return c
}

// TraitNames returns the genome's trait names in sorted order.
// Stochastic passes iterate traits in this order so seeded runs reproduce.
func (g Genome) TraitNames() []string {
	names := make([]string, 0, len(g.Traits))
	for name := range g.Traits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Trait returns the trait value, or the neutral midpoint if absent.
func (g Genome) Trait(name string) float64 {
	if v, ok := g.Traits[name]; ok {
		return v
	}
	return 0.5
}

// clamp01 bounds a trait value to [0,1]. The documented policy for
// out-of-range draws is clamp-and-continue, never abort.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
