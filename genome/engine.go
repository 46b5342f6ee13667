package genome

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/pthm-cable/terrarium/config"
)

// ErrUnknownArchetype is returned when a genome operation references an
// archetype that has no config entry.
var ErrUnknownArchetype = fmt.Errorf("unknown archetype")

// Engine owns genome creation, mutation, and combination. All randomness
// comes from the injected RNG so seeded runs are reproducible.
type Engine struct {
	cfg *config.Config
	rng *rand.Rand
}

// NewEngine creates an engine over the given config and RNG.
func NewEngine(cfg *config.Config, rng *rand.Rand) *Engine {
	return &Engine{cfg: cfg, rng: rng}
}

// NewRandom creates a founder genome for the archetype: generation 0, each
// trait drawn uniformly from the archetype's configured range, mutation
// rate drawn from the genetics default range.
func (e *Engine) NewRandom(archetype string) (Genome, error) {
	arch := e.cfg.Archetype(archetype)
	if arch == nil {
		return Genome{}, fmt.Errorf("%w: %q", ErrUnknownArchetype, archetype)
	}

	gen := e.cfg.Genetics
	g := Genome{
		Archetype:    archetype,
		Traits:       make(map[string]float64, len(arch.Traits)),
		MutationRate: gen.MutationRateMin + e.rng.Float64()*(gen.MutationRateMax-gen.MutationRateMin),
	}
	for _, tr := range arch.Traits {
		g.Traits[tr.Name] = clamp01(tr.Min + e.rng.Float64()*(tr.Max-tr.Min))
	}
	return g, nil
}

// Express projects genotype to phenotype. The base model is the identity,
// but callers must go through this so non-linear expression curves can be
// added without touching genome storage.
func (e *Engine) Express(g Genome) map[string]float64 {
	out := make(map[string]float64, len(g.Traits))
	for name, v := range g.Traits {
		out[name] = v
	}
	return out
}

// Color derives the display color for a genome using its archetype's
// configured base hue. Pure given equal inputs.
func (e *Engine) Color(g Genome) RGB {
	var base float64
	if arch := e.cfg.Archetype(g.Archetype); arch != nil {
		base = arch.BaseHue
	}
	return Color(g, base)
}

// Mutated returns a new genome with one mutation pass applied, plus the
// list of applied events. The input genome is not modified. The returned
// genome's history is extended with exactly the returned events, in order.
func (e *Engine) Mutated(g Genome) (Genome, []MutationEvent) {
	out := g.Clone()
	sigma := e.cfg.Genetics.MutationSigma

	var events []MutationEvent
	for _, name := range g.TraitNames() {
		if e.rng.Float64() >= g.MutationRate {
			continue
		}
		old := out.Traits[name]
		next := clamp01(old + (e.rng.Float64()*2-1)*sigma)
		out.Traits[name] = next
		events = append(events, MutationEvent{
			Trait:      name,
			OldValue:   old,
			NewValue:   next,
			Generation: g.Generation,
		})
	}

	out.MutationHistory = append(out.MutationHistory, events...)
	return out, events
}

// Mutate applies a mutation pass to the genome in place and returns the
// applied events. Compatibility wrapper over Mutated for callers that hold
// the canonical copy; everyone else should use Mutated.
func (e *Engine) Mutate(g *Genome) []MutationEvent {
	out, events := e.Mutated(*g)
	*g = out
	return events
}

// Combine produces a child genome from two parents. Each trait is either
// averaged with jitter or inherited dominantly from one parent, then the
// child gets one mutation pass so combination always carries a chance of
// immediate divergence. History starts empty; ancestry lives in ParentIDs.
func (e *Engine) Combine(a, b Genome, parentA, parentB uint64) Genome {
	gen := e.cfg.Genetics

	child := Genome{
		Archetype:    a.Archetype,
		Traits:       make(map[string]float64),
		MutationRate: clamp01((a.MutationRate + b.MutationRate) / 2),
		Generation:   max(a.Generation, b.Generation) + 1,
		ParentIDs:    []uint64{parentA, parentB},
	}

	for _, name := range unionTraitNames(a, b) {
		va, oka := a.Traits[name]
		vb, okb := b.Traits[name]
		switch {
		case !oka:
			child.Traits[name] = vb
		case !okb:
			child.Traits[name] = va
		case e.rng.Float64() < gen.DominantChance:
			// One-parent dominance
			if e.rng.Float64() < 0.5 {
				child.Traits[name] = va
			} else {
				child.Traits[name] = vb
			}
		default:
			mix := (va + vb) / 2
			jitter := (e.rng.Float64()*2 - 1) * gen.CombineVariance
			child.Traits[name] = clamp01(mix + jitter)
		}
	}

	mutated, _ := e.Mutated(child)
	return mutated
}

// Compatibility scores trait similarity in [0,1]: 1 minus the mean
// normalized trait distance over the union of trait names. A trait present
// in only one genome counts as maximal distance. Shared ancestry raises
// the score in expectation because combination propagates trait values.
func Compatibility(a, b Genome) float64 {
	names := unionTraitNames(a, b)
	if len(names) == 0 {
		return 1
	}

	var total float64
	for _, name := range names {
		va, oka := a.Traits[name]
		vb, okb := b.Traits[name]
		if !oka || !okb {
			total += 1
			continue
		}
		d := va - vb
		if d < 0 {
			d = -d
		}
		total += d
	}
	return 1 - total/float64(len(names))
}

// unionTraitNames returns the sorted union of both genomes' trait names.
func unionTraitNames(a, b Genome) []string {
	seen := make(map[string]bool, len(a.Traits)+len(b.Traits))
	for name := range a.Traits {
		seen[name] = true
	}
	for name := range b.Traits {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
