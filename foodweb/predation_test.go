package foodweb

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/config"
	"github.com/pthm-cable/terrarium/genome"
)

func testResolver(t *testing.T, seed int64) (*Resolver, *Registry) {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	reg, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("building registry: %v", err)
	}
	ledger := NewLedger(cfg.Energy.TransferEfficiency)
	return NewResolver(reg, ledger, cfg.Predation, rand.New(rand.NewSource(seed))), reg
}

func organism(id uint64, typeName string, health, energy, size, speed float64) *components.Organism {
	return &components.Organism{
		ID:     id,
		Type:   typeName,
		Health: health,
		Energy: energy,
		Size:   size,
		Speed:  speed,
	}
}

func TestSuccessZeroForNonRelationships(t *testing.T) {
	r, _ := testResolver(t, 1)

	tests := []struct {
		name     string
		predator *components.Organism
		prey     *components.Organism
	}{
		{"reversed relationship", organism(1, "creature", 100, 50, 1, 1), organism(2, "predator", 100, 50, 1, 1)},
		{"no relationship", organism(1, "plant", 100, 50, 1, 1), organism(2, "fungus", 100, 50, 1, 1)},
		{"unregistered predator", organism(1, "dragon", 100, 50, 9, 9), organism(2, "creature", 100, 50, 1, 1)},
		{"unregistered prey", organism(1, "predator", 100, 50, 1, 1), organism(2, "rock", 100, 50, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.SuccessProbability(tt.predator, tt.prey); got != 0 {
				t.Errorf("SuccessProbability = %v, want exactly 0", got)
			}
		})
	}
}

func TestSuccessOpenIntervalForValidPairs(t *testing.T) {
	r, _ := testResolver(t, 2)

	// Even absurdly mismatched stats stay strictly inside (0,1) so a
	// roll always has a chance of either outcome.
	weak := organism(1, "predator", 1, 1, 0.01, 0.01)
	strong := organism(2, "creature", 100, 100, 50, 50)
	if p := r.SuccessProbability(weak, strong); p <= 0 || p >= 1 {
		t.Errorf("hopeless predator: p = %v, want in (0,1)", p)
	}

	titan := organism(3, "predator", 100, 100, 50, 50)
	feeble := organism(4, "creature", 1, 1, 0.01, 0.01)
	if p := r.SuccessProbability(titan, feeble); p <= 0 || p >= 1 {
		t.Errorf("overwhelming predator: p = %v, want in (0,1)", p)
	}
}

func TestDominantPredatorAboveHalf(t *testing.T) {
	r, _ := testResolver(t, 3)

	pred := organism(1, "predator", 90, 80, 2.0, 2.0)
	prey := organism(2, "creature", 60, 40, 1.0, 1.0)
	p := r.SuccessProbability(pred, prey)
	if p <= 0.5 {
		t.Errorf("predator dominating every stat: p = %v, want > 0.5", p)
	}

	// Flipped stats push the other way
	weakPred := organism(3, "predator", 60, 40, 1.0, 1.0)
	strongPrey := organism(4, "creature", 90, 80, 2.0, 2.0)
	if q := r.SuccessProbability(weakPred, strongPrey); q >= 0.5 {
		t.Errorf("predator dominated on every stat: p = %v, want < 0.5", q)
	}
}

func TestSuccessMonotonicInHealth(t *testing.T) {
	r, _ := testResolver(t, 4)

	prey := organism(2, "creature", 80, 40, 1.0, 1.0)
	healthy := organism(1, "predator", 100, 50, 1.5, 1.5)
	wounded := organism(1, "predator", 20, 50, 1.5, 1.5)

	if ph, pw := r.SuccessProbability(healthy, prey), r.SuccessProbability(wounded, prey); pw >= ph {
		t.Errorf("weakened predator should be less likely: healthy=%v wounded=%v", ph, pw)
	}

	pred := organism(1, "predator", 80, 50, 1.5, 1.5)
	fit := organism(2, "creature", 100, 40, 1.0, 1.0)
	hurt := organism(2, "creature", 20, 40, 1.0, 1.0)

	if pf, ph := r.SuccessProbability(pred, fit), r.SuccessProbability(pred, hurt); ph <= pf {
		t.Errorf("weakened prey should be easier: fit=%v hurt=%v", pf, ph)
	}
}

func TestGenomeIntelligenceModifier(t *testing.T) {
	r, _ := testResolver(t, 5)

	prey := organism(2, "creature", 80, 40, 1.0, 1.0)
	dull := organism(1, "predator", 80, 50, 1.2, 1.2)
	dull.Genome = &genome.Genome{Traits: map[string]float64{"intelligence": 0.1}}
	sharp := organism(1, "predator", 80, 50, 1.2, 1.2)
	sharp.Genome = &genome.Genome{Traits: map[string]float64{"intelligence": 0.9}}

	if pd, ps := r.SuccessProbability(dull, prey), r.SuccessProbability(sharp, prey); ps <= pd {
		t.Errorf("intelligence should raise success: dull=%v sharp=%v", pd, ps)
	}
}

func TestResolveEnergyGain(t *testing.T) {
	r, _ := testResolver(t, 6)

	// Force certain success within the clamp by overwhelming stats, then
	// roll until a success lands; gain must be 10% of prey energy.
	pred := organism(1, "predator", 100, 50, 3.0, 3.0)
	prey := organism(2, "creature", 30, 40, 0.5, 0.5)

	var succeeded bool
	for i := 0; i < 1000 && !succeeded; i++ {
		res := r.Resolve(pred, prey)
		if res.PredatorID != 1 || res.PreyID != 2 {
			t.Fatalf("result ids = (%d,%d), want (1,2)", res.PredatorID, res.PreyID)
		}
		if !res.Success {
			if res.EnergyGained != 0 {
				t.Fatalf("failed attempt gained %v energy", res.EnergyGained)
			}
			continue
		}
		succeeded = true
		if res.EnergyGained != prey.Energy*0.10 {
			t.Errorf("gain = %v, want %v (10%% of prey energy)", res.EnergyGained, prey.Energy*0.10)
		}
	}
	if !succeeded {
		t.Fatal("no success in 1000 rolls of a dominant predator")
	}
}

func TestResolveSkipsLevelJumpEnergy(t *testing.T) {
	r, reg := testResolver(t, 7)
	reg.Register("apexPredator", Secondary, []string{"plant"})

	pred := organism(1, "apexPredator", 100, 50, 3.0, 3.0)
	prey := organism(2, "plant", 30, 40, 0.5, 0)

	// Producer -> Secondary skips a level: catches succeed eventually
	// but never move energy.
	for i := 0; i < 1000; i++ {
		res := r.Resolve(pred, prey)
		if res.Success {
			if res.EnergyGained != 0 {
				t.Fatalf("level-skipping catch gained %v energy", res.EnergyGained)
			}
			return
		}
	}
	t.Fatal("no success in 1000 rolls")
}

func TestResolveNoSideEffects(t *testing.T) {
	r, _ := testResolver(t, 8)

	pred := organism(1, "predator", 100, 50, 2.0, 2.0)
	prey := organism(2, "creature", 80, 40, 1.0, 1.0)

	for i := 0; i < 50; i++ {
		r.Resolve(pred, prey)
	}
	if pred.Energy != 50 || prey.Energy != 40 || prey.Health != 80 {
		t.Error("Resolve modified the participants; applying changes is the coordinator's job")
	}
}
