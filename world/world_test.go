package world

import (
	"testing"

	"github.com/pthm-cable/terrarium/config"
	"github.com/pthm-cable/terrarium/foodweb"
)

// testConfig loads defaults shrunk to a fast test world.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	cfg.World.Width = 400
	cfg.World.Height = 300
	cfg.World.InitialPerType = 8
	return cfg
}

func testWorld(t *testing.T, cfg *config.Config, seed int64) *World {
	t.Helper()
	w, err := New(cfg, Options{Seed: seed})
	if err != nil {
		t.Fatalf("creating world: %v", err)
	}
	return w
}

func TestNewWorldSpawnsInitialPopulation(t *testing.T) {
	cfg := testConfig(t)
	w := testWorld(t, cfg, 42)

	for _, arch := range cfg.Archetypes {
		if got := w.Count(arch.Name); got != cfg.World.InitialPerType {
			t.Errorf("count[%s] = %d, want %d", arch.Name, got, cfg.World.InitialPerType)
		}
	}
	if want := len(cfg.Archetypes) * cfg.World.InitialPerType; w.Total() != want {
		t.Errorf("total = %d, want %d", w.Total(), want)
	}
	if w.Tick() != 0 {
		t.Errorf("tick = %d before first step", w.Tick())
	}
}

func TestNewWorldRejectsBadArchetype(t *testing.T) {
	cfg := testConfig(t)
	cfg.Archetypes[0].TrophicLevel = "apex"
	if _, err := New(cfg, Options{Seed: 1}); err == nil {
		t.Fatal("expected error for unknown trophic level")
	}
}

func TestStepAdvancesTick(t *testing.T) {
	w := testWorld(t, testConfig(t), 42)

	for i := 0; i < 5; i++ {
		w.Step()
	}
	if w.Tick() != 5 {
		t.Errorf("tick = %d, want 5", w.Tick())
	}
}

func TestStarvationRemovesOrganisms(t *testing.T) {
	cfg := testConfig(t)
	// Metabolism exceeds any possible intake, so everything starves fast.
	cfg.World.BaseMetabolism = cfg.World.MaxEnergy + 1
	cfg.World.ProducerIntake = 0
	cfg.World.DecomposerYield = 0

	w := testWorld(t, cfg, 42)
	w.Step()

	if w.Total() != 0 {
		t.Errorf("total = %d after universal starvation, want 0", w.Total())
	}
}

func TestLevelCount(t *testing.T) {
	cfg := testConfig(t)
	w := testWorld(t, cfg, 42)

	// plant is the only producer archetype in the defaults
	if got := w.LevelCount(foodweb.Producer); got != cfg.World.InitialPerType {
		t.Errorf("producer count = %d, want %d", got, cfg.World.InitialPerType)
	}
	// creature primary, predator secondary, tribe tertiary, fungus decomposer
	for _, level := range []foodweb.Level{foodweb.Primary, foodweb.Secondary, foodweb.Tertiary, foodweb.Decomposer} {
		if got := w.LevelCount(level); got != cfg.World.InitialPerType {
			t.Errorf("%s count = %d, want %d", level, got, cfg.World.InitialPerType)
		}
	}
}

func TestReproductionSpawnsOffspring(t *testing.T) {
	cfg := testConfig(t)
	// Make combination trivially easy: no cooldown, no gates, whole-world pairing.
	cfg.Reproduction.CooldownTicks = 0
	cfg.Reproduction.EnergyThreshold = 0
	cfg.Reproduction.CompatibilityThreshold = 0
	cfg.World.PairingRadius = 500
	// No predation interference
	cfg.Predation.MaxSuccess = 0.02
	cfg.Predation.MinSuccess = 0.0

	w := testWorld(t, cfg, 42)
	before := w.Total()

	for i := 0; i < 10 && w.Total() <= before; i++ {
		w.Step()
	}

	if w.Total() <= before {
		t.Errorf("population never grew from %d with unrestricted combination", before)
	}
	if w.Total() > cfg.World.MaxOrganisms {
		t.Errorf("population %d exceeds cap %d", w.Total(), cfg.World.MaxOrganisms)
	}
}

func TestPredationShiftsEnergyUp(t *testing.T) {
	cfg := testConfig(t)
	cfg.World.InitialPerType = 20
	cfg.World.PairingRadius = 500
	// Guarantee catches so at least one kill happens quickly.
	cfg.Predation.MinSuccess = 1.0
	cfg.Predation.MaxSuccess = 1.0

	w := testWorld(t, cfg, 42)
	preyBefore := w.Count("creature")

	for i := 0; i < 5; i++ {
		w.Step()
	}

	if w.Count("creature") >= preyBefore {
		t.Errorf("creature count %d did not drop from %d under guaranteed predation", w.Count("creature"), preyBefore)
	}
}

func TestDeterministicWithSameSeed(t *testing.T) {
	cfgA := testConfig(t)
	cfgB := testConfig(t)
	a := testWorld(t, cfgA, 99)
	b := testWorld(t, cfgB, 99)

	for i := 0; i < 50; i++ {
		a.Step()
		b.Step()
	}

	if a.Total() != b.Total() {
		t.Fatalf("totals diverged: %d vs %d", a.Total(), b.Total())
	}
	for _, arch := range cfgA.Archetypes {
		if a.Count(arch.Name) != b.Count(arch.Name) {
			t.Errorf("count[%s] diverged: %d vs %d", arch.Name, a.Count(arch.Name), b.Count(arch.Name))
		}
	}
}
