// Package world hosts the simulation: an ECS holding organisms, a spatial
// index for pairing, and the per-tick systems that drive genetics, the
// food web, and telemetry.
package world

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/config"
	"github.com/pthm-cable/terrarium/foodweb"
	"github.com/pthm-cable/terrarium/genome"
	"github.com/pthm-cable/terrarium/telemetry"
)

// Options configures a new world.
type Options struct {
	Seed      int64
	OutputDir string // empty disables CSV output
	LogStats  bool
	Log       *slog.Logger // nil uses slog.Default
}

// World holds the complete simulation state.
type World struct {
	cfg *config.Config
	rng *rand.Rand
	log *slog.Logger

	ecs    *ecs.World
	mapper *ecs.Map1[components.Organism]
	filter *ecs.Filter1[components.Organism]

	engine      *genome.Engine
	registry    *foodweb.Registry
	resolver    *foodweb.Resolver
	coordinator *foodweb.Coordinator

	grid     *SpatialGrid
	richness *RichnessField

	tracker   *telemetry.Tracker
	collector *telemetry.Collector
	output    *telemetry.OutputManager
	logStats  bool

	tick   int64
	nextID uint64

	// Scratch buffers reused across ticks
	neighbors []Neighbor
	pairs     []foodweb.Pair
}

// New creates a world from the given config, seeds the initial population,
// and wires up telemetry.
func New(cfg *config.Config, opts Options) (*World, error) {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}

	registry, err := foodweb.FromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("building trophic registry: %w", err)
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	ledger := foodweb.NewLedger(cfg.Energy.TransferEfficiency)
	resolver := foodweb.NewResolver(registry, ledger, cfg.Predation, rng)
	tracker := telemetry.NewTracker(cfg.World.RegionSize)

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	if output != nil {
		if err := output.WriteConfig(cfg); err != nil {
			return nil, fmt.Errorf("writing config snapshot: %w", err)
		}
	}

	ecsWorld := ecs.NewWorld()

	w := &World{
		cfg:         cfg,
		rng:         rng,
		log:         log,
		ecs:         ecsWorld,
		mapper:      ecs.NewMap1[components.Organism](ecsWorld),
		filter:      ecs.NewFilter1[components.Organism](ecsWorld),
		engine:      genome.NewEngine(cfg, rng),
		registry:    registry,
		resolver:    resolver,
		coordinator: foodweb.NewCoordinator(resolver, tracker, log),
		grid:        NewSpatialGrid(cfg.World.Width, cfg.World.Height, cfg.World.GridCellSize),
		richness:    NewRichnessField(opts.Seed, cfg.World.RichnessScale, cfg.World.RichnessFloor),
		tracker:     tracker,
		collector:   telemetry.NewCollector(cfg.Telemetry.StatsWindowTicks),
		output:      output,
		logStats:    opts.LogStats,
		nextID:      1,
	}

	if err := w.spawnInitialPopulation(); err != nil {
		return nil, err
	}
	w.tracker.Rebuild(w.collectAlive())

	return w, nil
}

// spawnInitialPopulation seeds the configured number of organisms per
// archetype at random positions.
func (w *World) spawnInitialPopulation() error {
	for _, arch := range w.cfg.Archetypes {
		for i := 0; i < w.cfg.World.InitialPerType; i++ {
			x := w.rng.Float64() * w.cfg.World.Width
			y := w.rng.Float64() * w.cfg.World.Height
			if _, err := w.spawnOrganism(arch.Name, x, y, w.cfg.World.InitialEnergy); err != nil {
				return err
			}
		}
	}
	return nil
}

// spawnOrganism creates an organism with a fresh random genome.
func (w *World) spawnOrganism(archetype string, x, y, energy float64) (ecs.Entity, error) {
	g, err := w.engine.NewRandom(archetype)
	if err != nil {
		return ecs.Entity{}, err
	}
	return w.spawnWithGenome(archetype, x, y, energy, g), nil
}

// spawnWithGenome creates an organism from an existing genome (births).
// The phenotype scales the archetype's base size and speed by the
// expressed traits.
func (w *World) spawnWithGenome(archetype string, x, y, energy float64, g genome.Genome) ecs.Entity {
	arch := w.cfg.Archetype(archetype)

	id := w.nextID
	w.nextID++

	org := components.Organism{
		ID:     id,
		Type:   archetype,
		Genome: &g,
		Health: 100,
		Energy: energy,
		Size:   arch.Size * (0.5 + g.Trait("size")),
		Speed:  arch.Speed * (0.5 + g.Trait("speed")),
		Pos:    components.Position{X: x, Y: y},

		ReproCooldown: w.cfg.Reproduction.CooldownTicks,
	}

	entity := w.mapper.NewEntity(&org)
	w.tracker.Add(archetype)
	return entity
}

// collectAlive gathers pointers to all living organisms. The pointers are
// valid only until the next structural change (spawn or remove).
func (w *World) collectAlive() []*components.Organism {
	var orgs []*components.Organism
	query := w.filter.Query()
	for query.Next() {
		org := query.Get()
		if org.Alive() {
			orgs = append(orgs, org)
		}
	}
	return orgs
}

// Tick returns the current simulation tick.
func (w *World) Tick() int64 {
	return w.tick
}

// Count returns the living population of one organism type.
func (w *World) Count(typeName string) int {
	return w.tracker.Count(typeName)
}

// Total returns the total living population.
func (w *World) Total() int {
	return w.tracker.Total()
}

// LevelCount returns the living population at one trophic level.
func (w *World) LevelCount(level foodweb.Level) int {
	total := 0
	for typeName, n := range w.tracker.Counts() {
		if l, err := w.registry.LevelOf(typeName); err == nil && l == level {
			total += n
		}
	}
	return total
}

// Close flushes and closes telemetry outputs.
func (w *World) Close() error {
	return w.output.Close()
}
