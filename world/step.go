package world

import (
	"math"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/foodweb"
	"github.com/pthm-cable/terrarium/genome"
	"github.com/pthm-cable/terrarium/telemetry"
)

// Step runs a single tick of the simulation.
func (w *World) Step() {
	w.tick++

	w.updateSpatialGrid()
	w.updateMovement()
	w.updateMetabolism()
	w.updatePredation()
	w.updateReproduction()
	w.cleanupDead()

	w.tracker.Rebuild(w.collectAlive())

	if w.collector.WindowReady(w.tick) {
		w.flushWindow()
	}
}

// updateSpatialGrid rebuilds the spatial index from living organisms.
func (w *World) updateSpatialGrid() {
	w.grid.Clear()

	query := w.filter.Query()
	for query.Next() {
		org := query.Get()
		if org.Alive() {
			w.grid.Insert(query.Entity(), org.Pos.X, org.Pos.Y)
		}
	}
}

// updateMovement applies a random walk scaled by each organism's speed.
// Sessile organisms (speed 0) never move.
func (w *World) updateMovement() {
	step := w.cfg.World.WanderStep

	query := w.filter.Query()
	for query.Next() {
		org := query.Get()
		if !org.Alive() || org.Speed <= 0 {
			continue
		}

		angle := w.rng.Float64() * 2 * math.Pi
		dist := w.rng.Float64() * step * org.Speed
		org.Pos.X = wrap(org.Pos.X+math.Cos(angle)*dist, w.cfg.World.Width)
		org.Pos.Y = wrap(org.Pos.Y+math.Sin(angle)*dist, w.cfg.World.Height)
	}
}

// updateMetabolism ages organisms, drains base metabolism, feeds producers
// from the richness field and decomposers from ambient detritus, and
// decrements reproduction cooldowns.
func (w *World) updateMetabolism() {
	wcfg := &w.cfg.World

	query := w.filter.Query()
	for query.Next() {
		org := query.Get()
		if !org.Alive() {
			continue
		}

		org.Age++
		if org.ReproCooldown > 0 {
			org.ReproCooldown--
		}

		org.Energy -= wcfg.BaseMetabolism

		level, err := w.registry.LevelOf(org.Type)
		if err != nil {
			continue
		}
		switch level {
		case foodweb.Producer:
			org.Energy += wcfg.ProducerIntake * w.richness.Sample(org.Pos.X, org.Pos.Y) * org.Genome.Trait("growth")
		case foodweb.Decomposer:
			org.Energy += wcfg.DecomposerYield * org.Genome.Trait("growth")
		}

		if org.Energy > wcfg.MaxEnergy {
			org.Energy = wcfg.MaxEnergy
		}
	}
}

// updatePredation gathers candidate predator/prey pairs from the spatial
// index and runs one interaction pass over them. Each predator attacks at
// most one prey per tick: the nearest living organism its type eats.
func (w *World) updatePredation() {
	w.pairs = w.pairs[:0]

	query := w.filter.Query()
	for query.Next() {
		entity := query.Entity()
		org := query.Get()
		if !org.Alive() {
			continue
		}
		if preyTypes, _ := w.registry.PreyOf(org.Type); len(preyTypes) == 0 {
			continue
		}

		w.neighbors = w.grid.QueryRadiusInto(w.neighbors[:0], org.Pos.X, org.Pos.Y, w.cfg.World.PairingRadius, entity, w.mapper)

		var target *components.Organism
		bestDistSq := math.Inf(1)
		for _, n := range w.neighbors {
			prey := w.mapper.Get(n.E)
			if prey == nil || !prey.Alive() {
				continue
			}
			if !w.registry.Eats(org.Type, prey.Type) {
				continue
			}
			if n.DistSq < bestDistSq {
				bestDistSq = n.DistSq
				target = prey
			}
		}

		if target != nil {
			w.pairs = append(w.pairs, foodweb.Pair{Predator: org, Prey: target})
		}
	}

	events := w.coordinator.RunPass(w.tick, w.pairs)
	w.collector.RecordAll(events)
}

// updateReproduction pairs compatible same-type organisms and spawns
// combined offspring. Both parents must be off cooldown, above the energy
// threshold, and genetically compatible.
func (w *World) updateReproduction() {
	repro := &w.cfg.Reproduction

	capacity := w.cfg.World.MaxOrganisms - w.tracker.Total()
	if capacity <= 0 {
		return
	}

	type birthInfo struct {
		archetype string
		x, y      float64
		energy    float64
		child     genome.Genome
		parentID  uint64
	}
	var births []birthInfo

	claimed := make(map[uint64]bool)

	query := w.filter.Query()
	for query.Next() {
		if len(births) >= capacity {
			continue
		}
		entity := query.Entity()
		org := query.Get()
		if !org.Alive() || org.ReproCooldown > 0 || claimed[org.ID] || org.Genome == nil {
			continue
		}
		if org.Energy/w.cfg.World.MaxEnergy < repro.EnergyThreshold {
			continue
		}

		w.neighbors = w.grid.QueryRadiusInto(w.neighbors[:0], org.Pos.X, org.Pos.Y, w.cfg.World.PairingRadius, entity, w.mapper)

		for _, n := range w.neighbors {
			mate := w.mapper.Get(n.E)
			if mate == nil || !mate.Alive() || mate.Type != org.Type || mate.Genome == nil {
				continue
			}
			if mate.ReproCooldown > 0 || claimed[mate.ID] {
				continue
			}
			if mate.Energy/w.cfg.World.MaxEnergy < repro.EnergyThreshold {
				continue
			}
			if genome.Compatibility(*org.Genome, *mate.Genome) < repro.CompatibilityThreshold {
				continue
			}

			// Both parents pay the split; the child gets the sum.
			give := org.Energy * repro.ParentEnergySplit
			mateGive := mate.Energy * repro.ParentEnergySplit
			org.Energy -= give
			mate.Energy -= mateGive
			org.ReproCooldown = repro.CooldownTicks
			mate.ReproCooldown = repro.CooldownTicks
			claimed[org.ID] = true
			claimed[mate.ID] = true

			child := w.engine.Combine(*org.Genome, *mate.Genome, org.ID, mate.ID)

			// Child spawns between its parents
			midX := wrap(org.Pos.X+n.DX/2, w.cfg.World.Width)
			midY := wrap(org.Pos.Y+n.DY/2, w.cfg.World.Height)

			births = append(births, birthInfo{
				archetype: org.Type,
				x:         midX,
				y:         midY,
				energy:    give + mateGive,
				child:     child,
				parentID:  org.ID,
			})
			break
		}
	}

	// Spawn children outside the query
	for _, b := range births {
		entity := w.spawnWithGenome(b.archetype, b.x, b.y, b.energy, b.child)
		child := w.mapper.Get(entity)
		w.collector.Record(telemetry.NewBirthEvent(w.tick, child.ID, b.parentID, b.archetype))
	}
}

// cleanupDead removes dead organisms. Predation deaths were already
// reported as kills by the interaction pass; anything else that died this
// tick (starvation) gets a death event here.
func (w *World) cleanupDead() {
	type deadInfo struct {
		entity   ecs.Entity
		id       uint64
		typeName string
		starved  bool
	}
	var toRemove []deadInfo

	query := w.filter.Query()
	for query.Next() {
		org := query.Get()
		if org.Alive() {
			continue
		}
		toRemove = append(toRemove, deadInfo{
			entity:   query.Entity(),
			id:       org.ID,
			typeName: org.Type,
			starved:  org.Health > 0,
		})
	}

	for _, dead := range toRemove {
		if dead.starved {
			w.collector.Record(telemetry.NewDeathEvent(w.tick, dead.id, dead.typeName))
		}
		w.mapper.Remove(dead.entity)
	}
}

// flushWindow closes the current stats window: event counters from the
// collector, population and energy distribution sampled now, regional
// diversity from the tracker.
func (w *World) flushWindow() {
	stats := w.collector.Flush(w.tick)

	orgs := w.collectAlive()

	counts := w.tracker.Counts()
	for typeName, n := range counts {
		level, err := w.registry.LevelOf(typeName)
		if err != nil {
			continue
		}
		switch level {
		case foodweb.Producer:
			stats.Producers += n
		case foodweb.Primary:
			stats.Primaries += n
		case foodweb.Secondary:
			stats.Secondaries += n
		case foodweb.Tertiary:
			stats.Tertiaries += n
		case foodweb.Decomposer:
			stats.Decomposers += n
		}
	}
	stats.Total = w.tracker.Total()

	energies := make([]float64, 0, len(orgs))
	for _, org := range orgs {
		energies = append(energies, org.Energy)
	}
	stats.EnergyMean, stats.EnergyP10, stats.EnergyP50, stats.EnergyP90 = telemetry.ComputeEnergyStats(energies)

	regions := w.tracker.RegionalDiversity(orgs)
	stats.Regions = len(regions)
	for _, r := range regions {
		stats.MeanShannon += r.Shannon
		stats.MeanRichness += float64(r.Richness)
	}
	if len(regions) > 0 {
		stats.MeanShannon /= float64(len(regions))
		stats.MeanRichness /= float64(len(regions))
	}

	if err := w.output.WriteTelemetry(stats); err != nil {
		w.log.Error("telemetry write failed", "error", err)
	}
	if err := w.output.WriteDiversity(w.tick, regions); err != nil {
		w.log.Error("diversity write failed", "error", err)
	}
	if w.logStats {
		stats.LogStats()
	}
}

// wrap folds a coordinate into [0, size).
func wrap(v, size float64) float64 {
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	return v
}
