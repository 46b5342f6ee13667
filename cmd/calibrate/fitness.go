package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/terrarium/config"
	"github.com/pthm-cable/terrarium/foodweb"
	"github.com/pthm-cable/terrarium/world"
)

// Minimum viable population: if a trophic level stays below this for
// extinctionGraceTicks consecutive ticks, it counts as functionally extinct.
const (
	minViablePop         = 3
	extinctionGraceTicks = 1800
	warmupTicks          = 300
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int64
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int64, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is negative survival ticks scaled by ecosystem quality, so
// longer, better-balanced runs score lower.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
	}

	n := float64(len(fe.seeds))

	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run until a trophic level goes
// functionally extinct or maxTicks is reached.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) seedResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	w, err := world.New(cfg, world.Options{Seed: seed, Log: slog.Default()})
	if err != nil {
		slog.Error("simulation setup failed", "seed", seed, "error", err)
		return seedResult{}
	}
	defer w.Close()

	levels := []foodweb.Level{
		foodweb.Producer, foodweb.Primary, foodweb.Secondary,
		foodweb.Tertiary, foodweb.Decomposer,
	}
	belowTicks := make([]int64, len(levels))

	var survivalTicks int64
	for w.Tick() < fe.maxTicks {
		w.Step()
		survivalTicks = w.Tick()

		if survivalTicks < warmupTicks {
			continue
		}

		extinct := false
		for i, level := range levels {
			if w.LevelCount(level) < minViablePop {
				belowTicks[i]++
				if belowTicks[i] >= extinctionGraceTicks {
					extinct = true
				}
			} else {
				belowTicks[i] = 0
			}
		}
		if extinct || w.Total() == 0 {
			break
		}
	}

	quality := fe.computeQuality(w, levels)
	return seedResult{
		fitness: -float64(survivalTicks) * (1.0 + 0.2*quality),
		quality: quality,
	}
}

// computeQuality scores the final ecosystem state in [0, ~2]: the fraction
// of trophic levels still viable plus the normalized entropy of the level
// distribution, so a balanced pyramid beats a plant monoculture.
func (fe *FitnessEvaluator) computeQuality(w *world.World, levels []foodweb.Level) float64 {
	counts := make([]float64, len(levels))
	var total, viable float64
	for i, level := range levels {
		n := float64(w.LevelCount(level))
		counts[i] = n
		total += n
		if n >= minViablePop {
			viable++
		}
	}
	if total == 0 {
		return 0
	}

	probs := make([]float64, len(counts))
	for i, n := range counts {
		probs[i] = n / total
	}
	balance := stat.Entropy(probs) / math.Log(float64(len(levels)))

	return viable/float64(len(levels)) + balance
}

// copyConfig creates a fresh config with the base run's values.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg, _ := config.Load("")

	cfg.World = fe.baseConfig.World
	cfg.Genetics = fe.baseConfig.Genetics
	cfg.Predation = fe.baseConfig.Predation
	cfg.Energy = fe.baseConfig.Energy
	cfg.Reproduction = fe.baseConfig.Reproduction
	cfg.Telemetry = fe.baseConfig.Telemetry
	cfg.Archetypes = fe.baseConfig.Archetypes
	cfg.Derived = fe.baseConfig.Derived

	return cfg
}
