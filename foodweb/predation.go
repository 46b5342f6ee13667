package foodweb

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/config"
)

// Result records the outcome of one resolved predation attempt. The
// resolver has no side effects; the cascade coordinator applies health
// and energy changes to the live organism list.
type Result struct {
	PredatorID   uint64
	PreyID       uint64
	Success      bool
	Probability  float64
	EnergyGained float64 // ledger-derived, non-zero only on success
}

// Resolver computes predation success probabilities and rolls attempts.
type Resolver struct {
	reg    *Registry
	ledger *Ledger
	params config.PredationConfig
	rng    *rand.Rand
}

// NewResolver creates a resolver. The RNG is injected so predation rolls
// reproduce under a fixed seed.
func NewResolver(reg *Registry, ledger *Ledger, params config.PredationConfig, rng *rand.Rand) *Resolver {
	return &Resolver{reg: reg, ledger: ledger, params: params, rng: rng}
}

// SuccessProbability returns the chance that predator catches prey.
// Exactly 0 for pairs without a registered predator/prey relationship
// (callers rely on this to skip non-relationships cheaply). For valid
// relationships the result is strictly inside (0,1): a logistic over the
// predator's speed, size, and intelligence advantage plus the health
// difference, clamped away from both endpoints so a downstream roll
// always has a chance of either outcome. Equal stats give 0.5; a predator
// that dominates every compared stat lands above 0.5.
func (r *Resolver) SuccessProbability(predator, prey *components.Organism) float64 {
	if predator == nil || prey == nil {
		return 0
	}
	if !r.reg.Eats(predator.Type, prey.Type) {
		return 0
	}

	p := r.params
	sum := p.SpeedWeight*relativeAdvantage(predator.Speed, prey.Speed) +
		p.SizeWeight*relativeAdvantage(predator.Size, prey.Size) +
		p.IntelligenceWeight*(predator.IntelligenceOf()-prey.IntelligenceOf()) +
		p.HealthWeight*(predator.Health-prey.Health)/100

	prob := 1 / (1 + math.Exp(-p.Steepness*sum))

	if prob < p.MinSuccess {
		prob = p.MinSuccess
	}
	if prob > p.MaxSuccess {
		prob = p.MaxSuccess
	}
	return prob
}

// Resolve rolls the success probability once and returns the outcome. On
// success the energy gain is the ledger transfer of the prey's current
// energy from its level up to the predator's level; a predator feeding
// outside the adjacent-level rule catches prey but gains nothing.
func (r *Resolver) Resolve(predator, prey *components.Organism) Result {
	prob := r.SuccessProbability(predator, prey)
	res := Result{
		PredatorID:  predator.ID,
		PreyID:      prey.ID,
		Probability: prob,
	}
	if prob <= 0 {
		return res
	}

	if r.rng.Float64() >= prob {
		return res
	}
	res.Success = true

	preyLevel, err := r.reg.LevelOf(prey.Type)
	if err != nil {
		return res
	}
	predLevel, err := r.reg.LevelOf(predator.Type)
	if err != nil {
		return res
	}
	res.EnergyGained = r.ledger.Transfer(prey.Energy, preyLevel, predLevel)
	return res
}

// relativeAdvantage maps two non-negative stats to a bounded (-1,1)
// advantage score for the first.
func relativeAdvantage(a, b float64) float64 {
	const eps = 1e-9
	return (a - b) / (a + b + eps)
}
