// Package main provides CMA-ES calibration for finding simulation
// parameters that keep all five trophic levels alive.
package main

import (
	"github.com/pthm-cable/terrarium/config"
)

// ParamSpec defines a single tunable parameter.
type ParamSpec struct {
	Name    string
	Path    string // config path for logging
	Min     float64
	Max     float64
	Default float64
}

// ParamVector holds the set of all tunable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of tunable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Predation formula weights
			{Name: "speed_weight", Path: "predation.speed_weight", Min: 0.2, Max: 3.0, Default: 1.2},
			{Name: "size_weight", Path: "predation.size_weight", Min: 0.2, Max: 3.0, Default: 1.0},
			{Name: "intelligence_weight", Path: "predation.intelligence_weight", Min: 0.0, Max: 2.0, Default: 0.8},
			{Name: "health_weight", Path: "predation.health_weight", Min: 0.0, Max: 2.0, Default: 0.6},
			{Name: "steepness", Path: "predation.steepness", Min: 0.5, Max: 6.0, Default: 2.5},
			// World energy flow
			{Name: "pairing_radius", Path: "world.pairing_radius", Min: 20, Max: 150, Default: 60},
			{Name: "base_metabolism", Path: "world.base_metabolism", Min: 0.1, Max: 1.0, Default: 0.4},
			{Name: "producer_intake", Path: "world.producer_intake", Min: 0.5, Max: 6.0, Default: 2.5},
			{Name: "decomposer_yield", Path: "world.decomposer_yield", Min: 0.2, Max: 3.0, Default: 0.8},
			// Reproduction gating
			{Name: "compatibility_threshold", Path: "reproduction.compatibility_threshold", Min: 0.3, Max: 0.9, Default: 0.6},
			{Name: "energy_threshold", Path: "reproduction.energy_threshold", Min: 0.3, Max: 0.9, Default: 0.65},
			{Name: "cooldown_ticks", Path: "reproduction.cooldown_ticks", Min: 30, Max: 600, Default: 120},
			{Name: "parent_energy_split", Path: "reproduction.parent_energy_split", Min: 0.1, Max: 0.5, Default: 0.3},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	i := 0
	cfg.Predation.SpeedWeight = clamped[i]; i++
	cfg.Predation.SizeWeight = clamped[i]; i++
	cfg.Predation.IntelligenceWeight = clamped[i]; i++
	cfg.Predation.HealthWeight = clamped[i]; i++
	cfg.Predation.Steepness = clamped[i]; i++

	cfg.World.PairingRadius = clamped[i]; i++
	cfg.World.BaseMetabolism = clamped[i]; i++
	cfg.World.ProducerIntake = clamped[i]; i++
	cfg.World.DecomposerYield = clamped[i]; i++

	cfg.Reproduction.CompatibilityThreshold = clamped[i]; i++
	cfg.Reproduction.EnergyThreshold = clamped[i]; i++
	cfg.Reproduction.CooldownTicks = int(clamped[i]); i++
	cfg.Reproduction.ParentEnergySplit = clamped[i]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Predation.SpeedWeight,
		cfg.Predation.SizeWeight,
		cfg.Predation.IntelligenceWeight,
		cfg.Predation.HealthWeight,
		cfg.Predation.Steepness,
		cfg.World.PairingRadius,
		cfg.World.BaseMetabolism,
		cfg.World.ProducerIntake,
		cfg.World.DecomposerYield,
		cfg.Reproduction.CompatibilityThreshold,
		cfg.Reproduction.EnergyThreshold,
		float64(cfg.Reproduction.CooldownTicks),
		cfg.Reproduction.ParentEnergySplit,
	}
}
