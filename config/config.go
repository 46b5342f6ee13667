// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	World        WorldConfig       `yaml:"world"`
	Genetics     GeneticsConfig    `yaml:"genetics"`
	Predation    PredationConfig   `yaml:"predation"`
	Energy       EnergyConfig      `yaml:"energy"`
	Reproduction ReproConfig       `yaml:"reproduction"`
	Telemetry    TelemetryConfig   `yaml:"telemetry"`
	Archetypes   []ArchetypeConfig `yaml:"archetypes"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// WorldConfig holds simulation world dimensions and spawn parameters.
type WorldConfig struct {
	Width           float64 `yaml:"width"`
	Height          float64 `yaml:"height"`
	RegionSize      float64 `yaml:"region_size"`      // Diversity bucket edge length
	PairingRadius   float64 `yaml:"pairing_radius"`   // Max distance for candidate predator/prey pairs
	GridCellSize    float64 `yaml:"grid_cell_size"`   // Spatial grid cell size
	RichnessScale   float64 `yaml:"richness_scale"`   // Noise frequency for producer richness field
	RichnessFloor   float64 `yaml:"richness_floor"`   // Minimum richness so producers never starve outright
	InitialPerType  int     `yaml:"initial_per_type"` // Organisms spawned per archetype at start
	MaxOrganisms    int     `yaml:"max_organisms"`
	InitialEnergy   float64 `yaml:"initial_energy"`
	MaxEnergy       float64 `yaml:"max_energy"`
	WanderStep      float64 `yaml:"wander_step"` // Max per-tick displacement at speed 1.0
	DeathThreshold  float64 `yaml:"death_threshold"`  // Health/energy at or below this removes the organism
	BaseMetabolism  float64 `yaml:"base_metabolism"`  // Energy drain per tick for existing
	ProducerIntake  float64 `yaml:"producer_intake"`  // Energy gain per tick for producers, scaled by richness
	DecomposerYield float64 `yaml:"decomposer_yield"` // Energy gain per tick for decomposers
}

// TraitRange defines the initial draw range for one heritable trait.
type TraitRange struct {
	Name string  `yaml:"name"`
	Min  float64 `yaml:"min"`
	Max  float64 `yaml:"max"`
}

// ArchetypeConfig defines a founder template for organisms.
// Each archetype seeds both the genome engine (trait ranges) and the
// trophic registry (level and prey set).
type ArchetypeConfig struct {
	Name         string       `yaml:"name"`
	TrophicLevel string       `yaml:"trophic_level"` // producer, primary, secondary, tertiary, decomposer
	Prey         []string     `yaml:"prey"`
	Traits       []TraitRange `yaml:"traits"`
	BaseHue      float64      `yaml:"base_hue"` // Degrees, anchor for genetic color
	Size         float64      `yaml:"size"`     // Phenotypic base size
	Speed        float64      `yaml:"speed"`    // Phenotypic base speed
}

// GeneticsConfig holds mutation and combination parameters.
type GeneticsConfig struct {
	MutationRateMin float64 `yaml:"mutation_rate_min"` // Low end of per-genome mutation rate draw
	MutationRateMax float64 `yaml:"mutation_rate_max"`
	MutationSigma   float64 `yaml:"mutation_sigma"`   // Max perturbation magnitude per mutation
	CombineVariance float64 `yaml:"combine_variance"` // Jitter around parent trait mix
	DominantChance  float64 `yaml:"dominant_chance"`  // Per-trait chance of one-parent dominance over averaging
}

// PredationConfig holds the success-probability formula parameters.
// Weights feed the logistic advantage sum; cmd/calibrate tunes them.
type PredationConfig struct {
	SpeedWeight        float64 `yaml:"speed_weight"`
	SizeWeight         float64 `yaml:"size_weight"`
	IntelligenceWeight float64 `yaml:"intelligence_weight"`
	HealthWeight       float64 `yaml:"health_weight"`
	Steepness          float64 `yaml:"steepness"` // Logistic slope
	MinSuccess         float64 `yaml:"min_success"`
	MaxSuccess         float64 `yaml:"max_success"`
}

// EnergyConfig holds trophic transfer parameters.
type EnergyConfig struct {
	TransferEfficiency float64 `yaml:"transfer_efficiency"` // Fraction passed one level up (classic 10% rule)
}

// ReproConfig holds reproduction gating parameters.
type ReproConfig struct {
	CompatibilityThreshold float64 `yaml:"compatibility_threshold"` // Minimum genome compatibility to combine
	EnergyThreshold        float64 `yaml:"energy_threshold"`        // Minimum energy fraction to reproduce
	CooldownTicks          int     `yaml:"cooldown_ticks"`
	ParentEnergySplit      float64 `yaml:"parent_energy_split"` // Fraction of parent energy given to child
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindowTicks int `yaml:"stats_window_ticks"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	ArchetypeIndex map[string]int // name -> index for archetype lookup
	RegionCols     int
	RegionRows     int
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Compute derived values
	cfg.computeDerived()

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	if c.World.RegionSize <= 0 {
		c.World.RegionSize = 100
	}
	c.Derived.RegionCols = int(c.World.Width/c.World.RegionSize) + 1
	c.Derived.RegionRows = int(c.World.Height/c.World.RegionSize) + 1

	// Apply defaults to archetypes that don't specify all fields.
	// Speed is left alone: zero means the archetype is sessile.
	for i := range c.Archetypes {
		arch := &c.Archetypes[i]
		if arch.Size == 0 {
			arch.Size = 1.0
		}
	}

	// Build archetype index for fast lookup
	c.Derived.ArchetypeIndex = make(map[string]int, len(c.Archetypes))
	for i, arch := range c.Archetypes {
		c.Derived.ArchetypeIndex[arch.Name] = i
	}
}

// Archetype returns the archetype config by name, or nil if unknown.
func (c *Config) Archetype(name string) *ArchetypeConfig {
	idx, ok := c.Derived.ArchetypeIndex[name]
	if !ok {
		return nil
	}
	return &c.Archetypes[idx]
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
