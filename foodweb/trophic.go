// Package foodweb implements trophic classification, predation resolution,
// energy transfer between trophic levels, and the per-tick cascade pass.
package foodweb

import (
	"fmt"
	"sort"

	"github.com/agnivade/levenshtein"

	"github.com/pthm-cable/terrarium/config"
)

// Level is a discrete rank in the food chain, totally ordered from
// Producer (lowest) to Decomposer (highest).
type Level uint8

const (
	Producer Level = iota
	Primary
	Secondary
	Tertiary
	Decomposer
)

var levelNames = [...]string{"producer", "primary", "secondary", "tertiary", "decomposer"}

// String returns the lowercase level name.
func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a config-level name to a Level.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if name == s {
			return Level(i), nil
		}
	}
	return 0, fmt.Errorf("unknown trophic level %q", s)
}

// UnknownTypeError reports a query for a type that was never registered.
// It is recoverable: callers can fall back or register the type. The
// registry never silently defaults an unknown type to Producer.
type UnknownTypeError struct {
	Type       string
	Suggestion string // closest registered type, empty if none is close
}

func (e *UnknownTypeError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown organism type %q (did you mean %q?)", e.Type, e.Suggestion)
	}
	return fmt.Sprintf("unknown organism type %q", e.Type)
}

// entry holds one registered type's classification.
type entry struct {
	level Level
	prey  map[string]bool
}

// Registry maps organism type -> trophic level and valid prey set. It is a
// keyed table so runtime registration is O(1) and never touches existing
// classification entries. Single-writer-per-tick under the cooperative
// scheduling model; no locking.
type Registry struct {
	entries map[string]entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// FromConfig builds a registry seeded with the configured archetypes.
func FromConfig(cfg *config.Config) (*Registry, error) {
	r := NewRegistry()
	for _, arch := range cfg.Archetypes {
		level, err := ParseLevel(arch.TrophicLevel)
		if err != nil {
			return nil, fmt.Errorf("archetype %q: %w", arch.Name, err)
		}
		r.Register(arch.Name, level, arch.Prey)
	}
	return r, nil
}

// Register inserts or overwrites an entry, enabling new organism
// archetypes to join the food web at runtime.
func (r *Registry) Register(typeName string, level Level, prey []string) {
	set := make(map[string]bool, len(prey))
	for _, p := range prey {
		set[p] = true
	}
	r.entries[typeName] = entry{level: level, prey: set}
}

// LevelOf returns the trophic level for a registered type.
func (r *Registry) LevelOf(typeName string) (Level, error) {
	e, ok := r.entries[typeName]
	if !ok {
		return 0, r.unknown(typeName)
	}
	return e.level, nil
}

// IsPredatorPrey reports whether preyType is in predatorType's registered
// prey set. The relation is asymmetric: A eating B never implies B eating
// A. An unregistered predator is an error; an unregistered prey type is
// simply not in any set.
func (r *Registry) IsPredatorPrey(predatorType, preyType string) (bool, error) {
	e, ok := r.entries[predatorType]
	if !ok {
		return false, r.unknown(predatorType)
	}
	return e.prey[preyType], nil
}

// Eats is the error-free form of IsPredatorPrey for hot paths: unknown
// predator types read as no relationship.
func (r *Registry) Eats(predatorType, preyType string) bool {
	ok, err := r.IsPredatorPrey(predatorType, preyType)
	return err == nil && ok
}

// Types returns all registered type names, sorted.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PreyOf returns the sorted prey set for a registered type.
func (r *Registry) PreyOf(typeName string) ([]string, error) {
	e, ok := r.entries[typeName]
	if !ok {
		return nil, r.unknown(typeName)
	}
	prey := make([]string, 0, len(e.prey))
	for name := range e.prey {
		prey = append(prey, name)
	}
	sort.Strings(prey)
	return prey, nil
}

// maxSuggestDistance bounds how far a did-you-mean hint may stray.
const maxSuggestDistance = 2

// unknown builds an UnknownTypeError with a did-you-mean suggestion when
// a registered type is within edit distance two.
func (r *Registry) unknown(typeName string) *UnknownTypeError {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, name := range r.Types() {
		dist := levenshtein.ComputeDistance(typeName, name)
		if dist < bestDist {
			best = name
			bestDist = dist
		}
	}
	return &UnknownTypeError{Type: typeName, Suggestion: best}
}
