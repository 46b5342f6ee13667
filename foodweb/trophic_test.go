package foodweb

import (
	"errors"
	"testing"

	"github.com/pthm-cable/terrarium/config"
)

func defaultRegistry(t *testing.T) *Registry {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading default config: %v", err)
	}
	reg, err := FromConfig(cfg)
	if err != nil {
		t.Fatalf("building registry: %v", err)
	}
	return reg
}

func TestBaselineLevels(t *testing.T) {
	reg := defaultRegistry(t)

	tests := []struct {
		typeName string
		want     Level
	}{
		{"plant", Producer},
		{"creature", Primary},
		{"predator", Secondary},
		{"tribe", Tertiary},
		{"fungus", Decomposer},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			got, err := reg.LevelOf(tt.typeName)
			if err != nil {
				t.Fatalf("LevelOf(%q): %v", tt.typeName, err)
			}
			if got != tt.want {
				t.Errorf("LevelOf(%q) = %v, want %v", tt.typeName, got, tt.want)
			}
		})
	}
}

func TestUnknownTypeIsError(t *testing.T) {
	reg := defaultRegistry(t)

	_, err := reg.LevelOf("water")
	if err == nil {
		t.Fatal("expected error for unregistered type")
	}
	var unknown *UnknownTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("error %v is not an UnknownTypeError", err)
	}

	if _, err := reg.IsPredatorPrey("ghost", "plant"); err == nil {
		t.Error("expected error for unregistered predator type")
	}
}

func TestUnknownTypeSuggestion(t *testing.T) {
	reg := defaultRegistry(t)

	_, err := reg.LevelOf("creture")
	var unknown *UnknownTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("error %v is not an UnknownTypeError", err)
	}
	if unknown.Suggestion != "creature" {
		t.Errorf("suggestion = %q, want %q", unknown.Suggestion, "creature")
	}
}

func TestRelationshipIsAsymmetric(t *testing.T) {
	reg := defaultRegistry(t)

	forward, err := reg.IsPredatorPrey("predator", "creature")
	if err != nil || !forward {
		t.Fatalf("predator->creature = %v, %v; want true, nil", forward, err)
	}

	backward, err := reg.IsPredatorPrey("creature", "predator")
	if err != nil {
		t.Fatalf("creature->predator: %v", err)
	}
	if backward {
		t.Error("creature eats predator; relationship must be asymmetric")
	}
}

func TestRegisterRuntimeType(t *testing.T) {
	reg := defaultRegistry(t)

	reg.Register("apexPredator", Secondary, []string{"creature", "plant"})

	if got, err := reg.LevelOf("apexPredator"); err != nil || got != Secondary {
		t.Errorf("LevelOf(apexPredator) = %v, %v; want Secondary, nil", got, err)
	}
	if ok, err := reg.IsPredatorPrey("apexPredator", "creature"); err != nil || !ok {
		t.Errorf("apexPredator->creature = %v, %v; want true, nil", ok, err)
	}
	if ok, _ := reg.IsPredatorPrey("apexPredator", "fungus"); ok {
		t.Error("apexPredator->fungus should be false")
	}

	// Re-registration overwrites, never merges
	reg.Register("apexPredator", Tertiary, []string{"predator"})
	if got, _ := reg.LevelOf("apexPredator"); got != Tertiary {
		t.Errorf("after overwrite: level = %v, want Tertiary", got)
	}
	if ok, _ := reg.IsPredatorPrey("apexPredator", "creature"); ok {
		t.Error("overwrite kept the old prey set")
	}
}

func TestParseLevel(t *testing.T) {
	for i, name := range []string{"producer", "primary", "secondary", "tertiary", "decomposer"} {
		got, err := ParseLevel(name)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", name, err)
		}
		if got != Level(i) {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, Level(i))
		}
	}
	if _, err := ParseLevel("apex"); err == nil {
		t.Error("expected error for unknown level name")
	}
}
