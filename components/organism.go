// Package components defines the organism records shared between the
// simulation world and the genetics/food-web core.
package components

import "github.com/pthm-cable/terrarium/genome"

// Position is a 2D world coordinate. The core only reads it for regional
// diversity bucketing; movement belongs to the surrounding simulation.
type Position struct {
	X, Y float64
}

// Organism is the record the simulation loop hands to the core each tick.
// The core reads it and reports outcomes; removal from the live list is
// the surrounding simulation's job.
type Organism struct {
	ID   uint64
	Type string

	// Genome is nil for abstract resources (e.g. water) that participate
	// in the world but carry no heritable state.
	Genome *genome.Genome

	Age    int
	Health float64 // 0-100
	Energy float64 // >= 0
	Size   float64
	Speed  float64
	Pos    Position // read only for regional diversity bucketing

	ReproCooldown int // ticks until this organism may combine again
}

// Alive reports whether the organism is still part of the living world.
// Health and energy at or below zero both count as dead; the spawn system
// removes dead organisms at the end of the tick.
func (o *Organism) Alive() bool {
	return o.Health > 0 && o.Energy > 0
}

// IntelligenceOf returns the expressed intelligence trait, or the neutral
// midpoint for organisms without a genome.
func (o *Organism) IntelligenceOf() float64 {
	if o.Genome == nil {
		return 0.5
	}
	return o.Genome.Trait("intelligence")
}
