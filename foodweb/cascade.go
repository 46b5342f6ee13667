package foodweb

import (
	"log/slog"

	"github.com/pthm-cable/terrarium/components"
	"github.com/pthm-cable/terrarium/telemetry"
)

// Pair is one candidate predator/prey encounter. Proximity and behavioral
// candidacy are decided by the surrounding simulation; the coordinator
// only resolves outcomes.
type Pair struct {
	Predator *components.Organism
	Prey     *components.Organism
}

// Coordinator orchestrates a full interaction pass per tick: resolve each
// candidate pair, apply energy transfer and prey removal on success,
// update population counts, and emit events for the observer layers.
type Coordinator struct {
	resolver *Resolver
	tracker  *telemetry.Tracker
	log      *slog.Logger
}

// NewCoordinator creates a coordinator. A nil logger falls back to the
// default slog logger.
func NewCoordinator(resolver *Resolver, tracker *telemetry.Tracker, log *slog.Logger) *Coordinator {
	if log == nil {
		log = slog.Default()
	}
	return &Coordinator{resolver: resolver, tracker: tracker, log: log}
}

// RunPass resolves every candidate pair and returns the emitted events.
// A failure while processing one pair never aborts the pass: the pair is
// logged and skipped, since a whole-tick failure would freeze the world.
func (c *Coordinator) RunPass(tick int64, pairs []Pair) []telemetry.Event {
	events := make([]telemetry.Event, 0, len(pairs))
	for _, pair := range pairs {
		events = c.runPair(tick, pair, events)
	}
	return events
}

// runPair resolves one pair, isolating panics so the pass continues with
// whatever events were already emitted.
func (c *Coordinator) runPair(tick int64, pair Pair, events []telemetry.Event) (out []telemetry.Event) {
	out = events
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("interaction pair failed",
				"tick", tick,
				"panic", r,
			)
		}
	}()

	pred, prey := pair.Predator, pair.Prey
	if pred == nil || prey == nil || !pred.Alive() || !prey.Alive() {
		return out
	}

	res := c.resolver.Resolve(pred, prey)
	if res.Probability == 0 {
		// Not a registered relationship; nothing happened.
		return out
	}

	out = append(out, telemetry.NewAttemptEvent(tick, pred.ID, prey.ID, pred.Type, res.Probability))
	if !res.Success {
		return out
	}

	// Prey is caught: mark it removed and move the energy. The spawn
	// system deletes the record; the core only reports the outcome.
	pred.Energy += res.EnergyGained
	prey.Health = 0
	if c.tracker != nil {
		c.tracker.Remove(prey.Type)
	}

	out = append(out, telemetry.NewKillEvent(tick, pred.ID, prey.ID, prey.Type))
	if res.EnergyGained > 0 {
		out = append(out, telemetry.NewTransferEvent(tick, pred.ID, prey.ID, res.EnergyGained))
	}
	return out
}
