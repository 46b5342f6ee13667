// Package telemetry provides population tracking, regional diversity,
// window statistics, and event emission for observer layers.
package telemetry

// EventType identifies cascade events.
type EventType uint8

const (
	EventAttempt  EventType = iota // predation attempt rolled
	EventKill                      // prey caught and removed
	EventTransfer                  // energy moved one level up
	EventBirth                     // combination produced a child
	EventDeath                     // organism starved or aged out
)

// Event is a single cascade event, consumed by the achievement and
// narrative layers. The core only emits; it never interprets.
type Event struct {
	Type     EventType
	Tick     int64
	SourceID uint64 // acting organism (predator, parent, the deceased)
	TargetID uint64 // other participant (prey, mate); 0 if none
	TypeName string // organism type of the source
	Amount   float64 // energy transferred, probability rolled, etc.
}

// NewAttemptEvent records a predation attempt and its rolled probability.
func NewAttemptEvent(tick int64, predatorID, preyID uint64, predatorType string, probability float64) Event {
	return Event{
		Type:     EventAttempt,
		Tick:     tick,
		SourceID: predatorID,
		TargetID: preyID,
		TypeName: predatorType,
		Amount:   probability,
	}
}

// NewKillEvent records a successful predation (prey removed).
func NewKillEvent(tick int64, predatorID, preyID uint64, preyType string) Event {
	return Event{
		Type:     EventKill,
		Tick:     tick,
		SourceID: predatorID,
		TargetID: preyID,
		TypeName: preyType,
	}
}

// NewTransferEvent records energy passed one trophic level up.
func NewTransferEvent(tick int64, predatorID, preyID uint64, amount float64) Event {
	return Event{
		Type:     EventTransfer,
		Tick:     tick,
		SourceID: predatorID,
		TargetID: preyID,
		Amount:   amount,
	}
}

// NewBirthEvent records a combination birth.
func NewBirthEvent(tick int64, childID, parentID uint64, childType string) Event {
	return Event{
		Type:     EventBirth,
		Tick:     tick,
		SourceID: childID,
		TargetID: parentID,
		TypeName: childType,
	}
}

// NewDeathEvent records a non-predation death.
func NewDeathEvent(tick int64, organismID uint64, organismType string) Event {
	return Event{
		Type:     EventDeath,
		Tick:     tick,
		SourceID: organismID,
		TypeName: organismType,
	}
}
