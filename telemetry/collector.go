package telemetry

// Collector accumulates cascade events into window statistics. The world
// fills in the population/energy/diversity fields at flush time; the
// collector owns only the event counters.
type Collector struct {
	windowTicks int64
	windowStart int64

	attempts          int
	kills             int
	births            int
	deaths            int
	energyTransferred float64
}

// NewCollector creates a collector with the given window length in ticks.
func NewCollector(windowTicks int) *Collector {
	if windowTicks <= 0 {
		windowTicks = 600
	}
	return &Collector{windowTicks: int64(windowTicks)}
}

// Record consumes one event.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventAttempt:
		c.attempts++
	case EventKill:
		c.kills++
	case EventBirth:
		c.births++
	case EventDeath:
		c.deaths++
	case EventTransfer:
		c.energyTransferred += ev.Amount
	}
}

// RecordAll consumes a batch of events.
func (c *Collector) RecordAll(events []Event) {
	for _, ev := range events {
		c.Record(ev)
	}
}

// WindowReady reports whether the current window has elapsed.
func (c *Collector) WindowReady(tick int64) bool {
	return tick-c.windowStart >= c.windowTicks
}

// Flush returns the event counters for the closing window and starts the
// next one. Population and distribution fields are left for the caller.
func (c *Collector) Flush(tick int64) WindowStats {
	s := WindowStats{
		WindowStartTick:   c.windowStart,
		WindowEndTick:     tick,
		Attempts:          c.attempts,
		Kills:             c.kills,
		Births:            c.births,
		Deaths:            c.deaths,
		EnergyTransferred: c.energyTransferred,
	}
	if c.attempts > 0 {
		s.HitRate = float64(c.kills) / float64(c.attempts)
	}

	c.windowStart = tick
	c.attempts = 0
	c.kills = 0
	c.births = 0
	c.deaths = 0
	c.energyTransferred = 0

	return s
}
