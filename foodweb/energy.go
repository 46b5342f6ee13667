package foodweb

// DefaultTransferEfficiency is the classical 10% trophic transfer rule.
const DefaultTransferEfficiency = 0.10

// Ledger computes one-way energy transfers between trophic levels.
type Ledger struct {
	efficiency float64
}

// NewLedger creates a ledger with the given transfer efficiency.
// Non-positive values fall back to the 10% default.
func NewLedger(efficiency float64) *Ledger {
	if efficiency <= 0 {
		efficiency = DefaultTransferEfficiency
	}
	return &Ledger{efficiency: efficiency}
}

// Transfer returns the energy passed from source to target level. Energy
// only flows exactly one rank up the food chain; sideways, downward, and
// level-skipping requests are a defined zero result, not an error, so the
// hot path stays exception-free. Negative source energy also yields zero.
func (l *Ledger) Transfer(sourceEnergy float64, source, target Level) float64 {
	if sourceEnergy <= 0 {
		return 0
	}
	if int(target) != int(source)+1 {
		return 0
	}
	return sourceEnergy * l.efficiency
}

// Efficiency returns the configured transfer efficiency.
func (l *Ledger) Efficiency() float64 {
	return l.efficiency
}
