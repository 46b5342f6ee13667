package foodweb

import "testing"

func TestTransferTenPercentRule(t *testing.T) {
	ledger := NewLedger(0) // falls back to the 10% default

	tests := []struct {
		name   string
		energy float64
		source Level
		target Level
		want   float64
	}{
		{"producer to primary", 100, Producer, Primary, 10},
		{"primary to secondary", 50, Primary, Secondary, 5},
		{"secondary to tertiary", 200, Secondary, Tertiary, 20},
		{"tertiary to decomposer", 80, Tertiary, Decomposer, 8},
		{"no downward flow", 100, Secondary, Primary, 0},
		{"no level skipping", 100, Producer, Tertiary, 0},
		{"no sideways flow", 100, Primary, Primary, 0},
		{"no flow from decomposer", 100, Decomposer, Producer, 0},
		{"zero source energy", 0, Producer, Primary, 0},
		{"negative source energy", -10, Producer, Primary, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ledger.Transfer(tt.energy, tt.source, tt.target)
			if got != tt.want {
				t.Errorf("Transfer(%v, %v, %v) = %v, want %v",
					tt.energy, tt.source, tt.target, got, tt.want)
			}
		})
	}
}

func TestLedgerCustomEfficiency(t *testing.T) {
	ledger := NewLedger(0.25)
	if got := ledger.Transfer(100, Producer, Primary); got != 25 {
		t.Errorf("Transfer with 25%% efficiency = %v, want 25", got)
	}
	if ledger.Efficiency() != 0.25 {
		t.Errorf("Efficiency() = %v, want 0.25", ledger.Efficiency())
	}
}
