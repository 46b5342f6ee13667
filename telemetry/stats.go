package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for one stats window.
type WindowStats struct {
	WindowStartTick int64 `csv:"-"`
	WindowEndTick   int64 `csv:"window_end"`

	// Population counts at window end
	Producers   int `csv:"producers"`
	Primaries   int `csv:"primaries"`
	Secondaries int `csv:"secondaries"`
	Tertiaries  int `csv:"tertiaries"`
	Decomposers int `csv:"decomposers"`
	Total       int `csv:"total"`

	// Events during window
	Attempts int     `csv:"attempts"`
	Kills    int     `csv:"kills"`
	Births   int     `csv:"births"`
	Deaths   int     `csv:"deaths"`
	HitRate  float64 `csv:"hit_rate"`

	// Energy moved up the chain during the window
	EnergyTransferred float64 `csv:"energy_transferred"`

	// Energy distribution across living organisms (sampled at window end)
	EnergyMean float64 `csv:"energy_mean"`
	EnergyP10  float64 `csv:"energy_p10"`
	EnergyP50  float64 `csv:"energy_p50"`
	EnergyP90  float64 `csv:"energy_p90"`

	// Diversity across occupied regions (sampled at window end)
	MeanShannon  float64 `csv:"mean_shannon"`
	MeanRichness float64 `csv:"mean_richness"`
	Regions      int     `csv:"regions"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeEnergyStats calculates mean and percentiles from energy values.
func ComputeEnergyStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	// Sort for percentiles
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("window_start", s.WindowStartTick),
		slog.Int64("window_end", s.WindowEndTick),
		slog.Int("producers", s.Producers),
		slog.Int("primaries", s.Primaries),
		slog.Int("secondaries", s.Secondaries),
		slog.Int("tertiaries", s.Tertiaries),
		slog.Int("decomposers", s.Decomposers),
		slog.Int("total", s.Total),
		slog.Int("attempts", s.Attempts),
		slog.Int("kills", s.Kills),
		slog.Int("births", s.Births),
		slog.Int("deaths", s.Deaths),
		slog.Float64("hit_rate", s.HitRate),
		slog.Float64("energy_transferred", s.EnergyTransferred),
		slog.Float64("energy_mean", s.EnergyMean),
		slog.Float64("energy_p10", s.EnergyP10),
		slog.Float64("energy_p50", s.EnergyP50),
		slog.Float64("energy_p90", s.EnergyP90),
		slog.Float64("mean_shannon", s.MeanShannon),
		slog.Float64("mean_richness", s.MeanRichness),
		slog.Int("regions", s.Regions),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
