package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Grid at window end
	Particles int `csv:"particles"`
	Cols      int `csv:"cols"`
	Rows      int `csv:"rows"`

	// Events during window
	Resets int `csv:"resets"`

	// Pointer activity during window
	PointerInsideFrac float64 `csv:"pointer_inside"`  // Fraction of frames with the cursor on the canvas
	InfluencedMean    float64 `csv:"influenced_mean"` // Particles within range, averaged per frame
	InfluencedMax     int     `csv:"influenced_max"`

	// Displacement from origin (sampled at window end)
	DisplacementMean float64 `csv:"disp_mean"`
	DisplacementP50  float64 `csv:"disp_p50"`
	DisplacementP90  float64 `csv:"disp_p90"`
	DisplacementMax  float64 `csv:"disp_max"`

	// Motion (sampled at window end)
	SpeedMean     float64 `csv:"speed_mean"`
	KineticEnergy float64 `csv:"kinetic_energy"` // Sum of v²/2 over all particles
	Settled       int     `csv:"settled"`        // Particles within SettleRadius of their origin
}

// SettleRadius is the displacement under which a particle counts as at rest.
const SettleRadius = 0.5

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

// ComputeDisplacementStats calculates mean, median, p90 and max of displacements.
func ComputeDisplacementStats(values []float64) (mean, p50, p90, maxVal float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	maxVal = floats.Max(sorted)
	return mean, p50, p90, maxVal
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("particles", s.Particles),
		slog.Int("cols", s.Cols),
		slog.Int("rows", s.Rows),
		slog.Int("resets", s.Resets),
		slog.Float64("pointer_inside", s.PointerInsideFrac),
		slog.Float64("influenced_mean", s.InfluencedMean),
		slog.Int("influenced_max", s.InfluencedMax),
		slog.Float64("disp_mean", s.DisplacementMean),
		slog.Float64("disp_p50", s.DisplacementP50),
		slog.Float64("disp_p90", s.DisplacementP90),
		slog.Float64("disp_max", s.DisplacementMax),
		slog.Float64("speed_mean", s.SpeedMean),
		slog.Float64("kinetic_energy", s.KineticEnergy),
		slog.Int("settled", s.Settled),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
