package telemetry

import (
	"math"

	"github.com/pthm-cable/touchfield/components"
	"github.com/pthm-cable/touchfield/systems"
)

// Collector accumulates per-frame events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	// Counters for current window
	frames        int
	insideFrames  int
	influencedSum int
	influencedMax int
	resets        int

	// Scratch buffers reused across flushes
	displacements []float64
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordFrame records one simulation frame.
func (c *Collector) RecordFrame(influenced int, pointerInside bool) {
	c.frames++
	c.influencedSum += influenced
	if influenced > c.influencedMax {
		c.influencedMax = influenced
	}
	if pointerInside {
		c.insideFrames++
	}
}

// RecordReset records a grid rebuild.
func (c *Collector) RecordReset() {
	c.resets++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush samples the field, produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, field *systems.Field) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,
		Resets:          c.resets,
		InfluencedMax:   c.influencedMax,
	}

	if c.frames > 0 {
		stats.PointerInsideFrac = float64(c.insideFrames) / float64(c.frames)
		stats.InfluencedMean = float64(c.influencedSum) / float64(c.frames)
	}

	if field != nil {
		stats.Particles = field.Count()
		stats.Cols, stats.Rows = field.Grid()
		c.sampleField(field, &stats)
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.frames = 0
	c.insideFrames = 0
	c.influencedSum = 0
	c.influencedMax = 0
	c.resets = 0

	return stats
}

// sampleField fills the displacement and motion fields of stats.
func (c *Collector) sampleField(field *systems.Field, stats *WindowStats) {
	c.displacements = c.displacements[:0]
	var speedSum float64

	field.EachDisplacement(func(dx, dy float64, vel components.Velocity) {
		d := math.Hypot(dx, dy)
		c.displacements = append(c.displacements, d)
		if d < SettleRadius {
			stats.Settled++
		}

		v2 := vel.X*vel.X + vel.Y*vel.Y
		speedSum += math.Sqrt(v2)
		stats.KineticEnergy += 0.5 * v2
	})

	n := len(c.displacements)
	if n == 0 {
		return
	}
	stats.DisplacementMean, stats.DisplacementP50, stats.DisplacementP90, stats.DisplacementMax =
		ComputeDisplacementStats(c.displacements)
	stats.SpeedMean = speedSum / float64(n)
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
