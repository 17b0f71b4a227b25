package main

import (
	"log/slog"
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/touchfield/components"
	"github.com/pthm-cable/touchfield/config"
	"github.com/pthm-cable/touchfield/game"
	"github.com/pthm-cable/touchfield/systems"
	"github.com/pthm-cable/touchfield/telemetry"
)

// Fitness weights. A run is scored by how long the field takes to settle
// after the pointer leaves, how far the sweep pushed it relative to
// targetPeak and how often kinetic energy rebounds while settling.
const (
	targetPeak    = 40.0 // px
	weightPeak    = 2.0
	weightRinging = 0.02
	unstableDisp  = 1e6
)

// sweepInput drags the pointer across the canvas once, then leaves.
type sweepInput struct {
	width, y float64
	ticks    int
	tick     int
}

func (s *sweepInput) Poll(emit func(game.Event)) {
	s.tick++
	switch {
	case s.tick <= s.ticks:
		x := s.width * float64(s.tick) / float64(s.ticks)
		emit(game.Event{Kind: game.EventPointerMove, X: x, Y: s.y})
	case s.tick == s.ticks+1:
		emit(game.Event{Kind: game.EventPointerLeave})
	}
}

// newSweep places the sweep at a seed-dependent height in the middle half of the canvas.
func newSweep(cfg *config.Config, seed int64, ticks int) *sweepInput {
	rng := rand.New(rand.NewSource(seed))
	h := float64(cfg.Screen.Height)
	return &sweepInput{
		width: float64(cfg.Screen.Width),
		y:     h * (0.25 + 0.5*rng.Float64()),
		ticks: ticks,
	}
}

// FitnessEvaluator runs headless sweeps and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	seeds      []int64
	baseConfig *config.Config
	sweepTicks int
	settleCap  int

	mu          sync.Mutex
	bestFitness float64
	last        runResult // mean components from the most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, sweepTicks, settleCap int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		seeds:       seeds,
		baseConfig:  baseCfg,
		sweepTicks:  sweepTicks,
		settleCap:   settleCap,
		bestFitness: math.Inf(1),
	}
}

// runResult holds the measurements from a single sweep.
type runResult struct {
	peak        float64 // largest displacement seen during the sweep
	settleTicks int     // ticks after leaving until every particle is within SettleRadius
	ringing     int     // ticks where kinetic energy rose while settling
}

// Last returns the averaged measurements from the most recent evaluation.
func (fe *FitnessEvaluator) Last() (peak, settleSec, ringing float64) {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.last.peak, float64(fe.last.settleTicks) * fe.baseConfig.Derived.DT, float64(fe.last.ringing)
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSweep(x, s)
		}(i, seed)
	}
	wg.Wait()

	fitness := make([]float64, len(results))
	peaks := make([]float64, len(results))
	settles := make([]float64, len(results))
	rings := make([]float64, len(results))
	for i, r := range results {
		fitness[i] = fe.computeFitness(r)
		peaks[i] = r.peak
		settles[i] = float64(r.settleTicks)
		rings[i] = float64(r.ringing)
	}
	avg := stat.Mean(fitness, nil)

	fe.mu.Lock()
	if avg < fe.bestFitness {
		fe.bestFitness = avg
	}
	fe.last = runResult{
		peak:        stat.Mean(peaks, nil),
		settleTicks: int(math.Round(stat.Mean(settles, nil))),
		ringing:     int(math.Round(stat.Mean(rings, nil))),
	}
	fe.mu.Unlock()

	return avg
}

// runSweep drags the pointer across a fresh field and measures the response.
func (fe *FitnessEvaluator) runSweep(x []float64, seed int64) runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	res := runResult{settleTicks: fe.settleCap}
	g, err := game.NewGameWithOptions(game.Options{
		Seed:     seed,
		Config:   cfg,
		Input:    newSweep(cfg, seed, fe.sweepTicks),
		MaxTicks: fe.sweepTicks + 1 + fe.settleCap,
	})
	if err != nil {
		slog.Error("failed to create game", "error", err)
		res.peak = unstableDisp
		return res
	}
	defer g.Unload()

	var lastKE float64
	for g.Frame() {
		maxDisp, ke := sampleField(g.Field())
		if math.IsNaN(maxDisp) || maxDisp > unstableDisp {
			res.peak = unstableDisp
			res.settleTicks = fe.settleCap
			return res
		}

		tick := int(g.Tick())
		if tick <= fe.sweepTicks {
			res.peak = math.Max(res.peak, maxDisp)
			continue
		}

		after := tick - fe.sweepTicks - 1
		if after > 0 && ke > lastKE {
			res.ringing++
		}
		lastKE = ke
		if maxDisp < telemetry.SettleRadius {
			res.settleTicks = after
			break
		}
	}
	return res
}

// sampleField returns the largest displacement and the total kinetic energy.
func sampleField(f *systems.Field) (maxDisp, kinetic float64) {
	f.EachDisplacement(func(dx, dy float64, vel components.Velocity) {
		maxDisp = math.Max(maxDisp, math.Hypot(dx, dy))
		kinetic += 0.5 * (vel.X*vel.X + vel.Y*vel.Y)
	})
	return maxDisp, kinetic
}

// copyConfig returns a copy of the base config safe to modify per run.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
func (fe *FitnessEvaluator) computeFitness(r runResult) float64 {
	settleSec := float64(r.settleTicks) * fe.baseConfig.Derived.DT
	relErr := (r.peak - targetPeak) / targetPeak
	return settleSec + weightPeak*relErr*relErr + weightRinging*float64(r.ringing)
}
