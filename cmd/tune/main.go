// Package main provides CMA-ES tuning of the particle field's force constants
// so a pointer sweep pushes the grid a visible distance and lets it settle quickly.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/touchfield/config"
)

// EvalRecord is one row of tune_log.csv.
type EvalRecord struct {
	Eval        int     `csv:"eval"`
	Fitness     float64 `csv:"fitness"`
	Peak        float64 `csv:"peak"`
	SettleSec   float64 `csv:"settle_sec"`
	Ringing     float64 `csv:"ringing"`
	MaxDistance float64 `csv:"max_distance"`
	Strength    float64 `csv:"strength"`
	Spring      float64 `csv:"spring"`
	Friction    float64 `csv:"friction"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	sweepTicks := flag.Int("sweep-ticks", 90, "Ticks the pointer takes to cross the canvas")
	settleCap := flag.Int("settle-cap", 600, "Maximum ticks to wait for the field to settle")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Load base config
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector()

	// Generate seeds for evaluation
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, *sweepTicks, *settleCap, evalSeeds, baseCfg)

	// Set up CMA-ES, starting from the base config's values
	dim := params.Dim()
	initX := params.Normalize(params.Clamp(params.ExtractFromConfig(baseCfg)))

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}
	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation
	}

	logPath := filepath.Join(*outputDir, "tune_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	// Track evaluations and timing
	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			clamped := params.Clamp(raw)
			fitness := evaluator.Evaluate(raw)
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = clamped
			}

			peak, settleSec, ringing := evaluator.Last()
			rec := []EvalRecord{{
				Eval:        evalCount,
				Fitness:     fitness,
				Peak:        peak,
				SettleSec:   settleSec,
				Ringing:     ringing,
				MaxDistance: clamped[0],
				Strength:    clamped[1],
				Spring:      clamped[2],
				Friction:    clamped[3],
			}}
			if evalCount == 1 {
				err = gocsv.Marshal(rec, logFile)
			} else {
				err = gocsv.MarshalWithoutHeaders(rec, logFile)
			}
			if err != nil {
				log.Printf("failed to write log row: %v", err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

			fmt.Printf("Eval %d/%d: fitness=%.3f peak=%.1fpx settle=%.2fs ringing=%.0f (best=%.3f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, fitness, peak, settleSec, ringing, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	fmt.Printf("Starting CMA-ES tuning with %d parameters, population=%d, max_evals=%d\n",
		dim, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, sweep: %d ticks, settle cap: %d ticks\n", *seeds, *sweepTicks, *settleCap)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	// Use best params found (may be from any evaluation, not just final)
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	totalTime := time.Since(startTime)
	fmt.Printf("\nTuning complete after %d evaluations in %s\n", evalCount, formatDuration(totalTime))
	fmt.Printf("Best fitness: %.3f\n", bestFitness)

	fmt.Println("\nBest parameters:")
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	bestCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to reload base config: %v", err)
	}
	params.ApplyToConfig(bestCfg, bestParams)

	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}
