package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pthm-cable/touchfield/config"
	"github.com/pthm-cable/touchfield/game"
	"github.com/pthm-cable/touchfield/renderer"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics, driving the pointer with the autopilot")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	watch := flag.Bool("watch", false, "Reload -config when the file changes")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		MaxTicks:       *maxTicks,
		ConfigPath:     *configPath,
		Watch:          *watch,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !*headless {
		window := renderer.OpenWindow(
			int32(cfg.Screen.Width), int32(cfg.Screen.Height),
			int32(cfg.Screen.TargetFPS), cfg.Screen.Title,
		)
		defer window.Close()
		opts.Window = window
	}

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer g.Unload()
	if g.Inert() {
		return
	}

	w, h := g.Size()
	slog.Info("starting",
		"headless", *headless,
		"seed", rngSeed,
		"width", w,
		"height", h,
		"particles", g.Field().Count(),
		"max_ticks", *maxTicks,
		"watch", *watch,
	)

	frames := g.Run(ctx)
	slog.Info("stopped", "tick", g.Tick(), "frames", frames)
}
