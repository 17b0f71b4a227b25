package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/touchfield/config"
	"github.com/pthm-cable/touchfield/renderer"
	"github.com/pthm-cable/touchfield/systems"
	"github.com/pthm-cable/touchfield/telemetry"
	"github.com/pthm-cable/touchfield/ui"
)

// Surface is the drawing target a graphical game renders to.
type Surface interface {
	Ready() bool
	ShouldClose() bool
}

// Options configures a new game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // empty = no CSV output
	MaxTicks       int     // 0 = unlimited

	// ConfigPath is watched for changes when Watch is set.
	ConfigPath string
	Watch      bool

	// Config overrides the global configuration.
	Config *config.Config

	// Window is the raylib surface for graphical runs. Nil runs headless.
	Window *renderer.Window
	// Surface overrides the readiness check normally provided by Window.
	Surface Surface
	// Input overrides the event source. Defaults to the window's mouse in
	// graphical runs and an Autopilot in headless runs.
	Input InputSource

	// StatsCallback is called with every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the particle field, its pointer and the services around them.
type Game struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	field      *systems.Field
	pointer    systems.Pointer
	influenced int

	listeners *Listeners
	detach    []func()
	loop      *Loop
	input     InputSource
	autopilot *Autopilot
	surface   Surface
	window    *renderer.Window
	inert     bool

	// Rendering (graphical only)
	background  *renderer.BackgroundRenderer
	particles   *renderer.ParticleRenderer
	debug       *renderer.DebugRenderer
	overlays    *ui.OverlayRegistry
	hud         *ui.HUD
	perfPanel   *ui.PerfPanel
	quickStats  *ui.QuickStatsPanel
	controls    *ui.ControlsPanel
	tuningPanel *ui.TuningPanel
	inspector   *ui.Inspector
	debugMode   bool

	width, height float64
	built         bool
	tick          int32
	maxTicks      int

	// Telemetry
	collector     *telemetry.Collector
	perf          *telemetry.PerfCollector
	output        *telemetry.OutputManager
	bookmarks     *telemetry.BookmarkDetector
	logStats      bool
	lastStats     telemetry.WindowStats
	statsCallback func(telemetry.WindowStats)

	watcher *config.Watcher
	reloads int
}

// NewGame creates a headless game from the global configuration.
func NewGame() (*Game, error) {
	return NewGameWithOptions(Options{Seed: 1})
}

// NewGameWithOptions creates a game and builds the initial grid.
// If the surface is not ready the game is inert: nothing is mounted and
// Run returns immediately.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	g := &Game{
		cfg:           cfg,
		rng:           rand.New(rand.NewSource(opts.Seed)),
		seed:          opts.Seed,
		listeners:     NewListeners(),
		window:        opts.Window,
		surface:       opts.Surface,
		maxTicks:      opts.MaxTicks,
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}
	g.loop = NewLoop(g.Frame)
	if g.surface == nil && g.window != nil {
		g.surface = g.window
	}

	if g.surface != nil && !g.surface.Ready() {
		slog.Warn("drawing surface unavailable, particle field disabled")
		g.inert = true
		return g, nil
	}

	g.field = systems.NewField(systems.LayoutFromConfig(cfg), systems.TuningFromConfig(cfg), g.rng)
	g.pointer = systems.NewPointer(cfg.Field.SentinelX, cfg.Field.SentinelY)

	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}
	g.collector = telemetry.NewCollector(statsWindow, cfg.Derived.DT)
	g.perf = telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow)
	g.bookmarks = telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory)

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output: %w", err)
	}
	g.output = output
	if err := g.output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	if opts.Watch && opts.ConfigPath != "" {
		w, err := config.NewWatcher(opts.ConfigPath)
		if err != nil {
			slog.Warn("config watch disabled", "path", opts.ConfigPath, "error", err)
		} else {
			g.watcher = w
		}
	}

	switch {
	case opts.Input != nil:
		g.input = opts.Input
	case g.window != nil:
		g.input = &windowInput{}
	default:
		g.autopilot = NewAutopilot(cfg.Autopilot, cfg.Screen.TargetFPS, opts.Seed)
		g.input = g.autopilot
	}

	w, h := float64(cfg.Screen.Width), float64(cfg.Screen.Height)
	if g.window != nil {
		ww, wh := g.window.Size()
		w, h = float64(ww), float64(wh)
		g.initRendering(w, h)
	}

	g.mount()
	g.resize(w, h)
	return g, nil
}

// mount registers the canvas event handlers.
func (g *Game) mount() {
	g.detach = append(g.detach,
		g.listeners.Add(EventPointerMove, func(ev Event) {
			g.pointer.Move(ev.X, ev.Y)
		}),
		g.listeners.Add(EventPointerLeave, func(Event) {
			g.pointer.Leave()
		}),
		g.listeners.Add(EventResize, func(ev Event) {
			g.resize(ev.X, ev.Y)
		}),
	)
}

// resize matches the canvas to w×h and rebuilds the grid.
// The build at mount is not counted as a reset.
func (g *Game) resize(w, h float64) {
	g.width, g.height = w, h
	g.field.Reset(w, h)
	if g.built {
		g.collector.RecordReset()
	}
	g.built = true

	if g.autopilot != nil {
		g.autopilot.Resize(w, h)
	}
	if g.background != nil {
		g.background.Resize(int32(w), int32(h))
	}
	g.layoutPanels()

	cols, rows := g.field.Grid()
	slog.Debug("field reset", "width", w, "height", h, "cols", cols, "rows", rows, "particles", g.field.Count())
}

// Run drives frames until the loop is stopped, ctx is done, the surface
// closes or MaxTicks is reached. It returns the number of frames run.
func (g *Game) Run(ctx context.Context) int64 {
	if g.inert {
		return 0
	}
	return g.loop.Run(ctx)
}

// Frame runs one full frame. It returns false without doing anything once
// the game is stopped, the surface closes or MaxTicks is reached.
func (g *Game) Frame() bool {
	if g.inert || g.loop.Stopped() {
		return false
	}
	if g.maxTicks > 0 && int(g.tick) >= g.maxTicks {
		return false
	}
	if g.surface != nil && g.surface.ShouldClose() {
		return false
	}

	g.perf.BeginFrame()
	g.Update()
	if g.window != nil {
		g.perf.Enter(telemetry.PhaseDraw)
		g.Draw()
	}
	g.perf.Enter(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.perf.EndFrame()

	return true
}

// Update polls input, applies pending config and advances the field one step.
func (g *Game) Update() {
	if g.inert {
		return
	}

	g.perf.Enter(telemetry.PhaseInput)
	if g.window != nil {
		g.handleKeys()
	}
	g.input.Poll(func(ev Event) {
		g.listeners.Dispatch(ev)
	})

	g.perf.Enter(telemetry.PhaseReload)
	g.applyReloads()

	g.perf.Enter(telemetry.PhaseField)
	g.influenced = g.field.Step(g.pointer)
	g.perf.SetParticles(g.field.Count())
	g.tick++
	g.collector.RecordFrame(g.influenced, g.pointer.Inside)
}

// applyReloads drains the config watcher.
func (g *Game) applyReloads() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case cfg := <-g.watcher.Configs:
			g.ApplyConfig(cfg)
		case err := <-g.watcher.Errors:
			slog.Warn("config reload failed", "error", err)
		default:
			return
		}
	}
}

// ApplyConfig switches to cfg. Force constants apply on the next step;
// layout changes wait for the next resize.
func (g *Game) ApplyConfig(cfg *config.Config) {
	if g.inert {
		return
	}
	g.cfg = cfg
	config.Set(cfg)

	g.field.SetTuning(systems.TuningFromConfig(cfg))
	g.field.SetLayout(systems.LayoutFromConfig(cfg))
	g.pointer.SetSentinel(cfg.Field.SentinelX, cfg.Field.SentinelY)
	if g.background != nil {
		g.background = g.newBackground(g.width, g.height)
	}
	g.reloads++

	slog.Info("config reloaded",
		"max_distance", cfg.Field.MaxDistance,
		"strength", cfg.Field.Strength,
		"spring", cfg.Field.Spring,
		"friction", cfg.Field.Friction,
		"spacing", cfg.Field.Spacing,
	)
}

// Stop cancels the animation loop without tearing down.
func (g *Game) Stop() {
	g.loop.Stop()
}

// Unload stops the loop, removes the event handlers and releases resources.
// It is safe to call more than once.
func (g *Game) Unload() {
	g.loop.Stop()

	for _, remove := range g.detach {
		remove()
	}
	g.detach = nil

	if g.field != nil {
		g.field.Dispose()
	}
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			slog.Warn("closing config watcher", "error", err)
		}
		g.watcher = nil
	}
	if err := g.output.Close(); err != nil {
		slog.Error("closing output", "error", err)
	}
	g.output = nil
}

// Tick returns the number of steps run.
func (g *Game) Tick() int32 {
	return g.tick
}

// Seed returns the RNG seed the game was created with.
func (g *Game) Seed() int64 {
	return g.seed
}

// Field returns the particle field. Nil for an inert game.
func (g *Game) Field() *systems.Field {
	return g.field
}

// Pointer returns the current pointer state.
func (g *Game) Pointer() systems.Pointer {
	return g.pointer
}

// Listeners returns the event registry.
func (g *Game) Listeners() *Listeners {
	return g.listeners
}

// Size returns the current canvas size.
func (g *Game) Size() (w, h float64) {
	return g.width, g.height
}

// Inert reports whether the game found no usable surface.
func (g *Game) Inert() bool {
	return g.inert
}

// Influenced returns the number of particles the pointer reached last step.
func (g *Game) Influenced() int {
	return g.influenced
}

// LastStats returns the most recently flushed stats window.
func (g *Game) LastStats() telemetry.WindowStats {
	return g.lastStats
}

// Reloads returns how many configurations have been applied since start.
func (g *Game) Reloads() int {
	return g.reloads
}
