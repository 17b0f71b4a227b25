package game

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/touchfield/config"
	"github.com/pthm-cable/touchfield/systems"
	"github.com/pthm-cable/touchfield/telemetry"
)

// scriptedInput replays a fixed list of events, one batch per frame.
type scriptedInput struct {
	frames [][]Event
	polls  int
}

func (s *scriptedInput) Poll(emit func(Event)) {
	if s.polls < len(s.frames) {
		for _, ev := range s.frames[s.polls] {
			emit(ev)
		}
	}
	s.polls++
}

// fakeSurface reports a fixed readiness.
type fakeSurface struct {
	ready  bool
	closed bool
}

func (f *fakeSurface) Ready() bool       { return f.ready }
func (f *fakeSurface) ShouldClose() bool { return f.closed }

func move(x, y float64) Event   { return Event{Kind: EventPointerMove, X: x, Y: y} }
func leave() Event              { return Event{Kind: EventPointerLeave} }
func resize(w, h float64) Event { return Event{Kind: EventResize, X: w, Y: h} }

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.Seed == 0 {
		opts.Seed = 42
	}
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions error: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestNewGameBuildsGrid(t *testing.T) {
	g := newTestGame(t, Options{Input: &scriptedInput{}})

	cols, rows := g.Field().Grid()
	if cols != 43 || rows != 14 {
		t.Errorf("grid = %dx%d, want 43x14 for 1280x400", cols, rows)
	}
	if g.Field().Count() != 602 {
		t.Errorf("Count() = %d, want 602", g.Field().Count())
	}
	if g.Listeners().Len() != 3 {
		t.Errorf("Listeners().Len() = %d, want 3", g.Listeners().Len())
	}
	if p := g.Pointer(); p.Inside || p.X != -1000 || p.Y != -1000 {
		t.Errorf("initial pointer = %+v, want parked at sentinel", p)
	}
}

func TestPointerMoveAndLeave(t *testing.T) {
	in := &scriptedInput{frames: [][]Event{
		{move(300, 200)},
		nil,
		{leave()},
	}}
	g := newTestGame(t, Options{Input: in})

	g.Frame()
	if p := g.Pointer(); !p.Inside || p.X != 300 || p.Y != 200 {
		t.Fatalf("pointer after move = %+v", p)
	}
	if g.Influenced() == 0 {
		t.Error("no particles influenced with the pointer inside the canvas")
	}

	g.Frame()
	g.Frame()
	if p := g.Pointer(); p.Inside || p.X != -1000 || p.Y != -1000 {
		t.Errorf("pointer after leave = %+v, want sentinel", p)
	}
	if g.Influenced() != 0 {
		t.Errorf("Influenced() = %d after leave, want 0", g.Influenced())
	}
}

func TestResizeEventRebuildsField(t *testing.T) {
	in := &scriptedInput{frames: [][]Event{
		{move(10, 10)},
		{resize(600, 90)},
	}}
	g := newTestGame(t, Options{Input: in})

	g.Frame()
	before := g.Field().Particles(nil)

	g.Frame()
	if g.Field().Count() != 60 {
		t.Errorf("Count() after resize = %d, want 60", g.Field().Count())
	}
	if w, h := g.Size(); w != 600 || h != 90 {
		t.Errorf("Size() = %vx%v, want 600x90", w, h)
	}
	for _, p := range before {
		if g.Field().Alive(p.Entity) {
			t.Fatal("particle from the previous grid survived a resize")
		}
	}
}

func TestUnloadDetachesListeners(t *testing.T) {
	g := newTestGame(t, Options{Input: &scriptedInput{}})
	g.Frame()

	g.Unload()
	if g.Listeners().Len() != 0 {
		t.Errorf("Listeners().Len() = %d after Unload, want 0", g.Listeners().Len())
	}
	if g.Listeners().Dispatch(move(1, 1)) != 0 {
		t.Error("event delivered after Unload")
	}

	tick := g.Tick()
	if g.Frame() {
		t.Error("Frame() ran after Unload")
	}
	if n := g.Run(context.Background()); n != 0 {
		t.Errorf("Run() after Unload ran %d frames", n)
	}
	if g.Tick() != tick {
		t.Errorf("tick advanced after Unload: %d -> %d", tick, g.Tick())
	}

	// Second unload is harmless
	g.Unload()
}

func TestInertWithoutSurface(t *testing.T) {
	g := newTestGame(t, Options{Surface: &fakeSurface{ready: false}})

	if !g.Inert() {
		t.Fatal("game with an unavailable surface is not inert")
	}
	if g.Field() != nil {
		t.Error("inert game built a field")
	}
	if g.Listeners().Len() != 0 {
		t.Errorf("inert game registered %d listeners", g.Listeners().Len())
	}
	if n := g.Run(context.Background()); n != 0 {
		t.Errorf("inert Run() ran %d frames", n)
	}
	g.Update()
	if g.Tick() != 0 {
		t.Error("inert Update() advanced the tick")
	}
}

func TestRunStopsAtMaxTicks(t *testing.T) {
	g := newTestGame(t, Options{MaxTicks: 30, Input: &scriptedInput{}})

	if n := g.Run(context.Background()); n != 30 {
		t.Errorf("Run() = %d frames, want 30", n)
	}
	if g.Tick() != 30 {
		t.Errorf("Tick() = %d, want 30", g.Tick())
	}
}

func TestRunStopsOnClosedSurface(t *testing.T) {
	surface := &fakeSurface{ready: true, closed: true}
	g := newTestGame(t, Options{Surface: surface, Input: &scriptedInput{}})

	if n := g.Run(context.Background()); n != 0 {
		t.Errorf("Run() on a closed surface ran %d frames", n)
	}
}

func TestRunStopsOnContext(t *testing.T) {
	g := newTestGame(t, Options{Input: &scriptedInput{}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if n := g.Run(ctx); n != 0 {
		t.Errorf("Run() with a cancelled context ran %d frames", n)
	}
}

func TestStopDuringFrame(t *testing.T) {
	var g *Game
	g = newTestGame(t, Options{
		StatsWindowSec: 0.5,
		Input:          &scriptedInput{},
		StatsCallback: func(telemetry.WindowStats) {
			g.Stop()
		},
	})

	n := g.Run(context.Background())
	if n != 30 {
		t.Errorf("Run() = %d frames, want 30 (stopped by the first stats window)", n)
	}
	if g.Frame() {
		t.Error("Frame() ran after Stop")
	}
}

func TestRestWithoutPointer(t *testing.T) {
	g := newTestGame(t, Options{MaxTicks: 120, Input: &scriptedInput{}})
	g.Run(context.Background())

	for _, p := range g.Field().Particles(nil) {
		if p.Position.X != p.Origin.X || p.Position.Y != p.Origin.Y {
			t.Fatalf("particle moved without a pointer: %+v", p)
		}
	}
}

func TestApplyConfig(t *testing.T) {
	g := newTestGame(t, Options{Input: &scriptedInput{}})

	cfg := config.Default()
	cfg.Field.Strength = 0
	cfg.Field.Spacing = 40
	cfg.Field.SentinelX, cfg.Field.SentinelY = -5000, -5000
	g.ApplyConfig(cfg)

	if got := g.Field().Tuning().Strength; got != 0 {
		t.Errorf("Tuning().Strength = %v, want 0", got)
	}
	if p := g.Pointer(); p.X != -5000 || p.Y != -5000 {
		t.Errorf("away pointer = (%v, %v), want the new sentinel", p.X, p.Y)
	}
	if g.Field().Count() != 602 {
		t.Errorf("layout change rebuilt the grid early: Count() = %d", g.Field().Count())
	}
	if g.Reloads() != 1 {
		t.Errorf("Reloads() = %d, want 1", g.Reloads())
	}

	g.Listeners().Dispatch(resize(1280, 400))
	if g.Field().Count() != 32*10 {
		t.Errorf("Count() after resize = %d, want %d", g.Field().Count(), 32*10)
	}
}

func TestWatchedConfigReload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("field:\n  strength: 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}

	g := newTestGame(t, Options{Config: cfg, ConfigPath: path, Watch: true, Input: &scriptedInput{}})

	if err := os.WriteFile(path, []byte("field:\n  strength: 12\n"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for g.Reloads() == 0 && time.Now().Before(deadline) {
		g.Frame()
		time.Sleep(10 * time.Millisecond)
	}
	if g.Reloads() == 0 {
		t.Fatal("config change was not applied")
	}
	if got := g.Field().Tuning().Strength; got != 12 {
		t.Errorf("Tuning().Strength = %v after reload, want 12", got)
	}
}

func TestHeadlessAutopilotDeterministic(t *testing.T) {
	run := func() []systems.Particle {
		g := newTestGame(t, Options{Seed: 7, MaxTicks: 200})
		g.Run(context.Background())
		return g.Field().Particles(nil)
	}

	a, b := run(), run()
	if len(a) != len(b) {
		t.Fatalf("particle counts differ: %d vs %d", len(a), len(b))
	}
	moved := false
	for i := range a {
		if a[i].Position != b[i].Position || a[i].Appearance != b[i].Appearance {
			t.Fatalf("runs with the same seed diverged at particle %d", i)
		}
		if a[i].Position.X != a[i].Origin.X || a[i].Position.Y != a[i].Origin.Y {
			moved = true
		}
	}
	if !moved {
		t.Error("autopilot never disturbed the field")
	}
}

func TestOutputWritesStats(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	g := newTestGame(t, Options{
		OutputDir:      dir,
		StatsWindowSec: 1,
		MaxTicks:       180,
		Input:          &scriptedInput{},
	})
	g.Run(context.Background())
	g.Unload()

	data, err := os.ReadFile(filepath.Join(dir, "stats.csv"))
	if err != nil {
		t.Fatalf("reading stats.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Errorf("stats.csv has %d lines, want header + 3 windows", len(lines))
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}

	last := g.LastStats()
	if last.WindowEndTick != 180 || last.Particles != 602 {
		t.Errorf("LastStats() = %+v", last)
	}
	if math.Abs(last.SimTimeSec-3) > 1e-9 {
		t.Errorf("SimTimeSec = %v, want 3", last.SimTimeSec)
	}
}

func TestBookmarkSavesSnapshot(t *testing.T) {
	frames := make([][]Event, 61)
	frames[60] = []Event{move(640, 200)}

	dir := t.TempDir()
	g := newTestGame(t, Options{
		OutputDir:      dir,
		StatsWindowSec: 1,
		MaxTicks:       120,
		Input:          &scriptedInput{frames: frames},
	})
	g.Run(context.Background())

	snap, err := telemetry.LoadSnapshot(filepath.Join(dir, "snapshots", "snapshot_120_disturbed.json"))
	if err != nil {
		t.Fatalf("disturbed snapshot missing: %v", err)
	}
	if snap.RNGSeed != 42 || len(snap.Particles) != 602 {
		t.Errorf("snapshot seed=%d particles=%d", snap.RNGSeed, len(snap.Particles))
	}
	if snap.Bookmark == nil || snap.Bookmark.Type != telemetry.BookmarkDisturbed {
		t.Errorf("Bookmark = %+v", snap.Bookmark)
	}
}

func TestStartupBuildIsNotAReset(t *testing.T) {
	frames := make([][]Event, 61)
	frames[60] = []Event{resize(600, 90)}

	dir := t.TempDir()
	var windows []telemetry.WindowStats
	g := newTestGame(t, Options{
		OutputDir:      dir,
		StatsWindowSec: 1,
		MaxTicks:       120,
		Input:          &scriptedInput{frames: frames},
		StatsCallback:  func(s telemetry.WindowStats) { windows = append(windows, s) },
	})
	g.Run(context.Background())

	if len(windows) != 2 {
		t.Fatalf("got %d stats windows, want 2", len(windows))
	}
	if windows[0].Resets != 0 {
		t.Errorf("first window Resets = %d, want 0", windows[0].Resets)
	}
	if windows[1].Resets != 1 {
		t.Errorf("second window Resets = %d, want 1", windows[1].Resets)
	}

	snaps := filepath.Join(dir, "snapshots")
	if _, err := os.Stat(filepath.Join(snaps, "snapshot_60_rebuilt.json")); !os.IsNotExist(err) {
		t.Errorf("startup build produced a rebuilt snapshot (err = %v)", err)
	}
	if _, err := os.Stat(filepath.Join(snaps, "snapshot_120_rebuilt.json")); err != nil {
		t.Errorf("resize did not produce a rebuilt snapshot: %v", err)
	}
}

func TestPerfTracksFieldSize(t *testing.T) {
	g := newTestGame(t, Options{MaxTicks: 10, Input: &scriptedInput{}})
	g.Run(context.Background())

	stats := g.perf.Stats()
	if stats.Frames != 10 {
		t.Errorf("Frames = %d, want 10", stats.Frames)
	}
	if stats.Particles != 602 {
		t.Errorf("Particles = %d, want 602", stats.Particles)
	}
	if stats.FieldNsPerParticle < 0 {
		t.Errorf("FieldNsPerParticle = %v", stats.FieldNsPerParticle)
	}
}
