package config

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	f := cfg.Field
	if f.Spacing != 30 || f.MaxDistance != 150 || f.Strength != 5 {
		t.Errorf("unexpected layout defaults: %+v", f)
	}
	if f.Spring != 0.1 || f.Friction != 0.9 {
		t.Errorf("unexpected spring/friction defaults: spring=%v friction=%v", f.Spring, f.Friction)
	}
	if f.MinSize != 2 || f.MaxSize != 6 {
		t.Errorf("size range = [%v, %v), want [2, 6)", f.MinSize, f.MaxSize)
	}
	if f.SentinelX != -1000 || f.SentinelY != -1000 {
		t.Errorf("sentinel = (%v, %v), want (-1000, -1000)", f.SentinelX, f.SentinelY)
	}

	want := []color.RGBA{
		{R: 0x3b, G: 0x82, B: 0xf6, A: 255},
		{R: 0x06, G: 0xb6, B: 0xd4, A: 255},
		{R: 0x63, G: 0x66, B: 0xf1, A: 255},
	}
	if len(cfg.Derived.Palette) != len(want) {
		t.Fatalf("palette has %d colors, want %d", len(cfg.Derived.Palette), len(want))
	}
	for i, c := range want {
		if cfg.Derived.Palette[i] != c {
			t.Errorf("palette[%d] = %v, want %v", i, cfg.Derived.Palette[i], c)
		}
	}
	if cfg.Derived.DT <= 0 {
		t.Errorf("derived DT = %v, want > 0", cfg.Derived.DT)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "field:\n  spacing: 40\n  strength: 8\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Field.Spacing != 40 || cfg.Field.Strength != 8 {
		t.Errorf("overrides not applied: spacing=%v strength=%v", cfg.Field.Spacing, cfg.Field.Strength)
	}
	// Untouched fields keep their defaults
	if cfg.Field.Friction != 0.9 || cfg.Screen.Height != 400 {
		t.Errorf("defaults lost: friction=%v height=%v", cfg.Field.Friction, cfg.Screen.Height)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "reading config file") {
		t.Errorf("expected reading error, got %v", err)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"zero spacing", "field:\n  spacing: 0\n", "field.spacing"},
		{"friction above one", "field:\n  friction: 1.5\n", "field.friction"},
		{"inverted sizes", "field:\n  min_size: 8\n  max_size: 4\n", "size range"},
		{"empty palette", "field:\n  palette: []\n", "field.palette"},
		{"bad color", "field:\n  palette: [\"blue\"]\n", "parsing color"},
		{"bad background", "screen:\n  background: \"#zzz\"\n", "screen.background"},
		{"sentinel on canvas", "field:\n  sentinel_x: 0\n  sentinel_y: 0\n", "field.sentinel"},
		{"sentinel within radius", "field:\n  sentinel_x: -100\n  sentinel_y: 200\n", "field.sentinel"},
		{"sentinel past far corner", "field:\n  sentinel_x: 1380\n  sentinel_y: 450\n", "field.sentinel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", tt.body)
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestSentinelClearance(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want float64
	}{
		{"default", -1000, -1000, 1000 * math.Sqrt2},
		{"left of canvas", -200, 100, 200},
		{"right of canvas", 1480, 100, 200},
		{"below canvas", 640, 700, 300},
		{"on canvas", 640, 200, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Field.SentinelX, cfg.Field.SentinelY = tt.x, tt.y
			if got := cfg.SentinelClearance(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("SentinelClearance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadAcceptsDistantSentinel(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "field:\n  sentinel_x: -200\n  sentinel_y: 200\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Field.SentinelX != -200 {
		t.Errorf("SentinelX = %v, want -200", cfg.Field.SentinelX)
	}
}

func TestParseHex(t *testing.T) {
	got, err := ParseHex("#111827")
	if err != nil {
		t.Fatalf("ParseHex error: %v", err)
	}
	want := color.RGBA{R: 0x11, G: 0x18, B: 0x27, A: 255}
	if got != want {
		t.Errorf("ParseHex = %v, want %v", got, want)
	}
}

func TestWriteYAMLReloads(t *testing.T) {
	cfg := Default()
	cfg.Field.Strength = 7.5

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load snapshot error: %v", err)
	}
	if loaded.Field.Strength != 7.5 {
		t.Errorf("strength = %v, want 7.5", loaded.Field.Strength)
	}
}

func TestCfgAfterInit(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	if Cfg().Field.Spacing != 30 {
		t.Errorf("Cfg().Field.Spacing = %v, want 30", Cfg().Field.Spacing)
	}
}

func TestWatcherDeliversReload(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "field:\n  strength: 5\n")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher error: %v", err)
	}
	defer w.Close()

	writeFile(t, dir, "config.yaml", "field:\n  strength: 9\n")

	select {
	case cfg := <-w.Configs:
		if cfg.Field.Strength != 9 {
			t.Errorf("reloaded strength = %v, want 9", cfg.Field.Strength)
		}
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "field:\n  strength: 5\n")

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher error: %v", err)
	}
	defer w.Close()

	writeFile(t, dir, "other.yaml", "field:\n  strength: 9\n")

	select {
	case cfg := <-w.Configs:
		t.Errorf("unexpected reload: %+v", cfg.Field)
	case <-time.After(300 * time.Millisecond):
	}
}
