package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/touchfield/config"
)

func TestNewOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}

	// Nil manager is safe to use
	if err := om.WriteStats(WindowStats{}); err != nil {
		t.Errorf("nil WriteStats error: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close error: %v", err)
	}
	if om.Dir() != "" {
		t.Errorf("nil Dir() = %q", om.Dir())
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager error: %v", err)
	}

	if err := om.WriteConfig(config.Default()); err != nil {
		t.Fatalf("WriteConfig error: %v", err)
	}
	for i := int32(1); i <= 3; i++ {
		if err := om.WriteStats(WindowStats{WindowEndTick: i * 300, Particles: 602}); err != nil {
			t.Fatalf("WriteStats error: %v", err)
		}
	}
	if err := om.WritePerf(PerfStats{Frames: 60, AvgFrame: time.Millisecond}, 300); err != nil {
		t.Fatalf("WritePerf error: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "stats.csv"))
	if err != nil {
		t.Fatalf("reading stats.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("stats.csv has %d lines, want header + 3 rows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "window_end,sim_time,particles") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if strings.Count(string(data), "window_end") != 1 {
		t.Error("header written more than once")
	}

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatalf("reading perf.csv: %v", err)
	}
	if !strings.Contains(string(perf), "field_ns_per_particle") || !strings.Contains(string(perf), "1000") {
		t.Errorf("perf.csv missing data:\n%s", perf)
	}

	if _, err := config.Load(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot does not load: %v", err)
	}
}
