package game

import (
	"log/slog"
	"path/filepath"

	"github.com/pthm-cable/touchfield/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and records it.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.field)
	perfStats := g.perf.Stats()
	g.lastStats = stats

	// Call stats callback if provided
	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if err := g.output.WriteStats(stats); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	if err := g.output.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarks.Check(stats) {
		bm.LogBookmark()
		g.saveSnapshot(bm)
	}
}

// saveSnapshot writes the field state next to the CSV logs.
func (g *Game) saveSnapshot(bm telemetry.Bookmark) {
	dir := g.output.Dir()
	if dir == "" || !g.cfg.Telemetry.Snapshots {
		return
	}
	snap := telemetry.CaptureSnapshot(g.field, g.tick, g.seed)
	snap.Bookmark = &bm
	path, err := telemetry.SaveSnapshot(snap, filepath.Join(dir, "snapshots"))
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Debug("snapshot saved", "path", path, "bookmark", bm.Type)
}
