package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkDisturbed BookmarkType = "disturbed"
	BookmarkSettled   BookmarkType = "settled"
	BookmarkSurge     BookmarkType = "surge"
	BookmarkRebuilt   BookmarkType = "rebuilt"
)

// DisturbThreshold is the peak displacement that marks a resting field as disturbed.
const DisturbThreshold = 5.0

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `json:"type"`
	Tick        int32        `json:"tick"`
	Description string       `json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the field's activity.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	resting bool // every particle was settled at the end of the last window
	primed  bool
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if stats.Resets > 0 {
		bookmarks = append(bookmarks, Bookmark{
			Type:        BookmarkRebuilt,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Grid rebuilt %d time(s), now %dx%d", stats.Resets, stats.Cols, stats.Rows),
		})
	}

	resting := stats.Particles > 0 && stats.Settled == stats.Particles
	if bd.primed {
		if bd.resting && stats.DisplacementMax > DisturbThreshold {
			bookmarks = append(bookmarks, Bookmark{
				Type:        BookmarkDisturbed,
				Tick:        stats.WindowEndTick,
				Description: fmt.Sprintf("Resting field pushed %.1fpx from origin", stats.DisplacementMax),
			})
		}
		if !bd.resting && resting {
			bookmarks = append(bookmarks, Bookmark{
				Type:        BookmarkSettled,
				Tick:        stats.WindowEndTick,
				Description: fmt.Sprintf("All %d particles back at rest", stats.Particles),
			})
		}
	}

	if b := bd.checkSurge(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	bd.resting = resting
	bd.primed = true

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkSurge fires when the peak influenced count is more than twice the rolling average.
func (bd *BookmarkDetector) checkSurge(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.InfluencedMax
	}
	avg := float64(total) / float64(len(history))
	if avg == 0 {
		return nil
	}

	peak := float64(stats.InfluencedMax)
	if peak > avg*2.0 && stats.InfluencedMax >= 10 {
		return &Bookmark{
			Type:        BookmarkSurge,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Influenced peak %d is %.1fx average (%.1f)", stats.InfluencedMax, peak/avg, avg),
		}
	}
	return nil
}
