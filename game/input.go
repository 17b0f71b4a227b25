package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// InputSource produces canvas events once per frame.
type InputSource interface {
	Poll(emit func(Event))
}

// windowState is one poll's view of the window.
type windowState struct {
	Width, Height  int
	CursorOnScreen bool
	Focused        bool
	Hidden         bool
	MouseX, MouseY float32
}

// pointerTracker turns successive window states into canvas events.
// The pointer counts as present only while the cursor is over a focused,
// visible window. Moves are only emitted when the cursor actually moves,
// matching browser pointer semantics.
type pointerTracker struct {
	inside     bool
	lastX      float32
	lastY      float32
	lastW      int
	lastH      int
	sizeLoaded bool
}

func (tr *pointerTracker) observe(s windowState, emit func(Event)) {
	if !tr.sizeLoaded {
		tr.lastW, tr.lastH, tr.sizeLoaded = s.Width, s.Height, true
	}
	if s.Width != tr.lastW || s.Height != tr.lastH {
		tr.lastW, tr.lastH = s.Width, s.Height
		emit(Event{Kind: EventResize, X: float64(s.Width), Y: float64(s.Height)})
	}

	if !s.CursorOnScreen || !s.Focused || s.Hidden {
		if tr.inside {
			tr.inside = false
			emit(Event{Kind: EventPointerLeave})
		}
		return
	}

	if tr.inside && s.MouseX == tr.lastX && s.MouseY == tr.lastY {
		return
	}
	tr.inside = true
	tr.lastX, tr.lastY = s.MouseX, s.MouseY
	emit(Event{Kind: EventPointerMove, X: float64(s.MouseX), Y: float64(s.MouseY)})
}

// windowInput feeds raylib window state through a pointerTracker.
type windowInput struct {
	tracker pointerTracker
}

func (in *windowInput) Poll(emit func(Event)) {
	m := rl.GetMousePosition()
	in.tracker.observe(windowState{
		Width:          rl.GetScreenWidth(),
		Height:         rl.GetScreenHeight(),
		CursorOnScreen: rl.IsCursorOnScreen(),
		Focused:        rl.IsWindowFocused(),
		Hidden:         rl.IsWindowHidden(),
		MouseX:         m.X,
		MouseY:         m.Y,
	}, emit)
}

// handleKeys processes keyboard shortcuts in graphical mode.
func (g *Game) handleKeys() {
	if rl.IsKeyPressed(rl.KeyF11) {
		g.window.ToggleFullscreen()
	}

	// Debug overlay and tuning panel
	if rl.IsKeyPressed(rl.KeyD) {
		g.debugMode = !g.debugMode
	}

	// Rebuild the grid with the current layout
	if rl.IsKeyPressed(rl.KeyR) {
		g.resize(g.width, g.height)
	}

	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		if id, on, ok := g.overlays.HandleKeyPress(key); ok {
			slog.Debug("overlay toggled", "overlay", id, "enabled", on)
		}
	}
}
