package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Window is the raylib-backed drawing surface.
type Window struct {
	title string
	open  bool
}

// OpenWindow creates a resizable window of the given size.
// The returned window may not be ready if the platform has no display;
// check Ready before drawing.
func OpenWindow(width, height, targetFPS int32, title string) *Window {
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(width, height, title)
	if targetFPS > 0 {
		rl.SetTargetFPS(targetFPS)
	}
	return &Window{title: title, open: true}
}

// Ready reports whether the window has a usable drawing context.
func (w *Window) Ready() bool {
	return w != nil && w.open && rl.IsWindowReady()
}

// ShouldClose reports whether the user asked to close the window.
func (w *Window) ShouldClose() bool {
	return !w.Ready() || rl.WindowShouldClose()
}

// Size returns the current drawable size in pixels.
func (w *Window) Size() (width, height int32) {
	return int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
}

// Begin starts a frame.
func (w *Window) Begin() {
	rl.BeginDrawing()
}

// End presents the frame.
func (w *Window) End() {
	rl.EndDrawing()
}

// ToggleFullscreen switches between windowed and fullscreen mode.
func (w *Window) ToggleFullscreen() {
	rl.ToggleFullscreen()
}

// Close destroys the window. Safe to call more than once.
func (w *Window) Close() {
	if w == nil || !w.open {
		return
	}
	w.open = false
	if rl.IsWindowReady() {
		rl.CloseWindow()
	}
}
