package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// narrowWidth is the canvas width below which the heading uses the small font.
const narrowWidth = 768

// BackgroundRenderer clears the canvas and draws the faint heading behind the particles.
type BackgroundRenderer struct {
	clear    rl.Color
	text     string
	textCol  rl.Color
	fontSize int32

	screenW, screenH int32
	textX, textY     int32
	drawSize         int32
}

// NewBackgroundRenderer creates a background renderer for a canvas of the given size.
func NewBackgroundRenderer(screenW, screenH int32, clear color.RGBA, text string, fontSize int32, textColor color.RGBA) *BackgroundRenderer {
	b := &BackgroundRenderer{
		clear:    toRaylib(clear),
		text:     text,
		textCol:  toRaylib(textColor),
		fontSize: fontSize,
	}
	b.Resize(screenW, screenH)
	return b
}

// Resize recenters the heading for a new canvas size.
// Must be called with a window open; text measurement uses the default font.
func (b *BackgroundRenderer) Resize(screenW, screenH int32) {
	b.screenW, b.screenH = screenW, screenH

	b.drawSize = b.fontSize
	if screenW < narrowWidth {
		b.drawSize = b.fontSize * 3 / 8
	}
	if b.text == "" || !rl.IsWindowReady() {
		return
	}
	textW := rl.MeasureText(b.text, b.drawSize)
	b.textX = (screenW - textW) / 2
	b.textY = (screenH - b.drawSize) / 2
}

// Draw clears the canvas and renders the heading.
func (b *BackgroundRenderer) Draw() {
	rl.ClearBackground(b.clear)
	if b.text == "" {
		return
	}
	rl.DrawText(b.text, b.textX, b.textY, b.drawSize, b.textCol)
}
