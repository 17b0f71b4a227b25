package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/touchfield/systems"
)

// TuningAction is a button press reported by the tuning panel.
type TuningAction int

const (
	TuningNone     TuningAction = iota
	TuningRebuild               // Rebuild the grid with the current layout
	TuningDefaults              // Restore the configured force constants
)

// Slider ranges for the live force constants.
var (
	rangeDistance = FieldRange{Min: 10, Max: 400}
	rangeStrength = FieldRange{Min: 0, Max: 20}
	rangeSpring   = FieldRange{Min: 0.005, Max: 0.5}
	rangeFriction = FieldRange{Min: 0.5, Max: 0.99}
)

// TuningPanel edits the field's force constants with raygui sliders.
type TuningPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewTuningPanel creates a tuning panel.
func NewTuningPanel(x, y, width int32) *TuningPanel {
	return &TuningPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the panel position.
func (p *TuningPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Width returns the panel width.
func (p *TuningPanel) Width() int32 {
	return p.width
}

// Draw renders the sliders for t and returns the edited constants and any
// button pressed this frame.
func (p *TuningPanel) Draw(t systems.Tuning) (systems.Tuning, TuningAction) {
	r := p.renderer
	padding := r.Theme.Padding
	inner := p.width - padding*2

	r.DrawPanel(p.x, p.y, p.width, 4*38+padding*3+r.Theme.LineHeight+30)

	x := p.x + padding
	y := p.y + padding
	y = r.DrawSectionHeader(x, y, "Forces")

	y = slide(r, x, y, "Radius", &t.MaxDistance, rangeDistance, inner)
	y = slide(r, x, y, "Strength", &t.Strength, rangeStrength, inner)
	y = slide(r, x, y, "Spring", &t.Spring, rangeSpring, inner)
	y = slide(r, x, y, "Friction", &t.Friction, rangeFriction, inner)

	action := TuningNone
	half := float32(inner-padding) / 2
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: half, Height: 24}, "Rebuild") {
		action = TuningRebuild
	}
	if gui.Button(rl.Rectangle{X: float32(x) + half + float32(padding), Y: float32(y), Width: half, Height: 24}, "Defaults") {
		action = TuningDefaults
	}

	return t, action
}

// slide draws one slider and writes back only when the user moved it, so
// untouched values keep their full precision.
func slide(r *Renderer, x, y int32, label string, value *float64, rng FieldRange, width int32) int32 {
	cur := float32(*value)
	v, next := r.DrawSlider(x, y, label, cur, rng, width)
	if v != cur {
		*value = float64(v)
	}
	return next
}
