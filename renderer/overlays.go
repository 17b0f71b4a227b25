package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/touchfield/components"
	"github.com/pthm-cable/touchfield/systems"
)

var (
	originColor    = rl.Color{R: 156, G: 163, B: 175, A: 90}
	offsetColor    = rl.Color{R: 6, G: 182, B: 212, A: 140}
	influenceColor = rl.Color{R: 99, G: 102, B: 241, A: 160}
	highlightColor = rl.Color{R: 250, G: 204, B: 21, A: 255}
)

// DebugRenderer draws field diagnostics on top of the particles.
type DebugRenderer struct {
	particles []systems.Particle
}

// NewDebugRenderer creates a debug renderer.
func NewDebugRenderer() *DebugRenderer {
	return &DebugRenderer{}
}

// DrawOrigins marks each particle's rest position.
func (d *DebugRenderer) DrawOrigins(field *systems.Field) {
	d.particles = field.Particles(d.particles[:0])
	for i := range d.particles {
		o := d.particles[i].Origin
		rl.DrawPixelV(rl.Vector2{X: float32(o.X), Y: float32(o.Y)}, originColor)
	}
}

// DrawDisplacement connects each displaced particle to its origin.
func (d *DebugRenderer) DrawDisplacement(field *systems.Field) {
	d.particles = field.Particles(d.particles[:0])
	for i := range d.particles {
		p := &d.particles[i]
		dx, dy := p.Origin.Displacement(p.Position)
		if dx*dx+dy*dy < 0.25 {
			continue
		}
		rl.DrawLineV(vec(p.Origin.X, p.Origin.Y), vec(p.Position.X, p.Position.Y), offsetColor)
	}
}

// DrawInfluence outlines the pointer's repulsion radius.
func (d *DebugRenderer) DrawInfluence(pointer systems.Pointer, radius float64) {
	if !pointer.Inside {
		return
	}
	rl.DrawCircleLinesV(vec(pointer.X, pointer.Y), float32(radius), influenceColor)
}

// DrawHighlight outlines a single particle.
func (d *DebugRenderer) DrawHighlight(pos components.Position, size float64) {
	const pad = 2
	rl.DrawRectangleLinesEx(rl.Rectangle{
		X:      float32(pos.X) - pad,
		Y:      float32(pos.Y) - pad,
		Width:  float32(size) + 2*pad,
		Height: float32(size) + 2*pad,
	}, 1, highlightColor)
}

func vec(x, y float64) rl.Vector2 {
	return rl.Vector2{X: float32(x), Y: float32(y)}
}
