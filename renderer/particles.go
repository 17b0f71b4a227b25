package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/touchfield/components"
	"github.com/pthm-cable/touchfield/systems"
)

// ParticleRenderer draws the particle field as filled squares.
type ParticleRenderer struct{}

// NewParticleRenderer creates a new particle renderer.
func NewParticleRenderer() *ParticleRenderer {
	return &ParticleRenderer{}
}

// Draw renders every particle with its top-left corner at its position.
func (r *ParticleRenderer) Draw(field *systems.Field) {
	field.Each(func(pos *components.Position, look *components.Appearance) {
		rl.DrawRectangleV(
			rl.Vector2{X: float32(pos.X), Y: float32(pos.Y)},
			rl.Vector2{X: float32(look.Size), Y: float32(look.Size)},
			toRaylib(look.Color),
		)
	})
}

// toRaylib converts a palette color to a raylib color.
func toRaylib(c color.RGBA) rl.Color {
	return rl.NewColor(c.R, c.G, c.B, c.A)
}
