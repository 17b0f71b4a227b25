package ui

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/touchfield/systems"
)

// inspectorSections describes the particle inspector layout. Data is a *systems.Particle.
var inspectorSections = []SectionDescriptor{
	{
		ID:    "position",
		Title: "Position",
		Fields: []FieldDescriptor{
			{ID: "origin", Label: "Origin", Widget: WidgetText, TextGetter: func(d any) string {
				p := d.(*systems.Particle)
				return fmt.Sprintf("%.1f, %.1f", p.Origin.X, p.Origin.Y)
			}},
			{ID: "pos", Label: "Now", Widget: WidgetText, TextGetter: func(d any) string {
				p := d.(*systems.Particle)
				return fmt.Sprintf("%.1f, %.1f", p.Position.X, p.Position.Y)
			}},
			{ID: "disp", Label: "Offset", Widget: WidgetText, Format: "%.2f px", Getter: func(d any) float32 {
				p := d.(*systems.Particle)
				return float32(math.Hypot(p.Origin.Displacement(p.Position)))
			}},
		},
	},
	{
		ID:    "motion",
		Title: "Motion",
		Fields: []FieldDescriptor{
			{ID: "speed", Label: "Speed", Widget: WidgetBar, Range: FieldRange{Min: 0, Max: 10}, Getter: func(d any) float32 {
				p := d.(*systems.Particle)
				return float32(math.Hypot(p.Velocity.X, p.Velocity.Y))
			}},
			{ID: "heading", Label: "Heading", Widget: WidgetText, Format: "%.0f deg", Getter: func(d any) float32 {
				p := d.(*systems.Particle)
				return float32(math.Atan2(p.Appearance.HeadingY, p.Appearance.HeadingX) * 180 / math.Pi)
			}},
		},
	},
	{
		ID:    "look",
		Title: "Appearance",
		Fields: []FieldDescriptor{
			{ID: "size", Label: "Size", Widget: WidgetText, Format: "%.2f px", Getter: func(d any) float32 {
				return float32(d.(*systems.Particle).Appearance.Size)
			}},
			{ID: "color", Label: "Color", Widget: WidgetColorSwatch, ColorGetter: func(d any) rl.Color {
				c := d.(*systems.Particle).Appearance.Color
				return rl.NewColor(c.R, c.G, c.B, c.A)
			}},
		},
	},
}

// Inspector renders details of a single particle.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel for p and returns the bottom Y.
func (ins *Inspector) Draw(p *systems.Particle) int32 {
	r := ins.renderer
	padding := r.Theme.Padding

	height := padding * 2
	for _, sd := range inspectorSections {
		height += r.SectionHeight(sd, p)
	}
	r.DrawPanel(ins.x, ins.y, ins.width, height)

	y := ins.y + padding
	for _, sd := range inspectorSections {
		y = r.DrawSection(ins.x+padding, y, sd, p, ins.width-padding*2)
	}
	return y
}
