package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title         string
	Particles     int
	Cols, Rows    int
	Influenced    int
	Tick          int32
	FPS           int32
	PointerX      float64
	PointerY      float64
	PointerInside bool
	ScreenWidth   int32
	ScreenHeight  int32
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
	}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Particles: %d (%dx%d) | In range: %d", data.Particles, data.Cols, data.Rows, data.Influenced),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | Canvas: %dx%d", data.Tick, data.FPS, data.ScreenWidth, data.ScreenHeight),
		10, 55, 16, rl.LightGray,
	)

	status := "Pointer: away"
	if data.PointerInside {
		status = fmt.Sprintf("Pointer: %.0f, %.0f", data.PointerX, data.PointerY)
	}
	rl.DrawText(status, 10, 75, 16, h.renderer.Theme.SectionHeader)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PhaseTiming is the average time spent in one frame phase.
type PhaseTiming struct {
	Name string
	Avg  time.Duration
}

// PerfPanelData holds performance metrics for display.
type PerfPanelData struct {
	Phases        []PhaseTiming // Display order
	Total         time.Duration
	NsPerParticle float64
}

// PerfPanel renders the per-phase frame timing panel.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
	}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(data PerfPanelData) {
	x := p.x
	y := p.y

	rl.DrawText("Frame Timing", x, y, 16, rl.White)
	y += 20

	rl.DrawText(fmt.Sprintf("Total: %s", data.Total.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 16
	rl.DrawText(fmt.Sprintf("Field: %.0f ns/particle", data.NsPerParticle), x, y, 12, rl.LightGray)
	y += 16

	for _, ph := range data.Phases {
		name, avg := ph.Name, ph.Avg
		pct := float64(0)
		if data.Total > 0 {
			pct = float64(avg) / float64(data.Total) * 100
		}

		color := rl.LightGray
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}

		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, avg.Round(time.Microsecond), pct),
			x, y, 12, color,
		)
		y += 14
	}
}
