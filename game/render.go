package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/touchfield/renderer"
	"github.com/pthm-cable/touchfield/systems"
	"github.com/pthm-cable/touchfield/telemetry"
	"github.com/pthm-cable/touchfield/ui"
)

const (
	panelMargin      = 10
	tuningPanelWidth = 240
	sidePanelWidth   = 200
	controlsLegend   = "[D] Tuning  [H] HUD  [T] Timing  [N] Inspect  [O] Origins  [I] Radius  [V] Offsets  [R] Rebuild  [F11] Fullscreen"
)

// initRendering creates the renderers and panels for a graphical run.
func (g *Game) initRendering(w, h float64) {
	g.background = g.newBackground(w, h)
	g.particles = renderer.NewParticleRenderer()
	g.debug = renderer.NewDebugRenderer()

	g.overlays = ui.NewOverlayRegistry()
	g.overlays.SetEnabled(ui.OverlayHUD, true)

	g.hud = ui.NewHUD()
	g.perfPanel = ui.NewPerfPanel(panelMargin, 100)
	g.controls = ui.NewControlsPanel(panelMargin, 100, sidePanelWidth)
	g.quickStats = ui.NewQuickStatsPanel(panelMargin, 100, sidePanelWidth)
	g.tuningPanel = ui.NewTuningPanel(0, panelMargin, tuningPanelWidth)
	g.inspector = ui.NewInspector(0, panelMargin, sidePanelWidth)
}

// newBackground builds the backdrop for the current configuration.
func (g *Game) newBackground(w, h float64) *renderer.BackgroundRenderer {
	d := g.cfg.Derived
	return renderer.NewBackgroundRenderer(
		int32(w), int32(h),
		d.Background,
		g.cfg.Backdrop.Text,
		int32(g.cfg.Backdrop.FontSize),
		d.BackdropColor,
	)
}

// layoutPanels anchors the right-hand panels to the canvas edge.
func (g *Game) layoutPanels() {
	if g.tuningPanel == nil {
		return
	}
	right := int32(g.width) - panelMargin
	g.tuningPanel.SetPosition(right-tuningPanelWidth, panelMargin)
	g.inspector.SetPosition(right-tuningPanelWidth-panelMargin-sidePanelWidth, panelMargin)
}

// Draw renders the frame.
func (g *Game) Draw() {
	if g.window == nil {
		return
	}

	g.window.Begin()
	g.background.Draw()
	g.particles.Draw(g.field)
	g.drawOverlays()
	g.window.End()
}

// drawOverlays renders the diagnostics and panels enabled by the user.
func (g *Game) drawOverlays() {
	tuning := g.field.Tuning()

	if g.overlays.IsEnabled(ui.OverlayOrigins) {
		g.debug.DrawOrigins(g.field)
	}
	if g.overlays.IsEnabled(ui.OverlayDisplacement) {
		g.debug.DrawDisplacement(g.field)
	}
	if g.overlays.IsEnabled(ui.OverlayInfluence) {
		g.debug.DrawInfluence(g.pointer, tuning.MaxDistance)
	}

	if g.overlays.IsEnabled(ui.OverlayHUD) {
		cols, rows := g.field.Grid()
		g.hud.Draw(ui.HUDData{
			Title:         g.cfg.Screen.Title,
			Particles:     g.field.Count(),
			Cols:          cols,
			Rows:          rows,
			Influenced:    g.influenced,
			Tick:          g.tick,
			FPS:           rl.GetFPS(),
			PointerX:      g.pointer.X,
			PointerY:      g.pointer.Y,
			PointerInside: g.pointer.Inside,
			ScreenWidth:   int32(g.width),
			ScreenHeight:  int32(g.height),
		})
		g.hud.DrawControls(int32(g.height), controlsLegend)
	}

	y := int32(100)
	if g.overlays.IsEnabled(ui.OverlayPerf) {
		stats := g.perf.Stats()
		data := ui.PerfPanelData{
			Total:         stats.AvgFrame,
			NsPerParticle: stats.FieldNsPerParticle,
		}
		for _, ph := range telemetry.Phases() {
			data.Phases = append(data.Phases, ui.PhaseTiming{Name: ph.String(), Avg: stats.PhaseAvg[ph]})
		}
		g.perfPanel.SetPosition(panelMargin, y)
		g.perfPanel.Draw(data)
		y += 136
	}

	if g.overlays.IsEnabled(ui.OverlayInspector) && g.pointer.Inside {
		if p, ok := g.field.Nearest(g.pointer.X, g.pointer.Y); ok {
			g.debug.DrawHighlight(p.Position, p.Appearance.Size)
			g.inspector.Draw(&p)
		}
	}

	if !g.debugMode {
		return
	}

	g.controls.SetPosition(panelMargin, y)
	y = g.controls.Draw(g.overlays) + panelMargin
	g.quickStats.SetPosition(panelMargin, y)
	g.quickStats.Draw(ui.QuickStatsData{
		Settled:       g.lastStats.Settled,
		Particles:     g.lastStats.Particles,
		DispP90:       g.lastStats.DisplacementP90,
		DispMax:       g.lastStats.DisplacementMax,
		KineticEnergy: g.lastStats.KineticEnergy,
	})

	edited, action := g.tuningPanel.Draw(tuning)
	if edited != tuning {
		g.field.SetTuning(edited)
	}
	switch action {
	case ui.TuningRebuild:
		g.resize(g.width, g.height)
	case ui.TuningDefaults:
		g.field.SetTuning(systems.TuningFromConfig(g.cfg))
	}
}
