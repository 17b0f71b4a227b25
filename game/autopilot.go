package game

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/touchfield/config"
)

// Autopilot drives a synthetic pointer for headless runs. The target wanders
// over the canvas along a noise path and the pointer follows it through a
// damped spring. Every LeaveEvery ticks the pointer leaves for LeaveFor ticks.
type Autopilot struct {
	noise  opensimplex.Noise
	spring harmonica.Spring
	cfg    config.AutopilotConfig

	width, height float64
	x, y, vx, vy  float64

	tick int
	away int
	left bool
}

// NewAutopilot creates an autopilot stepping at fps frames per second.
func NewAutopilot(cfg config.AutopilotConfig, fps int, seed int64) *Autopilot {
	if fps < 1 {
		fps = 60
	}
	return &Autopilot{
		noise:  opensimplex.New(seed),
		spring: harmonica.NewSpring(harmonica.FPS(fps), cfg.Frequency, cfg.Damping),
		cfg:    cfg,
	}
}

// Resize sets the canvas the pointer wanders over. The pointer restarts at
// the centre when it has no position yet.
func (a *Autopilot) Resize(w, h float64) {
	first := a.width == 0 && a.height == 0
	a.width, a.height = w, h
	if first {
		a.x, a.y = w/2, h/2
	}
}

// Target returns the noise-path point for tick, in canvas coordinates.
func (a *Autopilot) Target(tick int) (x, y float64) {
	t := float64(tick) * a.cfg.NoiseScale
	nx := a.noise.Eval2(t, 0)
	ny := a.noise.Eval2(0, t+97.3)
	return (nx + 1) / 2 * a.width, (ny + 1) / 2 * a.height
}

// Poll advances the autopilot one frame and emits at most one pointer event.
func (a *Autopilot) Poll(emit func(Event)) {
	a.tick++

	if a.cfg.LeaveEvery > 0 && a.tick%a.cfg.LeaveEvery == 0 {
		a.away = a.cfg.LeaveFor
		if !a.left {
			a.left = true
			emit(Event{Kind: EventPointerLeave})
		}
	}
	if a.away > 0 {
		a.away--
		return
	}
	a.left = false

	tx, ty := a.Target(a.tick)
	a.x, a.vx = a.spring.Update(a.x, a.vx, tx)
	a.y, a.vy = a.spring.Update(a.y, a.vy, ty)

	emit(Event{
		Kind: EventPointerMove,
		X:    clamp(a.x, 0, a.width),
		Y:    clamp(a.y, 0, a.height),
	})
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
