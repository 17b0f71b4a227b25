package systems

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/touchfield/components"
)

// Layout holds the values that shape a freshly built grid.
// Changes take effect on the next Reset.
type Layout struct {
	Spacing float64
	MinSize float64 // inclusive
	MaxSize float64 // exclusive
	Palette []color.RGBA
}

// Particle is a copy of one particle's components.
type Particle struct {
	Entity     ecs.Entity
	Position   components.Position
	Origin     components.Origin
	Velocity   components.Velocity
	Appearance components.Appearance
}

// Field owns a fixed grid of particles that are pushed away from the pointer
// and spring back to their origins.
type Field struct {
	world  *ecs.World
	mapper *ecs.Map4[
		components.Position,
		components.Origin,
		components.Velocity,
		components.Appearance,
	]
	filter *ecs.Filter4[
		components.Position,
		components.Origin,
		components.Velocity,
		components.Appearance,
	]

	rng    *rand.Rand
	layout Layout
	tuning Tuning

	width, height float64
	cols, rows    int
	entities      []ecs.Entity
}

// NewField creates an empty field. Call Reset with the canvas size to build the grid.
func NewField(layout Layout, tuning Tuning, rng *rand.Rand) *Field {
	world := ecs.NewWorld()
	return &Field{
		world: world,
		mapper: ecs.NewMap4[
			components.Position,
			components.Origin,
			components.Velocity,
			components.Appearance,
		](world),
		filter: ecs.NewFilter4[
			components.Position,
			components.Origin,
			components.Velocity,
			components.Appearance,
		](world),
		rng:    rng,
		layout: layout,
		tuning: tuning,
	}
}

// Reset discards every particle and builds a new grid covering w×h.
// The grid has ceil(w/spacing) columns and ceil(h/spacing) rows; a
// non-positive dimension leaves the field empty.
func (f *Field) Reset(w, h float64) {
	f.clear()

	f.width, f.height = w, h
	f.cols, f.rows = 0, 0
	s := f.layout.Spacing
	if w <= 0 || h <= 0 || s <= 0 || len(f.layout.Palette) == 0 {
		return
	}

	f.cols = int(math.Ceil(w / s))
	f.rows = int(math.Ceil(h / s))
	f.entities = make([]ecs.Entity, 0, f.cols*f.rows)

	for i := 0; i < f.cols; i++ {
		for j := 0; j < f.rows; j++ {
			x := float64(i)*s + s/2
			y := float64(j)*s + s/2
			f.spawn(x, y)
		}
	}
}

// spawn creates one particle resting at (x, y).
func (f *Field) spawn(x, y float64) {
	l := f.layout
	angle := f.rng.Float64() * 2 * math.Pi

	pos := components.Position{X: x, Y: y}
	origin := components.Origin{X: x, Y: y}
	vel := components.Velocity{}
	look := components.Appearance{
		Size:     l.MinSize + f.rng.Float64()*(l.MaxSize-l.MinSize),
		Color:    l.Palette[f.rng.Intn(len(l.Palette))],
		HeadingX: math.Cos(angle),
		HeadingY: math.Sin(angle),
	}

	e := f.mapper.NewEntity(&pos, &origin, &vel, &look)
	f.entities = append(f.entities, e)
}

// clear removes every particle from the world.
func (f *Field) clear() {
	for _, e := range f.entities {
		if f.world.Alive(e) {
			f.world.RemoveEntity(e)
		}
	}
	f.entities = nil
}

// Step advances every particle by one frame and returns how many were
// inside the pointer's influence radius.
func (f *Field) Step(pointer Pointer) int {
	t := f.tuning
	ptr := r2.Vec{X: pointer.X, Y: pointer.Y}
	influenced := 0

	query := f.filter.Query()
	for query.Next() {
		pos, origin, vel, look := query.Get()
		p := r2.Vec{X: pos.X, Y: pos.Y}

		var dv r2.Vec
		if push, ok := Repulsion(ptr, p, r2.Vec{X: look.HeadingX, Y: look.HeadingY}, t); ok {
			dv = push
			influenced++
		} else {
			dv = Spring(p, r2.Vec{X: origin.X, Y: origin.Y}, t.Spring)
		}

		vel.X = (vel.X + dv.X) * t.Friction
		vel.Y = (vel.Y + dv.Y) * t.Friction

		pos.X += vel.X
		pos.Y += vel.Y
	}
	return influenced
}

// Each calls fn for every particle. fn must not retain the pointers.
func (f *Field) Each(fn func(pos *components.Position, look *components.Appearance)) {
	query := f.filter.Query()
	for query.Next() {
		pos, _, _, look := query.Get()
		fn(pos, look)
	}
}

// EachDisplacement calls fn with every particle's offset from its origin and its velocity.
func (f *Field) EachDisplacement(fn func(dx, dy float64, vel components.Velocity)) {
	query := f.filter.Query()
	for query.Next() {
		pos, origin, vel, _ := query.Get()
		dx, dy := origin.Displacement(*pos)
		fn(dx, dy, *vel)
	}
}

// Particles appends a copy of every particle to dst and returns it.
func (f *Field) Particles(dst []Particle) []Particle {
	query := f.filter.Query()
	for query.Next() {
		pos, origin, vel, look := query.Get()
		dst = append(dst, Particle{
			Entity:     query.Entity(),
			Position:   *pos,
			Origin:     *origin,
			Velocity:   *vel,
			Appearance: *look,
		})
	}
	return dst
}

// Nearest returns the particle whose current position is closest to (x, y).
// ok is false when the field is empty.
func (f *Field) Nearest(x, y float64) (p Particle, ok bool) {
	best := math.Inf(1)
	query := f.filter.Query()
	for query.Next() {
		pos, origin, vel, look := query.Get()
		d := math.Hypot(pos.X-x, pos.Y-y)
		if d >= best {
			continue
		}
		best = d
		ok = true
		p = Particle{
			Entity:     query.Entity(),
			Position:   *pos,
			Origin:     *origin,
			Velocity:   *vel,
			Appearance: *look,
		}
	}
	return p, ok
}

// Alive reports whether e is a particle of the current grid.
func (f *Field) Alive(e ecs.Entity) bool {
	return f.world.Alive(e)
}

// Count returns the number of particles.
func (f *Field) Count() int {
	return len(f.entities)
}

// Grid returns the number of columns and rows.
func (f *Field) Grid() (cols, rows int) {
	return f.cols, f.rows
}

// Size returns the canvas size the grid was built for.
func (f *Field) Size() (w, h float64) {
	return f.width, f.height
}

// Tuning returns the current force constants.
func (f *Field) Tuning() Tuning {
	return f.tuning
}

// SetTuning replaces the force constants; the next Step uses them.
func (f *Field) SetTuning(t Tuning) {
	f.tuning = t
}

// Layout returns the layout used for the next Reset.
func (f *Field) Layout() Layout {
	return f.layout
}

// SetLayout replaces the layout. The current grid is left untouched.
func (f *Field) SetLayout(l Layout) {
	f.layout = l
}

// Dispose removes every particle. The field can be rebuilt with Reset.
func (f *Field) Dispose() {
	f.clear()
	f.cols, f.rows = 0, 0
	f.width, f.height = 0, 0
}
