package components

// Position represents a particle's current drawn location in canvas pixels.
type Position struct {
	X, Y float64
}

// Origin is the rest location a particle springs back to.
// Assigned once when the grid is built and never written afterwards.
type Origin struct {
	X, Y float64
}

// Velocity represents a particle's per-frame displacement.
type Velocity struct {
	X, Y float64
}

// Displacement returns the offset of pos from its origin.
func (o Origin) Displacement(pos Position) (dx, dy float64) {
	return pos.X - o.X, pos.Y - o.Y
}
