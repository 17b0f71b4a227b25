package systems

// Pointer is the last known cursor location relative to the canvas.
// When the cursor leaves, it is parked at a sentinel far outside the canvas
// so no particle is within range.
type Pointer struct {
	X, Y     float64
	Inside   bool
	sentinel [2]float64
}

// NewPointer returns a pointer parked at the sentinel position.
func NewPointer(sentinelX, sentinelY float64) Pointer {
	return Pointer{X: sentinelX, Y: sentinelY, sentinel: [2]float64{sentinelX, sentinelY}}
}

// Move records a cursor position in canvas coordinates.
func (p *Pointer) Move(x, y float64) {
	p.X, p.Y = x, y
	p.Inside = true
}

// Leave parks the pointer at the sentinel.
func (p *Pointer) Leave() {
	p.X, p.Y = p.sentinel[0], p.sentinel[1]
	p.Inside = false
}

// SetSentinel changes the parking position. A pointer that is currently away
// moves to the new sentinel immediately.
func (p *Pointer) SetSentinel(x, y float64) {
	p.sentinel = [2]float64{x, y}
	if !p.Inside {
		p.X, p.Y = x, y
	}
}
