package systems

import "gonum.org/v1/gonum/spatial/r2"

// Tuning holds the force constants applied every frame.
// Values may change between frames (hot reload, tuning panel).
type Tuning struct {
	MaxDistance float64 // influence radius of the pointer
	Strength    float64 // repulsion at zero distance
	Spring      float64 // restoring constant toward the origin
	Friction    float64 // velocity multiplier applied every frame
	Epsilon     float64 // distances below this use the particle heading
}

// RepulsionMagnitude returns the repulsion force for a particle at distance d
// from the pointer. It falls linearly from strength at d=0 to zero at
// maxDistance and is zero beyond.
func RepulsionMagnitude(d, maxDistance, strength float64) float64 {
	if d >= maxDistance || maxDistance <= 0 {
		return 0
	}
	if d < 0 {
		d = 0
	}
	return strength * (maxDistance - d) / maxDistance
}

// Repulsion returns the velocity change pushing a particle at pos away from
// the pointer. The second result reports whether the pointer is within range.
// heading is the fallback direction (unit vector, pointing away from the
// pointer) used when the two points coincide.
func Repulsion(pointer, pos, heading r2.Vec, t Tuning) (r2.Vec, bool) {
	toPointer := r2.Sub(pointer, pos)
	d := r2.Norm(toPointer)
	if d >= t.MaxDistance {
		return r2.Vec{}, false
	}

	mag := RepulsionMagnitude(d, t.MaxDistance, t.Strength)
	if d < t.Epsilon {
		return r2.Scale(mag, heading), true
	}
	// Velocity is decremented by the force toward the pointer.
	return r2.Scale(-mag/d, toPointer), true
}

// Spring returns the velocity change pulling pos back toward origin.
// Axes already at rest contribute nothing.
func Spring(pos, origin r2.Vec, k float64) r2.Vec {
	var dv r2.Vec
	if pos.X != origin.X {
		dv.X = -(pos.X - origin.X) * k
	}
	if pos.Y != origin.Y {
		dv.Y = -(pos.Y - origin.Y) * k
	}
	return dv
}
