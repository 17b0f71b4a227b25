package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestRepulsionMagnitudeMonotonic(t *testing.T) {
	const maxDistance, strength = 150.0, 5.0

	if got := RepulsionMagnitude(0, maxDistance, strength); got != strength {
		t.Errorf("magnitude at d=0 = %v, want %v", got, strength)
	}

	prev := math.Inf(1)
	for d := 0.0; d < maxDistance; d += 0.5 {
		got := RepulsionMagnitude(d, maxDistance, strength)
		if got >= prev {
			t.Fatalf("magnitude not strictly decreasing at d=%v: %v >= %v", d, got, prev)
		}
		if got <= 0 {
			t.Fatalf("magnitude at d=%v is %v, want > 0 inside the radius", d, got)
		}
		prev = got
	}

	for _, d := range []float64{150, 150.0001, 200, 1e6} {
		if got := RepulsionMagnitude(d, maxDistance, strength); got != 0 {
			t.Errorf("magnitude at d=%v = %v, want 0", d, got)
		}
	}
}

func TestRepulsionDirection(t *testing.T) {
	tuning := testTuning()

	tests := []struct {
		name         string
		pointer, pos r2.Vec
		wantInRange  bool
		wantSignX    float64
		wantSignY    float64
	}{
		{"pointer left of particle", r2.Vec{X: 0, Y: 0}, r2.Vec{X: 10, Y: 0}, true, 1, 0},
		{"pointer below particle", r2.Vec{X: 50, Y: 80}, r2.Vec{X: 50, Y: 20}, true, 0, -1},
		{"pointer up-right", r2.Vec{X: 30, Y: -30}, r2.Vec{X: 0, Y: 0}, true, -1, 1},
		{"pointer out of range", r2.Vec{X: -1000, Y: -1000}, r2.Vec{X: 15, Y: 15}, false, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dv, ok := Repulsion(tt.pointer, tt.pos, r2.Vec{X: 1, Y: 0}, tuning)
			if ok != tt.wantInRange {
				t.Fatalf("in range = %v, want %v", ok, tt.wantInRange)
			}
			if sign(dv.X) != tt.wantSignX || sign(dv.Y) != tt.wantSignY {
				t.Errorf("dv = %+v, want signs (%v, %v)", dv, tt.wantSignX, tt.wantSignY)
			}
			if ok {
				d := r2.Norm(r2.Sub(tt.pointer, tt.pos))
				want := RepulsionMagnitude(d, tuning.MaxDistance, tuning.Strength)
				if math.Abs(r2.Norm(dv)-want) > 1e-9 {
					t.Errorf("|dv| = %v, want %v", r2.Norm(dv), want)
				}
			}
		})
	}
}

func TestRepulsionCoincidentUsesHeading(t *testing.T) {
	tuning := testTuning()
	heading := r2.Vec{X: 0.6, Y: -0.8}

	dv, ok := Repulsion(r2.Vec{X: 45, Y: 45}, r2.Vec{X: 45, Y: 45}, heading, tuning)
	if !ok {
		t.Fatal("coincident pointer reported out of range")
	}
	if math.IsNaN(dv.X) || math.IsNaN(dv.Y) {
		t.Fatalf("coincident pointer produced NaN: %+v", dv)
	}
	want := r2.Scale(tuning.Strength, heading)
	if math.Abs(dv.X-want.X) > 1e-12 || math.Abs(dv.Y-want.Y) > 1e-12 {
		t.Errorf("dv = %+v, want %+v", dv, want)
	}
}

func TestSpring(t *testing.T) {
	tests := []struct {
		name        string
		pos, origin r2.Vec
		want        r2.Vec
	}{
		{"at rest", r2.Vec{X: 15, Y: 15}, r2.Vec{X: 15, Y: 15}, r2.Vec{}},
		{"x only", r2.Vec{X: 25, Y: 15}, r2.Vec{X: 15, Y: 15}, r2.Vec{X: -1, Y: 0}},
		{"both axes", r2.Vec{X: 5, Y: 35}, r2.Vec{X: 15, Y: 15}, r2.Vec{X: 1, Y: -2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Spring(tt.pos, tt.origin, 0.1)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("Spring = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPointerLeaveParksAtSentinel(t *testing.T) {
	p := NewPointer(-1000, -1000)
	if p.Inside || p.X != -1000 || p.Y != -1000 {
		t.Fatalf("new pointer = %+v, want parked at sentinel", p)
	}

	p.Move(12, 34)
	if !p.Inside || p.X != 12 || p.Y != 34 {
		t.Errorf("after Move pointer = %+v", p)
	}

	p.Leave()
	if p.Inside || p.X != -1000 || p.Y != -1000 {
		t.Errorf("after Leave pointer = %+v", p)
	}

	p.SetSentinel(-5000, -5000)
	if p.X != -5000 || p.Y != -5000 {
		t.Errorf("away pointer did not follow new sentinel: %+v", p)
	}
}

func sign(v float64) float64 {
	switch {
	case v > 1e-12:
		return 1
	case v < -1e-12:
		return -1
	}
	return 0
}
