package components

import "image/color"

// Appearance holds the per-particle values fixed at creation.
type Appearance struct {
	Size  float64    // side length of the drawn square in pixels
	Color color.RGBA // one of the configured palette colors

	// HeadingX, HeadingY is a unit vector used as the repulsion direction
	// when the pointer sits exactly on the particle.
	HeadingX, HeadingY float64
}
