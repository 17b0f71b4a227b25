// Package components defines ECS components for the particle field.
//
// A particle is an entity carrying Position, Origin, Velocity and Appearance.
// Origin and Appearance are written once at creation; Position and Velocity
// are integrated every frame by the field system.
package components
