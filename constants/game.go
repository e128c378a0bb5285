// Package constants holds gameplay tuning values shared across
// packages. Coordinates are in field units; the renderer maps
// UnitsPerCell field units onto one terminal cell.
package constants

const (
	UnitsPerCell = 10.0

	FieldWidth  = 800.0
	FieldHeight = 240.0

	PaddleWidth  = 90.0
	PaddleHeight = 10.0
	PaddleY      = FieldHeight - 20.0
	PaddleStep   = 40.0 // units per key press

	BallRadius = 4.0
	BallSpeed  = 300.0 // units per second

	BlockWidth  = 50.0
	BlockHeight = 10.0

	DropSize      = 10.0
	DropFallSpeed = 150.0

	StartLives = 3
	BlockScore = 50

	// chance a destroyed block drops a power-up
	DropChance = 0.25

	DefaultTickRate = 60

	// pool capacities
	BallPoolSize     = 8
	DropPoolSize     = 16
	ParticlePoolSize = 256
)
