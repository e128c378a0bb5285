package powerup

// Entities is the zero-copy view over the caller-owned game state that
// plugins mutate in place. The view exposes only the operations a
// plugin needs rather than raw slices, so the aliasing stays
// controlled and testable. The frame loop guarantees a single mutator
// at a time; the view performs no locking and no defensive copies.
type Entities interface {
	// Balls returns handles aliasing every live ball, in stable order
	Balls() []BallHandle

	// Paddle returns the paddle handle, or ok=false when no paddle
	// exists in the current state (e.g. between lives)
	Paddle() (PaddleHandle, bool)

	// SpawnBallFrom clones src into a new live ball drawn from the
	// caller's ball pool. Returns ok=false when the pool is exhausted.
	SpawnBallFrom(src BallHandle) (BallHandle, bool)

	// DespawnBall removes the ball with the given id and returns it to
	// the caller's pool. Unknown ids return false.
	DespawnBall(id string) bool
}

// BallHandle aliases one live ball
type BallHandle interface {
	ID() string
	// Speed returns the velocity magnitude
	Speed() float64
	// SetSpeed rescales velocity to the given magnitude, preserving direction
	SetSpeed(v float64)
	Penetrating() bool
	SetPenetrating(on bool)
}

// PaddleHandle aliases the live paddle
type PaddleHandle interface {
	ID() string
	Size() (w, h float64)
	// SetSize resizes the paddle and re-clamps its position on-screen
	SetSize(w, h float64)
	Magnet() bool
	SetMagnet(on bool)
}
