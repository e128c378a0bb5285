package game

// ScoreStore is the persistence boundary. The shell only ever talks
// to this interface; durable storage is someone else's problem.
type ScoreStore interface {
	Best() int
	Submit(score int)
}

// MemoryScores is the in-process store used by default
type MemoryScores struct {
	best int
}

// NewMemoryScores creates an empty in-memory store
func NewMemoryScores() *MemoryScores {
	return &MemoryScores{}
}

func (m *MemoryScores) Best() int {
	return m.best
}

func (m *MemoryScores) Submit(score int) {
	if score > m.best {
		m.best = score
	}
}
