package chatbot

import (
	"hash/fnv"
	"math/rand"
	"sync"
)

// Source is the random number generator the dispatcher draws from.
// *rand.Rand satisfies it; tests substitute fixed sequences.
type Source interface {
	// Intn returns a value in [0, n). n is always positive.
	Intn(n int) int
}

type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a generator seeded with seed that is safe for concurrent use.
func NewSource(seed int64) Source {
	return &lockedSource{rng: rand.New(rand.NewSource(seed))}
}

// NewSeededSource derives the seed from the given strings, so the same
// inputs always replay the same sequence.
func NewSeededSource(seedInputs ...string) Source {
	hasher := fnv.New64a()
	for _, input := range seedInputs {
		_, _ = hasher.Write([]byte(input))
	}
	return NewSource(int64(hasher.Sum64()))
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
