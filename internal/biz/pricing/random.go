package pricing

import (
	"math/rand"
	"sync"
	"time"
)

// RandomSource yields uniform values in [0, 1)
type RandomSource interface {
	Float64() float64
}

// lockedSource makes a *rand.Rand safe for concurrent decisions
type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomSource returns a concurrency-safe source. A zero seed means seed from the clock.
func NewRandomSource(seed int64) RandomSource {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &lockedSource{rnd: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

