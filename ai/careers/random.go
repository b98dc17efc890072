package careers

import (
	"math/rand/v2"
	"sync"
)

// RandomSource picks reply variants. IntN returns a value in [0, n).
type RandomSource interface {
	IntN(n int) int
}

type globalRandom struct{}

func (globalRandom) IntN(n int) int { return rand.IntN(n) }

// DefaultRandom returns the process-wide, goroutine-safe random source.
func DefaultRandom() RandomSource {
	return globalRandom{}
}

type seededRandom struct {
	mu sync.Mutex
	r  *rand.Rand
}

// NewSeededRandom returns a deterministic source. It is safe for concurrent
// use, although concurrent callers observe an interleaved sequence.
func NewSeededRandom(seed uint64) RandomSource {
	return &seededRandom{r: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededRandom) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.IntN(n)
}

// pick chooses one candidate uniformly. Callers guarantee len(candidates) > 0.
func pick(rnd RandomSource, candidates []string) string {
	if len(candidates) == 1 {
		return candidates[0]
	}
	return candidates[rnd.IntN(len(candidates))]
}
