package careers

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// sequenceRandom replays a fixed sequence of choices.
type sequenceRandom struct {
	mu  sync.Mutex
	seq []int
	i   int
}

func (s *sequenceRandom) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.seq[s.i%len(s.seq)]
	s.i++
	return v % n
}

func TestSeededRandom_Deterministic(t *testing.T) {
	a := NewSeededRandom(42)
	b := NewSeededRandom(42)
	for i := 0; i < 50; i++ {
		assert.Equal(t, a.IntN(10), b.IntN(10))
	}
}

func TestPick(t *testing.T) {
	assert.Equal(t, "only", pick(&sequenceRandom{seq: []int{5}}, []string{"only"}))
	assert.Equal(t, "b", pick(&sequenceRandom{seq: []int{1}}, []string{"a", "b", "c"}))

	candidates := []string{"a", "b", "c", "d"}
	seen := make(map[string]bool)
	rnd := DefaultRandom()
	for i := 0; i < 500; i++ {
		v := pick(rnd, candidates)
		assert.Contains(t, candidates, v)
		seen[v] = true
	}
	assert.Len(t, seen, len(candidates), "every candidate should be reachable")
}
