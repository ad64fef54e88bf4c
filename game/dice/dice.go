// Package dice provides the dice sources that feed move distances to the
// board engine. The engine never rolls dice itself; drivers roll a Source and
// pass the value to MoveHorse.
package dice

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
)

const (
	Min = 1
	Max = 6
)

var ErrInvalidRoll = errors.New("roll out of range")

// Source produces die rolls in [Min, Max]
type Source interface {
	Roll() int
}

// Random is a seeded uniform die. It is safe for concurrent use.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom creates a die seeded with seed
func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Roll returns a value drawn uniformly from the inclusive range [1, 6]
func (r *Random) Roll() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Min + r.rng.IntN(Max-Min+1)
}

// Sequence replays a fixed list of rolls, starting over when exhausted
type Sequence struct {
	mu     sync.Mutex
	values []int
	next   int
}

// NewSequence creates a scripted die. Every value must be a legal roll.
func NewSequence(values ...int) (*Sequence, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: sequence is empty", ErrInvalidRoll)
	}
	for i, v := range values {
		if v < Min || v > Max {
			return nil, fmt.Errorf("%w: value %d at position %d", ErrInvalidRoll, v, i+1)
		}
	}
	return &Sequence{values: append([]int(nil), values...)}, nil
}

// Roll returns the next scripted value
func (s *Sequence) Roll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := s.values[s.next]
	s.next = (s.next + 1) % len(s.values)
	return v
}
