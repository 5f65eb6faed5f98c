package randgen

import (
	"fmt"

	"simlab/internal/dist"
)

// LCG is a linear congruential generator over the recurrence
// x_{n+1} = (a*x_n + c) mod m. The seed x_0 is never emitted; the first
// value produced is x_1. The period never exceeds m.
type LCG struct {
	state int64
	a     int64
	c     int64
	m     int64
}

// NewLCG creates a generator from the seed x_0, multiplier a, increment c,
// and modulus m. The modulus must be positive.
func NewLCG(seed, a, c, m int64) (*LCG, error) {
	if m <= 0 {
		return nil, fmt.Errorf("%w: LCG modulus %d must be positive", dist.ErrInvalidParameter, m)
	}
	return &LCG{state: seed, a: a, c: c, m: m}, nil
}

// Modulus reports m, the exclusive upper bound of emitted values and the
// sourceMax to hand Normalize and UnitInterval.
func (g *LCG) Modulus() int64 { return g.m }

// Next advances the recurrence and returns the new state.
func (g *LCG) Next() int64 {
	g.state = (g.a*g.state + g.c) % g.m
	return g.state
}

// Take emits the next n values. A non-positive n yields an empty sequence.
func (g *LCG) Take(n int) []int64 {
	if n <= 0 {
		return []int64{}
	}
	out := make([]int64, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}

// LCGSequence emits x_1..x_count for the given parameters without exposing
// the generator state.
func LCGSequence(seed, a, c, m int64, count int) ([]int64, error) {
	g, err := NewLCG(seed, a, c, m)
	if err != nil {
		return nil, err
	}
	return g.Take(count), nil
}
