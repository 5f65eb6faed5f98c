// Package randgen implements the classroom pseudo-random number generators
// and the normalizer that rescales their raw output onto a digit scale.
//
// Both generators are deterministic recurrences over an explicit seed; the
// same parameters always reproduce the same sequence. Their weaknesses
// (mid-square degeneracy, short LCG periods) are part of what the test
// battery in rngtest is meant to expose, so they are reproduced faithfully
// rather than patched.
package randgen

import (
	"fmt"
	"strconv"
	"strings"

	"simlab/internal/dist"
)

// MaxMidSquareDigits bounds the digit width so every squared state fits in
// an int64.
const MaxMidSquareDigits = 9

// DefaultMidSquareDigits is the digit width used when the caller does not
// choose one and the seed is four digits or fewer.
const DefaultMidSquareDigits = 4

// MidSquare is von Neumann's mid-square generator. Each step squares the
// current state and keeps the middle digits of the square as both the next
// state and the emitted value.
type MidSquare struct {
	state  int64
	digits int
}

// NewMidSquare creates a mid-square generator. The seed must be
// non-negative. A non-positive digit width selects the default
// max(DefaultMidSquareDigits, digitCount(seed)). Widths or seeds beyond
// MaxMidSquareDigits digits are rejected so the square cannot overflow.
func NewMidSquare(seed int, digits int) (*MidSquare, error) {
	if seed < 0 {
		return nil, fmt.Errorf("%w: mid-square seed %d is negative", dist.ErrInvalidParameter, seed)
	}
	if digitCount(seed) > MaxMidSquareDigits {
		return nil, fmt.Errorf("%w: mid-square seed %d exceeds %d digits", dist.ErrInvalidParameter, seed, MaxMidSquareDigits)
	}
	if digits <= 0 {
		digits = DefaultMidSquareDigits
		if dc := digitCount(seed); dc > digits {
			digits = dc
		}
	}
	if digits > MaxMidSquareDigits {
		return nil, fmt.Errorf("%w: mid-square width %d exceeds %d digits", dist.ErrInvalidParameter, digits, MaxMidSquareDigits)
	}
	return &MidSquare{state: int64(seed), digits: digits}, nil
}

// Digits reports the generator's digit width.
func (g *MidSquare) Digits() int { return g.digits }

// SourceMax reports the exclusive upper bound of emitted values, 10^digits.
// It is the sourceMax to hand Normalize and UnitInterval.
func (g *MidSquare) SourceMax() int64 {
	max := int64(1)
	for i := 0; i < g.digits; i++ {
		max *= 10
	}
	return max
}

// Next squares the state, left-pads the square's decimal form to twice the
// digit width, extracts the middle digits starting at floor(digits/2), and
// returns the parsed result as both the emitted value and the next state.
// Degenerate orbits (collapse to 0, fixed points such as 3792 at width 4)
// are emitted as-is.
func (g *MidSquare) Next() int {
	square := g.state * g.state
	s := strconv.FormatInt(square, 10)
	if pad := 2*g.digits - len(s); pad > 0 {
		s = strings.Repeat("0", pad) + s
	}

	start := g.digits / 2
	mid := s[start : start+g.digits]
	next, _ := strconv.Atoi(mid) // at most nine decimal digits, cannot fail
	g.state = int64(next)
	return next
}

// Take emits the next n values. A non-positive n yields an empty sequence.
func (g *MidSquare) Take(n int) []int {
	if n <= 0 {
		return []int{}
	}
	out := make([]int, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}

// MidSquareSequence emits count mid-square values for the given seed and
// digit width without exposing the generator state.
func MidSquareSequence(seed, count, digits int) ([]int, error) {
	g, err := NewMidSquare(seed, digits)
	if err != nil {
		return nil, err
	}
	return g.Take(count), nil
}

// digitCount reports the number of decimal digits in n, treating 0 as one
// digit.
func digitCount(n int) int {
	if n == 0 {
		return 1
	}
	count := 0
	for n > 0 {
		count++
		n /= 10
	}
	return count
}
