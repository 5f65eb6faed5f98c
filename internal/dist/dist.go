// Package dist models discrete probability distributions and the
// random-digit lookup tables derived from them.
//
// A Distribution is an ordered list of value/probability pairs. BuildTable
// assigns each pair a contiguous range of random digits in [1, scale] by
// rounding cumulative probabilities, so that a uniform random digit drawn on
// that scale selects each value with its assigned probability. The table is
// the bridge between the generator packages and the simulators.
package dist

import (
	"errors"
	"fmt"
	"math"
)

// Shared error identities for the simulation packages. Callers discriminate
// with errors.Is; packages wrap these with run-specific context.
var (
	// ErrInvalidParameter reports a malformed or out-of-domain scalar input.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidDistribution reports an empty distribution, a negative
	// probability, or probabilities that do not sum to 1 within
	// ProbabilitySumTolerance.
	ErrInvalidDistribution = errors.New("invalid distribution")

	// ErrInsufficientDigits reports a random-digit stream too short for the
	// requested run length.
	ErrInsufficientDigits = errors.New("insufficient random digits")

	// ErrNotMapped reports a digit outside every range of a table, which
	// means the digit and the table were built for different scales.
	ErrNotMapped = errors.New("digit not covered by any table range")
)

// ProbabilitySumTolerance is the allowed deviation of a distribution's
// probability sum from 1.
const ProbabilitySumTolerance = 0.001

// Table scales for the two random-digit widths.
const (
	// ScaleOneDigit covers one-digit draws: ranges over 1..10, "0" reads as 10.
	ScaleOneDigit = 10

	// ScaleTwoDigit covers two-digit draws: ranges over 1..100, "00" reads as 100.
	ScaleTwoDigit = 100
)

// Pair is one row of a discrete distribution: a value and its probability.
type Pair struct {
	Value       float64 `json:"value"`
	Probability float64 `json:"probability"`
}

// Distribution is an ordered set of value/probability pairs.
type Distribution []Pair

// Validate checks that the distribution is non-empty, carries no negative
// probability, and sums to 1 within ProbabilitySumTolerance.
func (d Distribution) Validate() error {
	if len(d) == 0 {
		return fmt.Errorf("%w: no rows", ErrInvalidDistribution)
	}

	sum := 0.0
	for i, p := range d {
		if p.Probability < 0 {
			return fmt.Errorf("%w: row %d has negative probability %g", ErrInvalidDistribution, i, p.Probability)
		}
		sum += p.Probability
	}

	if math.Abs(sum-1) > ProbabilitySumTolerance {
		return fmt.Errorf("%w: probabilities sum to %g", ErrInvalidDistribution, sum)
	}
	return nil
}

// Mean returns the expected value of the distribution.
// Formula: E[X] = sum value_i * probability_i
func (d Distribution) Mean() float64 {
	mean := 0.0
	for _, p := range d {
		mean += p.Value * p.Probability
	}
	return mean
}
