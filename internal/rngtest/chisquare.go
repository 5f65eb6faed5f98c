// Package rngtest validates sequences of unit-interval numbers the way the
// classroom texts do: a chi-square test for uniformity over equal bins and a
// lag-autocorrelation test for independence. Both produce a full result
// object with every intermediate statistic, so a report can show the work
// and not just the verdict.
package rngtest

import (
	"fmt"
	"math"

	"simlab/internal/dist"
)

// ChiSquareResult is the complete outcome of a uniformity test.
type ChiSquareResult struct {
	Intervals        int     `json:"intervals"`
	Alpha            float64 `json:"alpha"`
	Observed         []int   `json:"observed"`
	Expected         float64 `json:"expected"`
	Statistic        float64 `json:"statistic"`
	DegreesOfFreedom int     `json:"degrees_of_freedom"`
	CriticalValue    float64 `json:"critical_value"`
	Uniform          bool    `json:"uniform"`
}

// ChiSquare tests numbers in [0, 1] for uniformity over the given count of
// equal intervals at significance alpha. The last interval is closed on both
// ends so a draw of exactly 1 still counts. The verdict accepts uniformity
// when the statistic stays below the critical value for intervals-1 degrees
// of freedom; a single interval can never deviate and is trivially uniform.
// Formula: chi2 = sum (Oi - Ei)^2 / Ei with Ei = N/k.
func ChiSquare(numbers []float64, intervals int, alpha float64) (*ChiSquareResult, error) {
	if len(numbers) == 0 {
		return nil, fmt.Errorf("%w: no numbers to test", dist.ErrInvalidParameter)
	}
	if intervals < 1 {
		return nil, fmt.Errorf("%w: interval count %d", dist.ErrInvalidParameter, intervals)
	}
	if math.IsNaN(alpha) || alpha <= 0 || alpha >= 1 {
		return nil, fmt.Errorf("%w: significance %g outside (0, 1)", dist.ErrInvalidParameter, alpha)
	}
	for i, x := range numbers {
		if math.IsNaN(x) || x < 0 || x > 1 {
			return nil, fmt.Errorf("%w: number %d is %g, outside [0, 1]", dist.ErrInvalidParameter, i, x)
		}
	}

	observed := make([]int, intervals)
	for _, x := range numbers {
		idx := int(x * float64(intervals))
		if idx >= intervals {
			idx = intervals - 1 // boundary draw of exactly 1
		}
		observed[idx]++
	}

	expected := float64(len(numbers)) / float64(intervals)
	statistic := 0.0
	for _, o := range observed {
		diff := float64(o) - expected
		statistic += diff * diff / expected
	}

	df := intervals - 1
	critical, err := ChiSquareCritical(df, alpha)
	if err != nil {
		return nil, err
	}

	return &ChiSquareResult{
		Intervals:        intervals,
		Alpha:            alpha,
		Observed:         observed,
		Expected:         expected,
		Statistic:        statistic,
		DegreesOfFreedom: df,
		CriticalValue:    critical,
		Uniform:          df == 0 || statistic < critical,
	}, nil
}
