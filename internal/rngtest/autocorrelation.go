package rngtest

import (
	"fmt"
	"math"

	"simlab/internal/dist"
)

// LagStatistic is the correlation estimate at one lag.
type LagStatistic struct {
	Lag         int     `json:"lag"`
	Correlation float64 `json:"correlation"`
	Z           float64 `json:"z"`
	Significant bool    `json:"significant"`
}

// AutocorrelationResult is the complete outcome of an independence test.
type AutocorrelationResult struct {
	Alpha                 float64        `json:"alpha"`
	Mean                  float64        `json:"mean"`
	Variance              float64        `json:"variance"`
	CriticalZ             float64        `json:"critical_z"`
	Lags                  []LagStatistic `json:"lags"`
	AverageAbsCorrelation float64        `json:"average_abs_correlation"`
	SignificantLags       []int          `json:"significant_lags,omitempty"`
	Independent           bool           `json:"independent"`
}

// Autocorrelation tests a sequence for serial independence by estimating the
// autocorrelation at every lag from 1 to N-1 and converting each to a
// Z-statistic with standard error 1/sqrt(N). A lag is flagged when its |Z|
// exceeds the two-tailed normal critical value at alpha; the sequence passes
// iff no lag is flagged. A constant sequence has zero variance and every
// correlation is defined as zero, so it passes. Fewer than two numbers leave
// nothing to correlate and are rejected.
// Formula: r_k = (1/(N-k)) * sum_{i=1}^{N-k} (x_i - mean)(x_{i+k} - mean) / s^2
// with s^2 the sample variance over N-1.
func Autocorrelation(numbers []float64, alpha float64) (*AutocorrelationResult, error) {
	if len(numbers) < 2 {
		return nil, fmt.Errorf("%w: %d numbers, need at least 2", dist.ErrInvalidParameter, len(numbers))
	}
	if math.IsNaN(alpha) || alpha <= 0 || alpha >= 1 {
		return nil, fmt.Errorf("%w: significance %g outside (0, 1)", dist.ErrInvalidParameter, alpha)
	}

	n := len(numbers)
	nf := float64(n)

	mean := 0.0
	for _, x := range numbers {
		mean += x
	}
	mean /= nf

	variance := 0.0
	for _, x := range numbers {
		d := x - mean
		variance += d * d
	}
	variance /= nf - 1

	critical, err := NormalQuantile(1 - alpha/2)
	if err != nil {
		return nil, err
	}

	sqrtN := math.Sqrt(nf)
	lags := make([]LagStatistic, 0, n-1)
	var significant []int
	sumAbs := 0.0

	for k := 1; k <= n-1; k++ {
		r := 0.0
		if variance > 0 {
			sum := 0.0
			for i := 0; i+k < n; i++ {
				sum += (numbers[i] - mean) * (numbers[i+k] - mean)
			}
			r = sum / float64(n-k) / variance
		}

		z := r * sqrtN
		flagged := math.Abs(z) > critical
		lags = append(lags, LagStatistic{Lag: k, Correlation: r, Z: z, Significant: flagged})
		if flagged {
			significant = append(significant, k)
		}
		sumAbs += math.Abs(r)
	}

	return &AutocorrelationResult{
		Alpha:                 alpha,
		Mean:                  mean,
		Variance:              variance,
		CriticalZ:             critical,
		Lags:                  lags,
		AverageAbsCorrelation: sumAbs / float64(len(lags)),
		SignificantLags:       significant,
		Independent:           len(significant) == 0,
	}, nil
}
