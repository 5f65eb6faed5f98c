package rngtest

import (
	"errors"
	"fmt"
	"math"

	"simlab/internal/dist"
)

// ErrNumericDomain is returned when a probability argument falls outside the
// open unit interval.
var ErrNumericDomain = errors.New("probability outside (0, 1)")

// Regime boundaries for the rational inverse-normal approximation.
const (
	lowTail  = 0.02425
	highTail = 1 - lowTail
)

// Coefficients of Acklam's rational approximation to the inverse standard
// normal CDF: a/b serve the central regime, c/d the two tails.
var (
	acklamA = [6]float64{
		-3.969683028665376e+01,
		2.209460984245205e+02,
		-2.759285104469687e+02,
		1.383577518672690e+02,
		-3.066479806614716e+01,
		2.506628277459239e+00,
	}
	acklamB = [5]float64{
		-5.447609879822406e+01,
		1.615858368580409e+02,
		-1.556989798598866e+02,
		6.680131188771972e+01,
		-1.328068155288572e+01,
	}
	acklamC = [6]float64{
		-7.784894002430293e-03,
		-3.223964580411365e-01,
		-2.400758277161838e+00,
		-2.549732539343734e+00,
		4.374664141464968e+00,
		2.938163982698783e+00,
	}
	acklamD = [4]float64{
		7.784695709041462e-03,
		3.224671290700398e-01,
		2.445134137142996e+00,
		3.754408661907416e+00,
	}
)

// NormalQuantile returns the inverse standard normal CDF at p via Acklam's
// rational approximation, branching across three regimes: the lower tail
// below 0.02425, the upper tail above 0.97575, and the central region
// between them. The absolute error stays below 1.15e-9 over the whole
// domain. Probabilities at or outside 0 and 1 are a domain error.
func NormalQuantile(p float64) (float64, error) {
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return 0, fmt.Errorf("%w: %g", ErrNumericDomain, p)
	}

	switch {
	case p < lowTail:
		q := math.Sqrt(-2 * math.Log(p))
		return (((((acklamC[0]*q+acklamC[1])*q+acklamC[2])*q+acklamC[3])*q+acklamC[4])*q + acklamC[5]) /
			((((acklamD[0]*q+acklamD[1])*q+acklamD[2])*q+acklamD[3])*q + 1), nil
	case p > highTail:
		q := math.Sqrt(-2 * math.Log(1-p))
		return -(((((acklamC[0]*q+acklamC[1])*q+acklamC[2])*q+acklamC[3])*q+acklamC[4])*q + acklamC[5]) /
			((((acklamD[0]*q+acklamD[1])*q+acklamD[2])*q+acklamD[3])*q + 1), nil
	default:
		q := p - 0.5
		r := q * q
		return (((((acklamA[0]*r+acklamA[1])*r+acklamA[2])*r+acklamA[3])*r+acklamA[4])*r + acklamA[5]) * q /
			(((((acklamB[0]*r+acklamB[1])*r+acklamB[2])*r+acklamB[3])*r+acklamB[4])*r + 1), nil
	}
}

// ChiSquareCritical returns the upper critical value of the chi-square
// distribution with df degrees of freedom at significance alpha. The first
// two degrees have exact forms: the square of the two-tailed normal critical
// value for df 1, and -2*ln(alpha) for df 2 since chi-square with two
// degrees is exponential. Higher degrees use the Wilson-Hilferty cube
// approximation.
// Formula: df * (1 - 2/(9 df) + z * sqrt(2/(9 df)))^3 with z the upper-alpha
// normal quantile.
func ChiSquareCritical(df int, alpha float64) (float64, error) {
	if df < 0 {
		return 0, fmt.Errorf("%w: degrees of freedom %d", dist.ErrInvalidParameter, df)
	}
	if math.IsNaN(alpha) || alpha <= 0 || alpha >= 1 {
		return 0, fmt.Errorf("%w: significance %g outside (0, 1)", dist.ErrInvalidParameter, alpha)
	}

	switch df {
	case 0:
		return 0, nil
	case 1:
		z, err := NormalQuantile(1 - alpha/2)
		if err != nil {
			return 0, err
		}
		return z * z, nil
	case 2:
		return -2 * math.Log(alpha), nil
	default:
		z, err := NormalQuantile(1 - alpha)
		if err != nil {
			return 0, err
		}
		d := float64(df)
		t := 2 / (9 * d)
		v := 1 - t + z*math.Sqrt(t)
		return d * v * v * v, nil
	}
}
