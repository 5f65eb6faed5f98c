package randgen

import (
	"fmt"
	"math"

	"simlab/internal/dist"
)

// Normalize rescales raw generator output onto [0, scale].
// Formula: round((value / sourceMax) * scale), rounding half away from zero.
// sourceMax is the generator's exclusive upper bound (the LCG modulus, or
// 10^digits for mid-square); it and the scale must be positive. The result
// is the digit stream the lookup tables consume, where 0 reads as the top of
// the scale.
func Normalize(values []int64, scale int, sourceMax int64) ([]int, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("%w: normalize scale %d must be positive", dist.ErrInvalidParameter, scale)
	}
	if sourceMax <= 0 {
		return nil, fmt.Errorf("%w: normalize source max %d must be positive", dist.ErrInvalidParameter, sourceMax)
	}

	out := make([]int, len(values))
	for i, v := range values {
		out[i] = int(math.Round(float64(v) / float64(sourceMax) * float64(scale)))
	}
	return out, nil
}

// UnitInterval divides each raw value by sourceMax, producing the [0, 1)
// stream the statistical tests consume. sourceMax must be positive.
func UnitInterval(values []int64, sourceMax int64) ([]float64, error) {
	if sourceMax <= 0 {
		return nil, fmt.Errorf("%w: source max %d must be positive", dist.ErrInvalidParameter, sourceMax)
	}

	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = float64(v) / float64(sourceMax)
	}
	return out, nil
}
