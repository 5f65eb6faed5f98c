package dist

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"
)

// =============================================================================
// Distribution Validation Tests
// =============================================================================

func TestDistributionValidate(t *testing.T) {
	tests := []struct {
		name    string
		d       Distribution
		wantErr error
	}{
		{
			name:    "empty distribution",
			d:       Distribution{},
			wantErr: ErrInvalidDistribution,
		},
		{
			name:    "single row summing to one",
			d:       Distribution{{Value: 5, Probability: 1.0}},
			wantErr: nil,
		},
		{
			name: "textbook demand distribution",
			d: Distribution{
				{Value: 0, Probability: 0.10},
				{Value: 1, Probability: 0.25},
				{Value: 2, Probability: 0.35},
				{Value: 3, Probability: 0.21},
				{Value: 4, Probability: 0.09},
			},
			wantErr: nil,
		},
		{
			name: "sum inside tolerance",
			d: Distribution{
				{Value: 1, Probability: 0.5},
				{Value: 2, Probability: 0.4995},
			},
			wantErr: nil,
		},
		{
			name: "sum outside tolerance",
			d: Distribution{
				{Value: 1, Probability: 0.5},
				{Value: 2, Probability: 0.49},
			},
			wantErr: ErrInvalidDistribution,
		},
		{
			name: "sum above one",
			d: Distribution{
				{Value: 1, Probability: 0.7},
				{Value: 2, Probability: 0.7},
			},
			wantErr: ErrInvalidDistribution,
		},
		{
			name: "negative probability",
			d: Distribution{
				{Value: 1, Probability: 1.5},
				{Value: 2, Probability: -0.5},
			},
			wantErr: ErrInvalidDistribution,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.d.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDistributionMean(t *testing.T) {
	tests := []struct {
		name     string
		d        Distribution
		expected float64
	}{
		{
			name:     "degenerate single value",
			d:        Distribution{{Value: 3, Probability: 1.0}},
			expected: 3.0,
		},
		{
			name: "uniform over two values",
			d: Distribution{
				{Value: 1, Probability: 0.5},
				{Value: 2, Probability: 0.5},
			},
			expected: 1.5,
		},
		{
			name: "textbook lead time",
			d: Distribution{
				{Value: 1, Probability: 0.6},
				{Value: 2, Probability: 0.3},
				{Value: 3, Probability: 0.1},
			},
			expected: 1.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.d.Mean()
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Mean() = %v, want %v", got, tt.expected)
			}
		})
	}
}

// =============================================================================
// Cumulative Table Construction Tests
// =============================================================================

func TestBuildTableRanges(t *testing.T) {
	demand := Distribution{
		{Value: 0, Probability: 0.10},
		{Value: 1, Probability: 0.25},
		{Value: 2, Probability: 0.35},
		{Value: 3, Probability: 0.21},
		{Value: 4, Probability: 0.09},
	}

	table, err := BuildTable(demand, ScaleTwoDigit)
	if err != nil {
		t.Fatalf("BuildTable() error = %v", err)
	}

	wantRanges := [][2]int{{1, 10}, {11, 35}, {36, 70}, {71, 91}, {92, 100}}
	if len(table.Rows) != len(wantRanges) {
		t.Fatalf("got %d rows, want %d", len(table.Rows), len(wantRanges))
	}
	for i, want := range wantRanges {
		row := table.Rows[i]
		if row.RangeStart != want[0] || row.RangeEnd != want[1] {
			t.Errorf("row %d range = [%d, %d], want [%d, %d]",
				i, row.RangeStart, row.RangeEnd, want[0], want[1])
		}
	}
}

func TestBuildTableScaleMatters(t *testing.T) {
	leadTime := Distribution{
		{Value: 1, Probability: 0.6},
		{Value: 2, Probability: 0.3},
		{Value: 3, Probability: 0.1},
	}

	oneDigit, err := BuildTable(leadTime, ScaleOneDigit)
	if err != nil {
		t.Fatalf("BuildTable(scale 10) error = %v", err)
	}
	twoDigit, err := BuildTable(leadTime, ScaleTwoDigit)
	if err != nil {
		t.Fatalf("BuildTable(scale 100) error = %v", err)
	}

	wantOne := [][2]int{{1, 6}, {7, 9}, {10, 10}}
	for i, want := range wantOne {
		row := oneDigit.Rows[i]
		if row.RangeStart != want[0] || row.RangeEnd != want[1] {
			t.Errorf("scale 10 row %d range = [%d, %d], want [%d, %d]",
				i, row.RangeStart, row.RangeEnd, want[0], want[1])
		}
	}

	wantTwo := [][2]int{{1, 60}, {61, 90}, {91, 100}}
	for i, want := range wantTwo {
		row := twoDigit.Rows[i]
		if row.RangeStart != want[0] || row.RangeEnd != want[1] {
			t.Errorf("scale 100 row %d range = [%d, %d], want [%d, %d]",
				i, row.RangeStart, row.RangeEnd, want[0], want[1])
		}
	}
}

func TestBuildTableRejectsBadInput(t *testing.T) {
	valid := Distribution{{Value: 1, Probability: 1.0}}

	if _, err := BuildTable(Distribution{}, ScaleTwoDigit); !errors.Is(err, ErrInvalidDistribution) {
		t.Errorf("empty distribution: err = %v, want ErrInvalidDistribution", err)
	}
	if _, err := BuildTable(valid, 50); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("scale 50: err = %v, want ErrInvalidParameter", err)
	}
	if _, err := BuildTable(valid, 0); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("scale 0: err = %v, want ErrInvalidParameter", err)
	}
}

func TestBuildTableDeterminism(t *testing.T) {
	d := Distribution{
		{Value: 1, Probability: 0.25},
		{Value: 2, Probability: 0.5},
		{Value: 3, Probability: 0.25},
	}

	first, err := BuildTable(d, ScaleTwoDigit)
	if err != nil {
		t.Fatalf("BuildTable() error = %v", err)
	}
	second, err := BuildTable(d, ScaleTwoDigit)
	if err != nil {
		t.Fatalf("BuildTable() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated BuildTable() calls differ")
	}
}

// TestBuildTablePartitionProperty checks that for valid distributions the
// assigned ranges tile [1, scale] exactly: first start is 1, each start is
// one past the previous end, and the last end equals the scale.
func TestBuildTablePartitionProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for _, scale := range []int{ScaleOneDigit, ScaleTwoDigit} {
		for trial := 0; trial < 50; trial++ {
			d := randomDistribution(rng, 1+rng.Intn(6))

			table, err := BuildTable(d, scale)
			if err != nil {
				t.Fatalf("scale %d trial %d: BuildTable() error = %v", scale, trial, err)
			}

			expectedStart := 1
			for i, row := range table.Rows {
				if row.Probability == 0 {
					// Zero-probability rows get an empty range.
					if row.RangeEnd != row.RangeStart-1 {
						t.Fatalf("scale %d trial %d row %d: zero-probability range [%d, %d]",
							scale, trial, i, row.RangeStart, row.RangeEnd)
					}
					continue
				}
				if row.RangeStart != expectedStart {
					t.Fatalf("scale %d trial %d row %d: start = %d, want %d",
						scale, trial, i, row.RangeStart, expectedStart)
				}
				if row.RangeEnd < row.RangeStart {
					t.Fatalf("scale %d trial %d row %d: inverted range [%d, %d]",
						scale, trial, i, row.RangeStart, row.RangeEnd)
				}
				expectedStart = row.RangeEnd + 1
			}
			last := table.Rows[len(table.Rows)-1]
			if last.RangeEnd != scale {
				t.Fatalf("scale %d trial %d: last range end = %d, want %d",
					scale, trial, last.RangeEnd, scale)
			}
		}
	}
}

// =============================================================================
// Digit Mapper Tests
// =============================================================================

func TestTableMap(t *testing.T) {
	d := Distribution{
		{Value: 10, Probability: 0.10},
		{Value: 20, Probability: 0.40},
		{Value: 30, Probability: 0.50},
	}
	table, err := BuildTable(d, ScaleTwoDigit)
	if err != nil {
		t.Fatalf("BuildTable() error = %v", err)
	}

	tests := []struct {
		name      string
		digit     int
		wantValue float64
		wantErr   error
	}{
		{name: "first range lower bound", digit: 1, wantValue: 10},
		{name: "first range upper bound", digit: 10, wantValue: 10},
		{name: "second range", digit: 35, wantValue: 20},
		{name: "third range", digit: 99, wantValue: 30},
		{name: "top of scale", digit: 100, wantValue: 30},
		{name: "zero reads as scale", digit: 0, wantValue: 30},
		{name: "negative digit", digit: -3, wantErr: ErrNotMapped},
		{name: "digit above scale", digit: 101, wantErr: ErrNotMapped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Value(tt.digit)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Value(%d) err = %v, want %v", tt.digit, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Value(%d) error = %v", tt.digit, err)
			}
			if got != tt.wantValue {
				t.Errorf("Value(%d) = %v, want %v", tt.digit, got, tt.wantValue)
			}
		})
	}
}

// TestMapTotalityProperty checks that every digit in [0, scale] resolves on a
// valid table, at both digit widths.
func TestMapTotalityProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, scale := range []int{ScaleOneDigit, ScaleTwoDigit} {
		for trial := 0; trial < 20; trial++ {
			d := randomDistribution(rng, 1+rng.Intn(5))
			table, err := BuildTable(d, scale)
			if err != nil {
				t.Fatalf("scale %d trial %d: BuildTable() error = %v", scale, trial, err)
			}

			for digit := 0; digit <= scale; digit++ {
				if _, err := table.Map(digit); err != nil {
					t.Fatalf("scale %d trial %d: Map(%d) error = %v", scale, trial, digit, err)
				}
			}
		}
	}
}

func TestMapZeroDigitPerScale(t *testing.T) {
	d := Distribution{
		{Value: 1, Probability: 0.9},
		{Value: 2, Probability: 0.1},
	}

	oneDigit, err := BuildTable(d, ScaleOneDigit)
	if err != nil {
		t.Fatalf("BuildTable(scale 10) error = %v", err)
	}
	row, err := oneDigit.Map(0)
	if err != nil {
		t.Fatalf("Map(0) error = %v", err)
	}
	if row.Value != 2 {
		t.Errorf("scale 10: Map(0) value = %v, want 2 (digit 0 reads as 10)", row.Value)
	}
}

// randomDistribution builds a distribution with k rows whose probabilities
// are hundredths summing exactly to one, so validation always passes.
func randomDistribution(rng *rand.Rand, k int) Distribution {
	parts := make([]int, k)
	remaining := 100
	for i := 0; i < k-1; i++ {
		parts[i] = rng.Intn(remaining + 1)
		remaining -= parts[i]
	}
	parts[k-1] = remaining

	d := make(Distribution, k)
	for i, p := range parts {
		d[i] = Pair{Value: float64(i + 1), Probability: float64(p) / 100}
	}
	return d
}
