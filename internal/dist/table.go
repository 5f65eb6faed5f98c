package dist

import (
	"fmt"
	"math"
)

// Row is one row of a cumulative lookup table: the source pair, its running
// cumulative probability, and the contiguous digit range assigned to it.
type Row struct {
	Value       float64 `json:"value"`
	Probability float64 `json:"probability"`
	Cumulative  float64 `json:"cumulative"`
	RangeStart  int     `json:"range_start"`
	RangeEnd    int     `json:"range_end"`
}

// Table maps uniform random digits in [1, Scale] to distribution values.
type Table struct {
	Scale int   `json:"scale"`
	Rows  []Row `json:"rows"`
}

// BuildTable derives the cumulative lookup table for d at the given scale.
// Each row's range starts one past the previous row's end; it ends at the
// cumulative probability times the scale, rounded half away from zero and
// capped at the scale. For a valid distribution the ranges partition
// [1, scale] with no gaps or overlaps. The scale must be ScaleOneDigit or
// ScaleTwoDigit; the same distribution produces different ranges at the two
// widths. A zero-probability row yields an empty range that no digit selects.
func BuildTable(d Distribution, scale int) (*Table, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if scale != ScaleOneDigit && scale != ScaleTwoDigit {
		return nil, fmt.Errorf("%w: scale %d (want %d or %d)", ErrInvalidParameter, scale, ScaleOneDigit, ScaleTwoDigit)
	}

	rows := make([]Row, 0, len(d))
	cumulative := 0.0
	start := 1
	for _, p := range d {
		cumulative += p.Probability
		end := int(math.Round(cumulative * float64(scale)))
		if end > scale {
			end = scale
		}
		rows = append(rows, Row{
			Value:       p.Value,
			Probability: p.Probability,
			Cumulative:  cumulative,
			RangeStart:  start,
			RangeEnd:    end,
		})
		start = end + 1
	}

	return &Table{Scale: scale, Rows: rows}, nil
}

// Map resolves a random digit to its table row. The digit domain is
// [0, Scale]; a draw of 0 reads as Scale, matching the convention that a
// two-digit "00" means 100 and a one-digit "0" means 10. A digit outside the
// domain is a caller contract violation and returns ErrNotMapped rather than
// being clamped.
func (t *Table) Map(digit int) (Row, error) {
	normalized := digit
	if normalized == 0 {
		normalized = t.Scale
	}

	for _, row := range t.Rows {
		if normalized >= row.RangeStart && normalized <= row.RangeEnd {
			return row, nil
		}
	}
	return Row{}, fmt.Errorf("%w: digit %d on scale %d", ErrNotMapped, digit, t.Scale)
}

// Value resolves a random digit to its mapped distribution value.
func (t *Table) Value(digit int) (float64, error) {
	row, err := t.Map(digit)
	if err != nil {
		return 0, err
	}
	return row.Value, nil
}
