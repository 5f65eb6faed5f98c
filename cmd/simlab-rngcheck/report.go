package main

import (
	"encoding/json"
	"fmt"
	"io"

	"simlab/internal/rngtest"
)

// Report is one battery run: the source label, both test results, and the
// combined verdict.
type Report struct {
	Source          string                         `json:"source"`
	Count           int                            `json:"count"`
	ChiSquare       *rngtest.ChiSquareResult       `json:"chi_square"`
	Autocorrelation *rngtest.AutocorrelationResult `json:"autocorrelation"`
	Passed          bool                           `json:"passed"`
}

// runBattery scores the numbers with both tests. The stream passes only
// when the chi-square test accepts uniformity and no autocorrelation lag is
// significant.
func runBattery(numbers []float64, source string, intervals int, alpha float64) (*Report, error) {
	chi, err := rngtest.ChiSquare(numbers, intervals, alpha)
	if err != nil {
		return nil, err
	}
	auto, err := rngtest.Autocorrelation(numbers, alpha)
	if err != nil {
		return nil, err
	}
	return &Report{
		Source:          source,
		Count:           len(numbers),
		ChiSquare:       chi,
		Autocorrelation: auto,
		Passed:          chi.Uniform && auto.Independent,
	}, nil
}

func writeReport(w io.Writer, r *Report, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(r)
	case "text":
		return writeText(w, r)
	default:
		return fmt.Errorf("unknown format %q (use text or json)", format)
	}
}

func writeText(w io.Writer, r *Report) error {
	fmt.Fprintln(w, "================================================================")
	fmt.Fprintln(w, "                   RANDOM-NUMBER TEST BATTERY")
	fmt.Fprintln(w, "================================================================")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Source:   %s\n", r.Source)
	fmt.Fprintf(w, "Numbers:  %d\n", r.Count)
	fmt.Fprintln(w)

	chi := r.ChiSquare
	fmt.Fprintln(w, "--- Chi-Square Uniformity ---")
	fmt.Fprintf(w, "Intervals:       %d\n", chi.Intervals)
	fmt.Fprintf(w, "Statistic:       %.4f\n", chi.Statistic)
	fmt.Fprintf(w, "Critical value:  %.4f (df %d, alpha %g)\n", chi.CriticalValue, chi.DegreesOfFreedom, chi.Alpha)
	fmt.Fprintf(w, "Verdict:         %s\n", verdictString(chi.Uniform))
	fmt.Fprintln(w)

	auto := r.Autocorrelation
	fmt.Fprintln(w, "--- Lag Autocorrelation ---")
	fmt.Fprintf(w, "Lags tested:       %d\n", len(auto.Lags))
	fmt.Fprintf(w, "Critical |Z|:      %.4f (alpha %g)\n", auto.CriticalZ, auto.Alpha)
	fmt.Fprintf(w, "Average |r|:       %.4f\n", auto.AverageAbsCorrelation)
	if len(auto.SignificantLags) > 0 {
		fmt.Fprintf(w, "Significant lags:  %v\n", auto.SignificantLags)
	} else {
		fmt.Fprintln(w, "Significant lags:  none")
	}
	fmt.Fprintf(w, "Verdict:           %s\n", verdictString(auto.Independent))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Overall: %s\n", verdictString(r.Passed))
	return nil
}

func verdictString(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}
