package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"simlab/internal/inventory"
	"simlab/internal/queueing"
	"simlab/internal/rngtest"
	"simlab/internal/scenario"
)

// Outcome bundles one scenario run for rendering. Exactly one of the
// per-model results is set, matching the scenario kind.
type Outcome struct {
	Name      string                    `json:"name,omitempty"`
	Kind      scenario.Kind             `json:"kind"`
	Single    *queueing.SingleResult    `json:"single,omitempty"`
	Analytic  *queueing.Measures        `json:"analytic,omitempty"`
	TwoServer *queueing.TwoServerResult `json:"two_server,omitempty"`
	Inventory *inventory.Result         `json:"inventory,omitempty"`
	RNG       *RNGOutcome               `json:"rng,omitempty"`
}

// RNGOutcome is the generated sample and its two test results.
type RNGOutcome struct {
	Sample          []float64                      `json:"sample"`
	ChiSquare       *rngtest.ChiSquareResult       `json:"chi_square"`
	Autocorrelation *rngtest.AutocorrelationResult `json:"autocorrelation"`
}

// render writes the outcome to -out (or stdout) in the -format encoding.
func render(out *Outcome) error {
	w := io.Writer(os.Stdout)
	if *outFlag != "" {
		f, err := os.Create(*outFlag)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch *formatFlag {
	case "text":
		return renderText(w, out)
	case "json":
		return renderJSON(w, out)
	case "csv":
		return renderCSV(w, out)
	default:
		return fmt.Errorf("unknown format %q (use text, json, or csv)", *formatFlag)
	}
}

func renderJSON(w io.Writer, out *Outcome) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func renderText(w io.Writer, out *Outcome) error {
	title := strings.ToUpper(string(out.Kind))
	if out.Name != "" {
		title = fmt.Sprintf("%s (%s)", strings.ToUpper(out.Name), out.Kind)
	}
	fmt.Fprintf(w, "=== %s ===\n\n", title)

	switch {
	case out.Single != nil:
		return singleText(w, out.Single, out.Analytic)
	case out.TwoServer != nil:
		return twoServerText(w, out.TwoServer)
	case out.Inventory != nil:
		return inventoryText(w, out.Inventory)
	case out.RNG != nil:
		return rngText(w, out.RNG)
	}
	return fmt.Errorf("empty outcome for kind %q", out.Kind)
}

func singleText(w io.Writer, res *queueing.SingleResult, analytic *queueing.Measures) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "CUSTOMER\tINTERARRIVAL\tARRIVAL\tSERVICE\tSTART\tWAITING\tIDLE\tEND\tIN SYSTEM")
	for _, r := range res.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Customer, num(r.Interarrival), num(r.Arrival), num(r.Service),
			num(r.Start), num(r.Waiting), num(r.Idle), num(r.End), num(r.InSystem))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := res.Stats
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Average waiting:  %s\n", num(s.AverageWaiting))
	fmt.Fprintf(w, "Average service:  %s\n", num(s.AverageService))
	fmt.Fprintf(w, "Server idle:      %.1f%%\n", s.IdlePercent)
	fmt.Fprintf(w, "Utilization:      %.1f%%\n", s.Utilization)

	if analytic != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "--- M/M/1 Steady-State Reference ---")
		fmt.Fprintf(w, "Rho: %.4f  P0: %.4f  L: %.4f  Lq: %.4f  W: %.4f  Wq: %.4f\n",
			analytic.Rho, analytic.P0, analytic.L, analytic.Lq, analytic.W, analytic.Wq)
	}
	return nil
}

func twoServerText(w io.Writer, res *queueing.TwoServerResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "CUSTOMER\tINTERARRIVAL\tARRIVAL\tSERVER\tWAITING\tSTART\tSERVICE\tEND\tIN SYSTEM")
	for _, r := range res.Rows {
		span := r.Server1
		if r.ServedBy == queueing.Server2 {
			span = r.Server2
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			r.Customer, num(r.Interarrival), num(r.Arrival), r.ServedBy,
			num(r.Waiting), num(span.Start), num(span.Service), num(span.End), num(r.InSystem))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := res.Stats
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Average waiting:  %s\n", num(s.AverageWaiting))
	for i, srv := range []queueing.ServerStats{s.Server1, s.Server2} {
		fmt.Fprintf(w, "Server %d:         %d customer(s), average service %s, idle %.1f%%, utilization %.1f%%\n",
			i+1, srv.Customers, num(srv.AverageService), srv.IdlePercent, srv.Utilization)
	}
	return nil
}

func inventoryText(w io.Writer, res *inventory.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "CYCLE\tDAY\tBEGIN\tRECEIVED\tDIGIT\tDEMAND\tEND\tSHORTAGE\tORDER")
	for _, r := range res.Rows {
		order := "-"
		if r.Order != nil {
			order = fmt.Sprintf("%s (lead %dd)", num(r.Order.Quantity), r.Order.LeadTimeDays)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			r.Cycle, r.Day, num(r.BeginInventory), num(r.Received), r.DemandDigit,
			num(r.Demand), num(r.EndInventory), num(r.Shortage), order)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	s := res.Stats
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Reorder point:             %d\n", res.ReorderPoint)
	fmt.Fprintf(w, "Average ending inventory:  %s\n", num(s.AverageEndingInventory))
	fmt.Fprintf(w, "Shortage days:             %d (%.1f%% of days)\n", s.ShortageDays, s.ShortageProbability*100)
	if res.SuppressedReorders > 0 {
		fmt.Fprintf(w, "Suppressed reorders:       %d (lead-time digits exhausted)\n", res.SuppressedReorders)
	}
	for _, p := range res.Pending {
		fmt.Fprintf(w, "Still in transit:          %s arriving cycle %d day %d\n", num(p.Quantity), p.ArrivalCycle, p.ArrivalDay)
	}
	return nil
}

func rngText(w io.Writer, res *RNGOutcome) error {
	chi := res.ChiSquare
	fmt.Fprintln(w, "--- Chi-Square Uniformity ---")
	fmt.Fprintf(w, "Numbers:          %d\n", len(res.Sample))
	fmt.Fprintf(w, "Intervals:        %d\n", chi.Intervals)
	fmt.Fprintf(w, "Observed counts:  %s\n", joinInts(chi.Observed))
	fmt.Fprintf(w, "Expected/bin:     %s\n", num(chi.Expected))
	fmt.Fprintf(w, "Statistic:        %.4f\n", chi.Statistic)
	fmt.Fprintf(w, "Critical value:   %.4f (df %d, alpha %g)\n", chi.CriticalValue, chi.DegreesOfFreedom, chi.Alpha)
	fmt.Fprintf(w, "Verdict:          %s\n", verdict(chi.Uniform, "UNIFORM", "NOT UNIFORM"))

	auto := res.Autocorrelation
	fmt.Fprintln(w)
	fmt.Fprintln(w, "--- Lag Autocorrelation ---")
	fmt.Fprintf(w, "Lags tested:      %d\n", len(auto.Lags))
	fmt.Fprintf(w, "Critical |Z|:     %.4f (alpha %g)\n", auto.CriticalZ, auto.Alpha)
	fmt.Fprintf(w, "Average |r|:      %.4f\n", auto.AverageAbsCorrelation)
	if len(auto.SignificantLags) > 0 {
		fmt.Fprintf(w, "Significant lags: %s\n", joinInts(auto.SignificantLags))
	} else {
		fmt.Fprintln(w, "Significant lags: none")
	}
	fmt.Fprintf(w, "Verdict:          %s\n", verdict(auto.Independent, "INDEPENDENT", "CORRELATED"))

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "LAG\tCORRELATION\tZ\tSIGNIFICANT")
	for _, lag := range auto.Lags {
		fmt.Fprintf(tw, "%d\t%.4f\t%.4f\t%t\n", lag.Lag, lag.Correlation, lag.Z, lag.Significant)
	}
	return tw.Flush()
}

func renderCSV(w io.Writer, out *Outcome) error {
	cw := csv.NewWriter(w)

	switch {
	case out.Single != nil:
		cw.Write([]string{"customer", "interarrival", "arrival", "service", "start", "waiting", "idle", "end", "in_system"})
		for _, r := range out.Single.Rows {
			cw.Write([]string{
				strconv.Itoa(r.Customer), num(r.Interarrival), num(r.Arrival), num(r.Service),
				num(r.Start), num(r.Waiting), num(r.Idle), num(r.End), num(r.InSystem),
			})
		}

	case out.TwoServer != nil:
		cw.Write([]string{"customer", "interarrival", "arrival", "served_by", "waiting", "start", "service", "end", "in_system"})
		for _, r := range out.TwoServer.Rows {
			span := r.Server1
			if r.ServedBy == queueing.Server2 {
				span = r.Server2
			}
			cw.Write([]string{
				strconv.Itoa(r.Customer), num(r.Interarrival), num(r.Arrival),
				strconv.Itoa(int(r.ServedBy)), num(r.Waiting),
				num(span.Start), num(span.Service), num(span.End), num(r.InSystem),
			})
		}

	case out.Inventory != nil:
		cw.Write([]string{"cycle", "day", "begin_inventory", "received", "demand_digit", "demand", "end_inventory", "shortage", "order_quantity", "order_lead_days"})
		for _, r := range out.Inventory.Rows {
			quantity, lead := "", ""
			if r.Order != nil {
				quantity = num(r.Order.Quantity)
				lead = strconv.Itoa(r.Order.LeadTimeDays)
			}
			cw.Write([]string{
				strconv.Itoa(r.Cycle), strconv.Itoa(r.Day), num(r.BeginInventory), num(r.Received),
				strconv.Itoa(r.DemandDigit), num(r.Demand), num(r.EndInventory), num(r.Shortage),
				quantity, lead,
			})
		}

	case out.RNG != nil:
		cw.Write([]string{"lag", "correlation", "z", "significant"})
		for _, lag := range out.RNG.Autocorrelation.Lags {
			cw.Write([]string{
				strconv.Itoa(lag.Lag),
				strconv.FormatFloat(lag.Correlation, 'g', -1, 64),
				strconv.FormatFloat(lag.Z, 'g', -1, 64),
				strconv.FormatBool(lag.Significant),
			})
		}

	default:
		return fmt.Errorf("empty outcome for kind %q", out.Kind)
	}

	cw.Flush()
	return cw.Error()
}

// num renders a simulation quantity without trailing zeros, so whole-valued
// times print as integers the way the ledgers are worked by hand.
func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func verdict(ok bool, pass, fail string) string {
	if ok {
		return pass
	}
	return fail
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
