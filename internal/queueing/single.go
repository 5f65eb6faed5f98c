// Package queueing implements the discrete-event queue simulators and the
// closed-form Markovian queue measures they are compared against.
//
// The simulators are digit-driven: interarrival and service times come from
// caller-supplied random-digit streams resolved through cumulative lookup
// tables, so a run is fully reproducible from its inputs. Each ledger row
// depends only on its own draws and the previous row's clocks; the engines
// are a single forward pass with no event heap.
package queueing

import (
	"fmt"

	"simlab/internal/dist"
)

// SingleConfig parameterizes a single-server run.
type SingleConfig struct {
	Interarrival dist.Distribution
	Service      dist.Distribution

	// ArrivalDigits feeds interarrival draws for customers 2..Customers;
	// the first customer arrives at time zero without a draw. ServiceDigits
	// feeds one service draw per customer.
	ArrivalDigits []int
	ServiceDigits []int

	Customers int

	// Scale selects the digit width of both tables; zero means
	// dist.ScaleTwoDigit.
	Scale int
}

// CustomerRow is one ledger line of a single-server run.
type CustomerRow struct {
	Customer     int     `json:"customer"`
	Interarrival float64 `json:"interarrival"`
	Arrival      float64 `json:"arrival"`
	Service      float64 `json:"service"`
	Start        float64 `json:"start"`
	Waiting      float64 `json:"waiting"`
	Idle         float64 `json:"idle"`
	End          float64 `json:"end"`
	InSystem     float64 `json:"in_system"`
}

// SingleStats aggregates a single-server ledger. Idle and utilization
// percentages are taken against the last service end; they are zero for a
// run whose clock never advances.
type SingleStats struct {
	AverageWaiting float64 `json:"average_waiting"`
	AverageService float64 `json:"average_service"`
	IdlePercent    float64 `json:"idle_percent"`
	Utilization    float64 `json:"utilization"`
}

// SingleResult is the complete output of a single-server run.
type SingleResult struct {
	Rows  []CustomerRow `json:"rows"`
	Stats SingleStats   `json:"stats"`
}

// RunSingle simulates a single-server queue. Validation is eager: parameter,
// distribution, and digit-stream problems surface before any ledger row is
// produced, and a digit that misses its table aborts the run with no partial
// result.
//
// Recurrence per customer i (zero-based), with end(-1) = 0:
//
//	arrival(i) = arrival(i-1) + interarrival(i), interarrival(0) = 0
//	start(i)   = max(arrival(i), end(i-1))
//	waiting(i) = start(i) - arrival(i)
//	idle(i)    = start(i) - end(i-1)
//	end(i)     = start(i) + service(i)
func RunSingle(cfg SingleConfig) (*SingleResult, error) {
	if cfg.Customers < 1 {
		return nil, fmt.Errorf("%w: customer count %d", dist.ErrInvalidParameter, cfg.Customers)
	}
	scale := cfg.Scale
	if scale == 0 {
		scale = dist.ScaleTwoDigit
	}

	arrivalTable, err := dist.BuildTable(cfg.Interarrival, scale)
	if err != nil {
		return nil, fmt.Errorf("interarrival table: %w", err)
	}
	serviceTable, err := dist.BuildTable(cfg.Service, scale)
	if err != nil {
		return nil, fmt.Errorf("service table: %w", err)
	}

	if got, need := len(cfg.ArrivalDigits), cfg.Customers-1; got < need {
		return nil, fmt.Errorf("%w: %d arrival digits for %d customers (need %d)",
			dist.ErrInsufficientDigits, got, cfg.Customers, need)
	}
	if got := len(cfg.ServiceDigits); got < cfg.Customers {
		return nil, fmt.Errorf("%w: %d service digits for %d customers",
			dist.ErrInsufficientDigits, got, cfg.Customers)
	}

	interarrivals := make([]float64, cfg.Customers)
	for i := 1; i < cfg.Customers; i++ {
		v, err := arrivalTable.Value(cfg.ArrivalDigits[i-1])
		if err != nil {
			return nil, fmt.Errorf("arrival draw for customer %d: %w", i+1, err)
		}
		interarrivals[i] = v
	}
	services := make([]float64, cfg.Customers)
	for i := range services {
		v, err := serviceTable.Value(cfg.ServiceDigits[i])
		if err != nil {
			return nil, fmt.Errorf("service draw for customer %d: %w", i+1, err)
		}
		services[i] = v
	}

	rows := make([]CustomerRow, cfg.Customers)
	arrival := 0.0
	prevEnd := 0.0
	totalWaiting, totalService, totalIdle := 0.0, 0.0, 0.0
	for i := 0; i < cfg.Customers; i++ {
		arrival += interarrivals[i]

		start := arrival
		if prevEnd > start {
			start = prevEnd
		}
		waiting := start - arrival
		idle := start - prevEnd
		end := start + services[i]

		rows[i] = CustomerRow{
			Customer:     i + 1,
			Interarrival: interarrivals[i],
			Arrival:      arrival,
			Service:      services[i],
			Start:        start,
			Waiting:      waiting,
			Idle:         idle,
			End:          end,
			InSystem:     waiting + services[i],
		}

		totalWaiting += waiting
		totalService += services[i]
		totalIdle += idle
		prevEnd = end
	}

	stats := SingleStats{
		AverageWaiting: totalWaiting / float64(cfg.Customers),
		AverageService: totalService / float64(cfg.Customers),
	}
	if prevEnd > 0 {
		stats.IdlePercent = totalIdle / prevEnd * 100
		stats.Utilization = totalService / prevEnd * 100
	}

	return &SingleResult{Rows: rows, Stats: stats}, nil
}
