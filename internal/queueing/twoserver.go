package queueing

import (
	"fmt"

	"simlab/internal/dist"
)

// ServerID names one of the two servers.
type ServerID int

const (
	Server1 ServerID = 1
	Server2 ServerID = 2
)

// TwoServerConfig parameterizes a two-server run. Each server has its own
// service-time distribution, but one shared service digit per customer is
// resolved through both tables. That keeps the two would-be service times
// correlated no matter which server ends up serving the customer; it is a
// deliberate property of the model, not digit reuse by accident.
type TwoServerConfig struct {
	Interarrival dist.Distribution
	Service1     dist.Distribution
	Service2     dist.Distribution

	ArrivalDigits []int
	ServiceDigits []int

	Customers int

	// Priority is the server that takes a customer when both are idle.
	// Zero means Server1.
	Priority ServerID

	// Scale selects the digit width of all three tables; zero means
	// dist.ScaleTwoDigit.
	Scale int
}

// ServiceSpan is the served interval of one customer on one server.
type ServiceSpan struct {
	Start   float64 `json:"start"`
	Service float64 `json:"service"`
	End     float64 `json:"end"`
}

// TwoServerRow is one ledger line of a two-server run. Exactly one of the
// per-server spans is set: the one for the server that served the customer.
type TwoServerRow struct {
	Customer     int          `json:"customer"`
	Interarrival float64      `json:"interarrival"`
	Arrival      float64      `json:"arrival"`
	ServedBy     ServerID     `json:"served_by"`
	Waiting      float64      `json:"waiting"`
	Server1      *ServiceSpan `json:"server1,omitempty"`
	Server2      *ServiceSpan `json:"server2,omitempty"`
	InSystem     float64      `json:"in_system"`
}

// ServerStats aggregates one server's share of a two-server ledger. Average
// service covers only the customers the server actually served; idle and
// utilization percentages are taken against the later of the two servers'
// final end times, so the two servers' figures share one denominator.
type ServerStats struct {
	Customers      int     `json:"customers"`
	AverageService float64 `json:"average_service"`
	IdlePercent    float64 `json:"idle_percent"`
	Utilization    float64 `json:"utilization"`
}

// TwoServerStats aggregates a two-server ledger.
type TwoServerStats struct {
	Server1        ServerStats `json:"server1"`
	Server2        ServerStats `json:"server2"`
	AverageWaiting float64     `json:"average_waiting"`
}

// TwoServerResult is the complete output of a two-server run.
type TwoServerResult struct {
	Rows  []TwoServerRow `json:"rows"`
	Stats TwoServerStats `json:"stats"`
}

// RunTwoServer simulates a two-server queue. Assignment per customer:
// both servers idle at arrival takes the priority server; exactly one idle
// takes the idle one; both busy takes whichever frees first, server 1 on a
// tie, and the customer waits out the gap. Idle time accrues only to the
// server selected for the customer, as the gap between that server's
// previous end and the new start. Validation is eager, as in RunSingle.
func RunTwoServer(cfg TwoServerConfig) (*TwoServerResult, error) {
	if cfg.Customers < 1 {
		return nil, fmt.Errorf("%w: customer count %d", dist.ErrInvalidParameter, cfg.Customers)
	}
	priority := cfg.Priority
	if priority == 0 {
		priority = Server1
	}
	if priority != Server1 && priority != Server2 {
		return nil, fmt.Errorf("%w: priority server %d", dist.ErrInvalidParameter, int(cfg.Priority))
	}
	scale := cfg.Scale
	if scale == 0 {
		scale = dist.ScaleTwoDigit
	}

	arrivalTable, err := dist.BuildTable(cfg.Interarrival, scale)
	if err != nil {
		return nil, fmt.Errorf("interarrival table: %w", err)
	}
	service1Table, err := dist.BuildTable(cfg.Service1, scale)
	if err != nil {
		return nil, fmt.Errorf("server 1 service table: %w", err)
	}
	service2Table, err := dist.BuildTable(cfg.Service2, scale)
	if err != nil {
		return nil, fmt.Errorf("server 2 service table: %w", err)
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

	// One shared digit per customer, resolved through both service tables.
	wouldBe1 := make([]float64, cfg.Customers)
	wouldBe2 := make([]float64, cfg.Customers)
	for i := 0; i < cfg.Customers; i++ {
		digit := cfg.ServiceDigits[i]
		v1, err := service1Table.Value(digit)
		if err != nil {
			return nil, fmt.Errorf("server 1 draw for customer %d: %w", i+1, err)
		}
		v2, err := service2Table.Value(digit)
		if err != nil {
			return nil, fmt.Errorf("server 2 draw for customer %d: %w", i+1, err)
		}
		wouldBe1[i] = v1
		wouldBe2[i] = v2
	}

	rows := make([]TwoServerRow, cfg.Customers)
	arrival := 0.0
	end1, end2 := 0.0, 0.0
	idle1, idle2 := 0.0, 0.0
	svcTotal1, svcTotal2 := 0.0, 0.0
	count1, count2 := 0, 0
	totalWaiting := 0.0

	for i := 0; i < cfg.Customers; i++ {
		arrival += interarrivals[i]

		idleAt1 := end1 <= arrival
		idleAt2 := end2 <= arrival

		var chosen ServerID
		switch {
		case idleAt1 && idleAt2:
			chosen = priority
		case idleAt1:
			chosen = Server1
		case idleAt2:
			chosen = Server2
		default:
			// Both busy: take whichever frees first, server 1 on a tie.
			if end1 <= end2 {
				chosen = Server1
			} else {
				chosen = Server2
			}
		}

		prevEnd := end1
		service := wouldBe1[i]
		if chosen == Server2 {
			prevEnd = end2
			service = wouldBe2[i]
		}

		start := arrival
		if prevEnd > start {
			start = prevEnd
		}
		waiting := start - arrival
		end := start + service
		span := &ServiceSpan{Start: start, Service: service, End: end}

		row := TwoServerRow{
			Customer:     i + 1,
			Interarrival: interarrivals[i],
			Arrival:      arrival,
			ServedBy:     chosen,
			Waiting:      waiting,
			InSystem:     waiting + service,
		}
		if chosen == Server1 {
			row.Server1 = span
			idle1 += start - prevEnd
			svcTotal1 += service
			count1++
			end1 = end
		} else {
			row.Server2 = span
			idle2 += start - prevEnd
			svcTotal2 += service
			count2++
			end2 = end
		}
		rows[i] = row
		totalWaiting += waiting
	}

	finalEnd := end1
	if end2 > finalEnd {
		finalEnd = end2
	}

	stats := TwoServerStats{
		Server1:        serverStats(count1, svcTotal1, idle1, finalEnd),
		Server2:        serverStats(count2, svcTotal2, idle2, finalEnd),
		AverageWaiting: totalWaiting / float64(cfg.Customers),
	}

	return &TwoServerResult{Rows: rows, Stats: stats}, nil
}

func serverStats(count int, svcTotal, idle, finalEnd float64) ServerStats {
	s := ServerStats{Customers: count}
	if count > 0 {
		s.AverageService = svcTotal / float64(count)
	}
	if finalEnd > 0 {
		s.IdlePercent = idle / finalEnd * 100
		s.Utilization = svcTotal / finalEnd * 100
	}
	return s
}
