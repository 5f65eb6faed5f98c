// Package inventory implements a periodic-review inventory simulator with
// backlogged demand.
//
// The policy is order-up-to: at the end of each review cycle the simulator
// orders whatever restores the inventory position to the configured limit,
// counting accumulated backlog as committed demand. Daily demand and order
// lead times are digit-driven draws through cumulative lookup tables, so a
// run is fully reproducible from its inputs. Demand digits are required up
// front for the whole horizon; lead-time digits are consumed lazily, one per
// triggered reorder, and running out suppresses further reorders without
// failing the run.
package inventory

import (
	"fmt"
	"math"

	"simlab/internal/dist"
)

// Config parameterizes a periodic-review run.
type Config struct {
	// Cycles review periods of DaysPerCycle days each.
	Cycles       int
	DaysPerCycle int

	InitialInventory float64

	// InventoryLimit is the order-up-to level. It must sit strictly above
	// the derived reorder point ceil(E[demand]*E[leadTime]) + 1.
	InventoryLimit float64

	Demand   dist.Distribution // drawn on the two-digit scale
	LeadTime dist.Distribution // drawn on the one-digit scale

	// DemandDigits feeds one draw per simulated day and must cover the
	// whole horizon. LeadTimeDigits feeds one draw per triggered reorder.
	DemandDigits   []int
	LeadTimeDigits []int

	// InitialOrder models stock already in transit when the run starts, as
	// if ordered on day zero.
	InitialOrder *InitialOrder
}

// InitialOrder is a pre-seeded order injected before the first day.
type InitialOrder struct {
	Quantity     float64 `json:"quantity"`
	LeadTimeDays int     `json:"lead_time_days"`
}

// PendingOrder is stock on order: a quantity and the cycle/day it arrives.
type PendingOrder struct {
	Quantity     float64 `json:"quantity"`
	ArrivalCycle int     `json:"arrival_cycle"`
	ArrivalDay   int     `json:"arrival_day"`
}

// OrderPlaced records a cycle-end reorder on its ledger row.
type OrderPlaced struct {
	Quantity     float64 `json:"quantity"`
	LeadTimeDays int     `json:"lead_time_days"`
	ArrivalCycle int     `json:"arrival_cycle"`
	ArrivalDay   int     `json:"arrival_day"`
}

// DayRow is one simulated day. BeginInventory is the stock available to
// serve the day's demand, after arrivals have been received and backlog paid
// down. Shortage is the accumulated backlog at the end of the day.
type DayRow struct {
	Cycle          int          `json:"cycle"`
	Day            int          `json:"day"`
	BeginInventory float64      `json:"begin_inventory"`
	Received       float64      `json:"received"`
	DemandDigit    int          `json:"demand_digit"`
	Demand         float64      `json:"demand"`
	EndInventory   float64      `json:"end_inventory"`
	Shortage       float64      `json:"shortage"`
	Order          *OrderPlaced `json:"order,omitempty"`
}

// Stats aggregates a run.
type Stats struct {
	AverageEndingInventory float64 `json:"average_ending_inventory"`
	ShortageDays           int     `json:"shortage_days"`
	ShortageProbability    float64 `json:"shortage_probability"`
}

// Result is the complete output of a run. Pending holds orders still in
// transit when the horizon ends; SuppressedReorders counts cycle-end reviews
// that wanted to order after the lead-time digits ran out.
type Result struct {
	Rows               []DayRow       `json:"rows"`
	Pending            []PendingOrder `json:"pending,omitempty"`
	SuppressedReorders int            `json:"suppressed_reorders,omitempty"`
	ReorderPoint       int            `json:"reorder_point"`
	Stats              Stats          `json:"stats"`
}

// Run simulates the periodic-review policy over Cycles*DaysPerCycle days.
//
// Each day proceeds in a fixed order: receive every pending order due today,
// pay accumulated backlog out of stock, serve the day's demand (unmet demand
// joins the backlog, stock floors at zero), and, on the last day of each
// cycle, review: order Q = limit - ending + backlog when Q is positive, with
// a lead time drawn lazily from the one-digit table. The order arrives at
// the start of absolute day t + leadDays + 1.
//
// Validation is eager: parameter, distribution, digit-count, and digit
// mapping problems all surface before the first day runs. The single
// documented tolerance is lead-time digit exhaustion, which suppresses the
// reorder and lets the run finish.
func Run(cfg Config) (*Result, error) {
	if cfg.Cycles < 1 {
		return nil, fmt.Errorf("%w: cycle count %d", dist.ErrInvalidParameter, cfg.Cycles)
	}
	if cfg.DaysPerCycle < 1 {
		return nil, fmt.Errorf("%w: days per cycle %d", dist.ErrInvalidParameter, cfg.DaysPerCycle)
	}
	if cfg.InitialInventory < 0 {
		return nil, fmt.Errorf("%w: initial inventory %g", dist.ErrInvalidParameter, cfg.InitialInventory)
	}
	if cfg.InitialOrder != nil {
		if cfg.InitialOrder.Quantity < 0 {
			return nil, fmt.Errorf("%w: initial order quantity %g", dist.ErrInvalidParameter, cfg.InitialOrder.Quantity)
		}
		if cfg.InitialOrder.LeadTimeDays < 0 {
			return nil, fmt.Errorf("%w: initial order lead time %d", dist.ErrInvalidParameter, cfg.InitialOrder.LeadTimeDays)
		}
	}

	demandTable, err := dist.BuildTable(cfg.Demand, dist.ScaleTwoDigit)
	if err != nil {
		return nil, fmt.Errorf("demand table: %w", err)
	}
	leadTable, err := dist.BuildTable(cfg.LeadTime, dist.ScaleOneDigit)
	if err != nil {
		return nil, fmt.Errorf("lead-time table: %w", err)
	}

	reorderPoint := ReorderPoint(cfg.Demand, cfg.LeadTime)
	if cfg.InventoryLimit <= float64(reorderPoint) {
		return nil, fmt.Errorf("%w: inventory limit %g at or below reorder point %d",
			dist.ErrInvalidParameter, cfg.InventoryLimit, reorderPoint)
	}

	totalDays := cfg.Cycles * cfg.DaysPerCycle
	if got := len(cfg.DemandDigits); got < totalDays {
		return nil, fmt.Errorf("%w: %d demand digits for %d days",
			dist.ErrInsufficientDigits, got, totalDays)
	}

	// Resolve every digit before the first day so a mismatched digit cannot
	// leave a partial ledger behind. Only the consumption of lead-time
	// draws is lazy, never their validation.
	demands := make([]float64, totalDays)
	for i := 0; i < totalDays; i++ {
		v, err := demandTable.Value(cfg.DemandDigits[i])
		if err != nil {
			return nil, fmt.Errorf("demand draw for day %d: %w", i+1, err)
		}
		demands[i] = v
	}
	leadDays := make([]int, len(cfg.LeadTimeDigits))
	for i, digit := range cfg.LeadTimeDigits {
		v, err := leadTable.Value(digit)
		if err != nil {
			return nil, fmt.Errorf("lead-time draw %d: %w", i+1, err)
		}
		leadDays[i] = int(math.Round(v))
	}

	var pending []PendingOrder
	if cfg.InitialOrder != nil && cfg.InitialOrder.Quantity > 0 {
		// Placed on day zero, so it lands at the start of day lead+1.
		arrival := cfg.InitialOrder.LeadTimeDays + 1
		pending = append(pending, PendingOrder{
			Quantity:     cfg.InitialOrder.Quantity,
			ArrivalCycle: cycleOf(arrival, cfg.DaysPerCycle),
			ArrivalDay:   dayOf(arrival, cfg.DaysPerCycle),
		})
	}

	rows := make([]DayRow, 0, totalDays)
	onHand := cfg.InitialInventory
	shortage := 0.0
	nextLead := 0
	suppressed := 0
	endingSum := 0.0
	shortageDays := 0

	for t := 1; t <= totalDays; t++ {
		cycle := cycleOf(t, cfg.DaysPerCycle)
		day := dayOf(t, cfg.DaysPerCycle)

		// Arrivals due today join stock before anything else happens.
		received := 0.0
		remaining := pending[:0]
		for _, o := range pending {
			if o.ArrivalCycle == cycle && o.ArrivalDay == day {
				received += o.Quantity
			} else {
				remaining = append(remaining, o)
			}
		}
		pending = remaining
		onHand += received

		// Backlog is paid down first, as far as stock allows.
		if shortage > 0 && onHand > 0 {
			paid := shortage
			if onHand < paid {
				paid = onHand
			}
			onHand -= paid
			shortage -= paid
		}
		begin := onHand

		demand := demands[t-1]
		satisfied := demand
		if onHand < satisfied {
			satisfied = onHand
		}
		onHand -= satisfied
		shortage += demand - satisfied

		row := DayRow{
			Cycle:          cycle,
			Day:            day,
			BeginInventory: begin,
			Received:       received,
			DemandDigit:    cfg.DemandDigits[t-1],
			Demand:         demand,
			EndInventory:   onHand,
			Shortage:       shortage,
		}

		if day == cfg.DaysPerCycle {
			quantity := cfg.InventoryLimit - onHand + shortage
			if quantity > 0 {
				if nextLead < len(leadDays) {
					lead := leadDays[nextLead]
					nextLead++
					arrival := t + lead + 1
					order := PendingOrder{
						Quantity:     quantity,
						ArrivalCycle: cycleOf(arrival, cfg.DaysPerCycle),
						ArrivalDay:   dayOf(arrival, cfg.DaysPerCycle),
					}
					pending = append(pending, order)
					row.Order = &OrderPlaced{
						Quantity:     quantity,
						LeadTimeDays: lead,
						ArrivalCycle: order.ArrivalCycle,
						ArrivalDay:   order.ArrivalDay,
					}
				} else {
					suppressed++
				}
			}
		}

		rows = append(rows, row)
		endingSum += onHand
		if shortage > 0 {
			shortageDays++
		}
	}

	return &Result{
		Rows:               rows,
		Pending:            pending,
		SuppressedReorders: suppressed,
		ReorderPoint:       reorderPoint,
		Stats: Stats{
			AverageEndingInventory: endingSum / float64(totalDays),
			ShortageDays:           shortageDays,
			ShortageProbability:    float64(shortageDays) / float64(totalDays),
		},
	}, nil
}

// ReorderPoint derives the reorder point from the demand and lead-time
// distributions.
// Formula: ceil(E[demand] * E[leadTime]) + 1.
func ReorderPoint(demand, leadTime dist.Distribution) int {
	return int(math.Ceil(demand.Mean()*leadTime.Mean())) + 1
}

// cycleOf converts an absolute day (1-based) to its cycle number.
func cycleOf(absDay, daysPerCycle int) int {
	return (absDay + daysPerCycle - 1) / daysPerCycle
}

// dayOf converts an absolute day to its day within the cycle, mapping a
// zero remainder to the cycle's last day.
func dayOf(absDay, daysPerCycle int) int {
	day := absDay % daysPerCycle
	if day == 0 {
		day = daysPerCycle
	}
	return day
}
