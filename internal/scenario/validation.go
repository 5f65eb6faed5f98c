package scenario

import (
	"fmt"
	"strings"

	"simlab/internal/dist"
	"simlab/internal/inventory"
)

// ValidationError represents a scenario validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("scenario: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Is reports validation failures as invalid-parameter errors, so errors.Is
// keeps working across the package boundary.
func (e ValidationErrors) Is(target error) bool {
	return target == dist.ErrInvalidParameter
}

// Validate checks the scenario field by field and collects every problem, so
// a report can show them all at once. It assumes defaults have been applied.
func (s *Scenario) Validate() error {
	var errs ValidationErrors

	switch s.Kind {
	case KindSingleQueue:
		if s.Queue == nil {
			errs = append(errs, ValidationError{
				Field:   "queue",
				Message: fmt.Sprintf("section is required for kind %q", s.Kind),
			})
		} else {
			errs = append(errs, validateQueue(s.Queue)...)
		}

	case KindTwoServerQueue:
		if s.TwoServer == nil {
			errs = append(errs, ValidationError{
				Field:   "two-server",
				Message: fmt.Sprintf("section is required for kind %q", s.Kind),
			})
		} else {
			errs = append(errs, validateTwoServer(s.TwoServer)...)
		}

	case KindInventory:
		if s.Inventory == nil {
			errs = append(errs, ValidationError{
				Field:   "inventory",
				Message: fmt.Sprintf("section is required for kind %q", s.Kind),
			})
		} else {
			errs = append(errs, validateInventory(s.Inventory)...)
		}

	case KindRNGTest:
		if s.RNG == nil {
			errs = append(errs, ValidationError{
				Field:   "rng",
				Message: fmt.Sprintf("section is required for kind %q", s.Kind),
			})
		} else {
			errs = append(errs, validateRNG(s.RNG)...)
		}

	case "":
		errs = append(errs, ValidationError{
			Field:   "kind",
			Message: "kind is required",
		})

	default:
		errs = append(errs, ValidationError{
			Field:   "kind",
			Message: fmt.Sprintf("unknown kind %q", s.Kind),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateQueue(q *QueueSection) ValidationErrors {
	var errs ValidationErrors

	if q.Customers < 1 {
		errs = append(errs, ValidationError{
			Field:   "queue.customers",
			Message: "must be at least 1",
		})
	}
	errs = append(errs, validateScale("queue.scale", q.Scale)...)
	errs = append(errs, validateDistribution("queue.interarrival", q.Interarrival)...)
	errs = append(errs, validateDistribution("queue.service", q.Service)...)

	if need := q.Customers - 1; q.Customers >= 1 && len(q.ArrivalDigits) < need {
		errs = append(errs, ValidationError{
			Field:   "queue.arrival-digits",
			Message: fmt.Sprintf("have %d digits, need %d for %d customers", len(q.ArrivalDigits), need, q.Customers),
		})
	}
	if q.Customers >= 1 && len(q.ServiceDigits) < q.Customers {
		errs = append(errs, ValidationError{
			Field:   "queue.service-digits",
			Message: fmt.Sprintf("have %d digits, need %d", len(q.ServiceDigits), q.Customers),
		})
	}

	return errs
}

func validateTwoServer(ts *TwoServerSection) ValidationErrors {
	var errs ValidationErrors

	if ts.Customers < 1 {
		errs = append(errs, ValidationError{
			Field:   "two-server.customers",
			Message: "must be at least 1",
		})
	}
	errs = append(errs, validateScale("two-server.scale", ts.Scale)...)
	if ts.Priority != 1 && ts.Priority != 2 {
		errs = append(errs, ValidationError{
			Field:   "two-server.priority",
			Message: fmt.Sprintf("must be 1 or 2, have %d", ts.Priority),
		})
	}
	errs = append(errs, validateDistribution("two-server.interarrival", ts.Interarrival)...)
	errs = append(errs, validateDistribution("two-server.server1", ts.Server1)...)
	errs = append(errs, validateDistribution("two-server.server2", ts.Server2)...)

	if need := ts.Customers - 1; ts.Customers >= 1 && len(ts.ArrivalDigits) < need {
		errs = append(errs, ValidationError{
			Field:   "two-server.arrival-digits",
			Message: fmt.Sprintf("have %d digits, need %d for %d customers", len(ts.ArrivalDigits), need, ts.Customers),
		})
	}
	if ts.Customers >= 1 && len(ts.ServiceDigits) < ts.Customers {
		errs = append(errs, ValidationError{
			Field:   "two-server.service-digits",
			Message: fmt.Sprintf("have %d digits, need %d", len(ts.ServiceDigits), ts.Customers),
		})
	}

	return errs
}

func validateInventory(inv *InventorySection) ValidationErrors {
	var errs ValidationErrors

	if inv.Cycles < 1 {
		errs = append(errs, ValidationError{
			Field:   "inventory.cycles",
			Message: "must be at least 1",
		})
	}
	if inv.DaysPerCycle < 1 {
		errs = append(errs, ValidationError{
			Field:   "inventory.days-per-cycle",
			Message: "must be at least 1",
		})
	}
	if inv.InitialInventory < 0 {
		errs = append(errs, ValidationError{
			Field:   "inventory.initial-inventory",
			Message: "cannot be negative",
		})
	}

	demandErrs := validateDistribution("inventory.demand", inv.Demand)
	leadErrs := validateDistribution("inventory.lead-time", inv.LeadTime)
	errs = append(errs, demandErrs...)
	errs = append(errs, leadErrs...)

	// The order-up-to limit only makes sense above the derived reorder
	// point, which needs both distributions intact.
	if len(demandErrs) == 0 && len(leadErrs) == 0 {
		rp := inventory.ReorderPoint(toDistribution(inv.Demand), toDistribution(inv.LeadTime))
		if inv.InventoryLimit <= float64(rp) {
			errs = append(errs, ValidationError{
				Field:   "inventory.inventory-limit",
				Message: fmt.Sprintf("%g is at or below the reorder point %d", inv.InventoryLimit, rp),
			})
		}
	}

	if inv.Cycles >= 1 && inv.DaysPerCycle >= 1 {
		if need := inv.Cycles * inv.DaysPerCycle; len(inv.DemandDigits) < need {
			errs = append(errs, ValidationError{
				Field:   "inventory.demand-digits",
				Message: fmt.Sprintf("have %d digits, need %d for the whole horizon", len(inv.DemandDigits), need),
			})
		}
	}

	if inv.InitialOrder != nil {
		if inv.InitialOrder.Quantity < 0 {
			errs = append(errs, ValidationError{
				Field:   "inventory.initial-order.quantity",
				Message: "cannot be negative",
			})
		}
		if inv.InitialOrder.LeadTimeDays < 0 {
			errs = append(errs, ValidationError{
				Field:   "inventory.initial-order.lead-time-days",
				Message: "cannot be negative",
			})
		}
	}

	return errs
}

func validateRNG(r *RNGSection) ValidationErrors {
	var errs ValidationErrors

	switch r.Generator {
	case GeneratorMidSquare:
		if r.Seed < 0 {
			errs = append(errs, ValidationError{
				Field:   "rng.seed",
				Message: "cannot be negative",
			})
		} else if r.Seed > 999999999 {
			errs = append(errs, ValidationError{
				Field:   "rng.seed",
				Message: "cannot be wider than 9 digits",
			})
		}
		if r.Digits > 9 {
			errs = append(errs, ValidationError{
				Field:   "rng.digits",
				Message: fmt.Sprintf("width %d exceeds the 9-digit maximum", r.Digits),
			})
		}

	case GeneratorLCG:
		if r.M < 1 {
			errs = append(errs, ValidationError{
				Field:   "rng.m",
				Message: "modulus must be positive",
			})
		}
		if r.Seed < 0 {
			errs = append(errs, ValidationError{
				Field:   "rng.seed",
				Message: "cannot be negative",
			})
		}
		if r.A < 0 {
			errs = append(errs, ValidationError{
				Field:   "rng.a",
				Message: "cannot be negative",
			})
		}
		if r.C < 0 {
			errs = append(errs, ValidationError{
				Field:   "rng.c",
				Message: "cannot be negative",
			})
		}

	case "":
		errs = append(errs, ValidationError{
			Field:   "rng.generator",
			Message: "generator is required",
		})

	default:
		errs = append(errs, ValidationError{
			Field:   "rng.generator",
			Message: fmt.Sprintf("unknown generator %q", r.Generator),
		})
	}

	if r.Count < 1 {
		errs = append(errs, ValidationError{
			Field:   "rng.count",
			Message: "must be at least 1",
		})
	}
	if r.Intervals < 1 {
		errs = append(errs, ValidationError{
			Field:   "rng.intervals",
			Message: "must be at least 1",
		})
	}
	if r.Alpha <= 0 || r.Alpha >= 1 {
		errs = append(errs, ValidationError{
			Field:   "rng.alpha",
			Message: fmt.Sprintf("%g is outside (0, 1)", r.Alpha),
		})
	}

	return errs
}

func validateScale(field string, scale int) ValidationErrors {
	if scale == dist.ScaleOneDigit || scale == dist.ScaleTwoDigit {
		return nil
	}
	return ValidationErrors{{
		Field:   field,
		Message: fmt.Sprintf("must be %d or %d, have %d", dist.ScaleOneDigit, dist.ScaleTwoDigit, scale),
	}}
}

func validateDistribution(field string, rows []PairSpec) ValidationErrors {
	if len(rows) == 0 {
		return ValidationErrors{{
			Field:   field,
			Message: "distribution is required",
		}}
	}
	if err := toDistribution(rows).Validate(); err != nil {
		return ValidationErrors{{
			Field:   field,
			Message: err.Error(),
		}}
	}
	return nil
}
