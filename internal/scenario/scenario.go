// Package scenario handles scenario file loading and validation for simlab.
//
// A scenario file describes one run: which simulation to perform, its
// distribution tables, and the random-digit streams that drive it. Files are
// TOML, JSON, or YAML; JSON instances are additionally checked against an
// embedded JSON Schema. Decoded scenarios convert into the core packages'
// configurations.
package scenario

import (
	"fmt"

	"simlab/internal/dist"
	"simlab/internal/inventory"
	"simlab/internal/queueing"
	"simlab/internal/randgen"
)

// Kind selects which simulation a scenario file drives.
type Kind string

// Scenario kinds.
const (
	KindSingleQueue    Kind = "single-queue"
	KindTwoServerQueue Kind = "two-server-queue"
	KindInventory      Kind = "inventory"
	KindRNGTest        Kind = "rng-test"
)

// Generator names accepted in rng sections.
const (
	GeneratorMidSquare = "mid-square"
	GeneratorLCG       = "lcg"
)

// PairSpec is one value/probability row of a distribution table.
type PairSpec struct {
	Value       float64 `toml:"value" json:"value" yaml:"value"`
	Probability float64 `toml:"probability" json:"probability" yaml:"probability"`
}

// Scenario is the decoded form of one scenario file. Exactly one of the
// section pointers matches Kind; the others stay nil.
type Scenario struct {
	// Name is a free-form label echoed in reports.
	Name string `toml:"name" json:"name,omitempty" yaml:"name"`

	// Kind selects the simulation and its section below.
	Kind Kind `toml:"kind" json:"kind" yaml:"kind"`

	Queue     *QueueSection     `toml:"queue" json:"queue,omitempty" yaml:"queue"`
	TwoServer *TwoServerSection `toml:"two-server" json:"two-server,omitempty" yaml:"two-server"`
	Inventory *InventorySection `toml:"inventory" json:"inventory,omitempty" yaml:"inventory"`
	RNG       *RNGSection       `toml:"rng" json:"rng,omitempty" yaml:"rng"`
}

// QueueSection configures a single-server queue run.
type QueueSection struct {
	// Customers is the number of arrivals to simulate.
	Customers int `toml:"customers" json:"customers" yaml:"customers"`

	// Scale is the digit width of the lookup tables, 10 or 100.
	// Zero defaults to 100.
	Scale int `toml:"scale" json:"scale,omitempty" yaml:"scale"`

	// Interarrival and Service are the two distribution tables.
	Interarrival []PairSpec `toml:"interarrival" json:"interarrival" yaml:"interarrival"`
	Service      []PairSpec `toml:"service" json:"service" yaml:"service"`

	// ArrivalDigits feeds interarrival draws for customers 2..Customers;
	// ServiceDigits feeds one service draw per customer.
	ArrivalDigits []int `toml:"arrival-digits" json:"arrival-digits" yaml:"arrival-digits"`
	ServiceDigits []int `toml:"service-digits" json:"service-digits" yaml:"service-digits"`
}

// TwoServerSection configures a two-server queue run. One shared service
// digit per customer is resolved through both servers' tables.
type TwoServerSection struct {
	Customers int `toml:"customers" json:"customers" yaml:"customers"`
	Scale     int `toml:"scale" json:"scale,omitempty" yaml:"scale"`

	// Priority is the server (1 or 2) that takes a customer when both are
	// idle. Zero defaults to server 1.
	Priority int `toml:"priority" json:"priority,omitempty" yaml:"priority"`

	Interarrival []PairSpec `toml:"interarrival" json:"interarrival" yaml:"interarrival"`
	Server1      []PairSpec `toml:"server1" json:"server1" yaml:"server1"`
	Server2      []PairSpec `toml:"server2" json:"server2" yaml:"server2"`

	ArrivalDigits []int `toml:"arrival-digits" json:"arrival-digits" yaml:"arrival-digits"`
	ServiceDigits []int `toml:"service-digits" json:"service-digits" yaml:"service-digits"`
}

// InventorySection configures a periodic-review inventory run.
type InventorySection struct {
	Cycles       int `toml:"cycles" json:"cycles" yaml:"cycles"`
	DaysPerCycle int `toml:"days-per-cycle" json:"days-per-cycle" yaml:"days-per-cycle"`

	InitialInventory float64 `toml:"initial-inventory" json:"initial-inventory" yaml:"initial-inventory"`
	InventoryLimit   float64 `toml:"inventory-limit" json:"inventory-limit" yaml:"inventory-limit"`

	// Demand is drawn on the two-digit scale, LeadTime on the one-digit
	// scale.
	Demand   []PairSpec `toml:"demand" json:"demand" yaml:"demand"`
	LeadTime []PairSpec `toml:"lead-time" json:"lead-time" yaml:"lead-time"`

	// DemandDigits feeds one draw per simulated day; LeadTimeDigits feeds
	// one draw per triggered reorder.
	DemandDigits   []int `toml:"demand-digits" json:"demand-digits" yaml:"demand-digits"`
	LeadTimeDigits []int `toml:"lead-time-digits" json:"lead-time-digits" yaml:"lead-time-digits"`

	// InitialOrder models stock already in transit when the run starts.
	InitialOrder *InitialOrderSpec `toml:"initial-order" json:"initial-order,omitempty" yaml:"initial-order"`
}

// InitialOrderSpec is an order already in flight when the run starts.
type InitialOrderSpec struct {
	Quantity     float64 `toml:"quantity" json:"quantity" yaml:"quantity"`
	LeadTimeDays int     `toml:"lead-time-days" json:"lead-time-days" yaml:"lead-time-days"`
}

// RNGSection configures a generator battery run: generate Count numbers,
// normalize them to the unit interval, and run the uniformity and
// independence tests.
type RNGSection struct {
	// Generator is "mid-square" or "lcg".
	Generator string `toml:"generator" json:"generator" yaml:"generator"`

	// Seed starts either generator. Digits is the mid-square width.
	Seed   int64 `toml:"seed" json:"seed" yaml:"seed"`
	Digits int   `toml:"digits" json:"digits,omitempty" yaml:"digits"`

	// A, C, and M are the LCG multiplier, increment, and modulus.
	A int64 `toml:"a" json:"a,omitempty" yaml:"a"`
	C int64 `toml:"c" json:"c,omitempty" yaml:"c"`
	M int64 `toml:"m" json:"m,omitempty" yaml:"m"`

	Count int `toml:"count" json:"count" yaml:"count"`

	// Intervals and Alpha parameterize the tests. Zero values default to
	// 10 intervals at significance 0.05.
	Intervals int     `toml:"intervals" json:"intervals,omitempty" yaml:"intervals"`
	Alpha     float64 `toml:"alpha" json:"alpha,omitempty" yaml:"alpha"`
}

// QueueConfig converts a single-queue scenario into a runnable configuration.
func (s *Scenario) QueueConfig() (queueing.SingleConfig, error) {
	if s.Kind != KindSingleQueue || s.Queue == nil {
		return queueing.SingleConfig{}, fmt.Errorf("scenario: kind %q has no single-queue configuration", s.Kind)
	}
	q := s.Queue
	return queueing.SingleConfig{
		Interarrival:  toDistribution(q.Interarrival),
		Service:       toDistribution(q.Service),
		ArrivalDigits: q.ArrivalDigits,
		ServiceDigits: q.ServiceDigits,
		Customers:     q.Customers,
		Scale:         q.Scale,
	}, nil
}

// TwoServerConfig converts a two-server scenario into a runnable
// configuration.
func (s *Scenario) TwoServerConfig() (queueing.TwoServerConfig, error) {
	if s.Kind != KindTwoServerQueue || s.TwoServer == nil {
		return queueing.TwoServerConfig{}, fmt.Errorf("scenario: kind %q has no two-server configuration", s.Kind)
	}
	ts := s.TwoServer
	return queueing.TwoServerConfig{
		Interarrival:  toDistribution(ts.Interarrival),
		Service1:      toDistribution(ts.Server1),
		Service2:      toDistribution(ts.Server2),
		ArrivalDigits: ts.ArrivalDigits,
		ServiceDigits: ts.ServiceDigits,
		Customers:     ts.Customers,
		Priority:      queueing.ServerID(ts.Priority),
		Scale:         ts.Scale,
	}, nil
}

// InventoryConfig converts an inventory scenario into a runnable
// configuration.
func (s *Scenario) InventoryConfig() (inventory.Config, error) {
	if s.Kind != KindInventory || s.Inventory == nil {
		return inventory.Config{}, fmt.Errorf("scenario: kind %q has no inventory configuration", s.Kind)
	}
	inv := s.Inventory
	cfg := inventory.Config{
		Cycles:           inv.Cycles,
		DaysPerCycle:     inv.DaysPerCycle,
		InitialInventory: inv.InitialInventory,
		InventoryLimit:   inv.InventoryLimit,
		Demand:           toDistribution(inv.Demand),
		LeadTime:         toDistribution(inv.LeadTime),
		DemandDigits:     inv.DemandDigits,
		LeadTimeDigits:   inv.LeadTimeDigits,
	}
	if inv.InitialOrder != nil {
		cfg.InitialOrder = &inventory.InitialOrder{
			Quantity:     inv.InitialOrder.Quantity,
			LeadTimeDays: inv.InitialOrder.LeadTimeDays,
		}
	}
	return cfg, nil
}

// UnitSample runs the rng section's generator and normalizes its output to
// the unit interval.
func (s *Scenario) UnitSample() ([]float64, error) {
	if s.Kind != KindRNGTest || s.RNG == nil {
		return nil, fmt.Errorf("scenario: kind %q has no rng configuration", s.Kind)
	}
	r := s.RNG
	switch r.Generator {
	case GeneratorMidSquare:
		gen, err := randgen.NewMidSquare(int(r.Seed), r.Digits)
		if err != nil {
			return nil, err
		}
		values := gen.Take(r.Count)
		wide := make([]int64, len(values))
		for i, v := range values {
			wide[i] = int64(v)
		}
		return randgen.UnitInterval(wide, gen.SourceMax())
	case GeneratorLCG:
		gen, err := randgen.NewLCG(r.Seed, r.A, r.C, r.M)
		if err != nil {
			return nil, err
		}
		return randgen.UnitInterval(gen.Take(r.Count), gen.Modulus())
	default:
		return nil, fmt.Errorf("scenario: unknown generator %q", r.Generator)
	}
}

func toDistribution(rows []PairSpec) dist.Distribution {
	d := make(dist.Distribution, len(rows))
	for i, r := range rows {
		d[i] = dist.Pair{Value: r.Value, Probability: r.Probability}
	}
	return d
}
