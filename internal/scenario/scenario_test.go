package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simlab/internal/dist"
	"simlab/internal/queueing"
)

// Test helpers

func writeScenario(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const singleQueueTOML = `name = "bank teller"
kind = "single-queue"

[queue]
customers = 2
arrival-digits = [50]
service-digits = [10, 90]

[[queue.interarrival]]
value = 1.0
probability = 0.5

[[queue.interarrival]]
value = 2.0
probability = 0.5

[[queue.service]]
value = 2.0
probability = 0.5

[[queue.service]]
value = 3.0
probability = 0.5
`

const singleQueueJSON = `{
  "name": "bank teller",
  "kind": "single-queue",
  "queue": {
    "customers": 2,
    "interarrival": [
      {"value": 1, "probability": 0.5},
      {"value": 2, "probability": 0.5}
    ],
    "service": [
      {"value": 2, "probability": 0.5},
      {"value": 3, "probability": 0.5}
    ],
    "arrival-digits": [50],
    "service-digits": [10, 90]
  }
}
`

const singleQueueYAML = `name: bank teller
kind: single-queue
queue:
  customers: 2
  interarrival:
    - value: 1
      probability: 0.5
    - value: 2
      probability: 0.5
  service:
    - value: 2
      probability: 0.5
    - value: 3
      probability: 0.5
  arrival-digits: [50]
  service-digits: [10, 90]
`

const inventoryTOML = `kind = "inventory"

[inventory]
cycles = 2
days-per-cycle = 3
initial-inventory = 5.0
inventory-limit = 11.0
demand-digits = [10, 20, 30, 40, 50, 60]
lead-time-digits = [5, 5]

[inventory.initial-order]
quantity = 8.0
lead-time-days = 2

[[inventory.demand]]
value = 0.0
probability = 0.1

[[inventory.demand]]
value = 1.0
probability = 0.25

[[inventory.demand]]
value = 2.0
probability = 0.35

[[inventory.demand]]
value = 3.0
probability = 0.21

[[inventory.demand]]
value = 4.0
probability = 0.09

[[inventory.lead-time]]
value = 1.0
probability = 0.6

[[inventory.lead-time]]
value = 2.0
probability = 0.3

[[inventory.lead-time]]
value = 3.0
probability = 0.1
`

const rngTOML = `kind = "rng-test"

[rng]
generator = "lcg"
seed = 27
a = 17
c = 43
m = 100
count = 50
`

// =============================================================================
// Loading and Format Round-Trip Tests
// =============================================================================

func TestLoadTOML(t *testing.T) {
	path := writeScenario(t, "queue.toml", singleQueueTOML)

	sc, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bank teller", sc.Name)
	assert.Equal(t, KindSingleQueue, sc.Kind)
	require.NotNil(t, sc.Queue)
	assert.Equal(t, 2, sc.Queue.Customers)
	assert.Equal(t, []int{50}, sc.Queue.ArrivalDigits)
	assert.Equal(t, []int{10, 90}, sc.Queue.ServiceDigits)
	require.Len(t, sc.Queue.Interarrival, 2)
	assert.Equal(t, PairSpec{Value: 1, Probability: 0.5}, sc.Queue.Interarrival[0])
}

// TestLoadFormatsAgree loads the same scenario from TOML, JSON, and YAML and
// expects identical decoded structures.
func TestLoadFormatsAgree(t *testing.T) {
	tomlPath := writeScenario(t, "queue.toml", singleQueueTOML)
	jsonPath := writeScenario(t, "queue.json", singleQueueJSON)
	yamlPath := writeScenario(t, "queue.yaml", singleQueueYAML)

	fromTOML, err := Load(tomlPath)
	require.NoError(t, err)
	fromJSON, err := Load(jsonPath)
	require.NoError(t, err)
	fromYAML, err := Load(yamlPath)
	require.NoError(t, err)

	assert.Equal(t, fromTOML, fromJSON)
	assert.Equal(t, fromTOML, fromYAML)
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Run("queue scale", func(t *testing.T) {
		sc, err := Load(writeScenario(t, "queue.toml", singleQueueTOML))
		require.NoError(t, err)
		assert.Equal(t, DefaultScale, sc.Queue.Scale)
	})

	t.Run("rng intervals and alpha", func(t *testing.T) {
		sc, err := Load(writeScenario(t, "rng.toml", rngTOML))
		require.NoError(t, err)
		assert.Equal(t, DefaultIntervals, sc.RNG.Intervals)
		assert.Equal(t, DefaultAlpha, sc.RNG.Alpha)
	})
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := writeScenario(t, "scenario.ini", "kind=single-queue")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported scenario extension")
}

func TestLoadMalformedTOML(t *testing.T) {
	path := writeScenario(t, "broken.toml", "kind = [unclosed")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode TOML")
}

// =============================================================================
// JSON Schema Tests
// =============================================================================

func TestLoadJSONSchema(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "valid instance passes",
			content: singleQueueJSON,
		},
		{
			name:    "unknown kind",
			content: `{"kind": "coin-flip"}`,
			wantErr: "schema validation failed",
		},
		{
			name:    "missing kind",
			content: `{"name": "nameless"}`,
			wantErr: "schema validation failed",
		},
		{
			name: "probability above one",
			content: `{"kind": "single-queue", "queue": {"customers": 1,
				"interarrival": [{"value": 1, "probability": 1.5}],
				"service": [{"value": 1, "probability": 1}],
				"service-digits": [3]}}`,
			wantErr: "schema validation failed",
		},
		{
			name:    "unknown top-level property",
			content: `{"kind": "rng-test", "rng": {"generator": "lcg", "seed": 1, "a": 1, "c": 1, "m": 10, "count": 5}, "surprise": true}`,
			wantErr: "schema validation failed",
		},
		{
			name:    "scale off the two digit widths",
			content: `{"kind": "single-queue", "queue": {"customers": 1, "scale": 37, "interarrival": [{"value": 1, "probability": 1}], "service": [{"value": 1, "probability": 1}], "service-digits": [3]}}`,
			wantErr: "schema validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, "scenario.json", tt.content)
			_, err := Load(path)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// The schema only guards JSON instances; the same invalid kind in TOML is
// caught one step later by struct validation.
func TestLoadTOMLFallsThroughToValidation(t *testing.T) {
	path := writeScenario(t, "bad.toml", `kind = "coin-flip"`)
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, dist.ErrInvalidParameter)
	assert.Contains(t, err.Error(), "unknown kind")
}

// =============================================================================
// Validation Tests
// =============================================================================

func TestValidatePerKind(t *testing.T) {
	tests := []struct {
		name      string
		scenario  Scenario
		wantField string
	}{
		{
			name:      "empty kind",
			scenario:  Scenario{},
			wantField: "kind",
		},
		{
			name:      "unknown kind",
			scenario:  Scenario{Kind: "roulette"},
			wantField: "kind",
		},
		{
			name:      "single queue without section",
			scenario:  Scenario{Kind: KindSingleQueue},
			wantField: "queue",
		},
		{
			name:      "two server without section",
			scenario:  Scenario{Kind: KindTwoServerQueue},
			wantField: "two-server",
		},
		{
			name:      "inventory without section",
			scenario:  Scenario{Kind: KindInventory},
			wantField: "inventory",
		},
		{
			name:      "rng without section",
			scenario:  Scenario{Kind: KindRNGTest},
			wantField: "rng",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scenario.Validate()
			require.Error(t, err)

			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantField, verrs[0].Field)
			assert.ErrorIs(t, err, dist.ErrInvalidParameter)
		})
	}
}

// TestValidateCollectsEveryProblem checks that validation reports all field
// errors at once instead of stopping at the first.
func TestValidateCollectsEveryProblem(t *testing.T) {
	sc := Scenario{
		Kind: KindSingleQueue,
		Queue: &QueueSection{
			Customers: 0,
			Scale:     37,
			Interarrival: []PairSpec{
				{Value: 1, Probability: 0.4}, // sums to 0.4
			},
			Service: nil, // missing entirely
		},
	}

	err := sc.Validate()
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)

	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "queue.customers")
	assert.Contains(t, fields, "queue.scale")
	assert.Contains(t, fields, "queue.interarrival")
	assert.Contains(t, fields, "queue.service")
}

func TestValidateInventoryLimit(t *testing.T) {
	sc := Scenario{
		Kind: KindInventory,
		Inventory: &InventorySection{
			Cycles:       1,
			DaysPerCycle: 2,
			// Reorder point for these tables is ceil(1.94*1.5)+1 = 4.
			InventoryLimit: 4,
			Demand: []PairSpec{
				{Value: 0, Probability: 0.10},
				{Value: 1, Probability: 0.25},
				{Value: 2, Probability: 0.35},
				{Value: 3, Probability: 0.21},
				{Value: 4, Probability: 0.09},
			},
			LeadTime: []PairSpec{
				{Value: 1, Probability: 0.6},
				{Value: 2, Probability: 0.3},
				{Value: 3, Probability: 0.1},
			},
			DemandDigits:   []int{10, 20},
			LeadTimeDigits: []int{5},
		},
	}

	err := sc.Validate()
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 1)
	assert.Equal(t, "inventory.inventory-limit", verrs[0].Field)
	assert.Contains(t, verrs[0].Message, "reorder point")

	sc.Inventory.InventoryLimit = 5
	assert.NoError(t, sc.Validate())
}

func TestValidateRNGGenerators(t *testing.T) {
	base := RNGSection{Generator: GeneratorLCG, Seed: 1, A: 17, C: 43, M: 100, Count: 10, Intervals: 10, Alpha: 0.05}

	t.Run("valid lcg", func(t *testing.T) {
		sc := Scenario{Kind: KindRNGTest, RNG: &base}
		assert.NoError(t, sc.Validate())
	})

	t.Run("lcg needs a positive modulus", func(t *testing.T) {
		r := base
		r.M = 0
		sc := Scenario{Kind: KindRNGTest, RNG: &r}
		err := sc.Validate()
		require.Error(t, err)
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "rng.m", verrs[0].Field)
	})

	t.Run("mid-square caps the width", func(t *testing.T) {
		sc := Scenario{Kind: KindRNGTest, RNG: &RNGSection{
			Generator: GeneratorMidSquare, Seed: 5735, Digits: 12, Count: 10, Intervals: 10, Alpha: 0.05,
		}}
		err := sc.Validate()
		require.Error(t, err)
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "rng.digits", verrs[0].Field)
	})

	t.Run("unknown generator", func(t *testing.T) {
		sc := Scenario{Kind: KindRNGTest, RNG: &RNGSection{
			Generator: "dice", Count: 10, Intervals: 10, Alpha: 0.05,
		}}
		err := sc.Validate()
		require.Error(t, err)
		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "rng.generator", verrs[0].Field)
	})
}

// =============================================================================
// Core Config Conversion Tests
// =============================================================================

func TestQueueConfigConversion(t *testing.T) {
	sc, err := Load(writeScenario(t, "queue.toml", singleQueueTOML))
	require.NoError(t, err)

	cfg, err := sc.QueueConfig()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Customers)
	assert.Equal(t, DefaultScale, cfg.Scale)
	assert.Equal(t, dist.Distribution{{Value: 1, Probability: 0.5}, {Value: 2, Probability: 0.5}}, cfg.Interarrival)

	// The converted config runs as-is.
	res, err := queueing.RunSingle(cfg)
	require.NoError(t, err)
	require.Len(t, res.Rows, 2)
	assert.Equal(t, 2.0, res.Rows[0].Service)

	// A queue scenario holds no other configuration.
	_, err = sc.InventoryConfig()
	assert.Error(t, err)
	_, err = sc.TwoServerConfig()
	assert.Error(t, err)
	_, err = sc.UnitSample()
	assert.Error(t, err)
}

func TestInventoryConfigConversion(t *testing.T) {
	sc, err := Load(writeScenario(t, "inv.toml", inventoryTOML))
	require.NoError(t, err)

	cfg, err := sc.InventoryConfig()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Cycles)
	assert.Equal(t, 3, cfg.DaysPerCycle)
	assert.Equal(t, 11.0, cfg.InventoryLimit)
	require.NotNil(t, cfg.InitialOrder)
	assert.Equal(t, 8.0, cfg.InitialOrder.Quantity)
	assert.Equal(t, 2, cfg.InitialOrder.LeadTimeDays)
	require.Len(t, cfg.Demand, 5)
	require.Len(t, cfg.LeadTime, 3)
}

func TestUnitSampleLCG(t *testing.T) {
	sc, err := Load(writeScenario(t, "rng.toml", rngTOML))
	require.NoError(t, err)

	sample, err := sc.UnitSample()
	require.NoError(t, err)
	require.Len(t, sample, 50)
	// x1 = (17*27+43) mod 100 = 2.
	assert.InDelta(t, 0.02, sample[0], 1e-12)
	for _, x := range sample {
		assert.GreaterOrEqual(t, x, 0.0)
		assert.Less(t, x, 1.0)
	}
}

func TestUnitSampleMidSquare(t *testing.T) {
	sc := Scenario{
		Kind: KindRNGTest,
		RNG: &RNGSection{
			Generator: GeneratorMidSquare,
			Seed:      5735,
			Digits:    4,
			Count:     4,
			Intervals: 10,
			Alpha:     0.05,
		},
	}
	require.NoError(t, sc.Validate())

	sample, err := sc.UnitSample()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.8902, 0.2456, 0.0319, 0.1017}, sample)
}

// =============================================================================
// Loader and Watch Tests
// =============================================================================

func TestLoaderLoadAndCache(t *testing.T) {
	path := writeScenario(t, "queue.toml", singleQueueTOML)
	l := NewLoader(path)
	defer l.Close()

	sc, err := l.Load()
	require.NoError(t, err)
	assert.Same(t, sc, l.Scenario())
}

func TestLoaderReloadKeepsPreviousOnFailure(t *testing.T) {
	path := writeScenario(t, "queue.toml", singleQueueTOML)
	l := NewLoader(path)
	defer l.Close()

	sc, err := l.Load()
	require.NoError(t, err)

	// Break the file and force a reload; the previous scenario must survive.
	require.NoError(t, os.WriteFile(path, []byte(`kind = "coin-flip"`), 0600))
	l.reload()

	select {
	case err := <-l.Errors():
		assert.Contains(t, err.Error(), "reload scenario")
	default:
		t.Fatal("expected a reload error")
	}
	assert.Same(t, sc, l.Scenario())
}

func TestLoaderReloadInvokesCallbacks(t *testing.T) {
	path := writeScenario(t, "queue.toml", singleQueueTOML)
	l := NewLoader(path)
	defer l.Close()

	_, err := l.Load()
	require.NoError(t, err)

	var got *Scenario
	l.OnChange(func(sc *Scenario) { got = sc })

	updated := singleQueueTOML + "\n# updated\n"
	require.NoError(t, os.WriteFile(path, []byte(updated), 0600))
	l.reload()

	require.NotNil(t, got)
	assert.Equal(t, "bank teller", got.Name)
	assert.Same(t, got, l.Scenario())
}

func TestLoaderWatchClosesCleanly(t *testing.T) {
	path := writeScenario(t, "queue.toml", singleQueueTOML)
	l := NewLoader(path)

	_, err := l.Load()
	require.NoError(t, err)
	require.NoError(t, l.Watch())
	assert.NoError(t, l.Close())
}
