package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"simlab/internal/inventory"
	"simlab/internal/logging"
	"simlab/internal/queueing"
	"simlab/internal/rngtest"
	"simlab/internal/scenario"
)

func cmdRun(path string) {
	sc, err := scenario.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scenario: %v\n", err)
		os.Exit(1)
	}

	logging.Debug("scenario loaded", "path", path, "kind", sc.Kind)

	outcome, err := execute(sc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running scenario: %v\n", err)
		os.Exit(1)
	}

	if err := render(outcome); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
		os.Exit(1)
	}
}

func cmdValidate(path string) {
	sc, err := scenario.Load(path)
	if err != nil {
		var verrs scenario.ValidationErrors
		if errors.As(err, &verrs) {
			fmt.Fprintf(os.Stderr, "%s: %d problem(s)\n", path, len(verrs))
			for _, ve := range verrs {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", ve.Field, ve.Message)
			}
		} else {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		}
		os.Exit(1)
	}
	fmt.Printf("%s: %s scenario OK\n", path, sc.Kind)
}

func cmdWatch(path string) {
	loader := scenario.NewLoader(path)
	defer loader.Close()

	sc, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scenario: %v\n", err)
		os.Exit(1)
	}

	rerun := func(sc *scenario.Scenario) {
		outcome, err := execute(sc)
		if err != nil {
			logging.Error("scenario run failed", "path", path, "error", err)
			return
		}
		if err := render(outcome); err != nil {
			logging.Error("report write failed", "error", err)
		}
	}

	rerun(sc)

	loader.OnChange(func(sc *scenario.Scenario) {
		logging.Info("scenario changed, re-running", "path", path)
		rerun(sc)
	})
	if err := loader.Watch(); err != nil {
		fmt.Fprintf(os.Stderr, "Error watching scenario: %v\n", err)
		os.Exit(1)
	}

	logging.Info("watching scenario", "path", path)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	for {
		select {
		case err := <-loader.Errors():
			logging.Warn("reload failed, keeping previous scenario", "path", path, "error", err)
		case <-sigs:
			logging.Info("stopping watch")
			return
		}
	}
}

// execute runs the model a scenario selects and bundles the results for
// rendering.
func execute(sc *scenario.Scenario) (*Outcome, error) {
	out := &Outcome{Name: sc.Name, Kind: sc.Kind}

	switch sc.Kind {
	case scenario.KindSingleQueue:
		cfg, err := sc.QueueConfig()
		if err != nil {
			return nil, err
		}
		res, err := queueing.RunSingle(cfg)
		if err != nil {
			return nil, err
		}
		out.Single = res
		out.Analytic = analyticReference(cfg)

	case scenario.KindTwoServerQueue:
		cfg, err := sc.TwoServerConfig()
		if err != nil {
			return nil, err
		}
		res, err := queueing.RunTwoServer(cfg)
		if err != nil {
			return nil, err
		}
		out.TwoServer = res

	case scenario.KindInventory:
		cfg, err := sc.InventoryConfig()
		if err != nil {
			return nil, err
		}
		res, err := inventory.Run(cfg)
		if err != nil {
			return nil, err
		}
		out.Inventory = res

	case scenario.KindRNGTest:
		sample, err := sc.UnitSample()
		if err != nil {
			return nil, err
		}
		chi, err := rngtest.ChiSquare(sample, sc.RNG.Intervals, sc.RNG.Alpha)
		if err != nil {
			return nil, err
		}
		auto, err := rngtest.Autocorrelation(sample, sc.RNG.Alpha)
		if err != nil {
			return nil, err
		}
		out.RNG = &RNGOutcome{Sample: sample, ChiSquare: chi, Autocorrelation: auto}

	default:
		return nil, fmt.Errorf("unsupported scenario kind %q", sc.Kind)
	}

	return out, nil
}

// analyticReference derives the steady-state M/M/1 measures implied by the
// scenario's mean interarrival and service times, for the report's
// simulated-versus-analytic block. Degenerate or unstable means yield no
// reference.
func analyticReference(cfg queueing.SingleConfig) *queueing.Measures {
	interarrival := cfg.Interarrival.Mean()
	service := cfg.Service.Mean()
	if interarrival <= 0 || service <= 0 {
		return nil
	}
	m, err := queueing.MM1(1/interarrival, 1/service)
	if err != nil {
		return nil
	}
	return &m
}
