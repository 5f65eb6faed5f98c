package queueing

import (
	"errors"
	"fmt"

	"simlab/internal/dist"
)

// ErrUnstableSystem is returned when the arrival rate reaches the combined
// service capacity, so the queue has no steady state.
var ErrUnstableSystem = errors.New("arrival rate reaches service capacity")

// Measures are the steady-state quantities of a Markovian queue with
// arrival rate lambda and per-server service rate mu.
type Measures struct {
	Rho float64 `json:"rho"` // per-server utilization
	P0  float64 `json:"p0"`  // probability the system is empty
	L   float64 `json:"l"`   // mean number in system
	Lq  float64 `json:"lq"`  // mean number in queue
	W   float64 `json:"w"`   // mean time in system
	Wq  float64 `json:"wq"`  // mean time in queue
}

// MM1 returns the steady-state measures of the single-server Markovian
// queue. Requires lambda < mu.
func MM1(lambda, mu float64) (Measures, error) {
	return MMC(lambda, mu, 1)
}

// MMC returns the steady-state measures of a Markovian queue with the given
// number of identical servers, using the Erlang C waiting probability.
// Requires lambda < servers*mu; at or past that load the backlog grows
// without bound and ErrUnstableSystem is returned.
func MMC(lambda, mu float64, servers int) (Measures, error) {
	if lambda <= 0 || mu <= 0 {
		return Measures{}, fmt.Errorf("%w: rates lambda=%g mu=%g must be positive", dist.ErrInvalidParameter, lambda, mu)
	}
	if servers < 1 {
		return Measures{}, fmt.Errorf("%w: server count %d", dist.ErrInvalidParameter, servers)
	}
	capacity := float64(servers) * mu
	if lambda >= capacity {
		return Measures{}, fmt.Errorf("%w: lambda %g against capacity %g", ErrUnstableSystem, lambda, capacity)
	}

	a := lambda / mu // offered load in Erlangs
	rho := a / float64(servers)

	// P0 = 1 / (sum_{n<c} a^n/n! + a^c/(c!(1-rho)))
	sum := 0.0
	term := 1.0 // runs through a^n/n!
	for n := 0; n < servers; n++ {
		sum += term
		term *= a / float64(n+1)
	}
	p0 := 1 / (sum + term/(1-rho))

	// Erlang C: probability an arrival has to wait.
	pWait := term / (1 - rho) * p0

	lq := pWait * rho / (1 - rho)
	wq := lq / lambda

	return Measures{
		Rho: rho,
		P0:  p0,
		L:   lq + a,
		Lq:  lq,
		W:   wq + 1/mu,
		Wq:  wq,
	}, nil
}
