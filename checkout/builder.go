package checkout

import (
	"errors"
	"fmt"
	"math"

	"github.com/sarchlab/checkoutsim/sim"
	"github.com/sarchlab/checkoutsim/variate"
)

// ErrInvalidParameter is returned when a simulator is built with a horizon or
// a rate that is not a finite positive number.
var ErrInvalidParameter = errors.New("invalid simulation parameter")

// Builder can build checkout simulators.
type Builder struct {
	horizon     float64
	arrivalRate float64
	serviceRate float64
	seed        uint64
	worker      int
	arrivals    variate.Source
	services    variate.Source
	hooks       []sim.Hook
}

// MakeBuilder returns a Builder with the parameters of the reference
// experiment: a horizon of 5000, 4 arrivals and 5 services per unit time.
func MakeBuilder() Builder {
	return Builder{
		horizon:     5000,
		arrivalRate: 4,
		serviceRate: 5,
	}
}

// WithHorizon sets the time at which every trial stops.
func (b Builder) WithHorizon(horizon float64) Builder {
	b.horizon = horizon
	return b
}

// WithArrivalRate sets the mean number of arrivals per unit time.
func (b Builder) WithArrivalRate(rate float64) Builder {
	b.arrivalRate = rate
	return b
}

// WithServiceRate sets the mean number of services per unit time.
func (b Builder) WithServiceRate(rate float64) Builder {
	b.serviceRate = rate
	return b
}

// WithSeed sets the seed of the default random streams.
func (b Builder) WithSeed(seed uint64) Builder {
	b.seed = seed
	return b
}

// WithWorkerIndex selects which independent pair of default streams the
// simulator owns. Simulators that run at the same time need different
// indices.
func (b Builder) WithWorkerIndex(worker int) Builder {
	b.worker = worker
	return b
}

// WithArrivalSource replaces the default interarrival stream.
func (b Builder) WithArrivalSource(s variate.Source) Builder {
	b.arrivals = s
	return b
}

// WithServiceSource replaces the default service stream.
func (b Builder) WithServiceSource(s variate.Source) Builder {
	b.services = s
	return b
}

// WithHook registers a hook on the simulator being built.
func (b Builder) WithHook(h sim.Hook) Builder {
	b.hooks = append(b.hooks[:len(b.hooks):len(b.hooks)], h)
	return b
}

// Build validates the parameters and creates a simulator.
func (b Builder) Build() (*Simulator, error) {
	if err := checkPositive("horizon", b.horizon); err != nil {
		return nil, err
	}

	if err := checkPositive("arrival rate", b.arrivalRate); err != nil {
		return nil, err
	}

	if err := checkPositive("service rate", b.serviceRate); err != nil {
		return nil, err
	}

	streams := variate.NewStreamPair(b.seed, b.worker)

	s := &Simulator{
		HookableBase: sim.NewHookableBase(),
		horizon:      sim.VTimeInSec(b.horizon),
		arrivalRate:  b.arrivalRate,
		serviceRate:  b.serviceRate,
		arrivals:     b.arrivals,
		services:     b.services,
		state:        newTrialState(),
	}

	if s.arrivals == nil {
		s.arrivals = streams.Arrival
	}

	if s.services == nil {
		s.services = streams.Service
	}

	for _, h := range b.hooks {
		s.AcceptHook(h)
	}

	return s, nil
}

func checkPositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%w: %s must be finite and positive, got %v",
			ErrInvalidParameter, name, v)
	}

	return nil
}
