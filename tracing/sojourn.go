// Package tracing records what happens to individual customers during a
// trial.
package tracing

import (
	"github.com/sarchlab/checkoutsim/queueing"
	"github.com/sarchlab/checkoutsim/sim"
)

// A Departure describes one served customer.
type Departure struct {
	ArrivalTime   float64
	DepartureTime float64
	SojournTime   float64
}

// SojournTracer is a hook that collects the departures of the current trial.
// It forgets everything when a new trial starts.
type SojournTracer struct {
	departures []Departure
	total      float64
}

// NewSojournTracer creates a new SojournTracer.
func NewSojournTracer() *SojournTracer {
	return &SojournTracer{}
}

// Func records departures and resets at the beginning of each trial.
func (t *SojournTracer) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case sim.HookPosTrialStart:
		t.departures = nil
		t.total = 0
	case sim.HookPosCustomerDeparted:
		c := ctx.Item.(queueing.Customer)
		sojourn := ctx.Detail.(float64)

		t.departures = append(t.departures, Departure{
			ArrivalTime:   float64(c.ArrivalTime),
			DepartureTime: float64(ctx.Now),
			SojournTime:   sojourn,
		})
		t.total += sojourn
	}
}

// Departures returns the departures of the current trial in time order.
func (t *SojournTracer) Departures() []Departure {
	return t.departures
}

// Count returns the number of departures in the current trial.
func (t *SojournTracer) Count() int {
	return len(t.departures)
}

// AverageSojournTime returns the mean sojourn time of the recorded
// departures, or 0 if there is none.
func (t *SojournTracer) AverageSojournTime() float64 {
	if len(t.departures) == 0 {
		return 0
	}

	return t.total / float64(len(t.departures))
}
