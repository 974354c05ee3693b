// Package checkout simulates a single-server checkout with an unbounded FIFO
// waiting line.
package checkout

import (
	"log"

	"github.com/sarchlab/checkoutsim/queueing"
	"github.com/sarchlab/checkoutsim/sim"
	"github.com/sarchlab/checkoutsim/variate"
)

// Snapshot describes the state of a simulator at a given moment.
type Snapshot struct {
	Busy        bool
	WaitingLine int
	Pending     int
	Statistics  Statistics
}

// A Simulator runs independent trials of the checkout. Consecutive trials
// share the random streams of the simulator; nothing else survives a trial.
//
// A Simulator must not be used by more than one goroutine.
type Simulator struct {
	*sim.HookableBase

	horizon     sim.VTimeInSec
	arrivalRate float64
	serviceRate float64
	arrivals    variate.Source
	services    variate.Source

	state  *trialState
	trials int
}

type trialState struct {
	current      *queueing.Customer
	line         *queueing.WaitingLine
	fel          *sim.EventQueue
	now          sim.VTimeInSec
	previousTime sim.VTimeInSec
	stopped      bool
	stats        Statistics
}

func newTrialState() *trialState {
	return &trialState{
		line: queueing.NewWaitingLine(),
		fel:  sim.NewEventQueue(),
	}
}

func (s *trialState) reset() {
	s.current = nil
	s.line.Clear()
	s.fel.Clear()
	s.now = 0
	s.previousTime = 0
	s.stopped = false
	s.stats = Statistics{}
}

func (s *trialState) serving() int {
	if s.current == nil {
		return 0
	}

	return 1
}

func (s *trialState) snapshot() Snapshot {
	return Snapshot{
		Busy:        s.current != nil,
		WaitingLine: s.line.Size(),
		Pending:     s.fel.Len(),
		Statistics:  s.stats,
	}
}

// Horizon returns the time at which every trial stops.
func (s *Simulator) Horizon() float64 {
	return float64(s.horizon)
}

// ArrivalRate returns the mean number of arrivals per unit time.
func (s *Simulator) ArrivalRate() float64 {
	return s.arrivalRate
}

// ServiceRate returns the mean number of services per unit time.
func (s *Simulator) ServiceRate() float64 {
	return s.serviceRate
}

// TrialsRun returns how many trials have completed on this simulator.
func (s *Simulator) TrialsRun() int {
	return s.trials
}

// LastStatistics returns the counters of the most recent trial.
func (s *Simulator) LastStatistics() Statistics {
	return s.state.stats
}

// WaitingLine exposes the waiting line so that hooks can be attached to it.
func (s *Simulator) WaitingLine() *queueing.WaitingLine {
	return s.state.line
}

// RunTrial simulates from time 0 to the horizon and returns the statistics of
// the trial.
func (s *Simulator) RunTrial() Result {
	st := s.state
	st.reset()

	s.invokeHook(sim.HookPosTrialStart, st.snapshot(), nil)

	first := s.sample(s.arrivals, s.arrivalRate)
	s.schedule(sim.NewArriveEvent(sim.VTimeInSec(first)))
	s.schedule(sim.NewStopEvent(s.horizon))

	for {
		evt, ok := st.fel.Pop()
		if !ok {
			break
		}

		if evt.Time < st.previousTime {
			log.Panicf("cannot run event in the past, evt %s, now %.10f",
				evt, st.previousTime)
		}

		st.now = evt.Time
		st.stats.accumulate(
			float64(evt.Time-st.previousTime),
			st.serving(),
			st.line.Size(),
		)

		s.invokeHook(sim.HookPosBeforeEvent, evt, nil)
		s.handle(evt)
		s.invokeHook(sim.HookPosAfterEvent, evt, nil)

		st.previousTime = evt.Time
	}

	result := st.stats.result(float64(s.horizon))
	s.trials++

	s.invokeHook(sim.HookPosTrialEnd, result, st.stats)

	return result
}

func (s *Simulator) handle(evt sim.Event) {
	switch evt.Kind {
	case sim.EventArrive:
		s.arrive(evt.Time)
	case sim.EventDepart:
		s.depart(evt.Time)
	case sim.EventStop:
		s.stop()
	default:
		log.Panicf("unknown event kind %s", evt.Kind)
	}
}

func (s *Simulator) arrive(now sim.VTimeInSec) {
	st := s.state

	next := now + sim.VTimeInSec(s.sample(s.arrivals, s.arrivalRate))
	s.schedule(sim.NewArriveEvent(next))

	customer := queueing.Customer{ArrivalTime: now}
	if st.current == nil {
		s.startService(customer, now)
		return
	}

	st.line.Push(customer)
}

func (s *Simulator) depart(now sim.VTimeInSec) {
	st := s.state

	if st.current == nil {
		log.Panicf("departure at %.10f with no customer in service", now)
	}

	departing := *st.current
	sojourn := departing.SojournTime(now)
	st.stats.recordDeparture(sojourn)
	s.invokeHook(sim.HookPosCustomerDeparted, departing, sojourn)

	next, ok := st.line.Pop()
	if !ok {
		st.current = nil
		return
	}

	s.startService(next, now)
}

func (s *Simulator) startService(c queueing.Customer, now sim.VTimeInSec) {
	s.state.current = &c

	done := now + sim.VTimeInSec(s.sample(s.services, s.serviceRate))
	s.schedule(sim.NewDepartEvent(done))
}

// stop ends the trial. A customer still in service is abandoned and does not
// count as served.
func (s *Simulator) stop() {
	s.state.fel.Clear()
	s.state.stopped = true
}

func (s *Simulator) schedule(evt sim.Event) {
	st := s.state

	if st.stopped {
		log.Panicf("scheduling %s after the trial stopped", evt)
	}

	if evt.Time < st.now {
		log.Panicf("scheduling an event earlier than current time, evt %s, "+
			"now %.10f", evt, st.now)
	}

	st.fel.Push(evt)
}

func (s *Simulator) sample(src variate.Source, rate float64) float64 {
	x, err := src.Sample(rate)
	if err != nil {
		log.Panic(err)
	}

	if x < 0 {
		log.Panicf("negative variate %v", x)
	}

	return x
}

func (s *Simulator) invokeHook(pos *sim.HookPos, item, detail any) {
	if s.NumHooks() == 0 {
		return
	}

	s.InvokeHook(sim.HookCtx{
		Domain: s,
		Now:    s.state.now,
		Pos:    pos,
		Item:   item,
		Detail: detail,
	})
}
