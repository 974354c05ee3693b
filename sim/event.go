// Package sim provides the event primitives and the future event list that
// drive the checkout simulation.
package sim

import "fmt"

// VTimeInSec defines the time in the simulated space in the unit of second
type VTimeInSec float64

// EventKind tells what an event does when it fires.
type EventKind uint8

// The kinds of events that the checkout state machine handles.
const (
	EventArrive EventKind = iota + 1
	EventDepart
	EventStop
)

func (k EventKind) String() string {
	switch k {
	case EventArrive:
		return "Arrive"
	case EventDepart:
		return "Depart"
	case EventStop:
		return "Stop"
	default:
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
}

// An Event is something going to happen in the future. It only carries its
// kind and its time. Everything else lives in the state of the handler that
// executes it.
type Event struct {
	Kind EventKind
	Time VTimeInSec

	seq uint64
}

// NewArriveEvent creates an event that brings a new customer at t.
func NewArriveEvent(t VTimeInSec) Event {
	return Event{Kind: EventArrive, Time: t}
}

// NewDepartEvent creates an event that completes the service of the customer
// occupying the server at t.
func NewDepartEvent(t VTimeInSec) Event {
	return Event{Kind: EventDepart, Time: t}
}

// NewStopEvent creates an event that ends the trial at t.
func NewStopEvent(t VTimeInSec) Event {
	return Event{Kind: EventStop, Time: t}
}

// IsSecondary tells if the event is a secondary event. Secondary events are
// handled after all same-time primary events are handled. Only the stop event
// is secondary, so a trial always observes everything that happens exactly at
// its horizon before it ends.
func (e Event) IsSecondary() bool {
	return e.Kind == EventStop
}

func (e Event) String() string {
	return fmt.Sprintf("%s@%.10f", e.Kind, float64(e.Time))
}
