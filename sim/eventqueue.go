package sim

import (
	"container/heap"
)

// EventQueue is the future event list. It returns events ordered by time.
// Among events with the same time, primary events come before secondary
// events, and the remaining ties are resolved by insertion order.
//
// An EventQueue is owned by a single trial and is not safe for concurrent use.
type EventQueue struct {
	events  eventHeap
	nextSeq uint64
}

// NewEventQueue creates and returns a newly created EventQueue
func NewEventQueue() *EventQueue {
	q := new(EventQueue)
	q.events = make(eventHeap, 0, 4)
	heap.Init(&q.events)
	return q
}

// Push adds an event to the event queue
func (q *EventQueue) Push(evt Event) {
	evt.seq = q.nextSeq
	q.nextSeq++
	heap.Push(&q.events, evt)
}

// Pop removes and returns the next earliest event. The second return value is
// false if the queue is empty.
func (q *EventQueue) Pop() (Event, bool) {
	if q.events.Len() == 0 {
		return Event{}, false
	}

	return heap.Pop(&q.events).(Event), true
}

// Peek returns the event in front of the queue without removing it from the
// queue
func (q *EventQueue) Peek() (Event, bool) {
	if q.events.Len() == 0 {
		return Event{}, false
	}

	return q.events[0], true
}

// Len returns the number of event in the queue
func (q *EventQueue) Len() int {
	return q.events.Len()
}

// IsEmpty returns true if there is no pending event.
func (q *EventQueue) IsEmpty() bool {
	return q.events.Len() == 0
}

// Clear discards all the pending events. The insertion counter keeps running
// so that ordering stays consistent if the queue is reused.
func (q *EventQueue) Clear() {
	clear(q.events)
	q.events = q.events[:0]
}

type eventHeap []Event

// Len returns the length of the event queue
func (h eventHeap) Len() int {
	return len(h)
}

// Less determines the order between two events. Less returns true if the i-th
// event happens before the j-th event.
func (h eventHeap) Less(i, j int) bool {
	a, b := h[i], h[j]

	if a.Time != b.Time {
		return a.Time < b.Time
	}

	if a.IsSecondary() != b.IsSecondary() {
		return !a.IsSecondary()
	}

	return a.seq < b.seq
}

// Swap changes the position of two events in the event queue
func (h eventHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

// Push adds an event into the event queue
func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(Event))
}

// Pop removes and returns the next event to happen
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	event := old[n-1]
	*h = old[0 : n-1]
	return event
}
