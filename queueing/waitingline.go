// Package queueing provides the customers and the waiting line of the
// checkout.
package queueing

import "github.com/sarchlab/checkoutsim/sim"

// HookPosBufPush marks when a customer joins the waiting line.
var HookPosBufPush = &sim.HookPos{Name: "Buffer Push"}

// HookPosBufPop marks when a customer leaves the waiting line for the server.
var HookPosBufPop = &sim.HookPos{Name: "Buf Pop"}

// A Customer is created when it arrives and discarded when it departs.
type Customer struct {
	ArrivalTime sim.VTimeInSec
}

// SojournTime returns the time that the customer spends in the system if it
// departs at now.
func (c Customer) SojournTime(now sim.VTimeInSec) float64 {
	return float64(now - c.ArrivalTime)
}

// WaitingLine is an unbounded FIFO queue of customers that are not being
// served yet.
type WaitingLine struct {
	sim.HookableBase

	customers []Customer
	head      int
}

// NewWaitingLine creates an empty waiting line.
func NewWaitingLine() *WaitingLine {
	return &WaitingLine{}
}

// Push adds a customer to the tail of the line.
func (l *WaitingLine) Push(c Customer) {
	l.customers = append(l.customers, c)

	if l.NumHooks() > 0 {
		l.InvokeHook(sim.HookCtx{
			Domain: l,
			Now:    c.ArrivalTime,
			Pos:    HookPosBufPush,
			Item:   c,
		})
	}
}

// Pop removes and returns the customer at the head of the line. The second
// return value is false if the line is empty.
func (l *WaitingLine) Pop() (Customer, bool) {
	if l.Size() == 0 {
		return Customer{}, false
	}

	c := l.customers[l.head]
	l.head++

	if l.head == len(l.customers) {
		l.customers = l.customers[:0]
		l.head = 0
	}

	if l.NumHooks() > 0 {
		l.InvokeHook(sim.HookCtx{
			Domain: l,
			Pos:    HookPosBufPop,
			Item:   c,
		})
	}

	return c, true
}

// Peek returns the customer at the head of the line without removing it.
func (l *WaitingLine) Peek() (Customer, bool) {
	if l.Size() == 0 {
		return Customer{}, false
	}

	return l.customers[l.head], true
}

// Size returns the number of waiting customers.
func (l *WaitingLine) Size() int {
	return len(l.customers) - l.head
}

// Clear removes all the customers.
func (l *WaitingLine) Clear() {
	l.customers = l.customers[:0]
	l.head = 0
}
