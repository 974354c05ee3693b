// Package variate provides the random variate streams that feed the checkout
// simulation.
//
// A stream is a long-lived handle. Every trial that runs on the same
// simulator continues the stream where the previous trial left it, so a batch
// of trials is a long stream cut into trial-sized windows. Simulators that run
// concurrently must each own their own streams.
package variate

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidRate is returned when a rate is not a finite positive number.
var ErrInvalidRate = errors.New("rate must be finite and positive")

// A Source draws exponentially distributed samples.
type Source interface {
	// Sample returns a nonnegative sample with mean 1/rate.
	Sample(rate float64) (float64, error)
}

// CheckRate returns an error wrapping ErrInvalidRate if the rate cannot
// parameterize an exponential distribution.
func CheckRate(rate float64) error {
	if math.IsNaN(rate) || math.IsInf(rate, 0) || rate <= 0 {
		return fmt.Errorf("%w, got %v", ErrInvalidRate, rate)
	}

	return nil
}

// Exponential is a pseudorandom exponential stream. It is not safe for
// concurrent use.
type Exponential struct {
	rng *rand.Rand
}

// NewExponential creates a stream that draws its uniforms from src.
func NewExponential(src rand.Source) *Exponential {
	return &Exponential{rng: rand.New(src)}
}

// Sample draws by inverting the exponential CDF at a uniform sample.
func (e *Exponential) Sample(rate float64) (float64, error) {
	if err := CheckRate(rate); err != nil {
		return 0, err
	}

	d := distuv.Exponential{Rate: rate}

	return d.Quantile(e.rng.Float64()), nil
}

// The two streams that one simulator owns.
const (
	streamArrival uint64 = iota
	streamService
)

// StreamPair holds the interarrival and service streams of one simulator.
type StreamPair struct {
	Arrival *Exponential
	Service *Exponential
}

// NewStreamPair derives the streams of the given worker from a base seed.
// Pairs built with the same seed but different workers are independent of
// each other, and so are the two streams inside a pair.
func NewStreamPair(seed uint64, worker int) StreamPair {
	return StreamPair{
		Arrival: NewExponential(newPCG(seed, worker, streamArrival)),
		Service: NewExponential(newPCG(seed, worker, streamService)),
	}
}

func newPCG(seed uint64, worker int, stream uint64) *rand.PCG {
	id := uint64(worker)<<1 | stream

	return rand.NewPCG(splitmix64(seed^id), splitmix64(id+0x9e3779b97f4a7c15))
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb

	return x ^ (x >> 31)
}

// Constant is a stub source that always returns the same value. It is used
// to replay hand-computed scenarios.
type Constant float64

// Sample returns the constant after validating the rate.
func (c Constant) Sample(rate float64) (float64, error) {
	if err := CheckRate(rate); err != nil {
		return 0, err
	}

	return float64(c), nil
}
