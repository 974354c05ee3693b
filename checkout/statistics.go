package checkout

import "math"

// Statistics are the cumulative counters of one trial.
type Statistics struct {
	// Served is the number of customers that completed service.
	Served int

	// SystemTimeTotal is the sum of the sojourn times of served customers.
	SystemTimeTotal float64

	// BusyTime is the time during which the server was occupied.
	BusyTime float64

	// CustomerTimeArea is the integral of the number of customers in the
	// system over time.
	CustomerTimeArea float64
}

// accumulate integrates the state that held for duration.
func (s *Statistics) accumulate(duration float64, serving, waiting int) {
	s.BusyTime += duration * float64(serving)
	s.CustomerTimeArea += duration * float64(serving+waiting)
}

func (s *Statistics) recordDeparture(sojourn float64) {
	s.Served++
	s.SystemTimeTotal += sojourn
}

func (s Statistics) result(horizon float64) Result {
	meanSystemTime := math.NaN()
	if s.Served > 0 {
		meanSystemTime = s.SystemTimeTotal / float64(s.Served)
	}

	return Result{
		Utilisation:           s.BusyTime / horizon,
		MeanCustomersInSystem: s.CustomerTimeArea / horizon,
		MeanSystemTime:        meanSystemTime,
	}
}

// Result holds the statistics that a trial reports.
type Result struct {
	// Utilisation is the fraction of the horizon the server was busy.
	Utilisation float64

	// MeanCustomersInSystem is the time-average number of customers in the
	// system.
	MeanCustomersInSystem float64

	// MeanSystemTime is the customer-average sojourn time. It is NaN when no
	// customer was served.
	MeanSystemTime float64
}

// Triple returns the three statistics in their fixed order: utilisation,
// mean customers in system, mean system time.
func (r Result) Triple() [3]float64 {
	return [3]float64{r.Utilisation, r.MeanCustomersInSystem, r.MeanSystemTime}
}
