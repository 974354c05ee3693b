package analysis

import "math"

// Theory holds the steady-state measures of an M/M/1 queue.
type Theory struct {
	Utilisation           float64
	MeanCustomersInSystem float64
	MeanSystemTime        float64
	Stable                bool
}

// MM1Theory returns the closed-form steady state of an M/M/1 queue with the
// given rates. When the arrival rate is not below the service rate there is
// no steady state; the means are then +Inf and Stable is false.
func MM1Theory(arrivalRate, serviceRate float64) Theory {
	rho := arrivalRate / serviceRate

	if rho >= 1 {
		return Theory{
			Utilisation:           1,
			MeanCustomersInSystem: math.Inf(1),
			MeanSystemTime:        math.Inf(1),
		}
	}

	return Theory{
		Utilisation:           rho,
		MeanCustomersInSystem: rho / (1 - rho),
		MeanSystemTime:        1 / (serviceRate - arrivalRate),
		Stable:                true,
	}
}
