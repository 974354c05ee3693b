// Package analysis summarizes the statistic series produced by a batch and
// compares them with the closed-form M/M/1 results.
package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Summary describes one series of trial statistics. NaN values are counted
// but left out of every other field.
type Summary struct {
	Count    int
	NaNCount int
	Mean     float64
	StdDev   float64
	StdErr   float64
	CI95     float64
	Min      float64
	Max      float64
	Median   float64
}

var z975 = distuv.UnitNormal.Quantile(0.975)

// Summarize computes the summary of values. Fields that need more values
// than available are NaN.
func Summarize(values []float64) Summary {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}

	s := Summary{
		Count:    len(finite),
		NaNCount: len(values) - len(finite),
		Mean:     math.NaN(),
		StdDev:   math.NaN(),
		StdErr:   math.NaN(),
		CI95:     math.NaN(),
		Min:      math.NaN(),
		Max:      math.NaN(),
		Median:   math.NaN(),
	}

	if s.Count == 0 {
		return s
	}

	sort.Float64s(finite)

	s.Min = floats.Min(finite)
	s.Max = floats.Max(finite)
	s.Median = stat.Quantile(0.5, stat.Empirical, finite, nil)

	if s.Count == 1 {
		s.Mean = finite[0]
		return s
	}

	s.Mean, s.StdDev = stat.MeanStdDev(finite, nil)
	s.StdErr = stat.StdErr(s.StdDev, float64(s.Count))
	s.CI95 = z975 * s.StdErr

	return s
}

// Contains tells if x lies inside the 95% confidence interval of the mean.
func (s Summary) Contains(x float64) bool {
	return math.Abs(x-s.Mean) <= s.CI95
}
