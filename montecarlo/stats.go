package montecarlo

import (
	"fmt"
	"math"
)

// Mean returns the arithmetic mean of values; an empty slice is
// ErrInvalidArgument.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("mean of no values: %w", ErrInvalidArgument)
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values)), nil
}

// Summarize reduces values to an Aggregate. Trials is set to len(values);
// an empty input gives the zero Aggregate.
func Summarize(values []float64) Aggregate {
	agg := Aggregate{Values: values, Trials: len(values)}
	if len(values) == 0 {
		return agg
	}

	agg.Mean, _ = Mean(values)
	agg.Min, agg.Max = values[0], values[0]
	for _, v := range values[1:] {
		agg.Min = math.Min(agg.Min, v)
		agg.Max = math.Max(agg.Max, v)
	}
	if len(values) > 1 {
		ss := 0.0
		for _, v := range values {
			d := v - agg.Mean
			ss += d * d
		}
		agg.StdDev = math.Sqrt(ss / float64(len(values)-1))
	}

	return agg
}
