package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-bars/internal/types"
)

// NewSTDDEV describes the rolling population standard deviation of close.
func NewSTDDEV() Descriptor {
	return Descriptor{
		Name:    types.IndicatorTypeSTDDEV,
		Inputs:  []Field{FieldClose},
		Period:  PeriodParam{Tunable: true, Default: 5, Min: 2},
		Outputs: []string{"real"},
		Compute: func(in Inputs, period int) ([][]float64, error) {
			return single(STDDEV(in[FieldClose], period, 1)), nil
		},
	}
}

// NewMAX describes the highest close over the period.
func NewMAX() Descriptor {
	return Descriptor{
		Name:    types.IndicatorTypeMAX,
		Inputs:  []Field{FieldClose},
		Period:  PeriodParam{Tunable: true, Default: 30, Min: 2},
		Outputs: []string{"real"},
		Compute: func(in Inputs, period int) ([][]float64, error) {
			return single(MAX(in[FieldClose], period)), nil
		},
	}
}

// NewMIN describes the lowest close over the period.
func NewMIN() Descriptor {
	return Descriptor{
		Name:    types.IndicatorTypeMIN,
		Inputs:  []Field{FieldClose},
		Period:  PeriodParam{Tunable: true, Default: 30, Min: 2},
		Outputs: []string{"real"},
		Compute: func(in Inputs, period int) ([][]float64, error) {
			return single(MIN(in[FieldClose], period)), nil
		},
	}
}

// STDDEV returns the population standard deviation over period values, scaled by deviations.
func STDDEV(values []float64, period int, deviations float64) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	mean := SMA(values, period)

	for i := period - 1; i < len(values); i++ {
		sumSq := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := values[j] - mean[i]
			sumSq += d * d
		}

		out[i] = math.Sqrt(sumSq/float64(period)) * deviations
	}

	return out
}

// MAX returns the rolling maximum.
func MAX(values []float64, period int) []float64 {
	return rollingExtreme(values, period, func(a, b float64) bool { return a > b })
}

// MIN returns the rolling minimum.
func MIN(values []float64, period int) []float64 {
	return rollingExtreme(values, period, func(a, b float64) bool { return a < b })
}

func rollingExtreme(values []float64, period int, better func(a, b float64) bool) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	for i := period - 1; i < len(values); i++ {
		best := values[i-period+1]
		for j := i - period + 2; j <= i; j++ {
			if better(values[j], best) {
				best = values[j]
			}
		}

		out[i] = best
	}

	return out
}
