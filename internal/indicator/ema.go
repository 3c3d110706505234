package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-bars/internal/types"
)

// NewEMA describes the exponential moving average of close.
func NewEMA() Descriptor {
	return Descriptor{
		Name:    types.IndicatorTypeEMA,
		Inputs:  []Field{FieldClose},
		Period:  PeriodParam{Tunable: true, Default: 30, Min: 2},
		Outputs: []string{"real"},
		Compute: func(in Inputs, period int) ([][]float64, error) {
			return single(EMA(in[FieldClose], period)), nil
		},
	}
}

// NewDEMA describes the double exponential moving average of close.
func NewDEMA() Descriptor {
	return Descriptor{
		Name:    types.IndicatorTypeDEMA,
		Inputs:  []Field{FieldClose},
		Period:  PeriodParam{Tunable: true, Default: 30, Min: 2},
		Outputs: []string{"real"},
		Compute: func(in Inputs, period int) ([][]float64, error) {
			return single(DEMA(in[FieldClose], period)), nil
		},
	}
}

// EMA is seeded with the simple average of the first period values, so the
// first value appears at index period-1 (counted from the first non-NaN input).
func EMA(values []float64, period int) []float64 {
	return emaAt(values, period, firstValid(values)+period-1)
}

// DEMA is 2*EMA - EMA(EMA).
func DEMA(values []float64, period int) []float64 {
	ema1 := EMA(values, period)
	ema2 := EMA(ema1, period)

	out := nanSeries(len(values))
	for i := range out {
		out[i] = 2*ema1[i] - ema2[i]
	}

	return out
}

// emaAt computes an EMA whose first value, at index start, is the mean of the
// period values ending there.
func emaAt(values []float64, period, start int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || start < period-1 || start >= len(values) {
		return out
	}

	sum := 0.0
	for i := start - period + 1; i <= start; i++ {
		sum += values[i]
	}

	prev := sum / float64(period)
	out[start] = prev

	k := 2.0 / float64(period+1)

	for i := start + 1; i < len(values); i++ {
		prev = (values[i]-prev)*k + prev
		out[i] = prev
	}

	return out
}

func firstValid(values []float64) int {
	for i, v := range values {
		if !math.IsNaN(v) {
			return i
		}
	}

	return len(values)
}
