package indicator

import (
	"github.com/rxtech-lab/argo-bars/internal/types"
)

// NewSMA describes the simple moving average of close.
func NewSMA() Descriptor {
	return Descriptor{
		Name:    types.IndicatorTypeSMA,
		Inputs:  []Field{FieldClose},
		Period:  PeriodParam{Tunable: true, Default: 30, Min: 2},
		Outputs: []string{"real"},
		Compute: func(in Inputs, period int) ([][]float64, error) {
			return single(SMA(in[FieldClose], period)), nil
		},
	}
}

// NewWMA describes the linearly weighted moving average of close.
func NewWMA() Descriptor {
	return Descriptor{
		Name:    types.IndicatorTypeWMA,
		Inputs:  []Field{FieldClose},
		Period:  PeriodParam{Tunable: true, Default: 30, Min: 2},
		Outputs: []string{"real"},
		Compute: func(in Inputs, period int) ([][]float64, error) {
			return single(WMA(in[FieldClose], period)), nil
		},
	}
}

// SMA returns the rolling mean over period values. The first period-1 positions are NaN.
func SMA(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	sum := 0.0

	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}

		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}

	return out
}

// WMA weights the newest value by period and the oldest by 1.
func WMA(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	divisor := float64(period*(period+1)) / 2

	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		for w := 1; w <= period; w++ {
			sum += values[i-period+w] * float64(w)
		}

		out[i] = sum / divisor
	}

	return out
}
