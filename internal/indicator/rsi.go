package indicator

import (
	"github.com/rxtech-lab/argo-bars/internal/types"
)

// NewRSI describes Wilder's relative strength index of close.
func NewRSI() Descriptor {
	return Descriptor{
		Name:    types.IndicatorTypeRSI,
		Inputs:  []Field{FieldClose},
		Period:  PeriodParam{Tunable: true, Default: 14, Min: 2},
		Outputs: []string{"real"},
		Compute: func(in Inputs, period int) ([][]float64, error) {
			return single(RSI(in[FieldClose], period)), nil
		},
	}
}

// RSI uses Wilder smoothing. The first value is at index period.
// A window without any movement yields 0.
func RSI(values []float64, period int) []float64 {
	n := len(values)

	out := nanSeries(n)
	if period <= 0 || n <= period {
		return out
	}

	p := float64(period)

	var avgGain, avgLoss float64

	for i := 1; i <= period; i++ {
		gain, loss := change(values[i-1], values[i])
		avgGain += gain
		avgLoss += loss
	}

	avgGain /= p
	avgLoss /= p
	out[period] = rsiValue(avgGain, avgLoss)

	for i := period + 1; i < n; i++ {
		gain, loss := change(values[i-1], values[i])
		avgGain = (avgGain*(p-1) + gain) / p
		avgLoss = (avgLoss*(p-1) + loss) / p
		out[i] = rsiValue(avgGain, avgLoss)
	}

	return out
}

func change(prev, cur float64) (gain, loss float64) {
	diff := cur - prev
	if diff > 0 {
		return diff, 0
	}

	return 0, -diff
}

func rsiValue(avgGain, avgLoss float64) float64 {
	total := avgGain + avgLoss
	if total == 0 {
		return 0
	}

	return 100 * avgGain / total
}
