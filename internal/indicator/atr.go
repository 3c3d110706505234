package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-bars/internal/types"
)

// NewATR describes the average true range.
func NewATR() Descriptor {
	return Descriptor{
		Name:    types.IndicatorTypeATR,
		Inputs:  []Field{FieldHigh, FieldLow, FieldClose},
		Period:  PeriodParam{Tunable: true, Default: 14, Min: 1},
		Outputs: []string{"real"},
		Compute: func(in Inputs, period int) ([][]float64, error) {
			return single(ATR(in[FieldHigh], in[FieldLow], in[FieldClose], period)), nil
		},
	}
}

// TrueRange needs the previous close, so index 0 is NaN.
func TrueRange(high, low, closes []float64) []float64 {
	out := nanSeries(len(closes))

	for i := 1; i < len(closes); i++ {
		prevClose := closes[i-1]
		out[i] = math.Max(high[i]-low[i], math.Max(math.Abs(high[i]-prevClose), math.Abs(low[i]-prevClose)))
	}

	return out
}

// ATR starts at index period with the mean of the first period true ranges and
// continues with Wilder smoothing. A period of 1 is the true range itself.
func ATR(high, low, closes []float64, period int) []float64 {
	tr := TrueRange(high, low, closes)
	if period == 1 {
		return tr
	}

	n := len(closes)

	out := nanSeries(n)
	if period <= 0 || n <= period {
		return out
	}

	p := float64(period)

	prev := 0.0
	for i := 1; i <= period; i++ {
		prev += tr[i]
	}

	prev /= p
	out[period] = prev

	for i := period + 1; i < n; i++ {
		prev = (prev*(p-1) + tr[i]) / p
		out[i] = prev
	}

	return out
}
