package indicator

import (
	"github.com/rxtech-lab/argo-bars/internal/types"
)

const cciConstant = 0.015

// NewMOM describes momentum of close.
func NewMOM() Descriptor {
	return Descriptor{
		Name:    types.IndicatorTypeMOM,
		Inputs:  []Field{FieldClose},
		Period:  PeriodParam{Tunable: true, Default: 10, Min: 1},
		Outputs: []string{"real"},
		Compute: func(in Inputs, period int) ([][]float64, error) {
			return single(MOM(in[FieldClose], period)), nil
		},
	}
}

// NewROC describes the rate of change of close in percent.
func NewROC() Descriptor {
	return Descriptor{
		Name:    types.IndicatorTypeROC,
		Inputs:  []Field{FieldClose},
		Period:  PeriodParam{Tunable: true, Default: 10, Min: 1},
		Outputs: []string{"real"},
		Compute: func(in Inputs, period int) ([][]float64, error) {
			return single(ROC(in[FieldClose], period)), nil
		},
	}
}

// NewWILLR describes Williams' %R.
func NewWILLR() Descriptor {
	return Descriptor{
		Name:    types.IndicatorTypeWILLR,
		Inputs:  []Field{FieldHigh, FieldLow, FieldClose},
		Period:  PeriodParam{Tunable: true, Default: 14, Min: 2},
		Outputs: []string{"real"},
		Compute: func(in Inputs, period int) ([][]float64, error) {
			return single(WILLR(in[FieldHigh], in[FieldLow], in[FieldClose], period)), nil
		},
	}
}

// NewCCI describes the commodity channel index.
func NewCCI() Descriptor {
	return Descriptor{
		Name:    types.IndicatorTypeCCI,
		Inputs:  []Field{FieldHigh, FieldLow, FieldClose},
		Period:  PeriodParam{Tunable: true, Default: 14, Min: 2},
		Outputs: []string{"real"},
		Compute: func(in Inputs, period int) ([][]float64, error) {
			return single(CCI(in[FieldHigh], in[FieldLow], in[FieldClose], period)), nil
		},
	}
}

// MOM is values[i] - values[i-period].
func MOM(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 {
		return out
	}

	for i := period; i < len(values); i++ {
		out[i] = values[i] - values[i-period]
	}

	return out
}

// ROC is ((values[i] / values[i-period]) - 1) * 100, or 0 when the base is 0.
func ROC(values []float64, period int) []float64 {
	out := nanSeries(len(values))
	if period <= 0 {
		return out
	}

	for i := period; i < len(values); i++ {
		base := values[i-period]
		if base == 0 {
			out[i] = 0

			continue
		}

		out[i] = (values[i]/base - 1) * 100
	}

	return out
}

// WILLR ranges from -100 (close at the low) to 0 (close at the high).
func WILLR(high, low, closes []float64, period int) []float64 {
	n := len(closes)

	out := nanSeries(n)
	if period <= 0 || n < period {
		return out
	}

	highest := MAX(high, period)
	lowest := MIN(low, period)

	for i := period - 1; i < n; i++ {
		diff := highest[i] - lowest[i]
		if diff == 0 {
			out[i] = 0

			continue
		}

		out[i] = (highest[i] - closes[i]) / diff * -100
	}

	return out
}

// CCI compares the typical price to its moving average, scaled by mean deviation.
func CCI(high, low, closes []float64, period int) []float64 {
	n := len(closes)

	out := nanSeries(n)
	if period <= 0 || n < period {
		return out
	}

	typical := make([]float64, n)
	for i := range closes {
		typical[i] = (high[i] + low[i] + closes[i]) / 3
	}

	mean := SMA(typical, period)

	for i := period - 1; i < n; i++ {
		deviation := 0.0
		for j := i - period + 1; j <= i; j++ {
			d := typical[j] - mean[i]
			if d < 0 {
				d = -d
			}

			deviation += d
		}

		deviation /= float64(period)
		distance := typical[i] - mean[i]

		if deviation == 0 || distance == 0 {
			out[i] = 0

			continue
		}

		out[i] = distance / (cciConstant * deviation)
	}

	return out
}
