package indicator

import (
	"github.com/rxtech-lab/argo-bars/internal/types"
)

// NewOBV describes on-balance volume. It has no period.
func NewOBV() Descriptor {
	return Descriptor{
		Name:    types.IndicatorTypeOBV,
		Inputs:  []Field{FieldClose, FieldVolume},
		Period:  PeriodParam{Tunable: false},
		Outputs: []string{"real"},
		Compute: func(in Inputs, _ int) ([][]float64, error) {
			return single(OBV(in[FieldClose], in[FieldVolume])), nil
		},
	}
}

// OBV starts at the first volume and adds or subtracts volume as close rises or falls.
func OBV(closes, volume []float64) []float64 {
	out := make([]float64, len(closes))
	if len(closes) == 0 {
		return out
	}

	obv := volume[0]
	out[0] = obv

	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			obv += volume[i]
		case closes[i] < closes[i-1]:
			obv -= volume[i]
		}

		out[i] = obv
	}

	return out
}
