package indicator

import (
	"github.com/rxtech-lab/argo-bars/internal/types"
)

const bollingerDeviations = 2.0

// NewBollingerBands describes BBANDS over close with two standard deviations.
func NewBollingerBands() Descriptor {
	return Descriptor{
		Name:    types.IndicatorTypeBBANDS,
		Inputs:  []Field{FieldClose},
		Period:  PeriodParam{Tunable: true, Default: 5, Min: 2},
		Outputs: []string{"upperband", "middleband", "lowerband"},
		Compute: func(in Inputs, period int) ([][]float64, error) {
			upper, middle, lower := BollingerBands(in[FieldClose], period, bollingerDeviations, bollingerDeviations)

			return [][]float64{upper, middle, lower}, nil
		},
	}
}

// BollingerBands returns SMA ± deviations * population standard deviation.
func BollingerBands(values []float64, period int, devUp, devDown float64) (upper, middle, lower []float64) {
	n := len(values)
	upper, lower = nanSeries(n), nanSeries(n)
	middle = SMA(values, period)
	std := STDDEV(values, period, 1)

	for i := range values {
		upper[i] = middle[i] + devUp*std[i]
		lower[i] = middle[i] - devDown*std[i]
	}

	return upper, middle, lower
}
