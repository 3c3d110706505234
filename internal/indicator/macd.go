package indicator

import (
	"github.com/rxtech-lab/argo-bars/internal/types"
)

const (
	macdFastPeriod   = 12
	macdSlowPeriod   = 26
	macdSignalPeriod = 9
)

// NewMACD describes MACD(12, 26, 9) of close. The periods are fixed.
func NewMACD() Descriptor {
	return Descriptor{
		Name:    types.IndicatorTypeMACD,
		Inputs:  []Field{FieldClose},
		Period:  PeriodParam{Tunable: false, Default: macdSlowPeriod},
		Outputs: []string{"macd", "macdsignal", "macdhist"},
		Compute: func(in Inputs, _ int) ([][]float64, error) {
			line, signal, hist := MACD(in[FieldClose], macdFastPeriod, macdSlowPeriod, macdSignalPeriod)

			return [][]float64{line, signal, hist}, nil
		},
	}
}

// MACD returns the MACD line, its signal line and the histogram. Both moving
// averages start at index slow-1 and all three outputs start at
// slow-1 + signal-1. fast and slow are swapped if given in the wrong order.
func MACD(values []float64, fast, slow, signal int) (line, signalLine, hist []float64) {
	if fast > slow {
		fast, slow = slow, fast
	}

	n := len(values)
	line, signalLine, hist = nanSeries(n), nanSeries(n), nanSeries(n)

	start := slow - 1
	lookback := start + signal - 1

	if fast <= 0 || signal <= 0 || n <= lookback {
		return line, signalLine, hist
	}

	fastEMA := emaAt(values, fast, start)
	slowEMA := emaAt(values, slow, start)

	raw := nanSeries(n)
	for i := start; i < n; i++ {
		raw[i] = fastEMA[i] - slowEMA[i]
	}

	smoothed := emaAt(raw, signal, lookback)

	for i := lookback; i < n; i++ {
		line[i] = raw[i]
		signalLine[i] = smoothed[i]
		hist[i] = raw[i] - smoothed[i]
	}

	return line, signalLine, hist
}
