package provider

import (
	"fmt"

	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-bars/internal/types"
	"github.com/rxtech-lab/argo-bars/pkg/errors"
)

// PolygonTimespan maps a timeframe unit to the polygon aggregate timespan.
func PolygonTimespan(tf types.Timeframe) (models.Timespan, error) {
	switch tf.Unit {
	case types.TimeframeMinute:
		return models.Minute, nil
	case types.TimeframeHour:
		return models.Hour, nil
	case types.TimeframeDay:
		return models.Day, nil
	case types.TimeframeWeek:
		return models.Week, nil
	case types.TimeframeMonth:
		return models.Month, nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported timeframe for polygon: %s", tf)
	}
}

// BinanceInterval converts a timeframe to a Binance kline interval.
// Binance intervals: 1m, 3m, 5m, 15m, 30m, 1h, 2h, 4h, 6h, 8h, 12h, 1d, 3d, 1w, 1M
func BinanceInterval(tf types.Timeframe) (string, error) {
	supported := func(amount int, allowed ...int) bool {
		for _, a := range allowed {
			if a == amount {
				return true
			}
		}

		return false
	}

	switch tf.Unit {
	case types.TimeframeMinute:
		if supported(tf.Amount, 1, 3, 5, 15, 30) {
			return fmt.Sprintf("%dm", tf.Amount), nil
		}
	case types.TimeframeHour:
		if supported(tf.Amount, 1, 2, 4, 6, 8, 12) {
			return fmt.Sprintf("%dh", tf.Amount), nil
		}
	case types.TimeframeDay:
		if supported(tf.Amount, 1, 3) {
			return fmt.Sprintf("%dd", tf.Amount), nil
		}
	case types.TimeframeWeek:
		if tf.Amount == 1 {
			return "1w", nil
		}
	case types.TimeframeMonth:
		if tf.Amount == 1 {
			return "1M", nil
		}
	}

	return "", errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported timeframe for binance: %s", tf)
}
