package marketdata

import (
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-bars/internal/indicator"
	"github.com/rxtech-lab/argo-bars/internal/types"
	"github.com/rxtech-lab/argo-bars/pkg/errors"
)

// FallbackLookbackPeriod is assumed when indicators are requested without any explicit period.
const FallbackLookbackPeriod = 30

// LookbackBars returns the number of warm-up bars needed before the first
// requested row: twice the largest explicit period among the specifiers.
func LookbackBars(specifiers []string) int {
	if len(specifiers) == 0 {
		return 0
	}

	maxPeriod := 0

	for _, raw := range specifiers {
		period := indicator.PeriodOf(raw)
		if period.IsSome() && period.Unwrap() > maxPeriod {
			maxPeriod = period.Unwrap()
		}
	}

	if maxPeriod == 0 {
		maxPeriod = FallbackLookbackPeriod
	}

	return maxPeriod * 2
}

// FetchWindow records the requested range of a ticker and the start actually fetched.
type FetchWindow struct {
	Ticker         string
	Timeframe      types.Timeframe
	RequestedStart string
	RequestedEnd   optional.Option[string]
	// EffectiveStart is at or before RequestedStart.
	EffectiveStart string
	LookbackBars   int
}

// Warmup reports whether the fetch starts before the requested start.
func (w FetchWindow) Warmup() bool {
	return w.EffectiveStart != w.RequestedStart
}

// EndLabel is the requested end, or "latest" when open-ended.
func (w FetchWindow) EndLabel() string {
	if w.RequestedEnd.IsSome() {
		return w.RequestedEnd.Unwrap()
	}

	return "latest"
}

// computeWindow extends daily requests backwards by the warm-up of the indicators.
// Intraday requests are fetched as requested.
func computeWindow(params ProcessParams, calendar WarmupCalendar) (FetchWindow, error) {
	window := FetchWindow{
		Ticker:         params.Ticker,
		Timeframe:      params.Timeframe,
		RequestedStart: params.StartDate,
		RequestedEnd:   params.EndDate,
		EffectiveStart: params.StartDate,
	}

	if len(params.Indicators) == 0 || !params.Timeframe.IsDaily() {
		return window, nil
	}

	window.LookbackBars = LookbackBars(params.Indicators)
	if window.LookbackBars == 0 {
		return window, nil
	}

	start, err := ParseDate(params.StartDate)
	if err != nil {
		return FetchWindow{}, err
	}

	window.EffectiveStart = calendar.WarmupStart(start, window.LookbackBars).Format(time.DateOnly)

	return window, nil
}

// ParseDate accepts a YYYY-MM-DD date or an RFC 3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.Wrapf(errors.ErrCodeInvalidDate, err, "invalid date %q, expected YYYY-MM-DD or RFC 3339", value)
	}

	return t, nil
}
