package types

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rxtech-lab/argo-bars/pkg/errors"
)

// TimeframeUnit is the unit part of a bar timeframe.
type TimeframeUnit string

const (
	TimeframeMinute TimeframeUnit = "Min"
	TimeframeHour   TimeframeUnit = "Hour"
	TimeframeDay    TimeframeUnit = "Day"
	TimeframeWeek   TimeframeUnit = "Week"
	TimeframeMonth  TimeframeUnit = "Month"
)

var timeframeUnitAliases = map[string]TimeframeUnit{
	"min":   TimeframeMinute,
	"t":     TimeframeMinute,
	"hour":  TimeframeHour,
	"h":     TimeframeHour,
	"day":   TimeframeDay,
	"d":     TimeframeDay,
	"week":  TimeframeWeek,
	"w":     TimeframeWeek,
	"month": TimeframeMonth,
	"m":     TimeframeMonth,
}

var timeframePattern = regexp.MustCompile(`^(\d+)([A-Za-z]+)$`)

// Timeframe is the sampling interval of a bar, e.g. 1Day or 15Min.
type Timeframe struct {
	Amount int
	Unit   TimeframeUnit
}

// ParseTimeframe parses "<N><Unit>" where Unit is one of Min|T, Hour|H, Day|D,
// Week|W or Month|M (case-insensitive).
func ParseTimeframe(value string) (Timeframe, error) {
	match := timeframePattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return Timeframe{}, errors.Newf(errors.ErrCodeInvalidTimespan, "invalid timeframe: %q", value)
	}

	amount, err := strconv.Atoi(match[1])
	if err != nil || amount <= 0 {
		return Timeframe{}, errors.Newf(errors.ErrCodeInvalidTimespan, "invalid timeframe amount: %q", value)
	}

	unit, ok := timeframeUnitAliases[strings.ToLower(match[2])]
	if !ok {
		return Timeframe{}, errors.Newf(errors.ErrCodeInvalidTimespan, "invalid timeframe unit: %q", value)
	}

	return Timeframe{Amount: amount, Unit: unit}, nil
}

// MustParseTimeframe is ParseTimeframe for constants. It panics on invalid input.
func MustParseTimeframe(value string) Timeframe {
	tf, err := ParseTimeframe(value)
	if err != nil {
		panic(err)
	}

	return tf
}

// String returns the canonical form, e.g. "1Day".
func (t Timeframe) String() string {
	return strconv.Itoa(t.Amount) + string(t.Unit)
}

// IsDaily reports whether the timeframe is exactly one trading day per bar.
func (t Timeframe) IsDaily() bool {
	return t.Unit == TimeframeDay && t.Amount == 1
}

// IsIntraday reports whether bars are shorter than a day.
func (t Timeframe) IsIntraday() bool {
	return t.Unit == TimeframeMinute || t.Unit == TimeframeHour
}

// Duration approximates the length of one bar. Months count as 30 days.
func (t Timeframe) Duration() time.Duration {
	var unit time.Duration

	switch t.Unit {
	case TimeframeMinute:
		unit = time.Minute
	case TimeframeHour:
		unit = time.Hour
	case TimeframeDay:
		unit = 24 * time.Hour
	case TimeframeWeek:
		unit = 7 * 24 * time.Hour
	case TimeframeMonth:
		unit = 30 * 24 * time.Hour
	}

	return time.Duration(t.Amount) * unit
}
