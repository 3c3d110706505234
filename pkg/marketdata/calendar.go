package marketdata

import (
	"time"

	"github.com/rxtech-lab/argo-bars/pkg/errors"
)

// CalendarType selects how warm-up bars are converted to a fetch start date.
type CalendarType string

const (
	CalendarFixed   CalendarType = "fixed"
	CalendarWeekday CalendarType = "weekday"
)

// DefaultDaysPerBar is the calendar-day multiplier of the fixed calendar.
const DefaultDaysPerBar = 3

// WarmupCalendar moves a start date back far enough to cover a number of bars.
type WarmupCalendar interface {
	WarmupStart(start time.Time, bars int) time.Time
}

// FixedDayCalendar assumes every bar spans DaysPerBar calendar days.
type FixedDayCalendar struct {
	DaysPerBar int
}

func (c FixedDayCalendar) WarmupStart(start time.Time, bars int) time.Time {
	if bars <= 0 {
		return start
	}

	days := c.DaysPerBar
	if days <= 0 {
		days = DefaultDaysPerBar
	}

	return start.AddDate(0, 0, -bars*days)
}

// WeekdayCalendar counts back trading days, skipping weekends and holidays,
// plus a slack of 10% of the bars rounded up.
type WeekdayCalendar struct {
	holidays map[string]bool
}

// NewWeekdayCalendar creates a weekday calendar. Holidays are YYYY-MM-DD dates.
func NewWeekdayCalendar(holidays []string) (*WeekdayCalendar, error) {
	set := make(map[string]bool, len(holidays))

	for _, h := range holidays {
		day, err := time.Parse(time.DateOnly, h)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidDate, err, "invalid holiday %q", h)
		}

		set[day.Format(time.DateOnly)] = true
	}

	return &WeekdayCalendar{holidays: set}, nil
}

func (c *WeekdayCalendar) WarmupStart(start time.Time, bars int) time.Time {
	if bars <= 0 {
		return start
	}

	remaining := bars + (bars+9)/10
	day := start

	for remaining > 0 {
		day = day.AddDate(0, 0, -1)
		if c.isTradingDay(day) {
			remaining--
		}
	}

	return day
}

func (c *WeekdayCalendar) isTradingDay(day time.Time) bool {
	if day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
		return false
	}

	return !c.holidays[day.Format(time.DateOnly)]
}

// NewWarmupCalendar builds the calendar for a calendar type. An empty type is the fixed calendar.
func NewWarmupCalendar(calendarType CalendarType, holidays []string) (WarmupCalendar, error) {
	switch calendarType {
	case "", CalendarFixed:
		return FixedDayCalendar{DaysPerBar: DefaultDaysPerBar}, nil
	case CalendarWeekday:
		calendar, err := NewWeekdayCalendar(holidays)
		if err != nil {
			return nil, err
		}

		return calendar, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidConfiguration, "unsupported calendar: %s", calendarType)
	}
}
