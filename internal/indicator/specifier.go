package indicator

import (
	"strconv"
	"strings"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-bars/internal/types"
	"github.com/rxtech-lab/argo-bars/pkg/errors"
)

// Specifier is a parsed indicator request such as "SMA_50".
type Specifier struct {
	// Raw is the string as requested. Output columns are named after it.
	Raw    string
	Name   types.IndicatorType
	Period optional.Option[int]
}

// ParseSpecifier splits raw on the first underscore. The prefix, upper-cased,
// is the indicator name. A purely numeric remainder is the period; any other
// remainder is ignored.
func ParseSpecifier(raw string) (Specifier, error) {
	prefix, rest, _ := strings.Cut(raw, "_")

	name := strings.ToUpper(strings.TrimSpace(prefix))
	if name == "" {
		return Specifier{}, errors.Newf(errors.ErrCodeInvalidSpecifier, "invalid indicator specifier: %q", raw)
	}

	spec := Specifier{
		Raw:    raw,
		Name:   types.IndicatorType(name),
		Period: optional.None[int](),
	}

	if isDigits(rest) {
		period, err := strconv.Atoi(rest)
		if err != nil {
			return Specifier{}, errors.Wrapf(errors.ErrCodeInvalidSpecifier, err, "invalid period in specifier %q", raw)
		}

		spec.Period = optional.Some(period)
	}

	return spec, nil
}

// PeriodOf returns the explicit period of a specifier, if any.
func PeriodOf(raw string) optional.Option[int] {
	spec, err := ParseSpecifier(raw)
	if err != nil {
		return optional.None[int]()
	}

	return spec.Period
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
