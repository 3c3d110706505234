package indicator

import (
	"math"

	"github.com/rxtech-lab/argo-bars/internal/types"
	"github.com/rxtech-lab/argo-bars/pkg/errors"
)

// Field is a price series an indicator can read.
type Field string

const (
	FieldOpen   Field = "open"
	FieldHigh   Field = "high"
	FieldLow    Field = "low"
	FieldClose  Field = "close"
	FieldVolume Field = "volume"
)

// Inputs maps a field to its series. All series have the same length.
type Inputs map[Field][]float64

// ComputeFunc transforms input series into one or more output series of the
// same length. Positions without a value are NaN.
type ComputeFunc func(in Inputs, period int) ([][]float64, error)

// PeriodParam describes the single tunable window of an indicator.
type PeriodParam struct {
	Tunable bool
	Default int
	Min     int
}

// Descriptor is the static definition of an indicator function.
type Descriptor struct {
	Name    types.IndicatorType
	Inputs  []Field
	Period  PeriodParam
	Outputs []string
	Compute ComputeFunc
}

// ResolvePeriod returns the period to compute with. Overrides on a
// non-tunable indicator are ignored.
func (d Descriptor) ResolvePeriod(override int, hasOverride bool) (int, error) {
	if !d.Period.Tunable || !hasOverride {
		return d.Period.Default, nil
	}

	if override < d.Period.Min {
		return 0, errors.Newf(errors.ErrCodeInvalidPeriod, "%s period must be >= %d, got %d", d.Name, d.Period.Min, override)
	}

	return override, nil
}

// nanSeries returns a series of n NaN values.
func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	return out
}

func single(series []float64) [][]float64 {
	return [][]float64{series}
}
