package indicator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rxtech-lab/argo-bars/internal/logger"
	"github.com/rxtech-lab/argo-bars/internal/types"
	"github.com/rxtech-lab/argo-bars/pkg/errors"
	"go.uber.org/zap"
)

// Engine appends indicator columns to bar tables.
type Engine struct {
	registry IndicatorRegistry
	logger   *logger.Logger
}

// NewEngine creates an engine over the given registry. A nil registry means
// the built-in indicators.
func NewEngine(registry IndicatorRegistry, log *logger.Logger) *Engine {
	if registry == nil {
		registry = NewDefaultRegistry()
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Engine{
		registry: registry,
		logger:   log,
	}
}

// Supported lists the indicator names the engine can compute, sorted.
func (e *Engine) Supported() []types.IndicatorType {
	return e.registry.ListIndicators()
}

// Apply computes every specifier against the table and appends the results
// in order. The table is modified in place and returned. Specifiers that
// cannot be resolved or computed are logged and skipped, as are repeats that
// differ only in case.
func (e *Engine) Apply(table *types.Table, specifiers []string) *types.Table {
	if len(specifiers) == 0 {
		return table
	}

	seen := make(map[string]bool, len(specifiers))
	for _, raw := range specifiers {
		// column names are case-insensitive once they reach DuckDB
		key := strings.ToUpper(strings.TrimSpace(raw))
		if seen[key] {
			e.logger.Warn("Skipping duplicate indicator", zap.String("specifier", raw))

			continue
		}

		seen[key] = true

		if err := e.applyOne(table, raw); err != nil {
			if errors.HasCode(err, errors.ErrCodeIndicatorNotFound) || errors.HasCode(err, errors.ErrCodeInvalidSpecifier) {
				e.logger.Warn("Skipping indicator", zap.String("specifier", raw), zap.Error(err))

				continue
			}

			e.logger.Error("Failed to calculate indicator", zap.String("specifier", raw), zap.Error(err))
		}
	}

	return table
}

func (e *Engine) applyOne(table *types.Table, raw string) error {
	spec, err := ParseSpecifier(raw)
	if err != nil {
		return err
	}

	descriptor, err := e.registry.GetIndicator(spec.Name)
	if err != nil {
		return err
	}

	if spec.Period.IsSome() && !descriptor.Period.Tunable {
		e.logger.Debug("Ignoring period for indicator without a tunable period",
			zap.String("specifier", raw),
			zap.Int("period", spec.Period.Unwrap()),
		)
	}

	override := 0
	if spec.Period.IsSome() {
		override = spec.Period.Unwrap()
	}

	period, err := descriptor.ResolvePeriod(override, spec.Period.IsSome())
	if err != nil {
		return err
	}

	inputs, err := collectInputs(table, descriptor.Inputs)
	if err != nil {
		return err
	}

	outputs, err := computeSafely(descriptor, inputs, period)
	if err != nil {
		return err
	}

	if len(outputs) != len(descriptor.Outputs) {
		return errors.Newf(errors.ErrCodeIndicatorCalculation, "%s returned %d outputs, expected %d", descriptor.Name, len(outputs), len(descriptor.Outputs))
	}

	names := OutputColumns(raw, len(outputs))

	// validate everything before touching the table so a failure leaves no partial columns
	for i, series := range outputs {
		if len(series) != table.Len() {
			return errors.Newf(errors.ErrCodeColumnLength, "%s output %d has %d rows, table has %d", descriptor.Name, i, len(series), table.Len())
		}
	}

	for i, series := range outputs {
		if err := table.AddNumberColumn(names[i], series); err != nil {
			return err
		}
	}

	return nil
}

// OutputColumns names the columns produced by a specifier. A single output is
// named after the specifier; several outputs get a positional suffix.
func OutputColumns(raw string, outputs int) []string {
	if outputs == 1 {
		return []string{raw}
	}

	names := make([]string, outputs)
	for i := range names {
		names[i] = raw + "_" + strconv.Itoa(i)
	}

	return names
}

func collectInputs(table *types.Table, fields []Field) (Inputs, error) {
	inputs := make(Inputs, len(fields))

	for _, field := range fields {
		col, ok := table.Lookup(string(field))
		if !ok {
			return nil, errors.Newf(errors.ErrCodeIndicatorInputMissing, "input column %s not found", field)
		}

		if col.Kind != types.ColumnNumber {
			return nil, errors.Newf(errors.ErrCodeColumnType, "input column %s is not numeric", col.Name)
		}

		inputs[field] = col.Numbers
	}

	return inputs, nil
}

func computeSafely(descriptor Descriptor, inputs Inputs, period int) (outputs [][]float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeIndicatorCalculation, fmt.Sprintf("%s panicked: %v", descriptor.Name, r))
		}
	}()

	outputs, err = descriptor.Compute(inputs, period)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeIndicatorCalculation, err, "%s failed", descriptor.Name)
	}

	return outputs, nil
}
