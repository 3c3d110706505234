package writer

import (
	"math"
	"os"
	"strconv"

	"github.com/rxtech-lab/argo-bars/internal/types"
	"github.com/rxtech-lab/argo-bars/pkg/errors"
	"github.com/shopspring/decimal"
)

// WriterType selects the output format of a table writer.
type WriterType string

const (
	WriterCSV     WriterType = "csv"
	WriterParquet WriterType = "parquet"
)

// Extension returns the file extension, without the dot, for the writer type.
func (t WriterType) Extension() string {
	return string(t)
}

// OutputFileMode is the permission of exported files.
const OutputFileMode os.FileMode = 0644

// DefaultPrecision leaves numbers in their shortest exact representation.
const DefaultPrecision = -1

// TableWriter defines the interface for writing a bar table to a destination.
type TableWriter interface {
	// Initialize sets up the writer, potentially creating tables or files.
	Initialize() error
	// Write appends every row of the table. All tables written must share the same columns.
	Write(table *types.Table) error
	// Finalize completes the writing process and returns the path of the artifact.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer. A writer that was not
	// finalized leaves no artifact behind.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}

// Options tune how values are rendered.
type Options struct {
	// Precision rounds numbers to this many decimal places. Negative disables rounding.
	Precision int
}

// DefaultOptions returns options with rounding disabled.
func DefaultOptions() Options {
	return Options{Precision: DefaultPrecision}
}

// NewWriter creates a writer of the given type for outputPath.
func NewWriter(writerType WriterType, outputPath string, opts Options) (TableWriter, error) {
	switch writerType {
	case WriterCSV:
		return NewCSVWriter(outputPath, opts), nil
	case WriterParquet:
		return NewDuckDBWriter(outputPath, opts), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidWriter, "unsupported writer type: %s", writerType)
	}
}

// FormatNumber renders v for a text artifact. NaN renders as an empty cell.
func FormatNumber(v float64, precision int) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	if precision < 0 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	return decimal.NewFromFloat(v).StringFixed(int32(precision))
}

// RoundNumber rounds v to precision decimal places. NaN and infinities pass through.
func RoundNumber(v float64, precision int) float64 {
	if precision < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}

	rounded, _ := decimal.NewFromFloat(v).Round(int32(precision)).Float64()

	return rounded
}

func sameColumns(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
