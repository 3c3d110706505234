package writer

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/rxtech-lab/argo-bars/internal/types"
	"github.com/rxtech-lab/argo-bars/pkg/errors"
)

// CSVWriter writes a table as comma separated values with a header row.
// Rows are staged in a temporary file that replaces the output on Finalize.
type CSVWriter struct {
	outputPath string
	opts       Options
	file       *os.File
	csv        *csv.Writer
	columns    []string
}

// NewCSVWriter creates a new CSVWriter for outputPath.
func NewCSVWriter(outputPath string, opts Options) *CSVWriter {
	return &CSVWriter{
		outputPath: outputPath,
		opts:       opts,
	}
}

// Initialize creates the output directory and the staging file.
func (w *CSVWriter) Initialize() error {
	dir := filepath.Dir(w.outputPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create output directory", err)
	}

	file, err := os.CreateTemp(dir, filepath.Base(w.outputPath)+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create staging file", err)
	}

	w.file = file
	w.csv = csv.NewWriter(file)
	w.columns = nil

	return nil
}

// Write appends the rows of table. The header is written with the first table.
func (w *CSVWriter) Write(table *types.Table) error {
	if w.csv == nil {
		return errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized")
	}

	names := table.ColumnNames()
	if w.columns == nil {
		if err := w.csv.Write(names); err != nil {
			return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write header", err)
		}

		w.columns = names
	} else if !sameColumns(w.columns, names) {
		return errors.New(errors.ErrCodeMarketDataWriteFailed, "table columns differ from the header already written")
	}

	columns := table.Columns()
	record := make([]string, len(columns))

	for row := 0; row < table.Len(); row++ {
		for i, col := range columns {
			if col.Kind == types.ColumnText {
				record[i] = col.Texts[row]
			} else {
				record[i] = FormatNumber(col.Numbers[row], w.opts.Precision)
			}
		}

		if err := w.csv.Write(record); err != nil {
			return errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to write row %d", row)
		}
	}

	return nil
}

// Finalize flushes the staging file and moves it over the output path.
func (w *CSVWriter) Finalize() (string, error) {
	if w.csv == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized")
	}

	w.csv.Flush()

	if err := w.csv.Error(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to flush csv", err)
	}

	// CreateTemp stages with 0600
	if err := w.file.Chmod(OutputFileMode); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to set csv permissions", err)
	}

	staged := w.file.Name()
	if err := w.file.Close(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to close staging file", err)
	}

	w.file = nil
	w.csv = nil

	if err := os.Rename(staged, w.outputPath); err != nil {
		_ = os.Remove(staged)

		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to move csv into place", err)
	}

	return w.outputPath, nil
}

// Close discards the staging file if Finalize was not reached.
func (w *CSVWriter) Close() error {
	if w.file == nil {
		return nil
	}

	staged := w.file.Name()
	closeErr := w.file.Close()
	w.file = nil
	w.csv = nil

	if err := os.Remove(staged); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to remove staging file", err)
	}

	if closeErr != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to close staging file", closeErr)
	}

	return nil
}

// GetOutputPath returns the configured output file path.
func (w *CSVWriter) GetOutputPath() string {
	return w.outputPath
}
