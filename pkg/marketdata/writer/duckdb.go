package writer

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-bars/internal/types"
	"github.com/rxtech-lab/argo-bars/pkg/errors"
)

const (
	duckDBTable = "bars"
	// insertBatchRows bounds the number of rows per INSERT statement.
	insertBatchRows = 500
)

// DuckDBWriter stages a table in an in-memory DuckDB database and exports it
// to Parquet on Finalize. NaN numbers are stored as NULL.
type DuckDBWriter struct {
	db         *sql.DB
	tx         *sql.Tx
	outputPath string
	opts       Options
	columns    []*types.Column
}

// NewDuckDBWriter creates a new DuckDBWriter.
// outputPath specifies the Parquet file that Finalize writes.
func NewDuckDBWriter(outputPath string, opts Options) *DuckDBWriter {
	return &DuckDBWriter{
		outputPath: outputPath,
		opts:       opts,
	}
}

// Initialize opens the database connection and begins a transaction.
// The table itself is created by the first Write, once the columns are known.
func (w *DuckDBWriter) Initialize() (err error) {
	if err := os.MkdirAll(filepath.Dir(w.outputPath), 0755); err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create output directory", err)
	}

	w.db, err = sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to open DuckDB connection", err)
	}

	w.tx, err = w.db.Begin()
	if err != nil {
		w.db.Close()
		w.db = nil

		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to begin transaction", err)
	}

	w.columns = nil

	return nil
}

// Write inserts the rows of table within the open transaction.
func (w *DuckDBWriter) Write(table *types.Table) error {
	if w.tx == nil {
		return errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized or transaction is nil")
	}

	if w.columns == nil {
		if err := w.createTable(table.Columns()); err != nil {
			return err
		}
	} else if !sameColumns(columnNames(w.columns), table.ColumnNames()) {
		return errors.New(errors.ErrCodeMarketDataWriteFailed, "table columns differ from the staged table")
	}

	names := quotedNames(table.Columns())
	columns := table.Columns()

	for start := 0; start < table.Len(); start += insertBatchRows {
		end := min(start+insertBatchRows, table.Len())

		insert := squirrel.Insert(duckDBTable).Columns(names...)
		for row := start; row < end; row++ {
			insert = insert.Values(w.rowValues(columns, row)...)
		}

		query, args, err := insert.ToSql()
		if err != nil {
			return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to build insert", err)
		}

		if _, err := w.tx.Exec(query, args...); err != nil {
			return errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to insert rows %d-%d", start, end-1)
		}
	}

	return nil
}

func (w *DuckDBWriter) createTable(columns []*types.Column) error {
	if len(columns) == 0 {
		return errors.New(errors.ErrCodeMarketDataWriteFailed, "cannot write a table without columns")
	}

	seen := make(map[string]string, len(columns))
	for _, col := range columns {
		key := strings.ToLower(col.Name)
		if prev, ok := seen[key]; ok {
			return errors.Newf(errors.ErrCodeMarketDataWriteFailed, "columns %q and %q collide: parquet column names are case-insensitive", prev, col.Name)
		}

		seen[key] = col.Name
	}

	definitions := make([]string, len(columns))
	for i, col := range columns {
		sqlType := "DOUBLE"
		if col.Kind == types.ColumnText {
			sqlType = "TEXT"
		}

		definitions[i] = fmt.Sprintf("%s %s", quoteIdentifier(col.Name), sqlType)
	}

	statement := fmt.Sprintf("CREATE TABLE %s (%s)", duckDBTable, strings.Join(definitions, ", "))
	if _, err := w.tx.Exec(statement); err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create table", err)
	}

	w.columns = columns

	return nil
}

func (w *DuckDBWriter) rowValues(columns []*types.Column, row int) []any {
	values := make([]any, len(columns))

	for i, col := range columns {
		if col.Kind == types.ColumnText {
			values[i] = col.Texts[row]

			continue
		}

		v := col.Numbers[row]
		if math.IsNaN(v) {
			values[i] = nil

			continue
		}

		values[i] = RoundNumber(v, w.opts.Precision)
	}

	return values
}

// Finalize commits the transaction and exports the data to a Parquet file.
func (w *DuckDBWriter) Finalize() (outputPath string, err error) {
	if w.tx == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "writer not initialized or transaction is nil")
	}

	if w.columns == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "nothing was written")
	}

	if err = w.tx.Commit(); err != nil {
		w.tx.Rollback()
		w.tx = nil

		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to commit transaction", err)
	}

	w.tx = nil

	copyStatement := fmt.Sprintf("COPY %s TO '%s' (FORMAT PARQUET)", duckDBTable, strings.ReplaceAll(w.outputPath, "'", "''"))
	if _, err = w.db.Exec(copyStatement); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to export to Parquet", err)
	}

	return w.outputPath, nil
}

// Close rolls back an unfinished transaction and closes the database.
func (w *DuckDBWriter) Close() error {
	var closeErrors []string

	if w.tx != nil {
		if err := w.tx.Rollback(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to rollback transaction: %v", err))
		}

		w.tx = nil
	}

	if w.db != nil {
		if err := w.db.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to close db connection: %v", err))
		}

		w.db = nil
	}

	if len(closeErrors) > 0 {
		return errors.New(errors.ErrCodeMarketDataWriteFailed, "errors occurred during close: "+strings.Join(closeErrors, "; "))
	}

	return nil
}

// GetOutputPath returns the configured output file path.
func (w *DuckDBWriter) GetOutputPath() string {
	return w.outputPath
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quotedNames(columns []*types.Column) []string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = quoteIdentifier(col.Name)
	}

	return names
}

func columnNames(columns []*types.Column) []string {
	names := make([]string, len(columns))
	for i, col := range columns {
		names[i] = col.Name
	}

	return names
}
