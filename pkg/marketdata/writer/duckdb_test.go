package writer

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-bars/internal/types"
	"github.com/rxtech-lab/argo-bars/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type DuckDBWriterTestSuite struct {
	suite.Suite
	tempDir string
}

func TestDuckDBWriterSuite(t *testing.T) {
	suite.Run(t, new(DuckDBWriterTestSuite))
}

func (suite *DuckDBWriterTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
}

// sampleTable has a date column, two prices and an SMA with a NaN warm-up row.
func sampleTable(t *suite.Suite) *types.Table {
	table := types.NewTable()
	t.Require().NoError(table.AddTextColumn(types.ColumnDate, []string{"2024-01-02T05:00:00Z", "2024-01-03T05:00:00Z", "2024-01-04T05:00:00Z"}))
	t.Require().NoError(table.AddNumberColumn(types.ColumnClose, []float64{185.5, 184.25, 181.125}))
	t.Require().NoError(table.AddNumberColumn(types.ColumnVolume, []float64{1000, 2000, 3000}))
	t.Require().NoError(table.AddNumberColumn("SMA_2", []float64{math.NaN(), 184.875, 182.6875}))

	return table
}

func (suite *DuckDBWriterTestSuite) readBack(path string, query string) *sql.Rows {
	db, err := sql.Open("duckdb", ":memory:")
	suite.Require().NoError(err)
	suite.T().Cleanup(func() { db.Close() })

	rows, err := db.Query(fmt.Sprintf(query, path))
	suite.Require().NoError(err)
	suite.T().Cleanup(func() { rows.Close() })

	return rows
}

func (suite *DuckDBWriterTestSuite) TestNewDuckDBWriter() {
	outputPath := filepath.Join(suite.tempDir, "test.parquet")
	writer := NewDuckDBWriter(outputPath, DefaultOptions())

	suite.Equal(outputPath, writer.GetOutputPath())
	suite.Nil(writer.db)
	suite.Nil(writer.tx)
}

func (suite *DuckDBWriterTestSuite) TestWriteWithoutInitialize() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "no_init.parquet"), DefaultOptions())

	err := writer.Write(sampleTable(&suite.Suite))
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataWriteFailed))
	suite.Contains(err.Error(), "not initialized")
}

func (suite *DuckDBWriterTestSuite) TestFinalizeWithoutInitialize() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "no_init.parquet"), DefaultOptions())

	_, err := writer.Finalize()
	suite.Error(err)
	suite.Contains(err.Error(), "not initialized")
}

func (suite *DuckDBWriterTestSuite) TestFinalizeWithoutWrite() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "empty.parquet"), DefaultOptions())
	suite.Require().NoError(writer.Initialize())
	defer writer.Close()

	_, err := writer.Finalize()
	suite.Error(err)
	suite.Contains(err.Error(), "nothing was written")
}

func (suite *DuckDBWriterTestSuite) TestWriteAndFinalize() {
	outputPath := filepath.Join(suite.tempDir, "nested", "AAPL_1Day_2024-01-02_latest.parquet")
	writer := NewDuckDBWriter(outputPath, DefaultOptions())
	suite.Require().NoError(writer.Initialize())
	defer writer.Close()

	suite.Require().NoError(writer.Write(sampleTable(&suite.Suite)))

	path, err := writer.Finalize()
	suite.Require().NoError(err)
	suite.Equal(outputPath, path)

	_, statErr := os.Stat(outputPath)
	suite.Require().NoError(statErr)

	rows := suite.readBack(outputPath, `SELECT "date", "close", "SMA_2" FROM read_parquet('%s') ORDER BY "date"`)

	var (
		dates  []string
		closes []float64
		smas   []sql.NullFloat64
	)

	for rows.Next() {
		var (
			date       string
			closePrice float64
			sma        sql.NullFloat64
		)

		suite.Require().NoError(rows.Scan(&date, &closePrice, &sma))
		dates = append(dates, date)
		closes = append(closes, closePrice)
		smas = append(smas, sma)
	}

	suite.Equal([]string{"2024-01-02T05:00:00Z", "2024-01-03T05:00:00Z", "2024-01-04T05:00:00Z"}, dates)
	suite.Equal([]float64{185.5, 184.25, 181.125}, closes)
	suite.False(smas[0].Valid)
	suite.Equal(184.875, smas[1].Float64)
}

func (suite *DuckDBWriterTestSuite) TestColumnOrderIsPreserved() {
	outputPath := filepath.Join(suite.tempDir, "order.parquet")
	writer := NewDuckDBWriter(outputPath, DefaultOptions())
	suite.Require().NoError(writer.Initialize())
	defer writer.Close()

	suite.Require().NoError(writer.Write(sampleTable(&suite.Suite)))
	_, err := writer.Finalize()
	suite.Require().NoError(err)

	rows := suite.readBack(outputPath, `SELECT * FROM read_parquet('%s') LIMIT 1`)
	columns, err := rows.Columns()
	suite.Require().NoError(err)
	suite.Equal([]string{"date", "close", "volume", "SMA_2"}, columns)
}

func (suite *DuckDBWriterTestSuite) TestPrecisionRoundsValues() {
	outputPath := filepath.Join(suite.tempDir, "rounded.parquet")
	writer := NewDuckDBWriter(outputPath, Options{Precision: 1})
	suite.Require().NoError(writer.Initialize())
	defer writer.Close()

	suite.Require().NoError(writer.Write(sampleTable(&suite.Suite)))
	_, err := writer.Finalize()
	suite.Require().NoError(err)

	rows := suite.readBack(outputPath, `SELECT "close" FROM read_parquet('%s') ORDER BY "date"`)

	var closes []float64

	for rows.Next() {
		var v float64
		suite.Require().NoError(rows.Scan(&v))
		closes = append(closes, v)
	}

	suite.Equal([]float64{185.5, 184.3, 181.1}, closes)
}

func (suite *DuckDBWriterTestSuite) TestWriteRejectsDifferentColumns() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "mismatch.parquet"), DefaultOptions())
	suite.Require().NoError(writer.Initialize())
	defer writer.Close()

	suite.Require().NoError(writer.Write(sampleTable(&suite.Suite)))

	other := types.NewTable()
	suite.Require().NoError(other.AddTextColumn(types.ColumnDate, []string{"2024-01-05"}))

	suite.Error(writer.Write(other))
}

func (suite *DuckDBWriterTestSuite) TestWriteRejectsCaseOnlyDuplicateColumns() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "dup.parquet"), DefaultOptions())
	suite.Require().NoError(writer.Initialize())
	defer writer.Close()

	table := types.NewTable()
	suite.Require().NoError(table.AddTextColumn(types.ColumnDate, []string{"2024-01-05"}))
	suite.Require().NoError(table.AddNumberColumn("SMA_5", []float64{1}))
	suite.Require().NoError(table.AddNumberColumn("sma_5", []float64{1}))

	err := writer.Write(table)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeMarketDataWriteFailed))
	suite.Contains(err.Error(), "case-insensitive")
}

func (suite *DuckDBWriterTestSuite) TestCloseWithoutInitialize() {
	writer := NewDuckDBWriter(filepath.Join(suite.tempDir, "close.parquet"), DefaultOptions())
	suite.NoError(writer.Close())
}

func (suite *DuckDBWriterTestSuite) TestCloseWithoutFinalizeLeavesNoFile() {
	outputPath := filepath.Join(suite.tempDir, "abandoned.parquet")
	writer := NewDuckDBWriter(outputPath, DefaultOptions())
	suite.Require().NoError(writer.Initialize())
	suite.Require().NoError(writer.Write(sampleTable(&suite.Suite)))

	suite.NoError(writer.Close())
	suite.Nil(writer.db)
	suite.Nil(writer.tx)

	_, err := os.Stat(outputPath)
	suite.True(os.IsNotExist(err))
}
