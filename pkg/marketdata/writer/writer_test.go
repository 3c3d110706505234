package writer

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/rxtech-lab/argo-bars/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type WriterTestSuite struct {
	suite.Suite
}

func TestWriterSuite(t *testing.T) {
	suite.Run(t, new(WriterTestSuite))
}

func (suite *WriterTestSuite) TestNewWriter() {
	dir := suite.T().TempDir()

	csvWriter, err := NewWriter(WriterCSV, filepath.Join(dir, "a.csv"), DefaultOptions())
	suite.Require().NoError(err)
	suite.IsType(&CSVWriter{}, csvWriter)

	parquetWriter, err := NewWriter(WriterParquet, filepath.Join(dir, "a.parquet"), DefaultOptions())
	suite.Require().NoError(err)
	suite.IsType(&DuckDBWriter{}, parquetWriter)

	_, err = NewWriter("xlsx", filepath.Join(dir, "a.xlsx"), DefaultOptions())
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidWriter))
}

func (suite *WriterTestSuite) TestExtension() {
	suite.Equal("csv", WriterCSV.Extension())
	suite.Equal("parquet", WriterParquet.Extension())
}

func (suite *WriterTestSuite) TestFormatNumber() {
	tests := []struct {
		value     float64
		precision int
		expected  string
	}{
		{185.5, -1, "185.5"},
		{1000, -1, "1000"},
		{0.1 + 0.2, -1, "0.30000000000000004"},
		{1e21, -1, "1000000000000000000000"},
		{math.NaN(), -1, ""},
		{math.NaN(), 2, ""},
		{math.Inf(1), -1, "inf"},
		{math.Inf(-1), 2, "-inf"},
		{1.005, 0, "1"},
		{2.5, 2, "2.50"},
		{-3.14159, 3, "-3.142"},
	}

	for _, tc := range tests {
		suite.Equal(tc.expected, FormatNumber(tc.value, tc.precision), "%v@%d", tc.value, tc.precision)
	}
}

func (suite *WriterTestSuite) TestRoundNumber() {
	suite.Equal(1.23, RoundNumber(1.234, 2))
	suite.Equal(1.234, RoundNumber(1.234, -1))
	suite.True(math.IsNaN(RoundNumber(math.NaN(), 2)))
}
