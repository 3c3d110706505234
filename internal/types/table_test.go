package types

import (
	"math"
	"testing"

	"github.com/rxtech-lab/argo-bars/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type TableTestSuite struct {
	suite.Suite
	table *Table
}

func TestTableSuite(t *testing.T) {
	suite.Run(t, new(TableTestSuite))
}

func (suite *TableTestSuite) SetupTest() {
	suite.table = NewTable()
	suite.Require().NoError(suite.table.AddTextColumn("date", []string{"2023-01-01", "2023-01-02", "2023-01-03"}))
	suite.Require().NoError(suite.table.AddNumberColumn("Close", []float64{1, 2, 3}))
}

func (suite *TableTestSuite) TestLenAndNames() {
	suite.Equal(3, suite.table.Len())
	suite.Equal([]string{"date", "Close"}, suite.table.ColumnNames())
	suite.Equal(0, NewTable().Len())
}

func (suite *TableTestSuite) TestAddColumnLengthMismatch() {
	err := suite.table.AddNumberColumn("SMA_3", []float64{1, 2})
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeColumnLength))
}

func (suite *TableTestSuite) TestAddColumnEmptyName() {
	suite.Error(suite.table.AddNumberColumn("", []float64{1, 2, 3}))
}

func (suite *TableTestSuite) TestAddColumnReplacesInPlace() {
	suite.Require().NoError(suite.table.AddNumberColumn("extra", []float64{0, 0, 0}))
	suite.Require().NoError(suite.table.AddNumberColumn("Close", []float64{4, 5, 6}))

	suite.Equal([]string{"date", "Close", "extra"}, suite.table.ColumnNames())
	col, _ := suite.table.Column("Close")
	suite.Equal([]float64{4, 5, 6}, col.Numbers)
}

func (suite *TableTestSuite) TestLookupIsCaseInsensitive() {
	col, ok := suite.table.Lookup("close")
	suite.True(ok)
	suite.Equal("Close", col.Name)

	_, ok = suite.table.Column("close")
	suite.False(ok)

	_, ok = suite.table.Lookup("volume")
	suite.False(ok)
}

func (suite *TableTestSuite) TestRename() {
	suite.Require().NoError(suite.table.Rename("Close", "close"))
	suite.Equal([]string{"date", "close"}, suite.table.ColumnNames())

	suite.Error(suite.table.Rename("missing", "x"))
	suite.Error(suite.table.Rename("close", "date"))
}

func (suite *TableTestSuite) TestFilter() {
	filtered := suite.table.Filter(func(row int) bool { return row > 0 })

	suite.Equal(2, filtered.Len())
	date, _ := filtered.Column("date")
	suite.Equal([]string{"2023-01-02", "2023-01-03"}, date.Texts)

	// source table is untouched
	suite.Equal(3, suite.table.Len())
}

func (suite *TableTestSuite) TestFilterToEmpty() {
	filtered := suite.table.Filter(func(int) bool { return false })
	suite.Equal(0, filtered.Len())
	suite.Equal(suite.table.ColumnNames(), filtered.ColumnNames())
}

func (suite *TableTestSuite) TestReorder() {
	suite.Require().NoError(suite.table.AddNumberColumn("open", []float64{1, 1, 1}))
	suite.Require().NoError(suite.table.AddNumberColumn("RSI", []float64{1, 1, 1}))

	suite.table.Reorder([]string{"date", "open", "missing", "Close"})
	suite.Equal([]string{"date", "open", "Close", "RSI"}, suite.table.ColumnNames())
}

func (suite *TableTestSuite) TestCloneAndEqual() {
	suite.Require().NoError(suite.table.AddNumberColumn("SMA", []float64{math.NaN(), 1.5, 2.5}))

	clone := suite.table.Clone()
	suite.True(suite.table.Equal(clone))

	col, _ := clone.Column("SMA")
	col.Numbers[1] = 9
	suite.False(suite.table.Equal(clone))
}

func (suite *TableTestSuite) TestEqualDifferentColumns() {
	other := NewTable()
	suite.Require().NoError(other.AddTextColumn("date", []string{"2023-01-01", "2023-01-02", "2023-01-03"}))
	suite.False(suite.table.Equal(other))

	var nilTable *Table
	suite.False(suite.table.Equal(nilTable))
}
