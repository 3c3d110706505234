package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type RSITestSuite struct {
	suite.Suite
}

func TestRSISuite(t *testing.T) {
	suite.Run(t, new(RSITestSuite))
}

func (suite *RSITestSuite) TestRSIWilderSmoothing() {
	result := RSI([]float64{1, 2, 3, 2, 4}, 2)

	suite.True(math.IsNaN(result[0]))
	suite.True(math.IsNaN(result[1]))
	suite.InDelta(100.0, result[2], 1e-9)
	suite.InDelta(50.0, result[3], 1e-9)
	suite.InDelta(100*1.25/1.5, result[4], 1e-9)
}

func (suite *RSITestSuite) TestRSIFlatSeriesIsZero() {
	result := RSI([]float64{5, 5, 5, 5}, 2)
	suite.Equal(0.0, result[2])
	suite.Equal(0.0, result[3])
}

func (suite *RSITestSuite) TestRSIAllLosses() {
	result := RSI([]float64{5, 4, 3, 2}, 2)
	suite.Equal(0.0, result[2])
	suite.Equal(0.0, result[3])
}

func (suite *RSITestSuite) TestRSINotEnoughData() {
	result := RSI([]float64{1, 2}, 2)
	suite.True(math.IsNaN(result[0]))
	suite.True(math.IsNaN(result[1]))
}

func (suite *RSITestSuite) TestRSIBounded() {
	values := []float64{44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10, 45.42, 45.84, 46.08, 45.89, 46.03, 45.61, 46.28, 46.28, 46.00, 46.03, 46.41, 46.22, 45.64}
	result := RSI(values, 14)

	for i := 0; i < 14; i++ {
		suite.True(math.IsNaN(result[i]))
	}

	for i := 14; i < len(values); i++ {
		suite.GreaterOrEqual(result[i], 0.0)
		suite.LessOrEqual(result[i], 100.0)
	}
}
