package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type OscillatorsTestSuite struct {
	suite.Suite
}

func TestOscillatorsSuite(t *testing.T) {
	suite.Run(t, new(OscillatorsTestSuite))
}

func (suite *OscillatorsTestSuite) TestMOM() {
	result := MOM([]float64{1, 2, 4, 7}, 2)

	suite.True(math.IsNaN(result[1]))
	suite.Equal(3.0, result[2])
	suite.Equal(5.0, result[3])
}

func (suite *OscillatorsTestSuite) TestROCZeroBase() {
	result := ROC([]float64{0, 2, 3}, 1)

	suite.True(math.IsNaN(result[0]))
	suite.Equal(0.0, result[1])
	suite.InDelta(50.0, result[2], 1e-12)
}

func (suite *OscillatorsTestSuite) TestWILLR() {
	high := []float64{2, 3, 4}
	low := []float64{1, 1, 2}
	closes := []float64{1.5, 3, 3}

	result := WILLR(high, low, closes, 2)

	suite.True(math.IsNaN(result[0]))
	suite.InDelta(0.0, result[1], 1e-12)
	suite.InDelta(-100.0/3.0, result[2], 1e-9)
}

func (suite *OscillatorsTestSuite) TestWILLRFlatRange() {
	result := WILLR([]float64{1, 1}, []float64{1, 1}, []float64{1, 1}, 2)
	suite.Equal(0.0, result[1])
}

func (suite *OscillatorsTestSuite) TestCCI() {
	high := []float64{2, 4, 6}
	low := []float64{0, 2, 4}
	closes := []float64{1, 3, 5}

	result := CCI(high, low, closes, 2)

	suite.True(math.IsNaN(result[0]))
	suite.InDelta(1/0.015, result[1], 1e-9)
	suite.InDelta(1/0.015, result[2], 1e-9)
}

func (suite *OscillatorsTestSuite) TestCCIFlat() {
	result := CCI([]float64{1, 1, 1}, []float64{1, 1, 1}, []float64{1, 1, 1}, 2)
	suite.Equal(0.0, result[2])
}
