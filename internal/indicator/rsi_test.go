package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/riptide-lab/riptide-trading/pkg/errors"
)

type RSITestSuite struct {
	suite.Suite
}

func TestRSISuite(t *testing.T) {
	suite.Run(t, new(RSITestSuite))
}

func (suite *RSITestSuite) TestStrictlyIncreasingSeriesIsMaximallyOverbought() {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 100 + float64(i)
	}

	out, err := RSI(values, 14)
	suite.Require().NoError(err)

	for i := 14; i < len(out); i++ {
		suite.Equalf(100.0, out[i], "index %d", i)
	}
}

func (suite *RSITestSuite) TestStrictlyDecreasingSeriesIsMaximallyOversold() {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 100 - float64(i)
	}

	out, err := RSI(values, 14)
	suite.Require().NoError(err)

	for i := 14; i < len(out); i++ {
		suite.InDeltaf(0.0, out[i], 1e-12, "index %d", i)
	}
}

func (suite *RSITestSuite) TestWarmupPrefixIsNaN() {
	values := []float64{1, 2, 3, 2, 3, 4, 5}

	out, err := RSI(values, 3)
	suite.Require().NoError(err)

	for i := 0; i < 3; i++ {
		suite.Truef(math.IsNaN(out[i]), "index %d should be NaN", i)
	}

	suite.False(math.IsNaN(out[3]))
}

func (suite *RSITestSuite) TestWilderRecursion() {
	// deltas: +1, +1, -1, +1
	values := []float64{1, 2, 3, 2, 3}

	out, err := RSI(values, 2)
	suite.Require().NoError(err)

	// Seed over first two deltas: avgGain=1, avgLoss=0 -> 100.
	suite.Equal(100.0, out[2])

	// Next delta -1: avgGain=0.5, avgLoss=0.5 -> RS=1 -> 50.
	suite.InDelta(50.0, out[3], 1e-12)

	// Next delta +1: avgGain=0.75, avgLoss=0.25 -> RS=3 -> 75.
	suite.InDelta(75.0, out[4], 1e-12)
}

func (suite *RSITestSuite) TestOutputStaysInRange() {
	values := []float64{10, 12, 11, 13, 12, 14, 13, 15, 14, 16, 15, 17}

	out, err := RSI(values, 4)
	suite.Require().NoError(err)

	for i := 4; i < len(out); i++ {
		suite.GreaterOrEqual(out[i], 0.0)
		suite.LessOrEqual(out[i], 100.0)
	}
}

func (suite *RSITestSuite) TestInsufficientData() {
	_, err := RSI([]float64{1, 2, 3}, 3)
	suite.Require().Error(err)
	suite.True(errors.IsInsufficientDataError(err))

	var insufficientErr *errors.InsufficientDataError

	suite.Require().True(errors.As(err, &insufficientErr))
	suite.Equal(4, insufficientErr.Required)
}

func (suite *RSITestSuite) TestInvalidPeriod() {
	_, err := RSI([]float64{1, 2, 3}, -1)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidIndicatorParameters))
}
