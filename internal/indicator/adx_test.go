package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/riptide-lab/riptide-trading/pkg/errors"
)

type ADXTestSuite struct {
	suite.Suite
}

func TestADXSuite(t *testing.T) {
	suite.Run(t, new(ADXTestSuite))
}

// trendingSeries builds a steadily rising market.
func (suite *ADXTestSuite) trendingSeries(n int) (high, low, closes []float64) {
	high = make([]float64, n)
	low = make([]float64, n)
	closes = make([]float64, n)

	for i := 0; i < n; i++ {
		base := 100 + float64(i)*2
		high[i] = base + 1
		low[i] = base - 1
		closes[i] = base + 0.5
	}

	return high, low, closes
}

func (suite *ADXTestSuite) TestStrongTrendReadsHigh() {
	high, low, closes := suite.trendingSeries(60)

	out, err := ADX(high, low, closes, 14)
	suite.Require().NoError(err)
	suite.Len(out, 60)

	last := out[len(out)-1]
	suite.False(math.IsNaN(last))
	suite.Greater(last, 25.0)
}

func (suite *ADXTestSuite) TestWarmupAndAlignment() {
	high, low, closes := suite.trendingSeries(10)

	out, err := ADX(high, low, closes, 2)
	suite.Require().NoError(err)
	suite.Len(out, 10)

	// Delta space needs 2*(period-1) smoothing steps, so the first defined
	// output sits at index 2*period - 1.
	suite.True(math.IsNaN(out[0]))
	suite.True(math.IsNaN(out[1]))
	suite.True(math.IsNaN(out[2]))
	suite.False(math.IsNaN(out[3]))
}

func (suite *ADXTestSuite) TestMinimumLengthIsTwoPeriods() {
	high, low, closes := suite.trendingSeries(27)

	_, err := ADX(high, low, closes, 14)
	suite.Require().Error(err)
	suite.True(errors.IsInsufficientDataError(err))

	var insufficientErr *errors.InsufficientDataError

	suite.Require().True(errors.As(err, &insufficientErr))
	suite.Equal(28, insufficientErr.Required)
	suite.Equal(27, insufficientErr.Actual)

	high, low, closes = suite.trendingSeries(28)
	out, err := ADX(high, low, closes, 14)
	suite.Require().NoError(err)
	suite.False(math.IsNaN(out[27]))
}

func (suite *ADXTestSuite) TestOutputBounded() {
	high, low, closes := suite.trendingSeries(40)
	// Inject some chop so directional movement alternates.
	for i := 20; i < 30; i++ {
		high[i] = high[i-1] - 0.5
		low[i] = low[i-1] - 2.5
		closes[i] = low[i] + 1
	}

	out, err := ADX(high, low, closes, 5)
	suite.Require().NoError(err)

	for i := range out {
		if math.IsNaN(out[i]) {
			continue
		}

		suite.GreaterOrEqual(out[i], 0.0)
		suite.LessOrEqual(out[i], 100.0)
	}
}

func (suite *ADXTestSuite) TestLengthMismatch() {
	_, err := ADX([]float64{1, 2, 3}, []float64{1, 2}, []float64{1, 2, 3}, 1)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidIndicatorParameters))
}
