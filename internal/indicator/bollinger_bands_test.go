package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/riptide-lab/riptide-trading/pkg/errors"
)

type BollingerBandsTestSuite struct {
	suite.Suite
}

func TestBollingerBandsSuite(t *testing.T) {
	suite.Run(t, new(BollingerBandsTestSuite))
}

func (suite *BollingerBandsTestSuite) TestConstantSeriesCollapsesBands() {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 42.0
	}

	upper, middle, lower, err := BollingerBands(values, 20, 2.0)
	suite.Require().NoError(err)

	for i := 19; i < len(values); i++ {
		suite.Equal(42.0, middle[i])
		suite.Equal(42.0, upper[i])
		suite.Equal(42.0, lower[i])
	}
}

func (suite *BollingerBandsTestSuite) TestWarmupPrefixIsNaN() {
	values := make([]float64, 25)
	for i := range values {
		values[i] = float64(i)
	}

	upper, middle, lower, err := BollingerBands(values, 20, 2.0)
	suite.Require().NoError(err)

	for i := 0; i < 19; i++ {
		suite.True(math.IsNaN(upper[i]))
		suite.True(math.IsNaN(middle[i]))
		suite.True(math.IsNaN(lower[i]))
	}

	suite.False(math.IsNaN(upper[19]))
}

func (suite *BollingerBandsTestSuite) TestSampleStandardDeviation() {
	values := []float64{1, 2, 3, 4}

	upper, middle, lower, err := BollingerBands(values, 4, 2.0)
	suite.Require().NoError(err)

	// mean = 2.5; sample variance = (2.25+0.25+0.25+2.25)/3 = 5/3
	std := math.Sqrt(5.0 / 3.0)
	suite.InDelta(2.5, middle[3], 1e-12)
	suite.InDelta(2.5+2*std, upper[3], 1e-12)
	suite.InDelta(2.5-2*std, lower[3], 1e-12)
}

func (suite *BollingerBandsTestSuite) TestBandOrdering() {
	values := []float64{10, 12, 9, 14, 11, 13, 10, 15, 12, 16}

	upper, middle, lower, err := BollingerBands(values, 5, 2.0)
	suite.Require().NoError(err)

	for i := 4; i < len(values); i++ {
		suite.GreaterOrEqual(upper[i], middle[i])
		suite.GreaterOrEqual(middle[i], lower[i])
	}
}

func (suite *BollingerBandsTestSuite) TestInsufficientData() {
	_, _, _, err := BollingerBands([]float64{1, 2}, 20, 2.0)
	suite.Require().Error(err)
	suite.True(errors.IsInsufficientDataError(err))
}

func (suite *BollingerBandsTestSuite) TestInvalidPeriod() {
	_, _, _, err := BollingerBands([]float64{1, 2}, 0, 2.0)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidIndicatorParameters))
}
