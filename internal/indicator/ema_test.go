package indicator

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/riptide-lab/riptide-trading/pkg/errors"
)

type EMATestSuite struct {
	suite.Suite
}

func TestEMASuite(t *testing.T) {
	suite.Run(t, new(EMATestSuite))
}

func (suite *EMATestSuite) TestConstantSeriesStaysConstant() {
	values := make([]float64, 50)
	for i := range values {
		values[i] = 100.0
	}

	out, err := EMA(values, 12)
	suite.Require().NoError(err)
	suite.Len(out, 50)

	for i, v := range out {
		suite.Equalf(100.0, v, "index %d", i)
	}
}

func (suite *EMATestSuite) TestSeedIsMeanOfFirstPeriod() {
	values := []float64{1, 2, 3, 4, 5, 6}

	out, err := EMA(values, 3)
	suite.Require().NoError(err)

	// Seed = mean(1,2,3) = 2, held through the warm-up prefix.
	suite.Equal(2.0, out[0])
	suite.Equal(2.0, out[1])
	suite.Equal(2.0, out[2])
}

func (suite *EMATestSuite) TestRecursion() {
	values := []float64{1, 2, 3, 4, 5, 6}

	out, err := EMA(values, 3)
	suite.Require().NoError(err)

	// alpha = 2/(3+1) = 0.5
	suite.InDelta(3.0, out[3], 1e-12) // 4*0.5 + 2*0.5
	suite.InDelta(4.0, out[4], 1e-12) // 5*0.5 + 3*0.5
	suite.InDelta(5.0, out[5], 1e-12) // 6*0.5 + 4*0.5
}

func (suite *EMATestSuite) TestInsufficientData() {
	_, err := EMA([]float64{1, 2, 3}, 12)
	suite.Require().Error(err)
	suite.True(errors.IsInsufficientDataError(err))

	var insufficientErr *errors.InsufficientDataError

	suite.Require().True(errors.As(err, &insufficientErr))
	suite.Equal(12, insufficientErr.Required)
	suite.Equal(3, insufficientErr.Actual)
}

func (suite *EMATestSuite) TestInvalidPeriod() {
	_, err := EMA([]float64{1, 2, 3}, 0)
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidIndicatorParameters))

	_, err = EMA([]float64{1, 2, 3}, -5)
	suite.Error(err)
}

func (suite *EMATestSuite) TestDoesNotMutateInput() {
	values := []float64{5, 7, 9, 11}
	_, err := EMA(values, 2)
	suite.Require().NoError(err)
	suite.Equal([]float64{5, 7, 9, 11}, values)
}
