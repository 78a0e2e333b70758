package types

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type PortfolioTestSuite struct {
	suite.Suite
}

func TestPortfolioSuite(t *testing.T) {
	suite.Run(t, new(PortfolioTestSuite))
}

func (suite *PortfolioTestSuite) TestDrawdownFromPeak() {
	state := PortfolioState{
		InitialCapital: 10000,
		CurrentCapital: 8500,
		PeakCapital:    10000,
	}
	suite.InDelta(0.15, state.Drawdown(), 1e-12)
}

func (suite *PortfolioTestSuite) TestDrawdownZeroWhenNoPeak() {
	state := PortfolioState{}
	suite.Equal(0.0, state.Drawdown())
}

func (suite *PortfolioTestSuite) TestDrawdownNeverNegative() {
	// Capital above the recorded peak reads as zero drawdown, not negative.
	state := PortfolioState{
		CurrentCapital: 12000,
		PeakCapital:    10000,
	}
	suite.Equal(0.0, state.Drawdown())
}
