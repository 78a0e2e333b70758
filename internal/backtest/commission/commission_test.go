package commission

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type CommissionTestSuite struct {
	suite.Suite
}

func TestCommissionSuite(t *testing.T) {
	suite.Run(t, new(CommissionTestSuite))
}

func (suite *CommissionTestSuite) TestZeroFee() {
	fee := NewZeroFee()

	suite.Zero(fee.Calculate(45000, 0.5))
	suite.Zero(fee.Calculate(0, 0))
	suite.Equal("zero", fee.Name())
}

func (suite *CommissionTestSuite) TestFlatRateFee() {
	fee := NewFlatRateFee(0.0005)

	tests := []struct {
		name     string
		price    float64
		volume   float64
		expected float64
	}{
		{name: "typical fill", price: 45000, volume: 0.02, expected: 0.45},
		{name: "unit fill", price: 100, volume: 1, expected: 0.05},
		{name: "zero volume", price: 45000, volume: 0, expected: 0},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			suite.InDelta(tc.expected, fee.Calculate(tc.price, tc.volume), 1e-12)
		})
	}
}

func (suite *CommissionTestSuite) TestFlatRateFeeClampsNegativeRate() {
	fee := NewFlatRateFee(-0.01)
	suite.Zero(fee.Calculate(45000, 1))
}

func (suite *CommissionTestSuite) TestGetFeeHandler() {
	suite.Equal("flat_rate", GetFeeHandler(BrokerFlatRate, 0.001).Name())
	suite.Equal("zero", GetFeeHandler(BrokerZero, 0.001).Name())
	suite.Equal("zero", GetFeeHandler(Broker("unknown"), 0.001).Name())
}
