package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type BarTestSuite struct {
	suite.Suite
}

func TestBarSuite(t *testing.T) {
	suite.Run(t, new(BarTestSuite))
}

func (suite *BarTestSuite) testSeries() BarSeries {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	return BarSeries{
		{Symbol: "XBTUSD", Time: start, Open: 100, High: 105, Low: 99, Close: 104, Volume: 10},
		{Symbol: "XBTUSD", Time: start.Add(5 * time.Minute), Open: 104, High: 106, Low: 103, Close: 105, Volume: 12},
		{Symbol: "XBTUSD", Time: start.Add(10 * time.Minute), Open: 105, High: 105, Low: 101, Close: 102, Volume: 8},
	}
}

func (suite *BarTestSuite) TestAccessorsPreserveOrder() {
	s := suite.testSeries()

	suite.Equal([]float64{100, 104, 105}, s.Opens())
	suite.Equal([]float64{105, 106, 105}, s.Highs())
	suite.Equal([]float64{99, 103, 101}, s.Lows())
	suite.Equal([]float64{104, 105, 102}, s.Closes())
	suite.Equal([]float64{10, 12, 8}, s.Volumes())
	suite.Len(s.Times(), 3)
	suite.True(s.Times()[0].Before(s.Times()[2]))
}

func (suite *BarTestSuite) TestAccessorsReturnCopies() {
	s := suite.testSeries()

	closes := s.Closes()
	closes[0] = -1

	suite.Equal(104.0, s[0].Close)
}

func (suite *BarTestSuite) TestLast() {
	s := suite.testSeries()

	last, ok := s.Last()
	suite.True(ok)
	suite.Equal(102.0, last.Close)

	_, ok = BarSeries{}.Last()
	suite.False(ok)
}
