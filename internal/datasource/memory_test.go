package datasource

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/riptide-lab/riptide-trading/internal/types"
)

type MemoryDataSourceTestSuite struct {
	suite.Suite
	source *MemoryDataSource
	start  time.Time
}

func TestMemoryDataSourceSuite(t *testing.T) {
	suite.Run(t, new(MemoryDataSourceTestSuite))
}

func (suite *MemoryDataSourceTestSuite) SetupTest() {
	suite.start = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// Constructed out of order on purpose; the source must sort by time.
	bars := []types.Bar{
		barAt(suite.start.Add(2*time.Minute), 102),
		barAt(suite.start, 100),
		barAt(suite.start.Add(4*time.Minute), 104),
		barAt(suite.start.Add(1*time.Minute), 101),
		barAt(suite.start.Add(3*time.Minute), 103),
	}

	suite.source = NewMemoryDataSource(bars)
}

func barAt(t time.Time, close float64) types.Bar {
	return types.Bar{
		Symbol: "XBTUSD",
		Time:   t,
		Open:   close - 0.5,
		High:   close + 1,
		Low:    close - 1,
		Close:  close,
		Volume: 1000,
	}
}

func (suite *MemoryDataSourceTestSuite) TestReadAllIsChronological() {
	var closes []float64
	for bar, err := range suite.source.ReadAll(optional.None[time.Time](), optional.None[time.Time]()) {
		suite.Require().NoError(err)
		closes = append(closes, bar.Close)
	}

	suite.Equal([]float64{100, 101, 102, 103, 104}, closes)
}

func (suite *MemoryDataSourceTestSuite) TestReadAllHonorsBounds() {
	start := optional.Some(suite.start.Add(1 * time.Minute))
	end := optional.Some(suite.start.Add(3 * time.Minute))

	var closes []float64
	for bar, err := range suite.source.ReadAll(start, end) {
		suite.Require().NoError(err)
		closes = append(closes, bar.Close)
	}

	suite.Equal([]float64{101, 102, 103}, closes)
}

func (suite *MemoryDataSourceTestSuite) TestReadAllStopsWhenYieldReturnsFalse() {
	count := 0
	for range suite.source.ReadAll(optional.None[time.Time](), optional.None[time.Time]()) {
		count++
		if count == 2 {
			break
		}
	}

	suite.Equal(2, count)
}

func (suite *MemoryDataSourceTestSuite) TestReadRangeIsInclusive() {
	bars, err := suite.source.ReadRange(suite.start, suite.start.Add(2*time.Minute))
	suite.Require().NoError(err)
	suite.Len(bars, 3)
}

func (suite *MemoryDataSourceTestSuite) TestCount() {
	count, err := suite.source.Count(optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Equal(5, count)

	count, err = suite.source.Count(optional.Some(suite.start.Add(3*time.Minute)), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Equal(2, count)
}
