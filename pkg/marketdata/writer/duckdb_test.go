package writer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"

	"github.com/riptide-lab/riptide-trading/internal/datasource"
	"github.com/riptide-lab/riptide-trading/internal/logger"
	"github.com/riptide-lab/riptide-trading/internal/types"
)

type DuckDBWriterTestSuite struct {
	suite.Suite
	writer *DuckDBWriter
	path   string
}

func TestDuckDBWriterSuite(t *testing.T) {
	suite.Run(t, new(DuckDBWriterTestSuite))
}

func (suite *DuckDBWriterTestSuite) SetupTest() {
	suite.path = filepath.Join(suite.T().TempDir(), "bars.parquet")
	suite.writer = NewDuckDBWriter(suite.path)
}

func (suite *DuckDBWriterTestSuite) TearDownTest() {
	suite.NoError(suite.writer.Close())
}

func (suite *DuckDBWriterTestSuite) TestWriteBeforeInitializeFails() {
	err := suite.writer.Write(types.Bar{Symbol: "X"})
	suite.Error(err)
}

func (suite *DuckDBWriterTestSuite) TestRoundTripThroughParquet() {
	suite.Require().NoError(suite.writer.Initialize())

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	// Written out of order; the parquet export sorts by time.
	for _, offset := range []int{2, 0, 1} {
		bar := types.Bar{
			Symbol: "XBTUSD",
			Time:   start.Add(time.Duration(offset) * time.Minute),
			Open:   100 + float64(offset),
			High:   101 + float64(offset),
			Low:    99 + float64(offset),
			Close:  100.5 + float64(offset),
			Volume: 1000,
		}
		suite.Require().NoError(suite.writer.Write(bar))
	}

	outputPath, err := suite.writer.Finalize()
	suite.Require().NoError(err)
	suite.Equal(suite.path, outputPath)
	suite.Equal(suite.path, suite.writer.GetOutputPath())

	source, err := datasource.NewDuckDBDataSource(logger.NewNopLogger())
	suite.Require().NoError(err)
	defer source.Close()
	suite.Require().NoError(source.Initialize(outputPath))

	count, err := source.Count(optional.None[time.Time](), optional.None[time.Time]())
	suite.Require().NoError(err)
	suite.Equal(3, count)

	bars, err := source.ReadRange(start, start.Add(5*time.Minute))
	suite.Require().NoError(err)
	suite.Require().Len(bars, 3)
	suite.InDelta(100.5, bars[0].Close, 1e-9)
	suite.InDelta(102.5, bars[2].Close, 1e-9)
}

func (suite *DuckDBWriterTestSuite) TestFinalizeBeforeInitializeFails() {
	_, err := suite.writer.Finalize()
	suite.Error(err)
}
