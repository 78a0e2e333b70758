package risk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/riptide-lab/riptide-trading/internal/logger"
	"github.com/riptide-lab/riptide-trading/internal/persistence"
	"github.com/riptide-lab/riptide-trading/internal/types"
	"github.com/riptide-lab/riptide-trading/pkg/errors"
)

type ManagerTestSuite struct {
	suite.Suite
	manager *Manager
	store   *persistence.MemoryStore
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerTestSuite))
}

func (suite *ManagerTestSuite) SetupTest() {
	suite.store = persistence.NewMemoryStore()

	manager, err := NewManager(10000, DefaultRiskLimits(), suite.store, logger.NewNopLogger())
	suite.Require().NoError(err)
	suite.manager = manager
}

// buySignal is a BUY from 45000 with the stop 1000 below and staged targets
// above, the worked sizing example used throughout the suite.
func buySignal(confidence float64) types.TradeSignal {
	return types.TradeSignal{
		Symbol:      "XBTUSD",
		Time:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Side:        types.SignalSideBuy,
		Confidence:  confidence,
		EntryPrice:  45000,
		StopLoss:    44000,
		TakeProfits: [3]float64{45750, 46250, 47000},
	}
}

func (suite *ManagerTestSuite) TestNewManagerRejectsBadCapital() {
	_, err := NewManager(0, DefaultRiskLimits(), nil, nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidRiskParameters))

	_, err = NewManager(-500, DefaultRiskLimits(), nil, nil)
	suite.Error(err)
}

func (suite *ManagerTestSuite) TestNewManagerRejectsBadLimits() {
	limits := DefaultRiskLimits()
	limits.RiskPerTrade = 0.5
	limits.MaxPositionSize = 0.1

	_, err := NewManager(10000, limits, nil, nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidRiskParameters))
}

func (suite *ManagerTestSuite) TestSizeCappedByPositionLimit() {
	// risk = 10000 * 0.02 * 1.0 = 200; raw volume = 200/1000 = 0.2,
	// notional 9000 would exceed the 10% cap, so the cap wins:
	// 0.10 * 10000 / 45000.
	volume := suite.manager.Size(buySignal(1.0))
	suite.InDelta(0.0222, volume, 0.0001)

	notional := volume * 45000
	suite.LessOrEqual(notional, 0.10*10000+1e-9)
}

func (suite *ManagerTestSuite) TestSizeScalesWithConfidence() {
	limits := DefaultRiskLimits()
	limits.MaxPositionSize = 1.0

	manager, err := NewManager(100000, limits, nil, nil)
	suite.Require().NoError(err)

	full := manager.Size(buySignal(1.0))
	half := manager.Size(buySignal(0.5))
	suite.InDelta(full/2, half, 1e-9)
}

func (suite *ManagerTestSuite) TestSizeZeroWhenStopOnEntry() {
	signal := buySignal(1.0)
	signal.StopLoss = signal.EntryPrice

	suite.Zero(suite.manager.Size(signal))
}

func (suite *ManagerTestSuite) TestSizeCappedByAvailableCapital() {
	limits := DefaultRiskLimits()
	limits.MaxPositionSize = 1.0
	limits.RiskPerTrade = 1.0

	manager, err := NewManager(10000, limits, nil, nil)
	suite.Require().NoError(err)

	signal := buySignal(1.0)
	signal.EntryPrice = 100
	signal.StopLoss = 99.9

	// Raw risk-based volume would be 10000/0.1 = 100000 units; available
	// capital only buys 100.
	volume := manager.Size(signal)
	suite.InDelta(100, volume, 1e-9)
}

func (suite *ManagerTestSuite) TestOpenRejectedAtMaxPositions() {
	limits := DefaultRiskLimits()
	limits.MaxPositions = 1

	manager, err := NewManager(10000, limits, nil, nil)
	suite.Require().NoError(err)

	_, err = manager.Open(buySignal(1.0), 0.01)
	suite.Require().NoError(err)

	allowed, reason := manager.CanOpen()
	suite.False(allowed)
	suite.Contains(reason, "maximum open positions")

	_, err = manager.Open(buySignal(1.0), 0.01)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeRiskLimitExceeded))
}

func (suite *ManagerTestSuite) TestOpenRejectsNonPositiveVolume() {
	_, err := suite.manager.Open(buySignal(1.0), 0)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidVolume))
}

func (suite *ManagerTestSuite) TestStopLossRealizesLossAndCountsStreak() {
	position, err := suite.manager.Open(buySignal(1.0), 0.02)
	suite.Require().NoError(err)

	suite.False(suite.manager.CheckStop(position.ID, 44100))
	suite.True(suite.manager.CheckStop(position.ID, 43900))

	closed, ok := suite.manager.ExecuteStop(position.ID, 43900)
	suite.True(ok)
	suite.InDelta(0.02, closed, 1e-9)

	// (43900 - 45000) * 0.02 = -22.
	portfolio := suite.manager.Portfolio()
	suite.InDelta(-22, portfolio.TotalRealizedPnL, 1e-9)
	suite.Equal(1, portfolio.ConsecutiveLosses)

	history := suite.manager.ClosedPositions()
	suite.Require().Len(history, 1)
	suite.Equal(types.PositionStatusStoppedOut, history[0].Status)
	suite.Empty(suite.manager.Positions())
}

func (suite *ManagerTestSuite) TestWinningStopResetsStreak() {
	position, err := suite.manager.Open(buySignal(1.0), 0.02)
	suite.Require().NoError(err)

	_, ok := suite.manager.ExecuteStop(position.ID, 43900)
	suite.True(ok)
	suite.Equal(1, suite.manager.Portfolio().ConsecutiveLosses)

	// A SELL stopped above water realizes a gain and resets the counter.
	sell := buySignal(1.0)
	sell.Side = types.SignalSideSell
	sell.StopLoss = 46000
	sell.TakeProfits = [3]float64{44250, 43750, 43000}

	position, err = suite.manager.Open(sell, 0.02)
	suite.Require().NoError(err)

	suite.manager.UpdatePrice(position.ID, 44000)
	_, ok = suite.manager.ExecuteStop(position.ID, 44000)
	suite.True(ok)
	suite.Equal(0, suite.manager.Portfolio().ConsecutiveLosses)
}

func (suite *ManagerTestSuite) TestLossStreakPausesTrading() {
	limits := DefaultRiskLimits()
	limits.MaxConsecutiveLosses = 2

	manager, err := NewManager(100000, limits, nil, nil)
	suite.Require().NoError(err)

	for i := 0; i < 2; i++ {
		position, err := manager.Open(buySignal(1.0), 0.02)
		suite.Require().NoError(err)
		_, ok := manager.ExecuteStop(position.ID, 43900)
		suite.Require().True(ok)
	}

	suite.True(manager.Paused())

	allowed, reason := manager.CanOpen()
	suite.False(allowed)
	suite.Contains(reason, "consecutive losses")
}

func (suite *ManagerTestSuite) TestStagedTakeProfitsSumToOriginalVolume() {
	position, err := suite.manager.Open(buySignal(1.0), 0.02)
	suite.Require().NoError(err)

	// Price walks through the targets one at a time; stages fill
	// nearest-unfilled-first when only one level is crossed.
	stage, hit := suite.manager.CheckTakeProfit(position.ID, 45800)
	suite.True(hit)
	suite.Equal(1, stage)

	closed1, ok := suite.manager.ExecuteTakeProfit(position.ID, 1, 45800)
	suite.True(ok)
	suite.InDelta(0.02*0.30, closed1, 1e-12)

	live, ok := suite.manager.Position(position.ID)
	suite.Require().True(ok)
	suite.Equal(types.PositionStatusPartiallyClosed, live.Status)
	suite.InDelta(0.02*0.70, live.OpenVolume(), 1e-12)

	closed2, ok := suite.manager.ExecuteTakeProfit(position.ID, 2, 46300)
	suite.True(ok)
	suite.InDelta(0.02*0.40, closed2, 1e-12)

	closed3, ok := suite.manager.ExecuteTakeProfit(position.ID, 3, 47100)
	suite.True(ok)
	suite.InDelta(0.02*0.30, closed3, 1e-12)

	suite.InDelta(0.02, closed1+closed2+closed3, 1e-12)

	history := suite.manager.ClosedPositions()
	suite.Require().Len(history, 1)
	suite.Equal(types.PositionStatusClosed, history[0].Status)
	suite.Empty(suite.manager.Positions())
}

func (suite *ManagerTestSuite) TestTakeProfitJumpReportsHighestStage() {
	position, err := suite.manager.Open(buySignal(1.0), 0.02)
	suite.Require().NoError(err)

	// One print past every target: the scan reports stage 3 first and the
	// lower stages fill on later calls.
	stage, hit := suite.manager.CheckTakeProfit(position.ID, 48000)
	suite.True(hit)
	suite.Equal(3, stage)

	_, ok := suite.manager.ExecuteTakeProfit(position.ID, 3, 48000)
	suite.True(ok)

	stage, hit = suite.manager.CheckTakeProfit(position.ID, 48000)
	suite.True(hit)
	suite.Equal(2, stage)
}

func (suite *ManagerTestSuite) TestTakeProfitStageFillsOnlyOnce() {
	position, err := suite.manager.Open(buySignal(1.0), 0.02)
	suite.Require().NoError(err)

	_, ok := suite.manager.ExecuteTakeProfit(position.ID, 1, 45800)
	suite.True(ok)

	volume, ok := suite.manager.ExecuteTakeProfit(position.ID, 1, 45900)
	suite.False(ok)
	suite.Zero(volume)
}

func (suite *ManagerTestSuite) TestStopAfterPartialClosesResidualOnly() {
	position, err := suite.manager.Open(buySignal(1.0), 0.02)
	suite.Require().NoError(err)

	_, ok := suite.manager.ExecuteTakeProfit(position.ID, 1, 45800)
	suite.Require().True(ok)

	closed, ok := suite.manager.ExecuteStop(position.ID, 43900)
	suite.True(ok)
	suite.InDelta(0.02*0.70, closed, 1e-12)

	history := suite.manager.ClosedPositions()
	suite.Require().Len(history, 1)
	suite.Equal(types.PositionStatusStoppedOut, history[0].Status)
}

func (suite *ManagerTestSuite) TestUnknownIDOperationsAreNoOps() {
	suite.False(suite.manager.UpdatePrice("missing", 100))
	suite.False(suite.manager.CheckStop("missing", 100))

	volume, ok := suite.manager.ExecuteStop("missing", 100)
	suite.False(ok)
	suite.Zero(volume)

	stage, hit := suite.manager.CheckTakeProfit("missing", 100)
	suite.False(hit)
	suite.Zero(stage)

	volume, ok = suite.manager.ExecuteTakeProfit("missing", 1, 100)
	suite.False(ok)
	suite.Zero(volume)
}

func (suite *ManagerTestSuite) TestMonitorAllRunsStopBeforeTakeProfit() {
	position, err := suite.manager.Open(buySignal(1.0), 0.02)
	suite.Require().NoError(err)

	suite.manager.MonitorAll(map[string]float64{"XBTUSD": 43900})

	history := suite.manager.ClosedPositions()
	suite.Require().Len(history, 1)
	suite.Equal(position.ID, history[0].ID)
	suite.Equal(types.PositionStatusStoppedOut, history[0].Status)
}

func (suite *ManagerTestSuite) TestMonitorAllSkipsSymbolsWithoutPrice() {
	position, err := suite.manager.Open(buySignal(1.0), 0.02)
	suite.Require().NoError(err)

	suite.manager.MonitorAll(map[string]float64{"ETHUSD": 1})

	live, ok := suite.manager.Position(position.ID)
	suite.Require().True(ok)
	suite.Equal(types.PositionStatusOpen, live.Status)
}

func (suite *ManagerTestSuite) TestUnrealizedPnLUsesOpenVolume() {
	position, err := suite.manager.Open(buySignal(1.0), 0.02)
	suite.Require().NoError(err)

	_, ok := suite.manager.ExecuteTakeProfit(position.ID, 1, 45800)
	suite.Require().True(ok)

	suite.True(suite.manager.UpdatePrice(position.ID, 46000))

	live, ok := suite.manager.Position(position.ID)
	suite.Require().True(ok)
	suite.InDelta((46000-45000)*0.02*0.70, live.UnrealizedPnL, 1e-9)
}

func (suite *ManagerTestSuite) TestStatistics() {
	// One winner via full staged exit, one loser via stop.
	position, err := suite.manager.Open(buySignal(1.0), 0.02)
	suite.Require().NoError(err)

	for stage := 1; stage <= 3; stage++ {
		_, ok := suite.manager.ExecuteTakeProfit(position.ID, stage, position.TakeProfits[stage-1])
		suite.Require().True(ok)
	}

	position, err = suite.manager.Open(buySignal(1.0), 0.02)
	suite.Require().NoError(err)
	_, ok := suite.manager.ExecuteStop(position.ID, 43900)
	suite.Require().True(ok)

	stats := suite.manager.Statistics()
	suite.Equal(2, stats.TotalTrades)
	suite.Equal(1, stats.WinningTrades)
	suite.Equal(1, stats.LosingTrades)
	suite.InDelta(0.5, stats.WinRate, 1e-9)
	suite.Greater(stats.TotalProfit, 0.0)
	suite.InDelta(22, stats.TotalLoss, 1e-9)
	suite.Greater(stats.ProfitFactor, 0.0)
	suite.Equal(0, stats.OpenPositions)
	suite.Equal(1, stats.ConsecutiveLosses)
}

func (suite *ManagerTestSuite) TestProfitFactorZeroWithoutLosses() {
	position, err := suite.manager.Open(buySignal(1.0), 0.02)
	suite.Require().NoError(err)

	for stage := 1; stage <= 3; stage++ {
		_, ok := suite.manager.ExecuteTakeProfit(position.ID, stage, position.TakeProfits[stage-1])
		suite.Require().True(ok)
	}

	stats := suite.manager.Statistics()
	suite.Equal(1, stats.WinningTrades)
	suite.Zero(stats.LosingTrades)
	suite.Zero(stats.ProfitFactor)
}

func (suite *ManagerTestSuite) TestPeakCapitalOnlyRatchetsUp() {
	position, err := suite.manager.Open(buySignal(1.0), 0.02)
	suite.Require().NoError(err)

	suite.manager.UpdatePrice(position.ID, 46000)
	peakAfterGain := suite.manager.Portfolio().PeakCapital
	suite.Greater(peakAfterGain, 10000.0)

	suite.manager.UpdatePrice(position.ID, 44500)
	suite.Equal(peakAfterGain, suite.manager.Portfolio().PeakCapital)
	suite.Greater(suite.manager.Drawdown(), 0.0)
}

func (suite *ManagerTestSuite) TestDrawdownLimitBlocksEntries() {
	limits := DefaultRiskLimits()
	limits.MaxDrawdown = 0.01
	limits.MaxPositionSize = 1.0
	limits.RiskPerTrade = 0.5

	manager, err := NewManager(10000, limits, nil, nil)
	suite.Require().NoError(err)

	signal := buySignal(1.0)
	signal.EntryPrice = 100
	signal.StopLoss = 98

	position, err := manager.Open(signal, 25)
	suite.Require().NoError(err)

	// 25 units down 5 points is a 125 loss, a 1.25% drawdown from the
	// 10000 peak, past the 1% limit.
	manager.UpdatePrice(position.ID, 95)

	allowed, reason := manager.CanOpen()
	suite.False(allowed)
	suite.Contains(reason, "drawdown")
}

func (suite *ManagerTestSuite) TestStatePersistsAndRehydrates() {
	position, err := suite.manager.Open(buySignal(1.0), 0.02)
	suite.Require().NoError(err)

	_, ok := suite.manager.ExecuteTakeProfit(position.ID, 1, 45800)
	suite.Require().True(ok)

	// A second manager over the same store resumes mid-flight.
	restored, err := NewManager(10000, DefaultRiskLimits(), suite.store, logger.NewNopLogger())
	suite.Require().NoError(err)

	live := restored.Positions()
	suite.Require().Len(live, 1)
	suite.Equal(position.ID, live[0].ID)
	suite.Equal(types.PositionStatusPartiallyClosed, live[0].Status)
	suite.InDelta(0.02*0.70, live[0].OpenVolume(), 1e-12)
	suite.InDelta(suite.manager.Portfolio().TotalRealizedPnL, restored.Portfolio().TotalRealizedPnL, 1e-9)
}

func (suite *ManagerTestSuite) TestOpenChargesNoCapitalButCommitsNotional() {
	position, err := suite.manager.Open(buySignal(1.0), 0.02)
	suite.Require().NoError(err)

	suite.InDelta(10000, suite.manager.CurrentCapital(), 1e-9)
	suite.InDelta(10000-position.EntryPrice*0.02, suite.manager.AvailableCapital(), 1e-9)
}
