// Package risk owns every position and the capital accounting around it:
// entry permission, sizing, staged take-profit closes, stop-loss closes,
// and the consecutive-loss circuit breaker. State is persisted through an
// injected store after every mutating operation.
package risk

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/riptide-lab/riptide-trading/internal/logger"
	"github.com/riptide-lab/riptide-trading/internal/persistence"
	"github.com/riptide-lab/riptide-trading/internal/types"
	"github.com/riptide-lab/riptide-trading/pkg/errors"
)

// takeProfitFractions is the share of the ORIGINAL volume closed at each
// take-profit stage. The stages sum to 1 so a position that walks through
// all three ends exactly flat.
var takeProfitFractions = [3]float64{0.30, 0.40, 0.30}

// Manager tracks live positions, realized PnL, and the loss streak.
// Capital is derived, never stored: current capital is the configured
// total plus realized PnL plus the unrealized PnL of live positions.
//
// Manager is not safe for concurrent use; callers run one decision cycle
// at a time.
type Manager struct {
	limits RiskLimits
	store  persistence.StateStore
	log    *logger.Logger

	initialCapital    float64
	totalRealizedPnL  float64
	peakCapital       float64
	consecutiveLosses int
	tradingPaused     bool

	positions map[string]*types.Position
	order     []string // live position ids, oldest first
	closed    []types.Position
}

// NewManager validates the limits and restores any prior state from the
// store. A nil store disables persistence; a nil logger disables logging.
func NewManager(initialCapital float64, limits RiskLimits, store persistence.StateStore, log *logger.Logger) (*Manager, error) {
	if err := limits.Validate(); err != nil {
		return nil, err
	}

	if initialCapital <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidRiskParameters,
			"initial capital must be positive, got %.2f", initialCapital)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	m := &Manager{
		limits:         limits,
		store:          store,
		log:            log,
		initialCapital: initialCapital,
		peakCapital:    initialCapital,
		positions:      make(map[string]*types.Position),
	}

	m.rehydrate()

	m.log.Info("risk manager initialized",
		zap.Float64("initial_capital", initialCapital),
		zap.Int("open_positions", len(m.positions)))

	return m, nil
}

// rehydrate restores positions and counters from the store. Failures are
// logged and the manager starts fresh; persistence is best effort.
func (m *Manager) rehydrate() {
	if m.store == nil {
		return
	}

	snapshot, ok, err := m.store.Load()
	if err != nil {
		m.log.Error("failed to load prior state, starting fresh", zap.Error(err))

		return
	}

	if !ok {
		return
	}

	for i := range snapshot.OpenPositions {
		position := snapshot.OpenPositions[i]
		m.positions[position.ID] = &position
		m.order = append(m.order, position.ID)
	}

	m.closed = append(m.closed, snapshot.ClosedPositions...)
	m.consecutiveLosses = snapshot.Portfolio.ConsecutiveLosses
	m.totalRealizedPnL = snapshot.Portfolio.TotalRealizedPnL
	m.tradingPaused = snapshot.TradingPaused
	m.peakCapital = math.Max(m.peakCapital, snapshot.Portfolio.PeakCapital)
	m.observeCapital()

	m.log.Info("trading state restored",
		zap.Int("open_positions", len(m.positions)),
		zap.Int("closed_positions", len(m.closed)),
		zap.Int("consecutive_losses", m.consecutiveLosses))
}

// CurrentCapital is the configured capital plus all realized PnL plus the
// unrealized PnL of live positions.
func (m *Manager) CurrentCapital() float64 {
	unrealized := 0.0
	for _, position := range m.positions {
		unrealized += position.UnrealizedPnL
	}

	return m.initialCapital + m.totalRealizedPnL + unrealized
}

// AvailableCapital is the current capital minus the entry notional still
// committed to open positions.
func (m *Manager) AvailableCapital() float64 {
	inUse := 0.0
	for _, position := range m.positions {
		inUse += position.EntryPrice * position.OpenVolume()
	}

	return m.CurrentCapital() - inUse
}

// Drawdown is the fraction lost from the capital peak.
func (m *Manager) Drawdown() float64 {
	return m.Portfolio().Drawdown()
}

// CanOpen reports whether a new position may be opened and, when denied,
// which limit blocked it.
func (m *Manager) CanOpen() (bool, string) {
	if len(m.positions) >= m.limits.MaxPositions {
		return false, fmt.Sprintf("maximum open positions reached (%d)", m.limits.MaxPositions)
	}

	if drawdown := m.Drawdown(); drawdown > m.limits.MaxDrawdown {
		return false, fmt.Sprintf("maximum drawdown exceeded (%.2f%%)", drawdown*100)
	}

	if m.limits.PauseAfterMaxLosses && m.consecutiveLosses >= m.limits.MaxConsecutiveLosses {
		return false, fmt.Sprintf("trading paused after %d consecutive losses", m.consecutiveLosses)
	}

	return true, "ok"
}

// Size converts a signal into a volume: the capital at risk between entry
// and stop scaled by confidence, capped by the per-position notional limit
// and by the capital not already committed. Returns 0 when the stop sits
// on the entry or nothing is affordable; never negative.
func (m *Manager) Size(signal types.TradeSignal) float64 {
	riskPerUnit := math.Abs(signal.EntryPrice - signal.StopLoss)
	if riskPerUnit == 0 || signal.EntryPrice <= 0 {
		return 0
	}

	riskAmount := m.initialCapital * m.limits.RiskPerTrade * signal.Confidence
	volume := riskAmount / riskPerUnit

	maxVolume := m.initialCapital * m.limits.MaxPositionSize / signal.EntryPrice
	volume = math.Min(volume, maxVolume)

	volume = math.Min(volume, m.AvailableCapital()/signal.EntryPrice)

	return math.Max(volume, 0)
}

// Open creates a live position for the signal at the given volume. The
// entry timestamp comes from the signal's bar so backtests stay
// deterministic.
func (m *Manager) Open(signal types.TradeSignal, volume float64) (*types.Position, error) {
	allowed, reason := m.CanOpen()
	if !allowed {
		return nil, errors.Newf(errors.ErrCodeRiskLimitExceeded, "cannot open position: %s", reason)
	}

	if volume <= 0 {
		return nil, errors.Newf(errors.ErrCodeInvalidVolume, "position volume must be positive, got %f", volume)
	}

	position := &types.Position{
		ID:           uuid.NewString(),
		Symbol:       signal.Symbol,
		Side:         signal.Side,
		EntryPrice:   signal.EntryPrice,
		Volume:       volume,
		StopLoss:     signal.StopLoss,
		TakeProfits:  signal.TakeProfits,
		EntryTime:    signal.Time,
		Status:       types.PositionStatusOpen,
		CurrentPrice: signal.EntryPrice,
	}

	m.positions[position.ID] = position
	m.order = append(m.order, position.ID)

	m.log.Info("position opened",
		zap.String("id", position.ID),
		zap.String("symbol", position.Symbol),
		zap.String("side", string(position.Side)),
		zap.Float64("volume", volume),
		zap.Float64("entry", position.EntryPrice),
		zap.Float64("stop_loss", position.StopLoss))

	m.commit()

	opened := *position

	return &opened, nil
}

// UpdatePrice refreshes a live position's mark and unrealized PnL.
// Unknown ids return false.
func (m *Manager) UpdatePrice(id string, price float64) bool {
	position, ok := m.positions[id]
	if !ok {
		return false
	}

	position.UpdatePrice(price)
	m.observeCapital()

	return true
}

// CheckStop reports whether price has crossed the stop in the adverse
// direction.
func (m *Manager) CheckStop(id string, price float64) bool {
	position, ok := m.positions[id]
	if !ok {
		return false
	}

	if position.Side == types.SignalSideBuy {
		return price <= position.StopLoss
	}

	return price >= position.StopLoss
}

// ExecuteStop closes everything still open at the given price, realizes
// the PnL, and retires the position as STOPPED_OUT. A losing stop extends
// the loss streak; a break-even or winning one resets it. Returns the
// volume closed.
func (m *Manager) ExecuteStop(id string, price float64) (float64, bool) {
	position, ok := m.positions[id]
	if !ok {
		return 0, false
	}

	volume := position.OpenVolume()
	pnl := position.PnLAt(price, volume)

	position.RealizedPnL += pnl
	m.totalRealizedPnL += pnl
	position.CurrentPrice = price
	position.UnrealizedPnL = 0
	position.Status = types.PositionStatusStoppedOut
	position.CloseTime = time.Now().UTC()

	if pnl < 0 {
		m.consecutiveLosses++
		if m.limits.PauseAfterMaxLosses && m.consecutiveLosses >= m.limits.MaxConsecutiveLosses {
			m.tradingPaused = true
			m.log.Warn("trading paused by loss streak",
				zap.Int("consecutive_losses", m.consecutiveLosses))
		}
	} else {
		m.consecutiveLosses = 0
		m.tradingPaused = false
	}

	m.retire(id)

	m.log.Warn("stop loss executed",
		zap.String("id", id),
		zap.String("symbol", position.Symbol),
		zap.Float64("volume", volume),
		zap.Float64("price", price),
		zap.Float64("pnl", pnl))

	m.commit()

	return volume, true
}

// CheckTakeProfit returns the highest unfilled stage whose target the
// price has crossed, scanning from the furthest stage inward. A jump past
// several levels reports the highest; lower stages fill on later calls.
func (m *Manager) CheckTakeProfit(id string, price float64) (int, bool) {
	position, ok := m.positions[id]
	if !ok {
		return 0, false
	}

	for stage := 3; stage >= 1; stage-- {
		if position.ClosedVolume[stage-1] != 0 {
			continue
		}

		target := position.TakeProfits[stage-1]
		if position.Side == types.SignalSideBuy && price >= target {
			return stage, true
		}

		if position.Side == types.SignalSideSell && price <= target {
			return stage, true
		}
	}

	return 0, false
}

// ExecuteTakeProfit closes the stage's share of the ORIGINAL volume at the
// given price, clamped to what is still open. A stage fills at most once.
// Returns the volume closed.
func (m *Manager) ExecuteTakeProfit(id string, stage int, price float64) (float64, bool) {
	position, ok := m.positions[id]
	if !ok {
		return 0, false
	}

	if stage < 1 || stage > 3 {
		return 0, false
	}

	if position.ClosedVolume[stage-1] != 0 {
		return 0, false
	}

	volume := math.Min(position.Volume*takeProfitFractions[stage-1], position.OpenVolume())
	if volume <= 0 {
		return 0, false
	}

	pnl := position.PnLAt(price, volume)
	position.ClosedVolume[stage-1] = volume
	position.RealizedPnL += pnl
	m.totalRealizedPnL += pnl

	if position.IsFullyClosed() {
		position.Status = types.PositionStatusClosed
		position.CloseTime = time.Now().UTC()
		position.CurrentPrice = price
		position.UnrealizedPnL = 0
		m.retire(id)
	} else {
		position.Status = types.PositionStatusPartiallyClosed
		position.UpdatePrice(price)
	}

	m.log.Info("take profit filled",
		zap.String("id", id),
		zap.String("symbol", position.Symbol),
		zap.Int("stage", stage),
		zap.Float64("volume", volume),
		zap.Float64("price", price),
		zap.Float64("pnl", pnl))

	m.commit()

	return volume, true
}

// MonitorAll runs one monitoring cycle over every live position that has
// a price: mark-to-market, then stop, then at most one take-profit stage.
// Positions are visited in open order so a cycle is deterministic; symbols
// without a price are skipped.
func (m *Manager) MonitorAll(prices map[string]float64) {
	ids := append(m.order[:0:0], m.order...)

	for _, id := range ids {
		position, ok := m.positions[id]
		if !ok {
			continue
		}

		price, ok := prices[position.Symbol]
		if !ok {
			continue
		}

		m.UpdatePrice(id, price)

		if m.CheckStop(id, price) {
			m.ExecuteStop(id, price)

			continue
		}

		if stage, hit := m.CheckTakeProfit(id, price); hit {
			m.ExecuteTakeProfit(id, stage, price)
		}
	}
}

// Statistics summarizes the closed-trade history plus the live portfolio.
func (m *Manager) Statistics() types.TradeStatistics {
	stats := types.TradeStatistics{
		TotalTrades:       len(m.closed),
		TotalRealizedPnL:  m.totalRealizedPnL,
		CurrentCapital:    m.CurrentCapital(),
		AvailableCapital:  m.AvailableCapital(),
		Drawdown:          m.Drawdown(),
		OpenPositions:     len(m.positions),
		ConsecutiveLosses: m.consecutiveLosses,
	}

	for _, position := range m.closed {
		if position.RealizedPnL > 0 {
			stats.WinningTrades++
			stats.TotalProfit += position.RealizedPnL
		} else {
			stats.LosingTrades++
			stats.TotalLoss += -position.RealizedPnL
		}
	}

	if stats.TotalTrades > 0 {
		stats.WinRate = float64(stats.WinningTrades) / float64(stats.TotalTrades)
	}

	if stats.TotalLoss > 0 {
		stats.ProfitFactor = stats.TotalProfit / stats.TotalLoss
	}

	return stats
}

// Position returns a copy of one live position.
func (m *Manager) Position(id string) (types.Position, bool) {
	position, ok := m.positions[id]
	if !ok {
		return types.Position{}, false
	}

	return *position, true
}

// Positions returns copies of the live positions in open order.
func (m *Manager) Positions() []types.Position {
	out := make([]types.Position, 0, len(m.order))

	for _, id := range m.order {
		if position, ok := m.positions[id]; ok {
			out = append(out, *position)
		}
	}

	return out
}

// ClosedPositions returns a copy of the terminal history in close order.
func (m *Manager) ClosedPositions() []types.Position {
	return append(m.closed[:0:0], m.closed...)
}

// Portfolio returns the derived capital counters as one value.
func (m *Manager) Portfolio() types.PortfolioState {
	return types.PortfolioState{
		InitialCapital:    m.initialCapital,
		CurrentCapital:    m.CurrentCapital(),
		PeakCapital:       m.peakCapital,
		ConsecutiveLosses: m.consecutiveLosses,
		TotalRealizedPnL:  m.totalRealizedPnL,
	}
}

// Paused reports whether the consecutive-loss circuit breaker is tripped.
func (m *Manager) Paused() bool {
	return m.tradingPaused
}

// Limits returns the configured risk limits.
func (m *Manager) Limits() RiskLimits {
	return m.limits
}

// retire moves a terminal position from the live set to the history.
func (m *Manager) retire(id string) {
	position, ok := m.positions[id]
	if !ok {
		return
	}

	delete(m.positions, id)

	for i, openID := range m.order {
		if openID == id {
			m.order = append(m.order[:i], m.order[i+1:]...)

			break
		}
	}

	m.closed = append(m.closed, *position)
}

// observeCapital ratchets the running capital peak.
func (m *Manager) observeCapital() {
	if capital := m.CurrentCapital(); capital > m.peakCapital {
		m.peakCapital = capital
	}
}

// persist saves a snapshot through the store. Failures are logged and
// swallowed; persistence must never abort a trading cycle.
func (m *Manager) persist() {
	if m.store == nil {
		return
	}

	snapshot := persistence.NewStateSnapshot(m.Portfolio(), m.Positions(), m.ClosedPositions(), m.tradingPaused)
	if err := m.store.Save(snapshot); err != nil {
		m.log.Error("failed to persist trading state", zap.Error(err))
	}
}

// commit is the single exit path of every mutating operation: ratchet the
// capital peak, then persist.
func (m *Manager) commit() {
	m.observeCapital()
	m.persist()
}
