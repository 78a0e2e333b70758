// Package trading runs the live decision loop: it streams finalized bars,
// builds market snapshots, evaluates entry signals, and routes the
// resulting orders through a pluggable order transport while the risk
// manager tracks every position.
package trading

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/riptide-lab/riptide-trading/internal/logger"
	"github.com/riptide-lab/riptide-trading/internal/market"
	"github.com/riptide-lab/riptide-trading/internal/persistence"
	"github.com/riptide-lab/riptide-trading/internal/risk"
	"github.com/riptide-lab/riptide-trading/internal/strategy"
	"github.com/riptide-lab/riptide-trading/internal/types"
	"github.com/riptide-lab/riptide-trading/pkg/errors"
	"github.com/riptide-lab/riptide-trading/pkg/marketdata/provider"
)

// Trade lifecycle events reported through Callbacks.OnTrade.
const (
	TradeEventOpened     = "opened"
	TradeEventTakeProfit = "take_profit"
	TradeEventStoppedOut = "stopped_out"
)

// Callbacks let callers observe the loop. Every callback is optional and
// invoked from the streaming goroutine.
type Callbacks struct {
	// OnBar is called for every finalized bar before it is acted on.
	// Returning an error skips the decision cycle for that bar.
	OnBar func(types.Bar) error
	// OnSignal is called for every signal that clears the confidence
	// threshold, before risk checks.
	OnSignal func(types.TradeSignal)
	// OnTrade is called when a position opens, takes profit, or stops out.
	OnTrade func(types.Position, string)
	// OnError is called for stream and transport errors; the loop
	// continues after reporting.
	OnError func(error)
}

// Engine is the live trading loop.
type Engine struct {
	cfg       EngineConfig
	log       *logger.Logger
	provider  provider.Provider
	transport OrderTransport
	builder   *market.SnapshotBuilder
	generator *strategy.Generator
	metrics   *engineMetrics

	// mu guards manager, windows, and lastSignal; the HTTP server reads
	// statistics and positions concurrently with the stream goroutine.
	mu         sync.RWMutex
	manager    *risk.Manager
	windows    map[string]types.BarSeries
	lastSignal map[string]time.Time
}

// NewEngine validates the config and wires the decision pipeline. The store
// rehydrates the risk manager, so a restarted engine resumes with its
// previous positions and capital.
func NewEngine(cfg EngineConfig, dataProvider provider.Provider, transport OrderTransport, store persistence.StateStore, log *logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if dataProvider == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "trading engine requires a market data provider")
	}

	if transport == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfiguration, "trading engine requires an order transport")
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	builder, err := market.NewSnapshotBuilder(cfg.Snapshot, log)
	if err != nil {
		return nil, err
	}

	generator, err := strategy.NewGenerator(cfg.Signal, log)
	if err != nil {
		return nil, err
	}

	manager, err := risk.NewManager(cfg.InitialCapital, cfg.Risk, store, log)
	if err != nil {
		return nil, err
	}

	return &Engine{
		cfg:        cfg,
		log:        log,
		provider:   dataProvider,
		transport:  transport,
		builder:    builder,
		generator:  generator,
		metrics:    newEngineMetrics(),
		manager:    manager,
		windows:    make(map[string]types.BarSeries, len(cfg.Symbols)),
		lastSignal: make(map[string]time.Time, len(cfg.Symbols)),
	}, nil
}

// Run streams bars and trades until the context is cancelled. Stream errors
// are reported through the callbacks and the loop keeps going; only
// cancellation ends it.
func (e *Engine) Run(ctx context.Context, cb Callbacks) error {
	e.log.Info("trading engine started",
		zap.Strings("symbols", e.cfg.Symbols),
		zap.String("interval", e.cfg.Interval),
		zap.String("transport", e.transport.Name()),
		zap.Bool("paper_trading", e.cfg.PaperTrading))

	var server *Server

	if e.cfg.MetricsAddr != "" {
		server = NewServer(e.cfg.MetricsAddr, e, e.log)
		server.Start(ctx)

		defer server.Stop()
	}

	for bar, err := range e.provider.Stream(ctx, e.cfg.Symbols, e.cfg.Interval) {
		if err != nil {
			if errors.HasCode(err, errors.ErrCodeStreamingNotSupported) {
				return err
			}

			e.reportError(cb, err)

			continue
		}

		if ctx.Err() != nil {
			break
		}

		e.handleBar(ctx, bar, cb)
	}

	stats := e.Statistics()
	e.log.Info("trading engine stopped",
		zap.Int("total_trades", stats.TotalTrades),
		zap.Float64("current_capital", stats.CurrentCapital),
		zap.Float64("realized_pnl", stats.TotalRealizedPnL))

	return ctx.Err()
}

// Statistics returns the current trade statistics.
func (e *Engine) Statistics() types.TradeStatistics {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.manager.Statistics()
}

// OpenPositions returns the live positions.
func (e *Engine) OpenPositions() []types.Position {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.manager.Positions()
}

// handleBar runs one decision cycle for a finalized bar.
func (e *Engine) handleBar(ctx context.Context, bar types.Bar, cb Callbacks) {
	if cb.OnBar != nil {
		if err := cb.OnBar(bar); err != nil {
			e.reportError(cb, err)

			return
		}
	}

	e.mu.Lock()
	window := e.appendBar(bar)
	e.mu.Unlock()

	if signal, ok := e.evaluate(window, bar, cb); ok {
		e.enter(ctx, signal, bar, cb)
	}

	e.monitor(ctx, bar, cb)
	e.observe()
}

// appendBar pushes the bar into the symbol's rolling window, dropping the
// oldest bar once the window is full. Caller holds mu.
func (e *Engine) appendBar(bar types.Bar) types.BarSeries {
	window := append(e.windows[bar.Symbol], bar)
	if len(window) > e.cfg.WindowSize {
		window = window[len(window)-e.cfg.WindowSize:]
	}

	e.windows[bar.Symbol] = window

	out := make(types.BarSeries, len(window))
	copy(out, window)

	return out
}

// evaluate builds the snapshot and asks the generator for a signal. Bars
// seen before the window has filled are skipped silently.
func (e *Engine) evaluate(window types.BarSeries, bar types.Bar, cb Callbacks) (types.TradeSignal, bool) {
	snapshot, err := e.builder.Build(window)
	if err != nil {
		if !errors.IsInsufficientDataError(err) {
			e.reportError(cb, err)
		}

		return types.TradeSignal{}, false
	}

	trend := market.Classify(snapshot)

	signal, ok := e.generator.Evaluate(snapshot, trend, bar.Close)
	if !ok {
		return types.TradeSignal{}, false
	}

	e.metrics.signalsTotal.WithLabelValues(signal.Symbol, string(signal.Side)).Inc()

	if cb.OnSignal != nil {
		cb.OnSignal(signal)
	}

	if e.gated(bar.Symbol, bar.Time) {
		e.log.Debug("signal gated by minimum interval", zap.String("symbol", bar.Symbol))

		return types.TradeSignal{}, false
	}

	return signal, true
}

// gated reports whether the per-symbol minimum signal interval has not yet
// elapsed since the last acted-on signal.
func (e *Engine) gated(symbol string, at time.Time) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	last, seen := e.lastSignal[symbol]

	return seen && at.Sub(last) < e.cfg.MinSignalInterval
}

// enter sizes the signal, submits the entry order, and books the position
// at the executed price.
func (e *Engine) enter(ctx context.Context, signal types.TradeSignal, bar types.Bar, cb Callbacks) {
	e.mu.Lock()
	volume := e.manager.Size(signal)
	e.mu.Unlock()

	if volume <= 0 {
		return
	}

	order := types.Order{
		OrderID:   uuid.NewString(),
		Symbol:    signal.Symbol,
		Side:      signal.Side,
		OrderType: types.OrderTypeMarket,
		Quantity:  volume,
		Price:     signal.EntryPrice,
		Reason:    types.Reason{Kind: types.OrderReasonSignal, Message: "entry signal"},
		Timestamp: bar.Time,
	}

	result, err := e.transport.SubmitOrder(ctx, order)
	if err != nil {
		e.metrics.ordersTotal.WithLabelValues(signal.Symbol, "failed").Inc()
		e.reportError(cb, err)

		return
	}

	if result.ExecutedPrice > 0 {
		signal.EntryPrice = result.ExecutedPrice
	}

	if result.ExecutedQuantity > 0 {
		volume = result.ExecutedQuantity
	}

	e.mu.Lock()
	position, err := e.manager.Open(signal, volume)
	if err == nil {
		e.lastSignal[signal.Symbol] = bar.Time
	}
	e.mu.Unlock()

	if err != nil {
		if errors.HasCode(err, errors.ErrCodeRiskLimitExceeded) {
			e.log.Debug("signal rejected by risk limits", zap.Error(err))
		} else {
			e.reportError(cb, err)
		}

		return
	}

	e.metrics.ordersTotal.WithLabelValues(signal.Symbol, TradeEventOpened).Inc()

	e.log.Info("position opened",
		zap.String("symbol", position.Symbol),
		zap.String("position_id", position.ID),
		zap.Float64("entry", position.EntryPrice),
		zap.Float64("volume", position.Volume),
		zap.Float64("confidence", signal.Confidence))

	if cb.OnTrade != nil {
		cb.OnTrade(*position, TradeEventOpened)
	}
}

// monitor marks every live position of the bar's symbol to the close and
// executes stops first, then at most one take-profit stage.
func (e *Engine) monitor(ctx context.Context, bar types.Bar, cb Callbacks) {
	price := bar.Close

	e.mu.RLock()
	positions := e.manager.Positions()
	e.mu.RUnlock()

	for _, position := range positions {
		if position.Symbol != bar.Symbol {
			continue
		}

		e.mu.Lock()
		e.manager.UpdatePrice(position.ID, price)
		stopped := e.manager.CheckStop(position.ID, price)

		var (
			volume float64
			done   bool
			stage  int
			event  string
			reason string
		)

		switch {
		case stopped:
			volume, done = e.manager.ExecuteStop(position.ID, price)
			event, reason = TradeEventStoppedOut, types.OrderReasonStopLoss
		default:
			if stage, stopped = e.manager.CheckTakeProfit(position.ID, price); stopped {
				volume, done = e.manager.ExecuteTakeProfit(position.ID, stage, price)
				event, reason = TradeEventTakeProfit, types.OrderReasonTakeProfit
			}
		}

		var after types.Position
		if done {
			after = e.lookupPosition(position.ID)
		}
		e.mu.Unlock()

		if !done || volume <= 0 {
			continue
		}

		e.metrics.ordersTotal.WithLabelValues(position.Symbol, event).Inc()
		e.exit(ctx, position, volume, price, reason, bar.Time, cb)

		if cb.OnTrade != nil {
			cb.OnTrade(after, event)
		}
	}
}

// lookupPosition finds the position by id in the live set or, once
// terminal, in the close history. Caller holds mu.
func (e *Engine) lookupPosition(id string) types.Position {
	if position, ok := e.manager.Position(id); ok {
		return position
	}

	for _, position := range e.manager.ClosedPositions() {
		if position.ID == id {
			return position
		}
	}

	return types.Position{ID: id}
}

// exit submits the closing order for an executed stop or take-profit. The
// position is already reduced on the books; a transport failure is reported
// and leaves venue state to be reconciled by the operator.
func (e *Engine) exit(ctx context.Context, position types.Position, volume, price float64, reason string, at time.Time, cb Callbacks) {
	side := types.SignalSideSell
	if position.Side == types.SignalSideSell {
		side = types.SignalSideBuy
	}

	order := types.Order{
		OrderID:    uuid.NewString(),
		Symbol:     position.Symbol,
		Side:       side,
		OrderType:  types.OrderTypeMarket,
		Quantity:   volume,
		Price:      price,
		PositionID: position.ID,
		Reason:     types.Reason{Kind: reason, Message: "position exit"},
		Timestamp:  at,
	}

	if _, err := e.transport.SubmitOrder(ctx, order); err != nil {
		e.reportError(cb, err)
	}
}

// observe refreshes the portfolio gauges.
func (e *Engine) observe() {
	e.mu.RLock()
	open := len(e.manager.Positions())
	capital := e.manager.CurrentCapital()
	drawdown := e.manager.Drawdown()
	e.mu.RUnlock()

	e.metrics.openPositions.Set(float64(open))
	e.metrics.currentCapital.Set(capital)
	e.metrics.drawdown.Set(drawdown)
}

func (e *Engine) reportError(cb Callbacks, err error) {
	e.log.Warn("trading loop error", zap.Error(err))

	if cb.OnError != nil {
		cb.OnError(err)
	}
}
