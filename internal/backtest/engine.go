// Package backtest replays a historical bar series through the snapshot
// builder, signal generator, and risk manager, and reports the resulting
// equity curve and performance metrics.
package backtest

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/riptide-lab/riptide-trading/internal/backtest/commission"
	"github.com/riptide-lab/riptide-trading/internal/logger"
	"github.com/riptide-lab/riptide-trading/internal/market"
	"github.com/riptide-lab/riptide-trading/internal/persistence"
	"github.com/riptide-lab/riptide-trading/internal/risk"
	"github.com/riptide-lab/riptide-trading/internal/strategy"
	"github.com/riptide-lab/riptide-trading/internal/types"
	"github.com/riptide-lab/riptide-trading/pkg/errors"
)

// OnProgress reports replay progress as processed and total step counts.
type OnProgress func(current, total int)

// Engine replays bars in strict chronological order. Each step sees only
// the window ending at the current bar, decides, then monitors open
// positions at the current close.
type Engine struct {
	cfg        Config
	log        *logger.Logger
	builder    *market.SnapshotBuilder
	generator  *strategy.Generator
	fee        commission.Fee
	onProgress OnProgress
}

// NewEngine validates the config and builds the replay pipeline.
func NewEngine(cfg Config, log *logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	builder, err := market.NewSnapshotBuilder(cfg.Snapshot, log)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to build snapshot builder", err)
	}

	generator, err := strategy.NewGenerator(cfg.Signal, log)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeBacktestInitFailed, "failed to build signal generator", err)
	}

	return &Engine{
		cfg:       cfg,
		log:       log,
		builder:   builder,
		generator: generator,
		fee:       commission.NewFlatRateFee(cfg.CommissionRate),
	}, nil
}

// SetProgressCallback attaches a progress callback, invoked once per
// replayed bar.
func (e *Engine) SetProgressCallback(onProgress OnProgress) {
	e.onProgress = onProgress
}

// Run replays the bar series and returns the performance report. The series
// must be chronologically ordered; bars outside the configured time bounds
// are dropped first. Cancelling the context stops the replay between bars.
func (e *Engine) Run(ctx context.Context, bars types.BarSeries) (*Report, error) {
	bars = e.filterBars(bars)
	if len(bars) <= e.cfg.WindowSize {
		return nil, errors.NewInsufficientDataError(e.cfg.WindowSize+1, len(bars), e.cfg.Symbol, "backtest needs more bars than one window")
	}

	manager, err := risk.NewManager(e.cfg.InitialCapital, e.cfg.Risk, persistence.NewMemoryStore(), e.log)
	if err != nil {
		return nil, err
	}

	totalSteps := len(bars) - e.cfg.WindowSize
	totalCommission := 0.0

	equity := make([]float64, 0, totalSteps+1)
	equity = append(equity, e.cfg.InitialCapital)

	timestamps := make([]string, 0, totalSteps)

	e.log.Info("backtest started",
		zap.Int("bars", len(bars)),
		zap.Int("steps", totalSteps),
		zap.Float64("initial_capital", e.cfg.InitialCapital))

	for i := e.cfg.WindowSize; i < len(bars); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		bar := bars[i]
		price := bar.Close
		window := decisionWindow(bars, i, e.cfg.WindowSize)

		totalCommission += e.step(manager, window, price)

		equity = append(equity, manager.CurrentCapital()-totalCommission)
		timestamps = append(timestamps, bar.Time.UTC().Format(time.RFC3339))

		if e.onProgress != nil {
			e.onProgress(i-e.cfg.WindowSize+1, totalSteps)
		}
	}

	stats := manager.Statistics()
	stats.CurrentCapital -= totalCommission
	stats.AvailableCapital -= totalCommission

	report := NewReport(e.cfg.InitialCapital, totalCommission, equity, timestamps, stats)

	e.log.Info("backtest finished",
		zap.Int("trades", stats.TotalTrades),
		zap.Float64("final_capital", report.Summary.FinalCapital),
		zap.Float64("total_return", report.Summary.TotalReturn))

	return report, nil
}

// decisionWindow returns the lookback slice for step i: size bars ending
// at bar i-1, so the decision bar never feeds its own indicators.
func decisionWindow(bars types.BarSeries, i, size int) types.BarSeries {
	return bars[i-size : i]
}

// step runs one decision cycle: snapshot, signal, entry, then position
// monitoring. Indicators come from the lookback window; price is the close
// of the decision bar. It returns the commission charged during the step.
func (e *Engine) step(manager *risk.Manager, window types.BarSeries, price float64) float64 {
	charged := 0.0

	snapshot, err := e.builder.Build(window)
	if err != nil {
		// Short windows are expected near the start of the series; the
		// bar is skipped, never fatal.
		if !errors.IsInsufficientDataError(err) {
			e.log.Warn("snapshot build failed, skipping bar", zap.Error(err))
		}
	} else {
		trend := market.Classify(snapshot)
		if signal, ok := e.generator.Evaluate(snapshot, trend, price); ok {
			charged += e.execute(manager, signal)
		}
	}

	symbol := ""
	if last, ok := window.Last(); ok {
		symbol = last.Symbol
	}

	charged += e.monitor(manager, symbol, price)

	return charged
}

// execute sizes and opens a position for the signal. Risk denials and zero
// sizes drop the signal silently; only the commission charged is returned.
func (e *Engine) execute(manager *risk.Manager, signal types.TradeSignal) float64 {
	volume := manager.Size(signal)
	if volume <= 0 {
		return 0
	}

	position, err := manager.Open(signal, volume)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeRiskLimitExceeded) {
			e.log.Debug("signal rejected by risk limits", zap.Error(err))

			return 0
		}

		e.log.Warn("failed to open position", zap.Error(err))

		return 0
	}

	return e.fee.Calculate(position.EntryPrice, position.Volume)
}

// monitor marks every live position of the symbol to the bar close and
// executes the stop or at most one take-profit stage, charging exit
// commission when configured.
func (e *Engine) monitor(manager *risk.Manager, symbol string, price float64) float64 {
	charged := 0.0

	for _, position := range manager.Positions() {
		if position.Symbol != symbol {
			continue
		}

		manager.UpdatePrice(position.ID, price)

		if manager.CheckStop(position.ID, price) {
			if volume, ok := manager.ExecuteStop(position.ID, price); ok && e.cfg.CommissionOnExit {
				charged += e.fee.Calculate(price, volume)
			}

			continue
		}

		if stage, hit := manager.CheckTakeProfit(position.ID, price); hit {
			if volume, ok := manager.ExecuteTakeProfit(position.ID, stage, price); ok && e.cfg.CommissionOnExit {
				charged += e.fee.Calculate(price, volume)
			}
		}
	}

	return charged
}

// filterBars applies the configured symbol and time bounds.
func (e *Engine) filterBars(bars types.BarSeries) types.BarSeries {
	out := make(types.BarSeries, 0, len(bars))

	for _, bar := range bars {
		if e.cfg.Symbol != "" && bar.Symbol != e.cfg.Symbol {
			continue
		}

		if e.cfg.StartTime.IsSome() && bar.Time.Before(e.cfg.StartTime.Unwrap()) {
			continue
		}

		if e.cfg.EndTime.IsSome() && bar.Time.After(e.cfg.EndTime.Unwrap()) {
			continue
		}

		out = append(out, bar)
	}

	return out
}
