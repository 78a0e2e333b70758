// Package market reduces bar windows into indicator snapshots and classifies
// the market regime they describe.
package market

import (
	"math"

	"go.uber.org/zap"

	"github.com/riptide-lab/riptide-trading/internal/indicator"
	"github.com/riptide-lab/riptide-trading/internal/logger"
	"github.com/riptide-lab/riptide-trading/internal/types"
	"github.com/riptide-lab/riptide-trading/pkg/errors"
)

// SnapshotBuilder turns a window of bars into one IndicatorSnapshot.
type SnapshotBuilder struct {
	cfg SnapshotConfig
	log *logger.Logger
}

// NewSnapshotBuilder validates the config and returns a builder.
func NewSnapshotBuilder(cfg SnapshotConfig, log *logger.Logger) (*SnapshotBuilder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &SnapshotBuilder{cfg: cfg, log: log}, nil
}

// Config returns the builder's configuration.
func (b *SnapshotBuilder) Config() SnapshotConfig {
	return b.cfg
}

// Build computes every indicator over the window and keeps the last value of
// each series (plus the previous MACD histogram value for slope checks).
// Windows shorter than MinBars are refused with an InsufficientDataError.
func (b *SnapshotBuilder) Build(bars types.BarSeries) (types.IndicatorSnapshot, error) {
	last, ok := bars.Last()
	if !ok || len(bars) < b.cfg.MinBars {
		symbol := ""
		if ok {
			symbol = last.Symbol
		}

		b.log.Debug("window below snapshot minimum",
			zap.String("symbol", symbol),
			zap.Int("bars", len(bars)),
			zap.Int("required", b.cfg.MinBars),
		)

		return types.IndicatorSnapshot{}, errors.NewInsufficientDataError(b.cfg.MinBars, len(bars), symbol, "")
	}

	closes := bars.Closes()
	highs := bars.Highs()
	lows := bars.Lows()
	volumes := bars.Volumes()

	emaFast, err := indicator.EMA(closes, b.cfg.EMAFastPeriod)
	if err != nil {
		return types.IndicatorSnapshot{}, err
	}

	emaMid, err := indicator.EMA(closes, b.cfg.EMAMidPeriod)
	if err != nil {
		return types.IndicatorSnapshot{}, err
	}

	emaSlow, err := indicator.EMA(closes, b.cfg.EMASlowPeriod)
	if err != nil {
		return types.IndicatorSnapshot{}, err
	}

	rsi, err := indicator.RSI(closes, b.cfg.RSIPeriod)
	if err != nil {
		return types.IndicatorSnapshot{}, err
	}

	macd, macdSignal, macdHist, err := indicator.MACD(closes, b.cfg.MACDFastPeriod, b.cfg.MACDSlowPeriod, b.cfg.MACDSignalPeriod)
	if err != nil {
		return types.IndicatorSnapshot{}, err
	}

	bbUpper, bbMiddle, bbLower, err := indicator.BollingerBands(closes, b.cfg.BollingerPeriod, b.cfg.BollingerK)
	if err != nil {
		return types.IndicatorSnapshot{}, err
	}

	atr, err := indicator.ATR(highs, lows, closes, b.cfg.ATRPeriod)
	if err != nil {
		return types.IndicatorSnapshot{}, err
	}

	adx, err := indicator.ADX(highs, lows, closes, b.cfg.ADXPeriod)
	if err != nil {
		return types.IndicatorSnapshot{}, err
	}

	volumeMA, err := indicator.SMA(volumes, b.cfg.VolumeMAPeriod)
	if err != nil {
		return types.IndicatorSnapshot{}, err
	}

	n := len(bars)

	histPrev := math.NaN()
	if n >= 2 {
		histPrev = macdHist[n-2]
	}

	return types.IndicatorSnapshot{
		Symbol:          last.Symbol,
		Time:            last.Time,
		Close:           last.Close,
		EMAFast:         emaFast[n-1],
		EMAMid:          emaMid[n-1],
		EMASlow:         emaSlow[n-1],
		RSI:             rsi[n-1],
		MACD:            macd[n-1],
		MACDSignal:      macdSignal[n-1],
		MACDHist:        macdHist[n-1],
		MACDHistPrev:    histPrev,
		BollingerUpper:  bbUpper[n-1],
		BollingerMiddle: bbMiddle[n-1],
		BollingerLower:  bbLower[n-1],
		ATR:             atr[n-1],
		ADX:             adx[n-1],
		VolumeMA:        volumeMA[n-1],
		Volume:          last.Volume,
	}, nil
}
