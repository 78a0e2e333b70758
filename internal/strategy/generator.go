// Package strategy scores indicator snapshots with a hybrid
// momentum-reversion strategy and emits trade signals when enough
// weighted conditions agree.
package strategy

import (
	"go.uber.org/zap"

	"github.com/riptide-lab/riptide-trading/internal/logger"
	"github.com/riptide-lab/riptide-trading/internal/types"
)

// Generator turns an IndicatorSnapshot plus a trend classification into an
// optional TradeSignal. Evaluate is a pure function of its inputs and the
// config, so the same market window always yields the same decision.
type Generator struct {
	cfg SignalConfig
	log *logger.Logger
}

// NewGenerator validates the config and returns a ready generator. A nil
// logger disables logging.
func NewGenerator(cfg SignalConfig, log *logger.Logger) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Generator{cfg: cfg, log: log}, nil
}

// Config returns the thresholds the generator was built with.
func (g *Generator) Config() SignalConfig {
	return g.cfg
}

// Evaluate scores the snapshot against the given trend class and the
// current market price. Indicators come from the snapshot's lookback
// window; price is the close of the bar being decided on and drives the
// band-proximity check and the entry, stop and target arithmetic. It
// returns the emitted signal and true, or a zero signal and false when no
// component combination clears MinConfidence. Sideways markets never
// produce a signal. Any comparison against an undefined (NaN) indicator
// fails the component that uses it.
func (g *Generator) Evaluate(snap types.IndicatorSnapshot, trend types.TrendClass, price float64) (types.TradeSignal, bool) {
	var side types.SignalSide
	switch trend {
	case types.TrendUp:
		side = types.SignalSideBuy
	case types.TrendDown:
		side = types.SignalSideSell
	default:
		return types.TradeSignal{}, false
	}

	confidence := 0.0
	reasons := make([]string, 0, 4)

	if !g.trendConfirmed(snap, side) {
		return types.TradeSignal{}, false
	}
	confidence += g.cfg.TrendWeight
	if side == types.SignalSideBuy {
		reasons = append(reasons, "uptrend confirmed")
	} else {
		reasons = append(reasons, "downtrend confirmed")
	}

	if !g.momentumConfirmed(snap, side) {
		return types.TradeSignal{}, false
	}
	confidence += g.cfg.MomentumWeight
	if side == types.SignalSideBuy {
		reasons = append(reasons, "bullish momentum")
	} else {
		reasons = append(reasons, "bearish momentum")
	}

	if g.nearBand(snap, side, price) {
		confidence += g.cfg.BollingerWeight
		if side == types.SignalSideBuy {
			reasons = append(reasons, "price at lower bollinger band")
		} else {
			reasons = append(reasons, "price at upper bollinger band")
		}
	}

	if g.volumeConfirmed(snap) {
		confidence += g.cfg.VolumeWeight
		reasons = append(reasons, "volume above average")
	}

	if confidence < g.cfg.MinConfidence {
		g.log.Debug("candidate below confidence threshold",
			zap.String("symbol", snap.Symbol),
			zap.String("side", string(side)),
			zap.Float64("confidence", confidence),
			zap.Float64("min_confidence", g.cfg.MinConfidence))
		return types.TradeSignal{}, false
	}

	direction := 1.0
	if side == types.SignalSideSell {
		direction = -1.0
	}

	var targets [3]float64
	for i, multiple := range g.cfg.TakeProfitATRMultiples {
		targets[i] = price + direction*snap.ATR*multiple
	}

	signal := types.TradeSignal{
		Symbol:       snap.Symbol,
		Time:         snap.Time,
		Side:         side,
		Confidence:   confidence,
		EntryPrice:   price,
		StopLoss:     price - direction*snap.ATR*g.cfg.StopATRMultiple,
		TakeProfits:  targets,
		SizeFraction: g.cfg.MaxPositionFraction * confidence,
		Reasons:      reasons,
	}

	g.log.Info("signal emitted",
		zap.String("symbol", signal.Symbol),
		zap.String("side", string(signal.Side)),
		zap.Float64("confidence", signal.Confidence),
		zap.Float64("entry", signal.EntryPrice),
		zap.Float64("stop_loss", signal.StopLoss),
		zap.Float64("size_fraction", signal.SizeFraction))

	return signal, true
}

// trendConfirmed requires the EMA stack (or price against the slow EMA) to
// agree with the direction, plus ADX above the relaxed threshold.
func (g *Generator) trendConfirmed(snap types.IndicatorSnapshot, side types.SignalSide) bool {
	strong := snap.ADX > g.cfg.ADXThreshold-g.cfg.ADXSlack

	if side == types.SignalSideBuy {
		aligned := snap.EMAFast > snap.EMAMid || snap.Close > snap.EMASlow
		return aligned && strong
	}
	aligned := snap.EMAFast < snap.EMAMid || snap.Close < snap.EMASlow
	return aligned && strong
}

// momentumConfirmed requires RSI inside the widened zone and the MACD
// histogram favorable or improving in the signal's direction.
func (g *Generator) momentumConfirmed(snap types.IndicatorSnapshot, side types.SignalSide) bool {
	if side == types.SignalSideBuy {
		rsiOK := snap.RSI < g.cfg.RSIOversold+g.cfg.RSIZoneMargin
		histOK := snap.MACDHist > 0 || snap.MACDHist > snap.MACDHistPrev
		return rsiOK && histOK
	}
	rsiOK := snap.RSI > g.cfg.RSIOverbought-g.cfg.RSIZoneMargin
	histOK := snap.MACDHist < 0 || snap.MACDHist < snap.MACDHistPrev
	return rsiOK && histOK
}

// nearBand reports whether the current price sits within
// BollingerProximity of the band range from the band on the signal's side.
func (g *Generator) nearBand(snap types.IndicatorSnapshot, side types.SignalSide, price float64) bool {
	bandRange := snap.BollingerUpper - snap.BollingerLower

	if side == types.SignalSideBuy {
		return price-snap.BollingerLower < bandRange*g.cfg.BollingerProximity
	}
	return snap.BollingerUpper-price < bandRange*g.cfg.BollingerProximity
}

func (g *Generator) volumeConfirmed(snap types.IndicatorSnapshot) bool {
	return snap.Volume > snap.VolumeMA*g.cfg.VolumeRatio
}
