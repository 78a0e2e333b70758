package strategy

import (
	"github.com/go-playground/validator/v10"

	"github.com/riptide-lab/riptide-trading/pkg/errors"
)

// SignalConfig holds the tunable thresholds of the momentum-reversion
// strategy. Weights are the confidence contribution of each scoring
// component; trend and momentum are mandatory and short-circuit the
// evaluation when they fail.
type SignalConfig struct {
	// MinConfidence is the combined score a candidate must reach before a
	// signal is emitted.
	MinConfidence float64 `yaml:"min_confidence" json:"min_confidence" validate:"gt=0,lte=1"`

	TrendWeight     float64 `yaml:"trend_weight" json:"trend_weight" validate:"gte=0,lte=1"`
	MomentumWeight  float64 `yaml:"momentum_weight" json:"momentum_weight" validate:"gte=0,lte=1"`
	BollingerWeight float64 `yaml:"bollinger_weight" json:"bollinger_weight" validate:"gte=0,lte=1"`
	VolumeWeight    float64 `yaml:"volume_weight" json:"volume_weight" validate:"gte=0,lte=1"`

	// RSIOversold and RSIOverbought are the base RSI zones. The momentum
	// check widens each zone by RSIZoneMargin toward the middle so entries
	// trigger before price is fully stretched.
	RSIOversold   float64 `yaml:"rsi_oversold" json:"rsi_oversold" validate:"gt=0,lt=100"`
	RSIOverbought float64 `yaml:"rsi_overbought" json:"rsi_overbought" validate:"gt=0,lt=100"`

	// RSIZoneMargin is how far each RSI zone is widened toward the middle:
	// BUY momentum accepts RSI below (RSIOversold + RSIZoneMargin), SELL
	// above (RSIOverbought - RSIZoneMargin).
	RSIZoneMargin float64 `yaml:"rsi_zone_margin" json:"rsi_zone_margin" validate:"gte=0,lt=50"`

	// ADXThreshold gates trend strength; trend confirmation accepts ADX
	// above (ADXThreshold - ADXSlack).
	ADXThreshold float64 `yaml:"adx_threshold" json:"adx_threshold" validate:"gt=0"`

	// ADXSlack relaxes the ADX gate during trend confirmation.
	ADXSlack float64 `yaml:"adx_slack" json:"adx_slack" validate:"gte=0"`

	// BollingerProximity is the fraction of the band range within which
	// price counts as sitting on the band.
	BollingerProximity float64 `yaml:"bollinger_proximity" json:"bollinger_proximity" validate:"gt=0,lte=1"`

	// VolumeRatio is the multiple of the volume moving average the current
	// bar must exceed.
	VolumeRatio float64 `yaml:"volume_ratio" json:"volume_ratio" validate:"gt=0"`

	// StopATRMultiple sets the protective stop distance in ATR units.
	StopATRMultiple float64 `yaml:"stop_atr_multiple" json:"stop_atr_multiple" validate:"gt=0"`

	// TakeProfitATRMultiples set the three staged target distances in ATR
	// units, nearest first.
	TakeProfitATRMultiples [3]float64 `yaml:"take_profit_atr_multiples" json:"take_profit_atr_multiples" validate:"dive,gt=0"`

	// MaxPositionFraction caps the advisory size hint attached to a signal;
	// the emitted fraction is MaxPositionFraction scaled by confidence.
	MaxPositionFraction float64 `yaml:"max_position_fraction" json:"max_position_fraction" validate:"gt=0,lte=1"`
}

// DefaultSignalConfig returns the standard thresholds: 0.75 minimum
// confidence over weights 0.30/0.30/0.20/0.20, RSI zones 30/70 widened by
// 10, ADX 25 with slack 5, stop at 2 ATR with targets at 1.5/2.5/4 ATR.
func DefaultSignalConfig() SignalConfig {
	return SignalConfig{
		MinConfidence:          0.75,
		TrendWeight:            0.30,
		MomentumWeight:         0.30,
		BollingerWeight:        0.20,
		VolumeWeight:           0.20,
		RSIOversold:            30,
		RSIOverbought:          70,
		RSIZoneMargin:          10,
		ADXThreshold:           25,
		ADXSlack:               5,
		BollingerProximity:     0.2,
		VolumeRatio:            1.1,
		StopATRMultiple:        2.0,
		TakeProfitATRMultiples: [3]float64{1.5, 2.5, 4.0},
		MaxPositionFraction:    0.10,
	}
}

// Validate checks field ranges, the RSI zone ordering, and that the
// weights can actually reach MinConfidence.
func (c *SignalConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeSignalConfigError, "invalid signal config", err)
	}

	if c.RSIOversold >= c.RSIOverbought {
		return errors.Newf(errors.ErrCodeSignalConfigError,
			"rsi_oversold %.1f must be below rsi_overbought %.1f", c.RSIOversold, c.RSIOverbought)
	}

	if total := c.TrendWeight + c.MomentumWeight + c.BollingerWeight + c.VolumeWeight; total < c.MinConfidence {
		return errors.Newf(errors.ErrCodeSignalConfigError,
			"component weights sum to %.2f, below min_confidence %.2f; no signal could ever be emitted", total, c.MinConfidence)
	}

	return nil
}
