package market

import (
	"github.com/go-playground/validator/v10"

	"github.com/riptide-lab/riptide-trading/pkg/errors"
)

// SnapshotConfig fixes the window minimum and every indicator period used to
// build an IndicatorSnapshot.
type SnapshotConfig struct {
	MinBars int `yaml:"min_bars" json:"min_bars" validate:"gte=2"`

	EMAFastPeriod int `yaml:"ema_fast_period" json:"ema_fast_period" validate:"gt=0"`
	EMAMidPeriod  int `yaml:"ema_mid_period" json:"ema_mid_period" validate:"gt=0"`
	EMASlowPeriod int `yaml:"ema_slow_period" json:"ema_slow_period" validate:"gt=0"`

	RSIPeriod int `yaml:"rsi_period" json:"rsi_period" validate:"gt=0"`

	MACDFastPeriod   int `yaml:"macd_fast_period" json:"macd_fast_period" validate:"gt=0"`
	MACDSlowPeriod   int `yaml:"macd_slow_period" json:"macd_slow_period" validate:"gt=0"`
	MACDSignalPeriod int `yaml:"macd_signal_period" json:"macd_signal_period" validate:"gt=0"`

	BollingerPeriod int     `yaml:"bollinger_period" json:"bollinger_period" validate:"gt=1"`
	BollingerK      float64 `yaml:"bollinger_k" json:"bollinger_k" validate:"gt=0"`

	ATRPeriod int `yaml:"atr_period" json:"atr_period" validate:"gt=0"`
	ADXPeriod int `yaml:"adx_period" json:"adx_period" validate:"gt=0"`

	VolumeMAPeriod int `yaml:"volume_ma_period" json:"volume_ma_period" validate:"gt=0"`
}

// DefaultSnapshotConfig returns the standard periods: EMA 12/50/200, RSI 14,
// MACD 12/26/9, Bollinger 20/2, ATR 14, ADX 14, volume MA 50, over a minimum
// window of 200 bars.
func DefaultSnapshotConfig() SnapshotConfig {
	return SnapshotConfig{
		MinBars:          200,
		EMAFastPeriod:    12,
		EMAMidPeriod:     50,
		EMASlowPeriod:    200,
		RSIPeriod:        14,
		MACDFastPeriod:   12,
		MACDSlowPeriod:   26,
		MACDSignalPeriod: 9,
		BollingerPeriod:  20,
		BollingerK:       2.0,
		ATRPeriod:        14,
		ADXPeriod:        14,
		VolumeMAPeriod:   50,
	}
}

// requiredBars is the window length needed so that every indicator in the
// snapshot has at least one defined output at the window's end.
func (c SnapshotConfig) requiredBars() int {
	required := c.MinBars

	for _, minimum := range []int{
		c.EMAFastPeriod,
		c.EMAMidPeriod,
		c.EMASlowPeriod,
		c.RSIPeriod + 1,
		c.MACDSlowPeriod,
		c.BollingerPeriod,
		c.ATRPeriod,
		2 * c.ADXPeriod,
		c.VolumeMAPeriod,
	} {
		if minimum > required {
			required = minimum
		}
	}

	return required
}

// Validate checks field ranges and that MinBars covers every configured
// indicator period.
func (c *SnapshotConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid snapshot config", err)
	}

	if c.MACDFastPeriod >= c.MACDSlowPeriod {
		return errors.Newf(errors.ErrCodeInvalidConfiguration,
			"macd fast period %d must be below slow period %d", c.MACDFastPeriod, c.MACDSlowPeriod)
	}

	if required := c.requiredBars(); c.MinBars < required {
		return errors.Newf(errors.ErrCodeInvalidConfiguration,
			"min_bars %d is below the %d bars the configured periods need", c.MinBars, required)
	}

	return nil
}
