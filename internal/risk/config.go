package risk

import (
	"github.com/go-playground/validator/v10"

	"github.com/riptide-lab/riptide-trading/pkg/errors"
)

// RiskLimits bounds how much the manager may put at risk: per-trade risk,
// position count and size, drawdown, and the consecutive-loss circuit
// breaker.
type RiskLimits struct {
	// RiskPerTrade is the fraction of total capital risked between entry
	// and stop on one trade.
	RiskPerTrade float64 `yaml:"risk_per_trade" json:"risk_per_trade" validate:"gt=0,lte=1"`

	// MaxPositions caps the number of simultaneously open positions.
	MaxPositions int `yaml:"max_positions" json:"max_positions" validate:"gte=1"`

	// MaxPositionSize caps a single position's notional as a fraction of
	// total capital.
	MaxPositionSize float64 `yaml:"max_position_size" json:"max_position_size" validate:"gt=0,lte=1"`

	// MaxDrawdown blocks new entries once the portfolio has fallen this
	// fraction below its peak.
	MaxDrawdown float64 `yaml:"max_drawdown" json:"max_drawdown" validate:"gt=0,lt=1"`

	// MaxConsecutiveLosses is the stop-loss streak that trips the pause.
	MaxConsecutiveLosses int `yaml:"max_consecutive_losses" json:"max_consecutive_losses" validate:"gte=1"`

	// PauseAfterMaxLosses enables the consecutive-loss circuit breaker.
	PauseAfterMaxLosses bool `yaml:"pause_after_max_losses" json:"pause_after_max_losses"`
}

// DefaultRiskLimits returns the standard limits: 2% risk per trade, at most
// 5 positions of 10% notional each, 15% max drawdown, pause after 3
// consecutive losses.
func DefaultRiskLimits() RiskLimits {
	return RiskLimits{
		RiskPerTrade:         0.02,
		MaxPositions:         5,
		MaxPositionSize:      0.10,
		MaxDrawdown:          0.15,
		MaxConsecutiveLosses: 3,
		PauseAfterMaxLosses:  true,
	}
}

// Validate checks field ranges and that the per-trade risk never exceeds
// the per-position size cap.
func (l *RiskLimits) Validate() error {
	validate := validator.New()
	if err := validate.Struct(l); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRiskParameters, "invalid risk limits", err)
	}

	if l.RiskPerTrade > l.MaxPositionSize {
		return errors.Newf(errors.ErrCodeInvalidRiskParameters,
			"risk_per_trade %.4f must not exceed max_position_size %.4f", l.RiskPerTrade, l.MaxPositionSize)
	}

	return nil
}
