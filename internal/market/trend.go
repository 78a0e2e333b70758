package market

import "github.com/riptide-lab/riptide-trading/internal/types"

// Trend strength breakpoints on the ADX scale.
const (
	adxStrongTrend   = 25.0
	adxModerateTrend = 20.0
)

// Classify derives the trend class from the EMA stack ordering. Any
// arrangement other than a strict fast>mid>slow or fast<mid<slow stack reads
// as sideways, including snapshots with NaN EMAs.
func Classify(snap types.IndicatorSnapshot) types.TrendClass {
	switch {
	case snap.EMAFast > snap.EMAMid && snap.EMAMid > snap.EMASlow:
		return types.TrendUp
	case snap.EMAFast < snap.EMAMid && snap.EMAMid < snap.EMASlow:
		return types.TrendDown
	default:
		return types.TrendSideways
	}
}

// Strength grades the trend from the ADX reading: above 25 strong, above 20
// moderate, anything else (including NaN) weak.
func Strength(snap types.IndicatorSnapshot) types.TrendStrength {
	switch {
	case snap.ADX > adxStrongTrend:
		return types.TrendStrengthStrong
	case snap.ADX > adxModerateTrend:
		return types.TrendStrengthModerate
	default:
		return types.TrendStrengthWeak
	}
}
