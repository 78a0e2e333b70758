package market

import (
	"math"

	"github.com/riptide-lab/riptide-trading/internal/types"
)

// dojiBodyFraction is the body-to-range ratio at or below which a bar counts
// as a doji.
const dojiBodyFraction = 0.1

// AnalyzeCandle describes a single bar's anatomy: direction, body and wick
// proportions, and where the close landed within the range. A zero-range bar
// has no meaningful proportions and reports a centered close.
func AnalyzeCandle(bar types.Bar) types.CandleShape {
	body := math.Abs(bar.Close - bar.Open)
	upperWick := bar.High - math.Max(bar.Open, bar.Close)
	lowerWick := math.Min(bar.Open, bar.Close) - bar.Low
	barRange := bar.High - bar.Low

	shape := types.CandleShape{
		Bullish: bar.Close > bar.Open,
		Bearish: bar.Close < bar.Open,
	}

	if barRange <= 0 {
		shape.ClosePosition = 0.5

		return shape
	}

	shape.Doji = body <= barRange*dojiBodyFraction
	shape.BodyRatio = body / barRange
	shape.UpperWickRatio = upperWick / barRange
	shape.LowerWickRatio = lowerWick / barRange
	shape.ClosePosition = (bar.Close - bar.Low) / barRange

	return shape
}
