package types

// CandleShape describes the anatomy of a single bar: body direction, wick
// proportions, and where the close landed inside the bar's range.
type CandleShape struct {
	Bullish bool `json:"bullish"`
	Bearish bool `json:"bearish"`
	// Doji marks a bar whose body is at most 10% of its full range.
	Doji bool `json:"doji"`
	// BodyRatio, UpperWickRatio and LowerWickRatio are fractions of the full
	// high-low range; all zero for a zero-range bar.
	BodyRatio      float64 `json:"body_ratio"`
	UpperWickRatio float64 `json:"upper_wick_ratio"`
	LowerWickRatio float64 `json:"lower_wick_ratio"`
	// ClosePosition is (close-low)/range in [0,1]; 0.5 for a zero-range bar.
	ClosePosition float64 `json:"close_position"`
}
