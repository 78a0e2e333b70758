package types

// TrendClass classifies the market regime from the EMA stack ordering.
type TrendClass string

const (
	// TrendUp means the fast EMA sits above the mid EMA which sits above the slow EMA.
	TrendUp TrendClass = "UPTREND"
	// TrendDown means the fast EMA sits below the mid EMA which sits below the slow EMA.
	TrendDown TrendClass = "DOWNTREND"
	// TrendSideways covers every other EMA arrangement.
	TrendSideways TrendClass = "SIDEWAYS"
)

// TrendStrength grades how established a trend is, from the ADX reading.
type TrendStrength string

const (
	TrendStrengthStrong   TrendStrength = "STRONG"
	TrendStrengthModerate TrendStrength = "MODERATE"
	TrendStrengthWeak     TrendStrength = "WEAK"
)
