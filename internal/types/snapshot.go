package types

import "time"

// IndicatorSnapshot carries the latest value of every indicator for one symbol
// at one bar close. Values that could not be computed are NaN.
type IndicatorSnapshot struct {
	Symbol string    `json:"symbol"`
	Time   time.Time `json:"time"`
	Close  float64   `json:"close"`

	// EMA stack: fast/mid/slow default to 12/50/200.
	EMAFast float64 `json:"ema_fast"`
	EMAMid  float64 `json:"ema_mid"`
	EMASlow float64 `json:"ema_slow"`

	RSI float64 `json:"rsi"`

	MACD       float64 `json:"macd"`
	MACDSignal float64 `json:"macd_signal"`
	MACDHist   float64 `json:"macd_hist"`
	// MACDHistPrev is the histogram one bar earlier, used for slope checks.
	MACDHistPrev float64 `json:"macd_hist_prev"`

	BollingerUpper  float64 `json:"bollinger_upper"`
	BollingerMiddle float64 `json:"bollinger_middle"`
	BollingerLower  float64 `json:"bollinger_lower"`

	ATR float64 `json:"atr"`
	ADX float64 `json:"adx"`

	// VolumeMA is the moving average of volume; Volume is the current bar's volume.
	VolumeMA float64 `json:"volume_ma"`
	Volume   float64 `json:"volume"`
}
