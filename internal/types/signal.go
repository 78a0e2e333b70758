package types

import "time"

// SignalSide is the direction of a trade signal.
type SignalSide string

const (
	SignalSideBuy  SignalSide = "BUY"
	SignalSideSell SignalSide = "SELL"
)

// TradeSignal is a fully-priced entry decision: direction, confidence, entry,
// protective stop, staged take-profit levels, and the fraction of capital the
// signal asks for. Signals carry no identity of their own; a signal for the
// same symbol and bar is always the same signal.
type TradeSignal struct {
	Symbol     string     `json:"symbol"`
	Time       time.Time  `json:"time"`
	Side       SignalSide `json:"side"`
	Confidence float64    `json:"confidence"`
	EntryPrice float64    `json:"entry_price"`
	StopLoss   float64    `json:"stop_loss"`
	// TakeProfits holds the three staged targets, nearest first.
	TakeProfits [3]float64 `json:"take_profits"`
	// SizeFraction is the requested position size as a fraction of capital,
	// already scaled by confidence.
	SizeFraction float64 `json:"size_fraction"`
	// Reasons lists one line per scoring component that passed.
	Reasons []string `json:"reasons"`
}
