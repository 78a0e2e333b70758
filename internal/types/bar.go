package types

import "time"

// Bar is a single finalized OHLCV candle for one symbol.
type Bar struct {
	Symbol string    `yaml:"symbol" json:"symbol" csv:"symbol"`
	Time   time.Time `yaml:"time" json:"time" csv:"time"`
	Open   float64   `yaml:"open" json:"open" csv:"open"`
	High   float64   `yaml:"high" json:"high" csv:"high"`
	Low    float64   `yaml:"low" json:"low" csv:"low"`
	Close  float64   `yaml:"close" json:"close" csv:"close"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume"`
}

// BarSeries is an ordered window of bars (oldest first).
type BarSeries []Bar

// Opens returns a new slice holding the open of every bar in order.
func (s BarSeries) Opens() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Open
	}

	return out
}

// Highs returns a new slice holding the high of every bar in order.
func (s BarSeries) Highs() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.High
	}

	return out
}

// Lows returns a new slice holding the low of every bar in order.
func (s BarSeries) Lows() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Low
	}

	return out
}

// Closes returns a new slice holding the close of every bar in order.
func (s BarSeries) Closes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Close
	}

	return out
}

// Volumes returns a new slice holding the volume of every bar in order.
func (s BarSeries) Volumes() []float64 {
	out := make([]float64, len(s))
	for i, b := range s {
		out[i] = b.Volume
	}

	return out
}

// Times returns a new slice holding the open time of every bar in order.
func (s BarSeries) Times() []time.Time {
	out := make([]time.Time, len(s))
	for i, b := range s {
		out[i] = b.Time
	}

	return out
}

// Last returns the most recent bar. The second return value is false when the
// series is empty.
func (s BarSeries) Last() (Bar, bool) {
	if len(s) == 0 {
		return Bar{}, false
	}

	return s[len(s)-1], true
}
