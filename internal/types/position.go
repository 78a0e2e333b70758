package types

import (
	"math"
	"time"
)

// PositionStatus is the lifecycle state of a position.
//
// Valid transitions:
//
//	OPEN             -> PARTIALLY_CLOSED | CLOSED | STOPPED_OUT
//	PARTIALLY_CLOSED -> PARTIALLY_CLOSED | CLOSED | STOPPED_OUT
//
// CLOSED and STOPPED_OUT are terminal.
type PositionStatus string

const (
	PositionStatusOpen            PositionStatus = "OPEN"
	PositionStatusPartiallyClosed PositionStatus = "PARTIALLY_CLOSED"
	PositionStatusClosed          PositionStatus = "CLOSED"
	PositionStatusStoppedOut      PositionStatus = "STOPPED_OUT"
)

// closedVolumeEpsilon bounds the float error accumulated by staged partial
// closes; open volume at or below it counts as fully closed.
const closedVolumeEpsilon = 1e-9

// Position is one tracked trade with staged take-profit accounting.
// Volume is the ORIGINAL size and never changes; per-stage closes accumulate
// in ClosedVolume.
type Position struct {
	ID         string     `json:"id"`
	Symbol     string     `json:"symbol"`
	Side       SignalSide `json:"side"`
	EntryPrice float64    `json:"entry_price"`
	Volume     float64    `json:"volume"`
	StopLoss   float64    `json:"stop_loss"`
	// TakeProfits holds the three staged target prices, nearest first.
	TakeProfits [3]float64     `json:"take_profits"`
	EntryTime   time.Time      `json:"entry_time"`
	Status      PositionStatus `json:"status"`
	// ClosedVolume tracks the volume closed at each take-profit stage.
	ClosedVolume  [3]float64 `json:"closed_volume"`
	CurrentPrice  float64    `json:"current_price"`
	UnrealizedPnL float64    `json:"unrealized_pnl"`
	RealizedPnL   float64    `json:"realized_pnl"`
	CloseTime     time.Time  `json:"close_time"`
}

// OpenVolume returns the volume still held: the original volume minus every
// staged close. Never negative.
func (p *Position) OpenVolume() float64 {
	open := p.Volume
	for _, v := range p.ClosedVolume {
		open -= v
	}

	return math.Max(open, 0)
}

// IsFullyClosed reports whether the remaining open volume is zero within
// float tolerance.
func (p *Position) IsFullyClosed() bool {
	return p.OpenVolume() <= closedVolumeEpsilon
}

// IsTerminal reports whether the position can no longer change.
func (p *Position) IsTerminal() bool {
	return p.Status == PositionStatusClosed || p.Status == PositionStatusStoppedOut
}

// UpdatePrice records the latest observed price and recomputes the unrealized
// PnL over the remaining open volume.
func (p *Position) UpdatePrice(price float64) {
	p.CurrentPrice = price
	p.UnrealizedPnL = p.PnLAt(price, p.OpenVolume())
}

// PnLAt returns the direction-signed profit of closing the given volume at
// the given price.
func (p *Position) PnLAt(price, volume float64) float64 {
	if p.Side == SignalSideSell {
		return (p.EntryPrice - price) * volume
	}

	return (price - p.EntryPrice) * volume
}
