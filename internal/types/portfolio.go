package types

// PortfolioState is the capital accounting shared by the risk manager and the
// persisted state snapshot.
type PortfolioState struct {
	InitialCapital float64 `json:"initial_capital"`
	CurrentCapital float64 `json:"current_capital"`
	// PeakCapital is the running maximum of every observed CurrentCapital;
	// it only ratchets upward.
	PeakCapital       float64 `json:"peak_capital"`
	ConsecutiveLosses int     `json:"consecutive_losses"`
	TotalRealizedPnL  float64 `json:"total_realized_pnl"`
}

// Drawdown returns the fractional decline from the peak, in [0, 1).
// Zero when no peak has been recorded yet.
func (s PortfolioState) Drawdown() float64 {
	if s.PeakCapital <= 0 {
		return 0
	}

	dd := (s.PeakCapital - s.CurrentCapital) / s.PeakCapital
	if dd < 0 {
		return 0
	}

	return dd
}
