package types

// TradeStatistics summarizes closed-trade performance plus the live capital
// picture. Win/loss counts cover terminal positions only.
type TradeStatistics struct {
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`
	// TotalProfit and TotalLoss are gross sums; both are reported >= 0.
	TotalProfit float64 `json:"total_profit"`
	TotalLoss   float64 `json:"total_loss"`
	// ProfitFactor is TotalProfit/TotalLoss, 0 when there are no losses.
	ProfitFactor      float64 `json:"profit_factor"`
	TotalRealizedPnL  float64 `json:"total_realized_pnl"`
	CurrentCapital    float64 `json:"current_capital"`
	AvailableCapital  float64 `json:"available_capital"`
	Drawdown          float64 `json:"drawdown"`
	OpenPositions     int     `json:"open_positions"`
	ConsecutiveLosses int     `json:"consecutive_losses"`
}
