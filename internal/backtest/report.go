package backtest

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"github.com/riptide-lab/riptide-trading/internal/types"
	"github.com/riptide-lab/riptide-trading/pkg/errors"
)

// equityCurveTail bounds how many equity points the report carries.
const equityCurveTail = 100

// Summary holds the headline numbers of one backtest run. Money values are
// rounded to 2 decimal places, ratios to 4.
type Summary struct {
	InitialCapital  float64 `json:"initial_capital"`
	FinalCapital    float64 `json:"final_capital"`
	TotalReturn     float64 `json:"total_return"`
	TotalReturnPnL  float64 `json:"total_return_pnl"`
	AnnualReturn    float64 `json:"annual_return"`
	MaxDrawdown     float64 `json:"max_drawdown"`
	SharpeRatio     float64 `json:"sharpe_ratio"`
	RecoveryFactor  float64 `json:"recovery_factor"`
	TotalCommission float64 `json:"total_commission"`
}

// Report is the JSON-serializable result of a backtest run.
type Report struct {
	Summary    Summary               `json:"backtest_summary"`
	Statistics types.TradeStatistics `json:"trading_statistics"`
	// EquityCurve and Timestamps carry the last equityCurveTail points.
	EquityCurve []float64 `json:"equity_curve"`
	Timestamps  []string  `json:"timestamps"`
}

// NewReport assembles the report from the raw run outputs: the full equity
// curve (seeded with the initial capital), per-step timestamps, and the
// manager's closing statistics.
func NewReport(initialCapital, totalCommission float64, equity []float64, timestamps []string, stats types.TradeStatistics) *Report {
	final := initialCapital
	if len(equity) > 0 {
		final = equity[len(equity)-1]
	}

	metrics := computeMetrics(equity, initialCapital, stats.TotalRealizedPnL)

	summary := Summary{
		InitialCapital:  roundMoney(initialCapital),
		FinalCapital:    roundMoney(final),
		TotalReturn:     roundRatio(metrics.TotalReturn),
		TotalReturnPnL:  roundMoney(final - initialCapital),
		AnnualReturn:    roundRatio(metrics.AnnualReturn),
		MaxDrawdown:     roundRatio(metrics.MaxDrawdown),
		SharpeRatio:     roundRatio(metrics.SharpeRatio),
		RecoveryFactor:  roundRatio(metrics.RecoveryFactor),
		TotalCommission: roundMoney(totalCommission),
	}

	if len(equity) > equityCurveTail {
		equity = equity[len(equity)-equityCurveTail:]
	}

	if len(timestamps) > equityCurveTail {
		timestamps = timestamps[len(timestamps)-equityCurveTail:]
	}

	return &Report{
		Summary:     summary,
		Statistics:  stats,
		EquityCurve: append(equity[:0:0], equity...),
		Timestamps:  append(timestamps[:0:0], timestamps...),
	}
}

// WriteFile renders the report as indented JSON at path, creating parent
// directories as needed.
func (r *Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportWriteFailed, "failed to encode report", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "failed to create report directory %s", dir)
		}
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(errors.ErrCodeReportWriteFailed, err, "failed to write report to %s", path)
	}

	return nil
}

// roundMoney rounds a capital amount to cents. Non-finite inputs report 0.
func roundMoney(v float64) float64 {
	return roundTo(v, 2)
}

// roundRatio rounds a return or ratio to 4 decimal places.
func roundRatio(v float64) float64 {
	return roundTo(v, 4)
}

func roundTo(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}

	out, _ := decimal.NewFromFloat(v).Round(places).Float64()

	return out
}
