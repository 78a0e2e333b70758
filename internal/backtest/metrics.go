package backtest

import "math"

// tradingPeriodsPerYear annualizes per-step returns assuming daily bars.
const tradingPeriodsPerYear = 252.0

// sharpeEpsilon keeps the Sharpe denominator away from zero.
const sharpeEpsilon = 1e-10

// performanceMetrics are the equity-curve aggregates of one backtest run.
type performanceMetrics struct {
	TotalReturn    float64
	AnnualReturn   float64
	SharpeRatio    float64
	MaxDrawdown    float64
	RecoveryFactor float64
}

// computeMetrics derives the performance metrics from the equity curve. The
// curve includes the initial capital as its first point; realizedPnL is the
// total realized PnL used for the recovery factor.
func computeMetrics(equity []float64, initialCapital, realizedPnL float64) performanceMetrics {
	var m performanceMetrics

	if len(equity) < 2 || initialCapital <= 0 {
		return m
	}

	final := equity[len(equity)-1]
	m.TotalReturn = final/initialCapital - 1

	// Geometric annualization over the number of equity points, the way
	// the curve length stands in for elapsed trading days.
	if final > 0 {
		m.AnnualReturn = math.Pow(final/initialCapital, tradingPeriodsPerYear/float64(len(equity))) - 1
	} else {
		m.AnnualReturn = -1
	}

	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		if equity[i-1] != 0 {
			returns = append(returns, equity[i]/equity[i-1]-1)
		}
	}

	if sigma := populationStd(returns); sigma > 0 {
		m.SharpeRatio = (m.AnnualReturn / tradingPeriodsPerYear) / (sigma + sharpeEpsilon)
	}

	m.MaxDrawdown = maxDrawdown(equity)

	if m.MaxDrawdown != 0 {
		m.RecoveryFactor = realizedPnL / math.Abs(m.MaxDrawdown*initialCapital)
	}

	return m
}

// maxDrawdown returns the most negative peak-relative decline along the
// curve, as a fraction <= 0.
func maxDrawdown(equity []float64) float64 {
	worst := 0.0
	peak := math.Inf(-1)

	for _, value := range equity {
		if value > peak {
			peak = value
		}

		if peak > 0 {
			if dd := (value - peak) / peak; dd < worst {
				worst = dd
			}
		}
	}

	return worst
}

// populationStd is the population (not sample) standard deviation, matching
// the reference metric definitions.
func populationStd(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}

	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}

	return math.Sqrt(variance / float64(len(values)))
}
