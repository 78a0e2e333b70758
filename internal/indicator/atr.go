package indicator

import "math"

// ATR computes the Average True Range: the SMA over the true-range series,
// where the true range is the largest of high−low, |high−prevClose| and
// |low−prevClose|. The first bar has no previous close and falls back to
// high−low. The first period-1 outputs are NaN.
func ATR(high, low, close []float64, period int) ([]float64, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	if err := requireSameLength(high, low, close); err != nil {
		return nil, err
	}

	if err := requireLength(len(high), period); err != nil {
		return nil, err
	}

	tr := trueRange(high, low, close)

	return rollingMean(tr, period), nil
}

// trueRange builds the per-bar true-range series aligned to the input.
func trueRange(high, low, close []float64) []float64 {
	tr := make([]float64, len(high))
	tr[0] = high[0] - low[0]

	for i := 1; i < len(high); i++ {
		hl := high[i] - low[i]
		hc := math.Abs(high[i] - close[i-1])
		lc := math.Abs(low[i] - close[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}

	return tr
}
