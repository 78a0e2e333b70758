package indicator

import "math"

// adxEpsilon keeps the DX denominator away from zero.
const adxEpsilon = 1e-10

// ADX computes the Average Directional Index.
//
// Directional movement, true range, DI and DX all live in delta space (one
// entry per consecutive bar pair), so the output is aligned to the input with
// a one-bar offset: out[i] describes the move ending at bar i, and out[0] is
// always NaN. DI lines are 100*SMA(DM)/SMA(TR); DX is 100*|DI+ - DI-| over
// their sum (plus epsilon); ADX is SMA(DX, period).
//
// The minimum input length is 2*period; shorter inputs are rejected.
func ADX(high, low, close []float64, period int) ([]float64, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	if err := requireSameLength(high, low, close); err != nil {
		return nil, err
	}

	if err := requireLength(len(high), 2*period); err != nil {
		return nil, err
	}

	n := len(high)
	posDM := make([]float64, n-1)
	negDM := make([]float64, n-1)
	tr := make([]float64, n-1)

	for i := 1; i < n; i++ {
		upMove := high[i] - high[i-1]
		downMove := low[i-1] - low[i]

		if upMove > downMove && upMove > 0 {
			posDM[i-1] = upMove
		}

		if downMove > upMove && downMove > 0 {
			negDM[i-1] = downMove
		}

		hl := high[i] - low[i]
		hc := math.Abs(high[i] - close[i-1])
		lc := math.Abs(low[i] - close[i-1])
		tr[i-1] = math.Max(hl, math.Max(hc, lc))
	}

	smoothedPosDM := rollingMean(posDM, period)
	smoothedNegDM := rollingMean(negDM, period)
	smoothedTR := rollingMean(tr, period)

	dx := make([]float64, n-1)
	for i := range dx {
		diPlus := 100 * smoothedPosDM[i] / smoothedTR[i]
		diMinus := 100 * smoothedNegDM[i] / smoothedTR[i]
		dx[i] = 100 * math.Abs(diPlus-diMinus) / (diPlus + diMinus + adxEpsilon)
	}

	adx := rollingMean(dx, period)

	out := make([]float64, n)
	out[0] = math.NaN()
	copy(out[1:], adx)

	return out, nil
}
