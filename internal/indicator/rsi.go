package indicator

import "math"

// RSI computes the Relative Strength Index with Wilder's smoothing.
//
// The seed averages are the means of gains and losses over the first `period`
// deltas, so the first defined output sits at index `period`; everything
// before it is NaN. Subsequent bars update the averages recursively with
// avg = (avg*(period-1) + value) / period.
//
// When the average loss is zero the RSI is 100 (a series that only rises is
// maximally overbought).
func RSI(values []float64, period int) ([]float64, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	if err := requireLength(len(values), period+1); err != nil {
		return nil, err
	}

	out := make([]float64, len(values))
	for i := 0; i < period; i++ {
		out[i] = math.NaN()
	}

	avgGain := 0.0
	avgLoss := 0.0

	for i := 1; i <= period; i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			avgGain += delta
		} else {
			avgLoss -= delta
		}
	}

	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiFromAverages(avgGain, avgLoss)

	for i := period + 1; i < len(values); i++ {
		delta := values[i] - values[i-1]

		gain := 0.0
		loss := 0.0

		if delta > 0 {
			gain = delta
		} else {
			loss = -delta
		}

		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiFromAverages(avgGain, avgLoss)
	}

	return out, nil
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss

	return 100 - 100/(1+rs)
}
