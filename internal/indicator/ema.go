package indicator

// EMA computes the Exponential Moving Average of a series.
//
// The first `period` outputs are seeded with the simple mean of the first
// `period` inputs; from index `period` on the usual recursion applies with
// smoothing factor 2/(period+1).
func EMA(values []float64, period int) ([]float64, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	if err := requireLength(len(values), period); err != nil {
		return nil, err
	}

	out := make([]float64, len(values))
	multiplier := 2.0 / float64(period+1)

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += values[i]
	}

	seed /= float64(period)

	for i := 0; i < period; i++ {
		out[i] = seed
	}

	for i := period; i < len(values); i++ {
		out[i] = values[i]*multiplier + out[i-1]*(1-multiplier)
	}

	return out, nil
}
