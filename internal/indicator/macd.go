package indicator

// MACD computes the Moving Average Convergence Divergence line, its signal
// line, and the histogram (line minus signal).
//
// The line is EMA(fast) − EMA(slow); the signal line is an EMA of the MACD
// line itself. The minimum input length is the slow period.
func MACD(values []float64, fastPeriod, slowPeriod, signalPeriod int) (macd, signal, histogram []float64, err error) {
	for _, period := range []int{fastPeriod, slowPeriod, signalPeriod} {
		if err := validatePeriod(period); err != nil {
			return nil, nil, nil, err
		}
	}

	if err := requireLength(len(values), slowPeriod); err != nil {
		return nil, nil, nil, err
	}

	emaFast, err := EMA(values, fastPeriod)
	if err != nil {
		return nil, nil, nil, err
	}

	emaSlow, err := EMA(values, slowPeriod)
	if err != nil {
		return nil, nil, nil, err
	}

	macd = make([]float64, len(values))
	for i := range macd {
		macd[i] = emaFast[i] - emaSlow[i]
	}

	signal, err = EMA(macd, signalPeriod)
	if err != nil {
		return nil, nil, nil, err
	}

	histogram = make([]float64, len(values))
	for i := range histogram {
		histogram[i] = macd[i] - signal[i]
	}

	return macd, signal, histogram, nil
}
