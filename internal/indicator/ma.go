package indicator

// SMA computes the Simple Moving Average of a series. The first period-1
// outputs are NaN.
func SMA(values []float64, period int) ([]float64, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	if err := requireLength(len(values), period); err != nil {
		return nil, err
	}

	return rollingMean(values, period), nil
}
