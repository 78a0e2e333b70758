package indicator

import "math"

// BollingerBands computes the upper, middle, and lower bands.
//
// The middle band is SMA(period); the upper/lower bands sit k sample standard
// deviations above/below it. The standard deviation uses the n-1 denominator,
// matching the rolling-std convention of the reference formulas. The first
// period-1 outputs are NaN.
func BollingerBands(values []float64, period int, k float64) (upper, middle, lower []float64, err error) {
	if err := validatePeriod(period); err != nil {
		return nil, nil, nil, err
	}

	if err := requireLength(len(values), period); err != nil {
		return nil, nil, nil, err
	}

	middle = rollingMean(values, period)

	upper = make([]float64, len(values))
	lower = make([]float64, len(values))

	for i := range values {
		if i < period-1 {
			upper[i] = math.NaN()
			lower[i] = math.NaN()

			continue
		}

		std := rollingSampleStd(values[i-period+1:i+1], middle[i])
		upper[i] = middle[i] + std*k
		lower[i] = middle[i] - std*k
	}

	return upper, middle, lower, nil
}

// rollingSampleStd computes the sample standard deviation of one window given
// its precomputed mean. A single-element window has no sample deviation and
// yields NaN.
func rollingSampleStd(window []float64, mean float64) float64 {
	if len(window) < 2 {
		return math.NaN()
	}

	sum := 0.0
	for _, v := range window {
		d := v - mean
		sum += d * d
	}

	return math.Sqrt(sum / float64(len(window)-1))
}
