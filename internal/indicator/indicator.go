// Package indicator implements the numeric indicator engine: pure functions
// over price/volume series that return a series of the same length, with NaN
// marking warm-up entries that cannot be computed yet.
//
// All functions are deterministic, allocate their outputs, and never mutate
// their inputs. Callers that need only the latest value take the last element.
package indicator

import (
	"math"

	"github.com/riptide-lab/riptide-trading/pkg/errors"
)

// validatePeriod rejects non-positive periods.
func validatePeriod(period int) error {
	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidIndicatorParameters, "period must be a positive integer, got %d", period)
	}

	return nil
}

// requireLength rejects series shorter than the indicator's minimum input.
func requireLength(actual, required int) error {
	if actual < required {
		return errors.NewInsufficientDataError(required, actual, "", "")
	}

	return nil
}

// requireSameLength rejects high/low/close triples of differing lengths.
func requireSameLength(high, low, close []float64) error {
	if len(high) != len(low) || len(low) != len(close) {
		return errors.Newf(errors.ErrCodeInvalidIndicatorParameters,
			"high/low/close lengths differ: %d/%d/%d", len(high), len(low), len(close))
	}

	return nil
}

// rollingMean is the shared rolling-window mean. Entries before the first
// full window are NaN; a NaN inside the window propagates to the output,
// matching rolling-mean semantics of the reference formulas.
func rollingMean(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	for i := range out {
		if i < period-1 {
			out[i] = math.NaN()
			continue
		}

		sum := 0.0
		for j := i - period + 1; j <= i; j++ {
			sum += values[j]
		}

		out[i] = sum / float64(period)
	}

	return out
}
