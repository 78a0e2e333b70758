// Package mocks generates deterministic market data for tests, benchmarks,
// and the sample-data command.
package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/riptide-lab/riptide-trading/internal/types"
)

// DataGenerator generates realistic OHLCV bars for testing and benchmarking.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a generator with the given seed. A fixed seed
// reproduces the exact same series on every run.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how bars are generated.
type GeneratorConfig struct {
	// Symbol is the trading symbol stamped on every bar.
	Symbol string
	// StartTime is the open time of the first bar.
	StartTime time.Time
	// Interval is the duration between bars.
	Interval time.Duration
	// Count is the number of bars to generate.
	Count int
	// InitialPrice is the first bar's open.
	InitialPrice float64
	// Volatility controls per-bar price movement (0.002 = 0.2% per bar).
	Volatility float64
	// Trend is the total drift over the whole series, negative for
	// bearish (-0.01 to 0.01 is typical).
	Trend float64
	// VolumeBase is the average volume per bar.
	VolumeBase float64
	// VolumeVariance is the relative variance in volume (0.0 to 1.0).
	VolumeVariance float64
}

// DefaultGeneratorConfig returns a neutral one-minute series of 10000 bars
// starting at 100.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Symbol:         "TEST",
		StartTime:      time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC),
		Interval:       time.Minute,
		Count:          10000,
		InitialPrice:   100.0,
		Volatility:     0.002,
		Trend:          0.0,
		VolumeBase:     10000,
		VolumeVariance: 0.3,
	}
}

// Generate creates a bar series following geometric Brownian motion, with
// highs and lows extended beyond the open-close body.
func (g *DataGenerator) Generate(config GeneratorConfig) types.BarSeries {
	bars := make(types.BarSeries, config.Count)
	currentPrice := config.InitialPrice
	currentTime := config.StartTime

	for i := 0; i < config.Count; i++ {
		open := currentPrice

		// Box-Muller transform for a normally distributed step.
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		priceChange := config.Volatility * z
		drift := config.Trend / float64(config.Count)

		close := open * (1 + priceChange + drift)
		if close <= 0 {
			close = open * 0.99
		}

		highExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)
		lowExtension := math.Abs(g.rng.Float64() * config.Volatility * open * 0.5)

		high := math.Max(open, close) + highExtension

		low := math.Min(open, close) - lowExtension
		if low <= 0 {
			low = math.Min(open, close) * 0.99
		}

		volumeVariation := 1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance

		volume := config.VolumeBase * volumeVariation
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		bars[i] = types.Bar{
			Symbol: config.Symbol,
			Time:   currentTime,
			Open:   roundToDecimals(open, 4),
			High:   roundToDecimals(high, 4),
			Low:    roundToDecimals(low, 4),
			Close:  roundToDecimals(close, 4),
			Volume: roundToDecimals(volume, 2),
		}

		currentPrice = close
		currentTime = currentTime.Add(config.Interval)
	}

	return bars
}

// GenerateTrending produces a drifting series: positive drift for an
// uptrend, negative for a downtrend.
func (g *DataGenerator) GenerateTrending(symbol string, count int, drift float64) types.BarSeries {
	config := DefaultGeneratorConfig()
	config.Symbol = symbol
	config.Count = count
	config.Trend = drift

	return g.Generate(config)
}

// GenerateConstant produces count identical zero-range bars at the given
// price, for tests that need a perfectly flat market.
func GenerateConstant(symbol string, count int, price float64) types.BarSeries {
	config := DefaultGeneratorConfig()
	bars := make(types.BarSeries, count)
	currentTime := config.StartTime

	for i := 0; i < count; i++ {
		bars[i] = types.Bar{
			Symbol: symbol,
			Time:   currentTime,
			Open:   price,
			High:   price,
			Low:    price,
			Close:  price,
			Volume: config.VolumeBase,
		}
		currentTime = currentTime.Add(config.Interval)
	}

	return bars
}

// roundToDecimals rounds a float64 to the specified number of decimal places.
func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))

	return math.Round(val*pow) / pow
}
