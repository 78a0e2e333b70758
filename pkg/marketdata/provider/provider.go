// Package provider downloads and streams market data from exchanges.
package provider

import (
	"context"
	"iter"
	"time"

	"github.com/riptide-lab/riptide-trading/internal/types"
	"github.com/riptide-lab/riptide-trading/pkg/errors"
	"github.com/riptide-lab/riptide-trading/pkg/marketdata/writer"
)

// ProviderType selects a market data provider by name.
type ProviderType string

const (
	ProviderBinance ProviderType = "binance"
	ProviderPolygon ProviderType = "polygon"
)

// OnDownloadProgress reports download progress; current and total are in
// provider-specific units (time or record counts).
type OnDownloadProgress = func(current float64, total float64, message string)

// Provider fetches historical bars into a writer and, where supported,
// streams live bars.
type Provider interface {
	// ConfigWriter sets the destination for downloaded bars.
	ConfigWriter(w writer.Writer)
	// Download fetches bars for the ticker and date range at the given
	// interval (e.g. "1m", "5m", "1h", "1d") and writes them through the
	// configured writer. Returns the writer's output path.
	Download(ctx context.Context, ticker string, startDate, endDate time.Time, interval string, onProgress OnDownloadProgress) (path string, err error)
	// Stream yields finalized live bars for the symbols. Providers
	// without streaming support yield a single
	// ErrCodeStreamingNotSupported error. Cancel the context to stop.
	Stream(ctx context.Context, symbols []string, interval string) iter.Seq2[types.Bar, error]
}

// NewMarketDataProvider creates a provider by type. The apiKey is required
// for polygon and ignored by binance.
func NewMarketDataProvider(providerType ProviderType, apiKey string) (Provider, error) {
	switch providerType {
	case ProviderBinance:
		return NewBinanceClient()
	case ProviderPolygon:
		return NewPolygonClient(apiKey)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}
