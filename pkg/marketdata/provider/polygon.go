package provider

import (
	"context"
	"iter"
	"strconv"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"

	"github.com/riptide-lab/riptide-trading/internal/types"
	"github.com/riptide-lab/riptide-trading/pkg/errors"
	"github.com/riptide-lab/riptide-trading/pkg/marketdata/writer"
)

// PolygonClient downloads aggregate bars from Polygon. Streaming is not
// supported; the live loop uses the Binance provider.
type PolygonClient struct {
	client *polygon.Client
	writer writer.Writer
}

// NewPolygonClient creates a Polygon market data client. An API key is
// required.
func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidProvider, "polygon provider requires an api key")
	}

	return &PolygonClient{
		client: polygon.New(apiKey),
	}, nil
}

// ConfigWriter implements Provider.
func (c *PolygonClient) ConfigWriter(w writer.Writer) {
	c.writer = w
}

// Download implements Provider using the paginated aggregates iterator.
func (c *PolygonClient) Download(ctx context.Context, ticker string, startDate, endDate time.Time, interval string, onProgress OnDownloadProgress) (string, error) {
	multiplier, timespan, err := parsePolygonInterval(interval)
	if err != nil {
		return "", err
	}

	if c.writer == nil {
		return "", errors.New(errors.ErrCodeMarketDataFetchFailed, "writer is not configured")
	}

	if err := c.writer.Initialize(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to initialize writer", err)
	}

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(startDate),
		To:         models.Millis(endDate),
	}.WithLimit(50000)

	iterator := c.client.ListAggs(ctx, params)

	total := endDate.Sub(startDate)
	processed := 0

	for iterator.Next() {
		agg := iterator.Item()
		barTime := time.Time(agg.Timestamp).UTC()

		bar := types.Bar{
			Symbol: ticker,
			Time:   barTime,
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		}

		if err := c.writer.Write(bar); err != nil {
			return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write bar", err)
		}

		processed++
		if onProgress != nil && processed%1000 == 0 {
			onProgress(float64(barTime.Sub(startDate)), float64(total), "downloading "+ticker+" aggregates from polygon")
		}
	}

	if err := iterator.Err(); err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed iterating %s aggregates", ticker)
	}

	outputPath, err := c.writer.Finalize()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to finalize writer", err)
	}

	return outputPath, nil
}

// Stream implements Provider; Polygon streaming is out of scope.
func (c *PolygonClient) Stream(ctx context.Context, symbols []string, interval string) iter.Seq2[types.Bar, error] {
	return func(yield func(types.Bar, error) bool) {
		yield(types.Bar{}, errors.New(errors.ErrCodeStreamingNotSupported, "polygon provider does not support streaming"))
	}
}

// parsePolygonInterval splits an interval like "5m", "1h", or "1d" into the
// multiplier and timespan Polygon expects.
func parsePolygonInterval(interval string) (int, models.Timespan, error) {
	if len(interval) < 2 {
		return 0, "", errors.Newf(errors.ErrCodeInvalidInterval, "invalid interval: %q", interval)
	}

	multiplier, err := strconv.Atoi(interval[:len(interval)-1])
	if err != nil || multiplier <= 0 {
		return 0, "", errors.Newf(errors.ErrCodeInvalidInterval, "invalid interval multiplier: %q", interval)
	}

	switch interval[len(interval)-1] {
	case 'm':
		return multiplier, models.Minute, nil
	case 'h':
		return multiplier, models.Hour, nil
	case 'd':
		return multiplier, models.Day, nil
	case 'w':
		return multiplier, models.Week, nil
	default:
		return 0, "", errors.Newf(errors.ErrCodeInvalidInterval, "unsupported interval unit: %q", interval)
	}
}
