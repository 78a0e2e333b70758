package provider

import (
	"context"
	"iter"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"

	"github.com/riptide-lab/riptide-trading/internal/types"
	"github.com/riptide-lab/riptide-trading/pkg/errors"
	"github.com/riptide-lab/riptide-trading/pkg/marketdata/writer"
)

// binancePageSize is the kline page limit of the Binance REST API.
const binancePageSize = 500

// validBinanceIntervals are the kline intervals Binance accepts.
var validBinanceIntervals = map[string]bool{
	"1m": true, "3m": true, "5m": true, "15m": true, "30m": true,
	"1h": true, "2h": true, "4h": true, "6h": true, "8h": true, "12h": true,
	"1d": true, "3d": true, "1w": true, "1M": true,
}

// BinanceClient downloads and streams klines from Binance. Public kline
// endpoints need no API key.
type BinanceClient struct {
	client *binance.Client
	writer writer.Writer
}

// NewBinanceClient creates an unauthenticated Binance market data client.
func NewBinanceClient() (Provider, error) {
	return &BinanceClient{
		client: binance.NewClient("", ""),
	}, nil
}

// ConfigWriter implements Provider.
func (c *BinanceClient) ConfigWriter(w writer.Writer) {
	c.writer = w
}

// Download implements Provider. It pages through the klines endpoint 500
// rows at a time, advancing past the last close time of each page.
func (c *BinanceClient) Download(ctx context.Context, ticker string, startDate, endDate time.Time, interval string, onProgress OnDownloadProgress) (string, error) {
	if !validBinanceIntervals[interval] {
		return "", errors.Newf(errors.ErrCodeInvalidInterval, "unsupported binance interval: %s", interval)
	}

	if c.writer == nil {
		return "", errors.New(errors.ErrCodeMarketDataFetchFailed, "writer is not configured")
	}

	if err := c.writer.Initialize(); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to initialize writer", err)
	}

	startMillis := startDate.UnixMilli()
	endMillis := endDate.UnixMilli()
	currentStart := startMillis

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		klines, err := c.client.NewKlinesService().
			Symbol(ticker).
			Interval(interval).
			StartTime(currentStart).
			EndTime(endMillis).
			Limit(binancePageSize).
			Do(ctx)
		if err != nil {
			return "", errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch %s klines from binance", ticker)
		}

		if onProgress != nil {
			onProgress(float64(currentStart-startMillis), float64(endMillis-startMillis), "downloading "+ticker+" klines from binance")
		}

		if err := c.writeKlines(ticker, klines); err != nil {
			return "", err
		}

		// A short page is the last one.
		if len(klines) < binancePageSize {
			break
		}

		// Resume one millisecond past the last kline's close to avoid
		// duplicates.
		currentStart = klines[len(klines)-1].CloseTime + 1
		if currentStart >= endMillis {
			break
		}
	}

	outputPath, err := c.writer.Finalize()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to finalize writer", err)
	}

	return outputPath, nil
}

// Stream implements Provider over the combined kline websocket. Only
// finalized klines are yielded, so every bar is complete and immutable.
func (c *BinanceClient) Stream(ctx context.Context, symbols []string, interval string) iter.Seq2[types.Bar, error] {
	return func(yield func(types.Bar, error) bool) {
		if !validBinanceIntervals[interval] {
			yield(types.Bar{}, errors.Newf(errors.ErrCodeInvalidInterval, "unsupported binance interval: %s", interval))

			return
		}

		pairs := make(map[string]string, len(symbols))
		for _, symbol := range symbols {
			pairs[symbol] = interval
		}

		bars := make(chan types.Bar)
		streamErrs := make(chan error, 1)

		handler := func(event *binance.WsKlineEvent) {
			if event == nil || !event.Kline.IsFinal {
				return
			}

			select {
			case bars <- wsKlineToBar(event):
			case <-ctx.Done():
			}
		}

		errHandler := func(err error) {
			select {
			case streamErrs <- err:
			default:
			}
		}

		doneC, stopC, err := binance.WsCombinedKlineServe(pairs, handler, errHandler)
		if err != nil {
			yield(types.Bar{}, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to open binance kline stream", err))

			return
		}

		defer close(stopC)

		for {
			select {
			case <-ctx.Done():
				return
			case <-doneC:
				return
			case err := <-streamErrs:
				if !yield(types.Bar{}, errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "binance kline stream error", err)) {
					return
				}
			case bar := <-bars:
				if !yield(bar, nil) {
					return
				}
			}
		}
	}
}

// writeKlines converts a page of klines to bars and writes them.
func (c *BinanceClient) writeKlines(ticker string, klines []*binance.Kline) error {
	for _, k := range klines {
		open, _ := strconv.ParseFloat(k.Open, 64)
		high, _ := strconv.ParseFloat(k.High, 64)
		low, _ := strconv.ParseFloat(k.Low, 64)
		closePrice, _ := strconv.ParseFloat(k.Close, 64)
		volume, _ := strconv.ParseFloat(k.Volume, 64)

		bar := types.Bar{
			Symbol: ticker,
			Time:   time.UnixMilli(k.OpenTime).UTC(),
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		}

		if err := c.writer.Write(bar); err != nil {
			return errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write bar", err)
		}
	}

	return nil
}

// wsKlineToBar converts a finalized websocket kline event into a Bar.
func wsKlineToBar(event *binance.WsKlineEvent) types.Bar {
	k := event.Kline

	open, _ := strconv.ParseFloat(k.Open, 64)
	high, _ := strconv.ParseFloat(k.High, 64)
	low, _ := strconv.ParseFloat(k.Low, 64)
	closePrice, _ := strconv.ParseFloat(k.Close, 64)
	volume, _ := strconv.ParseFloat(k.Volume, 64)

	return types.Bar{
		Symbol: event.Symbol,
		Time:   time.UnixMilli(k.StartTime).UTC(),
		Open:   open,
		High:   high,
		Low:    low,
		Close:  closePrice,
		Volume: volume,
	}
}
