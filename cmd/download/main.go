package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/riptide-lab/riptide-trading/internal/version"
	"github.com/riptide-lab/riptide-trading/pkg/marketdata/provider"
	"github.com/riptide-lab/riptide-trading/pkg/marketdata/writer"
)

// downloadAction fetches historical bars from the selected provider and
// writes them as parquet.
func downloadAction(ctx context.Context, cmd *cli.Command) error {
	symbol := cmd.String("symbol")
	startDate := cmd.Timestamp("start")
	endDate := cmd.Timestamp("end")
	interval := cmd.String("interval")
	providerType := provider.ProviderType(cmd.String("provider"))

	outputPath := cmd.String("output")
	if outputPath == "" {
		name := fmt.Sprintf("%s_%s_%s_%s.parquet",
			strings.ToLower(symbol), interval,
			startDate.Format("20060102"), endDate.Format("20060102"))
		outputPath = filepath.Join("data", name)
	}

	client, err := provider.NewMarketDataProvider(providerType, os.Getenv("POLYGON_API_KEY"))
	if err != nil {
		return err
	}

	barWriter := writer.NewDuckDBWriter(outputPath)
	defer barWriter.Close()

	client.ConfigWriter(barWriter)

	progress := progressbar.NewOptions(100,
		progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s", symbol)),
		progressbar.OptionShowCount())

	onProgress := func(current, total float64, message string) {
		if total > 0 {
			_ = progress.Set(int(current / total * 100))
		}

		if message != "" {
			progress.Describe(message)
		}
	}

	fmt.Printf("Downloading %s %s bars from %s to %s via %s...\n",
		symbol, interval,
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02"),
		providerType)

	path, err := client.Download(ctx, symbol, startDate, endDate, interval, onProgress)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	_ = progress.Finish()
	fmt.Printf("\nData written to %s\n", path)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "download",
		Usage:   "Download historical market data",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "symbol",
				Aliases:  []string{"s"},
				Usage:    "Ticker symbol, e.g. BTCUSDT",
				Required: true,
			},
			&cli.TimestampFlag{
				Name:     "start",
				Usage:    "Start date in `YYYY-MM-DD` format",
				Required: true,
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.TimestampFlag{
				Name:  "end",
				Usage: "End date in `YYYY-MM-DD` format; defaults to today",
				Value: time.Now(),
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.StringFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Bar interval, e.g. 1m, 5m, 1h, 1d",
				Value:   "5m",
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Data provider (%s, %s)", provider.ProviderBinance, provider.ProviderPolygon),
				Value:   string(provider.ProviderBinance),
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output parquet path; derived from the symbol and dates when empty",
			},
		},
		Action: downloadAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
