package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/riptide-lab/riptide-trading/internal/backtest"
	"github.com/riptide-lab/riptide-trading/internal/datasource"
	"github.com/riptide-lab/riptide-trading/internal/logger"
	"github.com/riptide-lab/riptide-trading/internal/types"
	"github.com/riptide-lab/riptide-trading/internal/version"
)

// backtestAction loads the config and data, replays the series, and writes
// the report.
func backtestAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("schema") {
		cfg := backtest.DefaultConfig()

		schema, err := cfg.GenerateSchemaJSON()
		if err != nil {
			return err
		}

		fmt.Println(schema)

		return nil
	}

	cfg, err := backtest.LoadConfig(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	newLogger := logger.NewLogger
	if cmd.Bool("verbose") {
		newLogger = logger.NewDevelopmentLogger
	}

	appLogger, err := newLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLogger.Sync()

	source, err := datasource.NewDuckDBDataSource(appLogger)
	if err != nil {
		return fmt.Errorf("failed to open data source: %w", err)
	}
	defer source.Close()

	dataPath := cmd.String("data")
	if err := source.Initialize(dataPath); err != nil {
		return fmt.Errorf("failed to read %s: %w", dataPath, err)
	}

	bars := make(types.BarSeries, 0)
	for bar, err := range source.ReadAll(optional.None[time.Time](), optional.None[time.Time]()) {
		if err != nil {
			return fmt.Errorf("failed to read bars: %w", err)
		}

		bars = append(bars, bar)
	}

	engine, err := backtest.NewEngine(cfg, appLogger)
	if err != nil {
		return err
	}

	progress := progressbar.NewOptions(len(bars),
		progressbar.OptionSetDescription("Replaying bars"),
		progressbar.OptionShowCount())
	engine.SetProgressCallback(func(current, total int) {
		progress.ChangeMax(total)
		_ = progress.Set(current)
	})

	report, err := engine.Run(ctx, bars)
	if err != nil {
		return err
	}

	_ = progress.Finish()
	fmt.Println()

	outputPath := cmd.String("output")
	if err := report.WriteFile(outputPath); err != nil {
		return err
	}

	fmt.Printf("Backtest complete: %d trades, final capital %.2f (%.2f%% return)\n",
		report.Statistics.TotalTrades,
		report.Summary.FinalCapital,
		report.Summary.TotalReturn*100)
	fmt.Printf("Report written to %s\n", outputPath)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "backtest",
		Usage:   "Replay historical bars through the trading strategy",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML backtest config",
				Value:   "backtest.yaml",
			},
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Path to the bar data (parquet or csv)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Path for the JSON report",
				Value:   "backtest_report.json",
			},
			&cli.BoolFlag{
				Name:  "schema",
				Usage: "Print the JSON schema of the config and exit",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
