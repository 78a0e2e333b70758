package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/riptide-lab/riptide-trading/internal/backtest"
	"github.com/riptide-lab/riptide-trading/internal/trading"
	"github.com/riptide-lab/riptide-trading/internal/version"
	"github.com/riptide-lab/riptide-trading/mocks"
)

// schemaAction writes the backtest and trading config JSON schemas plus
// sample YAML configs annotated for yaml-language-server.
func schemaAction(_ context.Context, cmd *cli.Command) error {
	outputDir := cmd.String("output")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	backtestCfg := backtest.DefaultConfig()
	if err := writeSchema(outputDir, "backtest-config", &backtestCfg); err != nil {
		return err
	}

	tradingCfg := trading.DefaultEngineConfig()

	return writeSchema(outputDir, "trading-config", &tradingCfg)
}

// schemaConfig is any config that can reflect its own JSON schema.
type schemaConfig interface {
	GenerateSchemaJSON() (string, error)
}

func writeSchema(outputDir, name string, cfg schemaConfig) error {
	schemaJSON, err := cfg.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate %s schema: %w", name, err)
	}

	schemaName := name + ".json"
	schemaPath := filepath.Join(outputDir, schemaName)

	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema: %w", err)
	}

	samplePath := filepath.Join(outputDir, name+".yaml")
	if _, err := os.Stat(samplePath); os.IsNotExist(err) {
		yamlBytes, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to marshal sample config: %w", err)
		}

		yamlBytes = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), yamlBytes...)

		if err := os.WriteFile(samplePath, yamlBytes, 0644); err != nil {
			return fmt.Errorf("failed to write sample config: %w", err)
		}

		fmt.Printf("Sample config generated at %s\n", samplePath)
	}

	fmt.Printf("Schema generated at %s\n", schemaPath)

	return nil
}

// sampleDataAction writes a synthetic bar series as CSV for backtesting.
func sampleDataAction(_ context.Context, cmd *cli.Command) error {
	outputPath := cmd.String("output")

	generator := mocks.NewDataGenerator(cmd.Int("seed"))

	cfg := mocks.DefaultGeneratorConfig()
	cfg.Symbol = cmd.String("symbol")
	cfg.Count = int(cmd.Int("count"))
	cfg.Volatility = cmd.Float("volatility")
	cfg.Trend = cmd.Float("trend")

	bars := generator.Generate(cfg)

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outputPath, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)

	if err := w.Write([]string{"time", "symbol", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}

	for _, bar := range bars {
		record := []string{
			bar.Time.UTC().Format(time.RFC3339),
			bar.Symbol,
			strconv.FormatFloat(bar.Open, 'f', -1, 64),
			strconv.FormatFloat(bar.High, 'f', -1, 64),
			strconv.FormatFloat(bar.Low, 'f', -1, 64),
			strconv.FormatFloat(bar.Close, 'f', -1, 64),
			strconv.FormatFloat(bar.Volume, 'f', -1, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	fmt.Printf("Wrote %d bars to %s\n", len(bars), outputPath)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "generate",
		Usage:   "Generate config schemas and sample data",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			{
				Name:  "schema",
				Usage: "Generate the backtest config JSON schema and a sample config",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output directory",
						Value:   "config",
					},
				},
				Action: schemaAction,
			},
			{
				Name:  "sample-data",
				Usage: "Generate a synthetic bar series as CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output CSV path",
						Value:   "data/sample.csv",
					},
					&cli.StringFlag{
						Name:    "symbol",
						Aliases: []string{"s"},
						Usage:   "Symbol stamped on every bar",
						Value:   "BTCUSDT",
					},
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Usage:   "Number of bars",
						Value:   1000,
					},
					&cli.IntFlag{
						Name:  "seed",
						Usage: "RNG seed for reproducible series",
						Value: 42,
					},
					&cli.FloatFlag{
						Name:  "volatility",
						Usage: "Per-bar price movement (0.002 = 0.2%)",
						Value: 0.002,
					},
					&cli.FloatFlag{
						Name:  "trend",
						Usage: "Total drift over the series, negative for bearish",
						Value: 0,
					},
				},
				Action: sampleDataAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
