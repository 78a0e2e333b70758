package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/riptide-lab/riptide-trading/internal/logger"
	"github.com/riptide-lab/riptide-trading/internal/persistence"
	"github.com/riptide-lab/riptide-trading/internal/trading"
	"github.com/riptide-lab/riptide-trading/internal/types"
	"github.com/riptide-lab/riptide-trading/internal/version"
	"github.com/riptide-lab/riptide-trading/pkg/marketdata/provider"
)

// tradingAction wires the live loop: binance stream in, orders out through
// the paper or real transport, state persisted between runs.
func tradingAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := trading.LoadEngineConfig(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.IsSet("paper") {
		cfg.PaperTrading = cmd.Bool("paper")
	}

	if cmd.IsSet("metrics-addr") {
		cfg.MetricsAddr = cmd.String("metrics-addr")
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

	dataProvider, err := provider.NewMarketDataProvider(provider.ProviderBinance, "")
	if err != nil {
		return err
	}

	var transport trading.OrderTransport
	if cfg.PaperTrading {
		transport = trading.NewPaperTransport(appLogger)
	} else {
		transport, err = trading.NewBinanceTransport(
			os.Getenv("BINANCE_API_KEY"),
			os.Getenv("BINANCE_SECRET_KEY"),
			cmd.Bool("testnet"),
			appLogger)
		if err != nil {
			return err
		}
	}

	store := persistence.NewJSONStore(cmd.String("state"))

	engine, err := trading.NewEngine(cfg, dataProvider, transport, store, appLogger)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, stopping...")
		cancel()
	}()

	callbacks := trading.Callbacks{
		OnSignal: func(sig types.TradeSignal) {
			fmt.Printf("Signal: %s %s confidence %.2f @ %.4f\n",
				sig.Side, sig.Symbol, sig.Confidence, sig.EntryPrice)
		},
		OnTrade: func(position types.Position, event string) {
			fmt.Printf("Trade %s: %s %s volume %.6f @ %.4f\n",
				event, position.Side, position.Symbol, position.Volume, position.EntryPrice)
		},
		OnError: func(err error) {
			fmt.Printf("Error: %v\n", err)
		},
	}

	fmt.Printf("Starting trading with %d symbols (%s transport)...\n", len(cfg.Symbols), transport.Name())

	if err := engine.Run(runCtx, callbacks); err != nil {
		if err == context.Canceled {
			fmt.Println("Trading stopped by user")

			return nil
		}

		return err
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "trading",
		Usage:   "Run the live trading loop",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the YAML trading config",
				Value:   "trading.yaml",
			},
			&cli.BoolFlag{
				Name:  "paper",
				Usage: "Force paper trading regardless of the config",
			},
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Address for the metrics and API server, e.g. :9090",
			},
			&cli.StringFlag{
				Name:  "state",
				Usage: "Path to the persisted engine state",
				Value: "trading_state.json",
			},
			&cli.BoolFlag{
				Name:  "testnet",
				Usage: "Use the Binance spot testnet for real orders",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging",
			},
		},
		Action: tradingAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
