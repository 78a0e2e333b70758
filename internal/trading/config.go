package trading

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/riptide-lab/riptide-trading/internal/market"
	"github.com/riptide-lab/riptide-trading/internal/risk"
	"github.com/riptide-lab/riptide-trading/internal/strategy"
	"github.com/riptide-lab/riptide-trading/pkg/errors"
	"github.com/riptide-lab/riptide-trading/pkg/utils"
)

// EngineConfig configures the live trading loop.
type EngineConfig struct {
	// Symbols to stream and trade, e.g. ["BTCUSDT", "ETHUSDT"].
	Symbols []string `yaml:"symbols" json:"symbols" validate:"required,min=1,dive,required"`
	// Interval is the kline interval, e.g. "5m".
	Interval string `yaml:"interval" json:"interval" validate:"required"`
	// InitialCapital seeds the risk manager when no persisted state exists.
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital" validate:"required,gt=0"`
	// MinSignalInterval gates entries per symbol: after acting on a signal
	// the engine ignores further signals for that symbol until the
	// interval elapses.
	MinSignalInterval time.Duration `yaml:"min_signal_interval" json:"min_signal_interval" validate:"min=0"`
	// WindowSize is the number of bars kept per symbol for snapshots.
	WindowSize int `yaml:"window_size" json:"window_size" validate:"required,gt=0"`
	// PaperTrading selects the paper transport over the real one.
	PaperTrading bool `yaml:"paper_trading" json:"paper_trading"`
	// MetricsAddr, when non-empty, starts the HTTP server (health,
	// prometheus metrics, read-only API) on that address, e.g. ":9090".
	MetricsAddr string `yaml:"metrics_addr" json:"metrics_addr"`

	Risk     risk.RiskLimits       `yaml:"risk" json:"risk"`
	Signal   strategy.SignalConfig `yaml:"signal" json:"signal"`
	Snapshot market.SnapshotConfig `yaml:"snapshot" json:"snapshot"`
}

// DefaultEngineConfig returns a paper-trading config with the stock risk
// and signal parameters.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Symbols:           []string{"BTCUSDT"},
		Interval:          "5m",
		InitialCapital:    10000,
		MinSignalInterval: 5 * time.Minute,
		WindowSize:        200,
		PaperTrading:      true,
		Risk:              risk.DefaultRiskLimits(),
		Signal:            strategy.DefaultSignalConfig(),
		Snapshot:          market.DefaultSnapshotConfig(),
	}
}

// GenerateSchemaJSON reflects the JSON schema of the config for editor
// completion on the YAML files.
func (c *EngineConfig) GenerateSchemaJSON() (string, error) {
	return utils.GetSchemaFromConfig(c)
}

// ParseEngineConfig decodes a YAML document into a validated EngineConfig.
// Fields left out of the document keep their defaults.
func ParseEngineConfig(data []byte) (EngineConfig, error) {
	cfg := DefaultEngineConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return EngineConfig{}, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse trading config", err)
	}

	if err := cfg.Validate(); err != nil {
		return EngineConfig{}, err
	}

	return cfg, nil
}

// LoadEngineConfig reads and parses a YAML config file.
func LoadEngineConfig(path string) (EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EngineConfig{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	return ParseEngineConfig(data)
}

// Validate checks the config, including the nested sections.
func (c *EngineConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid trading config", err)
	}

	if err := c.Risk.Validate(); err != nil {
		return err
	}

	if err := c.Signal.Validate(); err != nil {
		return err
	}

	if err := c.Snapshot.Validate(); err != nil {
		return err
	}

	if c.WindowSize < c.Snapshot.MinBars {
		return errors.Newf(errors.ErrCodeInvalidConfiguration,
			"window size %d is smaller than the snapshot minimum of %d bars",
			c.WindowSize, c.Snapshot.MinBars)
	}

	return nil
}
