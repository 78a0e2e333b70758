package backtest

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"

	"github.com/riptide-lab/riptide-trading/internal/market"
	"github.com/riptide-lab/riptide-trading/internal/risk"
	"github.com/riptide-lab/riptide-trading/internal/strategy"
	"github.com/riptide-lab/riptide-trading/pkg/errors"
	"github.com/riptide-lab/riptide-trading/pkg/utils"
)

// Config holds every knob of a backtest run: capital, window geometry,
// commission, and the nested snapshot/signal/risk configurations.
type Config struct {
	// InitialCapital is the starting capital in quote currency.
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital" validate:"gt=0"`

	// WindowSize is the number of bars fed to the snapshot builder on each
	// step; it must cover the snapshot's MinBars.
	WindowSize int `yaml:"window_size" json:"window_size" validate:"gte=2"`

	// CommissionRate is the flat fee fraction charged on entry notional
	// (and on exit notional when CommissionOnExit is set).
	CommissionRate   float64 `yaml:"commission_rate" json:"commission_rate" validate:"gte=0"`
	CommissionOnExit bool    `yaml:"commission_on_exit" json:"commission_on_exit"`

	// Symbol restricts the run to one instrument; empty accepts whatever
	// the bar series carries.
	Symbol string `yaml:"symbol" json:"symbol"`

	// StartTime and EndTime clip the input series when set.
	StartTime optional.Option[time.Time] `yaml:"start_time" json:"start_time"`
	EndTime   optional.Option[time.Time] `yaml:"end_time" json:"end_time"`

	Risk     risk.RiskLimits       `yaml:"risk" json:"risk"`
	Signal   strategy.SignalConfig `yaml:"signal" json:"signal"`
	Snapshot market.SnapshotConfig `yaml:"snapshot" json:"snapshot"`
}

// DefaultConfig returns a run over 200-bar windows with 10000 starting
// capital and a 5 bps entry commission.
func DefaultConfig() Config {
	return Config{
		InitialCapital:   10000,
		WindowSize:       200,
		CommissionRate:   0.0005,
		CommissionOnExit: false,
		Risk:             risk.DefaultRiskLimits(),
		Signal:           strategy.DefaultSignalConfig(),
		Snapshot:         market.DefaultSnapshotConfig(),
	}
}

// EmptyConfig returns a zero-valued config, used for schema generation.
func EmptyConfig() Config {
	return Config{}
}

// ParseConfig decodes a YAML document into a validated Config. Fields left
// out of the document keep their defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse backtest config", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeBacktestConfigError, err, "failed to read config file %s", path)
	}

	return ParseConfig(data)
}

// Validate checks this config and every nested one.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid backtest config", err)
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
		return errors.Newf(errors.ErrCodeBacktestConfigError,
			"window_size %d is below the snapshot minimum of %d bars", c.WindowSize, c.Snapshot.MinBars)
	}

	if c.StartTime.IsSome() && c.EndTime.IsSome() && c.EndTime.Unwrap().Before(c.StartTime.Unwrap()) {
		return errors.New(errors.ErrCodeBacktestConfigError, "end_time precedes start_time")
	}

	return nil
}

// GenerateSchemaJSON renders the JSON Schema describing this config type.
func (c *Config) GenerateSchemaJSON() (string, error) {
	return utils.GetSchemaFromConfig(c)
}
