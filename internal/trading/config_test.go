package trading

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type EngineConfigTestSuite struct {
	suite.Suite
}

func TestEngineConfigSuite(t *testing.T) {
	suite.Run(t, new(EngineConfigTestSuite))
}

func (suite *EngineConfigTestSuite) TestDefaultConfigIsValid() {
	cfg := DefaultEngineConfig()
	suite.NoError(cfg.Validate())
	suite.True(cfg.PaperTrading)
	suite.Equal(5*time.Minute, cfg.MinSignalInterval)
}

func (suite *EngineConfigTestSuite) TestValidateRejectsBadConfigs() {
	tests := []struct {
		name   string
		mutate func(*EngineConfig)
	}{
		{"no symbols", func(c *EngineConfig) { c.Symbols = nil }},
		{"empty symbol", func(c *EngineConfig) { c.Symbols = []string{""} }},
		{"no interval", func(c *EngineConfig) { c.Interval = "" }},
		{"zero capital", func(c *EngineConfig) { c.InitialCapital = 0 }},
		{"window below min bars", func(c *EngineConfig) { c.WindowSize = 100 }},
		{"bad risk", func(c *EngineConfig) { c.Risk.RiskPerTrade = -1 }},
		{"bad signal", func(c *EngineConfig) { c.Signal.MinConfidence = 2 }},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			cfg := DefaultEngineConfig()
			tc.mutate(&cfg)
			suite.Error(cfg.Validate())
		})
	}
}

func (suite *EngineConfigTestSuite) TestParseOverlaysDefaults() {
	doc := []byte(`
symbols: [ETHUSDT, BTCUSDT]
interval: 1h
paper_trading: false
metrics_addr: ":9090"
`)

	cfg, err := ParseEngineConfig(doc)
	suite.Require().NoError(err)
	suite.Equal([]string{"ETHUSDT", "BTCUSDT"}, cfg.Symbols)
	suite.Equal("1h", cfg.Interval)
	suite.False(cfg.PaperTrading)
	suite.Equal(":9090", cfg.MetricsAddr)
	// Untouched sections keep their defaults.
	suite.Equal(10000.0, cfg.InitialCapital)
	suite.Equal(200, cfg.WindowSize)
}

func (suite *EngineConfigTestSuite) TestParseRejectsMalformedYAML() {
	_, err := ParseEngineConfig([]byte("symbols: [unterminated"))
	suite.Error(err)
}
