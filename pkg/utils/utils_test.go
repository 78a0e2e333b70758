package utils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/suite"
)

type UtilsTestSuite struct {
	suite.Suite
}

func TestUtilsSuite(t *testing.T) {
	suite.Run(t, new(UtilsTestSuite))
}

type sampleConfig struct {
	Name    string   `json:"name" jsonschema:"description=The name of the config"`
	Value   int      `json:"value"`
	Enabled bool     `json:"enabled"`
	Tags    []string `json:"tags,omitempty"`
}

type nestedConfig struct {
	ID     string       `json:"id"`
	Config sampleConfig `json:"config"`
}

func (suite *UtilsTestSuite) TestGetSchemaFromConfig() {
	schema, err := GetSchemaFromConfig(sampleConfig{})
	suite.Require().NoError(err)
	suite.NotEmpty(schema)

	var result map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(schema), &result))
	suite.Contains(result, "$schema")
	suite.Contains(result, "$defs")
	suite.Contains(schema, "name")
	suite.Contains(schema, "enabled")
}

func (suite *UtilsTestSuite) TestRoundDownToPrecision() {
	suite.InDelta(0.12345678, RoundDownToPrecision(0.123456789, 8), 1e-12)
	suite.InDelta(1.0, RoundDownToPrecision(1.0099, 2), 1e-12)
	suite.Equal(0.0, RoundDownToPrecision(0.0000000001, 8))
	suite.Equal(42.0, RoundDownToPrecision(42.0, 8))
}

func (suite *UtilsTestSuite) TestGetSchemaFromNestedConfig() {
	schema, err := GetSchemaFromConfig(&nestedConfig{})
	suite.Require().NoError(err)

	var result map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(schema), &result))
	suite.Contains(schema, "sampleConfig")
}
