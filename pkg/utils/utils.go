// Package utils holds small helpers shared across packages.
package utils

import (
	"encoding/json"
	"math"

	"github.com/invopop/jsonschema"
)

// GetSchemaFromConfig reflects a JSON Schema document from a config struct.
// Editors pointed at the schema get completion and validation for the YAML
// config files.
func GetSchemaFromConfig(config any) (string, error) {
	schema := jsonschema.Reflect(config)

	jsonSchemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}

// RoundDownToPrecision floors the quantity to the given number of decimal
// places. Order quantities are rounded down, never up, so a fill can never
// exceed the sized volume.
func RoundDownToPrecision(quantity float64, decimalPrecision int) float64 {
	multiplier := math.Pow10(decimalPrecision)

	return math.Floor(quantity*multiplier) / multiplier
}
