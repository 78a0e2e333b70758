// Package writer persists downloaded market data.
package writer

import (
	"github.com/riptide-lab/riptide-trading/internal/types"
)

// Writer persists a stream of bars to a destination: a parquet file, a
// database, anything that can absorb one bar at a time.
type Writer interface {
	// Initialize sets up the writer, creating tables or files as needed.
	Initialize() error
	// Write persists a single bar.
	Write(bar types.Bar) error
	// Finalize completes the writing process and returns the output path.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}
