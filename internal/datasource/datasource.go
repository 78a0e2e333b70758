// Package datasource reads historical bar series for backtests from parquet
// or CSV files, or from memory in tests.
package datasource

import (
	"time"

	"github.com/moznion/go-optional"

	"github.com/riptide-lab/riptide-trading/internal/types"
)

// DataSource supplies chronologically ordered bars. Implementations must
// yield bars with non-decreasing timestamps.
type DataSource interface {
	// Initialize points the source at a data file (.parquet or .csv).
	Initialize(path string) error
	// ReadAll returns an iterator over every bar in the optional time
	// range, oldest first.
	ReadAll(start, end optional.Option[time.Time]) func(yield func(types.Bar, error) bool)
	// ReadRange loads the bars between start and end inclusive.
	ReadRange(start, end time.Time) ([]types.Bar, error)
	// Count returns the number of bars in the optional time range.
	Count(start, end optional.Option[time.Time]) (int, error)
	// Close releases underlying resources.
	Close() error
}
