package datasource

import (
	"sort"
	"time"

	"github.com/moznion/go-optional"

	"github.com/riptide-lab/riptide-trading/internal/types"
)

// MemoryDataSource serves bars from a slice. Tests and benchmarks use it to
// avoid any file I/O; bars are sorted by time on construction.
type MemoryDataSource struct {
	bars []types.Bar
}

// NewMemoryDataSource copies and time-sorts the given bars.
func NewMemoryDataSource(bars []types.Bar) *MemoryDataSource {
	sorted := append(bars[:0:0], bars...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time.Before(sorted[j].Time)
	})

	return &MemoryDataSource{bars: sorted}
}

// Initialize implements DataSource; the memory source ignores the path.
func (d *MemoryDataSource) Initialize(path string) error {
	return nil
}

// ReadAll implements DataSource.
func (d *MemoryDataSource) ReadAll(start, end optional.Option[time.Time]) func(yield func(types.Bar, error) bool) {
	return func(yield func(types.Bar, error) bool) {
		for _, bar := range d.bars {
			if !inRange(bar.Time, start, end) {
				continue
			}

			if !yield(bar, nil) {
				return
			}
		}
	}
}

// ReadRange implements DataSource.
func (d *MemoryDataSource) ReadRange(start, end time.Time) ([]types.Bar, error) {
	var out []types.Bar

	for _, bar := range d.bars {
		if !bar.Time.Before(start) && !bar.Time.After(end) {
			out = append(out, bar)
		}
	}

	return out, nil
}

// Count implements DataSource.
func (d *MemoryDataSource) Count(start, end optional.Option[time.Time]) (int, error) {
	count := 0

	for _, bar := range d.bars {
		if inRange(bar.Time, start, end) {
			count++
		}
	}

	return count, nil
}

// Close implements DataSource.
func (d *MemoryDataSource) Close() error {
	return nil
}

func inRange(t time.Time, start, end optional.Option[time.Time]) bool {
	if start.IsSome() && t.Before(start.Unwrap()) {
		return false
	}

	if end.IsSome() && t.After(end.Unwrap()) {
		return false
	}

	return true
}
