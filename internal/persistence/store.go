// Package persistence saves and restores trading state snapshots so a
// restarted process can resume with its positions, capital, and loss
// counters intact.
package persistence

import (
	"time"

	"github.com/riptide-lab/riptide-trading/internal/types"
	"github.com/riptide-lab/riptide-trading/internal/version"
)

// CurrentSchemaVersion is the schema version stamped on every snapshot
// written by this build. Bump the major part when the layout changes
// incompatibly.
const CurrentSchemaVersion = "1.0.0"

// StateSnapshot is the full serialized trading state: portfolio counters,
// every live position, the terminal history, and the pause flag.
type StateSnapshot struct {
	SchemaVersion   string               `json:"schema_version"`
	SavedAt         time.Time            `json:"saved_at"`
	Portfolio       types.PortfolioState `json:"portfolio"`
	OpenPositions   []types.Position     `json:"open_positions"`
	ClosedPositions []types.Position     `json:"closed_positions"`
	TradingPaused   bool                 `json:"trading_paused"`
}

// NewStateSnapshot stamps the current schema version and wall-clock time
// onto the given state.
func NewStateSnapshot(portfolio types.PortfolioState, open, closed []types.Position, paused bool) StateSnapshot {
	return StateSnapshot{
		SchemaVersion:   CurrentSchemaVersion,
		SavedAt:         time.Now().UTC(),
		Portfolio:       portfolio,
		OpenPositions:   open,
		ClosedPositions: closed,
		TradingPaused:   paused,
	}
}

// StateStore persists state snapshots. Implementations must be safe for
// concurrent use.
type StateStore interface {
	// Save persists the snapshot, replacing or superseding any prior one.
	Save(snapshot StateSnapshot) error
	// Load returns the most recent snapshot. ok is false when no snapshot
	// has ever been saved.
	Load() (snapshot StateSnapshot, ok bool, err error)
}

// checkSchema refuses snapshots written under an incompatible schema.
func checkSchema(snapshot StateSnapshot) error {
	return version.CheckCompatibility(CurrentSchemaVersion, snapshot.SchemaVersion)
}
