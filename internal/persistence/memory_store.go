package persistence

import "sync"

// MemoryStore keeps the latest snapshot in memory. Backtests and tests use
// it when nothing should touch disk.
type MemoryStore struct {
	mu       sync.Mutex
	snapshot StateSnapshot
	saved    bool
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save implements StateStore.
func (s *MemoryStore) Save(snapshot StateSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = cloneSnapshot(snapshot)
	s.saved = true

	return nil
}

// Load implements StateStore.
func (s *MemoryStore) Load() (StateSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.saved {
		return StateSnapshot{}, false, nil
	}

	if err := checkSchema(s.snapshot); err != nil {
		return StateSnapshot{}, false, err
	}

	return cloneSnapshot(s.snapshot), true, nil
}

// cloneSnapshot copies the position slices so callers and the store never
// alias each other's backing arrays.
func cloneSnapshot(snapshot StateSnapshot) StateSnapshot {
	out := snapshot
	out.OpenPositions = append(out.OpenPositions[:0:0], snapshot.OpenPositions...)
	out.ClosedPositions = append(out.ClosedPositions[:0:0], snapshot.ClosedPositions...)

	return out
}
