package persistence

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/riptide-lab/riptide-trading/pkg/errors"
)

// JSONStore persists the latest snapshot as one pretty-printed JSON file.
// Writes go through a temp file followed by a rename, so a crash mid-write
// never leaves a truncated state file behind.
type JSONStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONStore returns a store writing to the given file path. The parent
// directory is created on the first Save.
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

// Path returns the state file location.
func (s *JSONStore) Path() string {
	return s.path
}

// Save implements StateStore.
func (s *JSONStore) Save(snapshot StateSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStateSaveFailed, "failed to encode state snapshot", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeStateSaveFailed, "failed to create state directory", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeStateSaveFailed, "failed to create temp state file", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return errors.Wrap(errors.ErrCodeStateSaveFailed, "failed to write state snapshot", err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())

		return errors.Wrap(errors.ErrCodeStateSaveFailed, "failed to close temp state file", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())

		return errors.Wrap(errors.ErrCodeStateSaveFailed, "failed to replace state file", err)
	}

	return nil
}

// Load implements StateStore.
func (s *JSONStore) Load() (StateSnapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return StateSnapshot{}, false, nil
	}

	if err != nil {
		return StateSnapshot{}, false, errors.Wrap(errors.ErrCodeStateLoadFailed, "failed to read state file", err)
	}

	var snapshot StateSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return StateSnapshot{}, false, errors.Wrap(errors.ErrCodeStateLoadFailed, "failed to decode state file", err)
	}

	if err := checkSchema(snapshot); err != nil {
		return StateSnapshot{}, false, err
	}

	return snapshot, true, nil
}
