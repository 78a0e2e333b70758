package persistence

import (
	"database/sql"
	"encoding/json"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"

	"github.com/riptide-lab/riptide-trading/pkg/errors"
)

// DuckDBStore appends each snapshot as a row in a DuckDB table, keeping
// the full history; Load returns the newest row. Pass ":memory:" for an
// ephemeral database.
type DuckDBStore struct {
	db *sql.DB
	sq squirrel.StatementBuilderType
}

// NewDuckDBStore opens (or creates) the database at path and prepares the
// snapshot table.
func NewDuckDBStore(path string) (*DuckDBStore, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStateSaveFailed, "failed to open state database", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()

		return nil, errors.Wrap(errors.ErrCodeStateSaveFailed, "failed to connect to state database", err)
	}

	store := &DuckDBStore{
		db: db,
		sq: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question),
	}

	if err := store.initialize(); err != nil {
		db.Close()

		return nil, err
	}

	return store, nil
}

func (s *DuckDBStore) initialize() error {
	_, err := s.db.Exec(`
		CREATE SEQUENCE IF NOT EXISTS state_snapshot_id_seq;
		CREATE TABLE IF NOT EXISTS state_snapshots (
			id INTEGER PRIMARY KEY,
			schema_version VARCHAR NOT NULL,
			saved_at TIMESTAMP NOT NULL,
			snapshot VARCHAR NOT NULL
		);
	`)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStateSaveFailed, "failed to create state tables", err)
	}

	return nil
}

// Save implements StateStore.
func (s *DuckDBStore) Save(snapshot StateSnapshot) error {
	if s == nil || s.db == nil {
		return errors.New(errors.ErrCodeStateSaveFailed, "state database is nil")
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStateSaveFailed, "failed to encode state snapshot", err)
	}

	var nextID int
	if err := s.db.QueryRow("SELECT nextval('state_snapshot_id_seq')").Scan(&nextID); err != nil {
		return errors.Wrap(errors.ErrCodeStateSaveFailed, "failed to get next snapshot id", err)
	}

	insert := s.sq.
		Insert("state_snapshots").
		Columns("id", "schema_version", "saved_at", "snapshot").
		Values(nextID, snapshot.SchemaVersion, snapshot.SavedAt, string(data)).
		RunWith(s.db)

	if _, err := insert.Exec(); err != nil {
		return errors.Wrap(errors.ErrCodeStateSaveFailed, "failed to insert state snapshot", err)
	}

	return nil
}

// Load implements StateStore. It returns the most recently inserted row.
func (s *DuckDBStore) Load() (StateSnapshot, bool, error) {
	if s == nil || s.db == nil {
		return StateSnapshot{}, false, errors.New(errors.ErrCodeStateLoadFailed, "state database is nil")
	}

	query := s.sq.
		Select("snapshot").
		From("state_snapshots").
		OrderBy("id DESC").
		Limit(1).
		RunWith(s.db)

	var data string

	err := query.QueryRow().Scan(&data)
	if err == sql.ErrNoRows {
		return StateSnapshot{}, false, nil
	}

	if err != nil {
		return StateSnapshot{}, false, errors.Wrap(errors.ErrCodeStateLoadFailed, "failed to query state snapshot", err)
	}

	var snapshot StateSnapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return StateSnapshot{}, false, errors.Wrap(errors.ErrCodeStateLoadFailed, "failed to decode state snapshot", err)
	}

	if err := checkSchema(snapshot); err != nil {
		return StateSnapshot{}, false, err
	}

	return snapshot, true, nil
}

// Close releases the underlying database handle.
func (s *DuckDBStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}
