package datasource

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	_ "github.com/marcboeker/go-duckdb"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/riptide-lab/riptide-trading/internal/logger"
	"github.com/riptide-lab/riptide-trading/internal/types"
	"github.com/riptide-lab/riptide-trading/pkg/errors"
)

// readBatchSize bounds how many bars one ReadAll query pulls at a time.
const readBatchSize = 1000

// DuckDBDataSource reads bar data through an embedded DuckDB instance. The
// data file is exposed as a view over read_parquet or read_csv_auto, so
// queries never load the whole file into memory.
type DuckDBDataSource struct {
	db  *sql.DB
	log *logger.Logger
	sq  squirrel.StatementBuilderType
}

// NewDuckDBDataSource opens an in-memory DuckDB instance. Call Initialize
// to attach a data file.
func NewDuckDBDataSource(log *logger.Logger) (*DuckDBDataSource, error) {
	db, err := sql.Open("duckdb", ":memory:")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to open duckdb", err)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &DuckDBDataSource{
		db:  db,
		log: log,
		sq:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}, nil
}

// Initialize implements DataSource. The path's extension picks the reader:
// parquet files go through read_parquet, anything else through
// read_csv_auto.
func (d *DuckDBDataSource) Initialize(path string) error {
	d.log.Debug("initializing duckdb data source", zap.String("path", path))

	if _, err := d.db.Exec(`DROP VIEW IF EXISTS bars;`); err != nil {
		return errors.Wrap(errors.ErrCodeDataSourceUnavailable, "failed to drop existing view", err)
	}

	reader := "read_csv_auto"
	if strings.HasSuffix(strings.ToLower(path), ".parquet") {
		reader = "read_parquet"
	}

	// CREATE VIEW has no placeholder support; the path is escaped by
	// doubling single quotes.
	escaped := strings.ReplaceAll(path, "'", "''")

	query := fmt.Sprintf(`
		CREATE VIEW bars AS
		SELECT symbol, time, open, high, low, close, volume
		FROM %s('%s');
	`, reader, escaped)

	if _, err := d.db.Exec(query); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to create bar view over %s", path)
	}

	return nil
}

// Count implements DataSource.
func (d *DuckDBDataSource) Count(start, end optional.Option[time.Time]) (int, error) {
	query := d.sq.Select("COUNT(*)").From("bars")
	query = applyTimeRange(query, start, end)

	var count int
	if err := query.RunWith(d.db).QueryRow().Scan(&count); err != nil {
		return 0, errors.Wrap(errors.ErrCodeQueryFailed, "failed to count bars", err)
	}

	return count, nil
}

// ReadAll implements DataSource with batched queries so arbitrarily large
// files stream in bounded memory.
func (d *DuckDBDataSource) ReadAll(start, end optional.Option[time.Time]) func(yield func(types.Bar, error) bool) {
	return func(yield func(types.Bar, error) bool) {
		offset := uint64(0)

		for {
			query := d.sq.
				Select("symbol", "time", "open", "high", "low", "close", "volume").
				From("bars").
				OrderBy("time ASC").
				Limit(readBatchSize).
				Offset(offset)
			query = applyTimeRange(query, start, end)

			batch, err := d.scanBars(query)
			if err != nil {
				yield(types.Bar{}, err)

				return
			}

			for _, bar := range batch {
				if !yield(bar, nil) {
					return
				}
			}

			if len(batch) < readBatchSize {
				return
			}

			offset += readBatchSize
		}
	}
}

// ReadRange implements DataSource.
func (d *DuckDBDataSource) ReadRange(start, end time.Time) ([]types.Bar, error) {
	query := d.sq.
		Select("symbol", "time", "open", "high", "low", "close", "volume").
		From("bars").
		Where(squirrel.GtOrEq{"time": start}).
		Where(squirrel.LtOrEq{"time": end}).
		OrderBy("time ASC")

	return d.scanBars(query)
}

// Close implements DataSource.
func (d *DuckDBDataSource) Close() error {
	if d.db == nil {
		return nil
	}

	return d.db.Close()
}

// scanBars runs the query and decodes every row into a Bar.
func (d *DuckDBDataSource) scanBars(query squirrel.SelectBuilder) ([]types.Bar, error) {
	rows, err := query.RunWith(d.db).Query()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed to query bars", err)
	}
	defer rows.Close()

	var bars []types.Bar

	for rows.Next() {
		var bar types.Bar
		if err := rows.Scan(&bar.Symbol, &bar.Time, &bar.Open, &bar.High, &bar.Low, &bar.Close, &bar.Volume); err != nil {
			return nil, errors.Wrap(errors.ErrCodeDataParseFailed, "failed to scan bar row", err)
		}

		bars = append(bars, bar)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeQueryFailed, "failed reading bar rows", err)
	}

	return bars, nil
}

// applyTimeRange adds the optional start/end bounds to a bar query.
func applyTimeRange(query squirrel.SelectBuilder, start, end optional.Option[time.Time]) squirrel.SelectBuilder {
	if start.IsSome() {
		query = query.Where(squirrel.GtOrEq{"time": start.Unwrap()})
	}

	if end.IsSome() {
		query = query.Where(squirrel.LtOrEq{"time": end.Unwrap()})
	}

	return query
}
