package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/ev-priority/internal/model"
	"github.com/sells-group/ev-priority/internal/resilience"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db    *sql.DB
	retry resilience.RetryConfig
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("store", "replace_records")
	return &SQLiteStore{db: db, retry: retry}, nil
}

const recordsTable = "priority_records"

// ErrNoRecordsTable is returned when a source database has no
// priority_records table.
var ErrNoRecordsTable = eris.New("sqlite: priority_records table not found")

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS priority_records (
	id             TEXT PRIMARY KEY,
	seq            INTEGER NOT NULL,
	borough        TEXT NOT NULL,
	latitude       REAL,
	longitude      REAL,
	priority_score REAL NOT NULL,
	imported_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_priority_records_seq ON priority_records(seq);
CREATE INDEX IF NOT EXISTS idx_priority_records_borough ON priority_records(borough);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ReplaceRecords retries the whole transaction while another connection
// holds the write lock.
func (s *SQLiteStore) ReplaceRecords(ctx context.Context, records []model.Record) (int, error) {
	return resilience.DoVal(ctx, s.retry, func(ctx context.Context) (int, error) {
		return s.replaceOnce(ctx, records)
	})
}

func (s *SQLiteStore) replaceOnce(ctx context.Context, records []model.Record) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin replace records")
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM priority_records`); err != nil {
		return 0, eris.Wrap(err, "sqlite: clear records")
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO priority_records (id, seq, borough, latitude, longitude, priority_score, imported_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert record")
	}
	defer stmt.Close() //nolint:errcheck

	now := time.Now().UTC()
	for i, r := range records {
		if _, err := stmt.ExecContext(ctx,
			uuid.New().String(), i, r.Borough,
			nullFloat(r.Latitude), nullFloat(r.Longitude),
			r.PriorityScore, now,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert record %d", i)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit replace records")
	}
	return len(records), nil
}

func (s *SQLiteStore) ListRecords(ctx context.Context) ([]model.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT borough, latitude, longitude, priority_score FROM priority_records ORDER BY seq`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list records")
	}
	defer rows.Close() //nolint:errcheck

	var records []model.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list records iterate")
}

func (s *SQLiteStore) CountRecords(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM priority_records`).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "sqlite: count records")
	}
	return n, nil
}

// ReadRecords opens the database at dsn, reads all records and closes it.
// It matches dataset.RecordReader. The source file is never written to: no
// migration runs and the journal mode is left as it is.
func ReadRecords(ctx context.Context, dsn string) ([]model.Record, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	defer db.Close() //nolint:errcheck
	// One connection so the busy timeout covers every query below.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		return nil, eris.Wrap(err, "sqlite: exec PRAGMA busy_timeout=5000")
	}

	var tables int
	if err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, recordsTable,
	).Scan(&tables); err != nil {
		return nil, eris.Wrap(err, "sqlite: inspect schema")
	}
	if tables == 0 {
		return nil, eris.Wrapf(ErrNoRecordsTable, "sqlite: read %s", dsn)
	}

	st := &SQLiteStore{db: db}
	return st.ListRecords(ctx)
}

type scannable interface {
	Scan(dest ...any) error
}

func scanRecord(row scannable) (*model.Record, error) {
	var (
		r        model.Record
		lat, lon sql.NullFloat64
	)
	if err := row.Scan(&r.Borough, &lat, &lon, &r.PriorityScore); err != nil {
		return nil, eris.Wrap(err, "sqlite: scan record")
	}
	if lat.Valid {
		r.Latitude = model.Float(lat.Float64)
	}
	if lon.Valid {
		r.Longitude = model.Float(lon.Float64)
	}
	return &r, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
