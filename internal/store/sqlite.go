package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/autokosten/autokosten-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

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
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS comparisons (
	id          TEXT PRIMARY KEY,
	plate_id    TEXT NOT NULL,
	method      TEXT NOT NULL,
	summary     TEXT NOT NULL,
	vehicle     TEXT,
	breakdown   TEXT NOT NULL,
	net_monthly REAL NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	UNIQUE(plate_id, method)
);

CREATE INDEX IF NOT EXISTS idx_comparisons_net_monthly ON comparisons(net_monthly);
CREATE INDEX IF NOT EXISTS idx_comparisons_created_at ON comparisons(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveComparison(ctx context.Context, c *model.Comparison) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	vehicleJSON, breakdownJSON, err := marshalComparison(c)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal comparison")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO comparisons (id, plate_id, method, summary, vehicle, breakdown, net_monthly, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(plate_id, method) DO UPDATE SET
		   id = excluded.id, summary = excluded.summary, vehicle = excluded.vehicle,
		   breakdown = excluded.breakdown, net_monthly = excluded.net_monthly,
		   created_at = excluded.created_at`,
		c.ID, c.PlateID, c.Method, c.VehicleSummary,
		nullableString(vehicleJSON), breakdownJSON, c.Breakdown.Totals.NetMonthly, c.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: save comparison")
	}
	return s.prune(ctx)
}

// prune keeps only the MaxComparisons newest entries.
func (s *SQLiteStore) prune(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM comparisons WHERE id NOT IN (
		   SELECT id FROM comparisons ORDER BY created_at DESC LIMIT ?
		 )`,
		MaxComparisons,
	)
	return eris.Wrap(err, "sqlite: prune comparisons")
}

func (s *SQLiteStore) ListComparisons(ctx context.Context) ([]model.Comparison, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, plate_id, method, summary, vehicle, breakdown, created_at
		 FROM comparisons ORDER BY net_monthly ASC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list comparisons")
	}
	defer rows.Close()

	var out []model.Comparison
	for rows.Next() {
		c, err := scanComparison(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list comparisons iterate")
}

func (s *SQLiteStore) GetComparison(ctx context.Context, id string) (*model.Comparison, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, plate_id, method, summary, vehicle, breakdown, created_at
		 FROM comparisons WHERE id = ?`,
		id,
	)
	c, err := scanComparison(row)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrComparisonNotFound, "%s", id)
	}
	return c, err
}

func (s *SQLiteStore) RemoveComparison(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comparisons WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: remove comparison %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrComparisonNotFound, "%s", id)
	}
	return nil
}

func (s *SQLiteStore) ClearComparisons(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM comparisons`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: clear comparisons")
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

// helpers

func marshalComparison(c *model.Comparison) (vehicleJSON, breakdownJSON string, err error) {
	if c.Vehicle != nil {
		b, err := json.Marshal(c.Vehicle)
		if err != nil {
			return "", "", err
		}
		vehicleJSON = string(b)
	}
	b, err := json.Marshal(c.Breakdown)
	if err != nil {
		return "", "", err
	}
	return vehicleJSON, string(b), nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

type scannable interface {
	Scan(dest ...any) error
}

func scanComparison(row scannable) (*model.Comparison, error) {
	var c model.Comparison
	var vehicleJSON sql.NullString
	var breakdownJSON string

	err := row.Scan(&c.ID, &c.PlateID, &c.Method, &c.VehicleSummary, &vehicleJSON, &breakdownJSON, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan comparison")
	}

	if vehicleJSON.Valid && vehicleJSON.String != "" {
		c.Vehicle = &model.Vehicle{}
		if err := json.Unmarshal([]byte(vehicleJSON.String), c.Vehicle); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal vehicle")
		}
	}
	if err := json.Unmarshal([]byte(breakdownJSON), &c.Breakdown); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal breakdown")
	}
	return &c, nil
}
