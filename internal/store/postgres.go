package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/autokosten/autokosten-cli/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses. pgxmock implements it,
// which keeps the Postgres driver testable without a live database.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool, mainly for tests.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS comparisons (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	plate_id    TEXT NOT NULL,
	method      TEXT NOT NULL,
	summary     TEXT NOT NULL,
	vehicle     JSONB,
	breakdown   JSONB NOT NULL,
	net_monthly DOUBLE PRECISION NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE(plate_id, method)
);

CREATE INDEX IF NOT EXISTS idx_comparisons_net_monthly ON comparisons(net_monthly);
CREATE INDEX IF NOT EXISTS idx_comparisons_created_at ON comparisons(created_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveComparison(ctx context.Context, c *model.Comparison) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}

	var vehicleJSON []byte
	if c.Vehicle != nil {
		b, err := json.Marshal(c.Vehicle)
		if err != nil {
			return eris.Wrap(err, "postgres: marshal vehicle")
		}
		vehicleJSON = b
	}
	breakdownJSON, err := json.Marshal(c.Breakdown)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal breakdown")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO comparisons (id, plate_id, method, summary, vehicle, breakdown, net_monthly, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (plate_id, method) DO UPDATE SET
		   id = $1, summary = $4, vehicle = $5, breakdown = $6, net_monthly = $7, created_at = $8`,
		c.ID, c.PlateID, c.Method, c.VehicleSummary,
		vehicleJSON, breakdownJSON, c.Breakdown.Totals.NetMonthly, c.CreatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: save comparison")
	}

	_, err = s.pool.Exec(ctx,
		`DELETE FROM comparisons WHERE id NOT IN (
		   SELECT id FROM comparisons ORDER BY created_at DESC LIMIT $1
		 )`,
		MaxComparisons,
	)
	return eris.Wrap(err, "postgres: prune comparisons")
}

func (s *PostgresStore) ListComparisons(ctx context.Context) ([]model.Comparison, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, plate_id, method, summary, vehicle, breakdown, created_at
		 FROM comparisons ORDER BY net_monthly ASC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list comparisons")
	}
	defer rows.Close()

	var out []model.Comparison
	for rows.Next() {
		c, err := scanPgComparison(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list comparisons iterate")
}

func (s *PostgresStore) GetComparison(ctx context.Context, id string) (*model.Comparison, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, plate_id, method, summary, vehicle, breakdown, created_at
		 FROM comparisons WHERE id = $1`,
		id,
	)
	c, err := scanPgComparison(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrComparisonNotFound, "%s", id)
	}
	return c, err
}

func (s *PostgresStore) RemoveComparison(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM comparisons WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: remove comparison %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrComparisonNotFound, "%s", id)
	}
	return nil
}

func (s *PostgresStore) ClearComparisons(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM comparisons`)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: clear comparisons")
	}
	return int(tag.RowsAffected()), nil
}

func scanPgComparison(row pgx.Row) (*model.Comparison, error) {
	var c model.Comparison
	var vehicleJSON, breakdownJSON []byte

	err := row.Scan(&c.ID, &c.PlateID, &c.Method, &c.VehicleSummary, &vehicleJSON, &breakdownJSON, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "postgres: scan comparison")
	}

	if len(vehicleJSON) > 0 {
		c.Vehicle = &model.Vehicle{}
		if err := json.Unmarshal(vehicleJSON, c.Vehicle); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal vehicle")
		}
	}
	if err := json.Unmarshal(breakdownJSON, &c.Breakdown); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal breakdown")
	}
	return &c, nil
}
