// Package postgres implements locality.SettingsStore on PostgreSQL.
//
// Store accepts an externally-owned *pgxpool.Pool via constructor
// injection. The caller creates and closes the pool.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nevindra/locality"
)

// DefaultTable is the settings table name.
const DefaultTable = "locality_settings"

// Option configures a Store.
type Option func(*Store)

// WithTable overrides the table name. The name is used verbatim in SQL
// after identifier quoting.
func WithTable(name string) Option {
	return func(s *Store) { s.table = name }
}

// Store implements locality.SettingsStore backed by PostgreSQL.
// Each setting is a row holding its JSON-encoded value as JSONB.
type Store struct {
	pool  *pgxpool.Pool
	table string
}

var _ locality.SettingsStore = (*Store)(nil)

// New creates a Store using an existing pgxpool.Pool.
// The caller owns the pool and is responsible for closing it.
func New(pool *pgxpool.Pool, opts ...Option) *Store {
	s := &Store{pool: pool, table: DefaultTable}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) ident() string {
	return pgx.Identifier{s.table}.Sanitize()
}

// Init creates the settings table.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		key TEXT PRIMARY KEY,
		value JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`, s.ident()))
	if err != nil {
		return &locality.ConfigError{Path: s.table, Err: fmt.Errorf("postgres: create table: %w", err)}
	}
	return nil
}

// Load reads all setting rows. An empty table is seeded with defaults.
func (s *Store) Load(ctx context.Context) (locality.Settings, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`SELECT key, value::text FROM %s`, s.ident()))
	if err != nil {
		return locality.Settings{}, &locality.ConfigError{Path: s.table, Err: fmt.Errorf("postgres: load: %w", err)}
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return locality.Settings{}, &locality.ConfigError{Path: s.table, Err: fmt.Errorf("postgres: scan: %w", err)}
		}
		values[k] = v
	}
	if err := rows.Err(); err != nil {
		return locality.Settings{}, &locality.ConfigError{Path: s.table, Err: err}
	}

	if len(values) == 0 {
		def := locality.DefaultSettings()
		if err := s.Save(ctx, def); err != nil {
			return locality.Settings{}, err
		}
		return def, nil
	}

	settings, err := locality.DecodeValues(values)
	if err != nil {
		return locality.Settings{}, &locality.ConfigError{Path: s.table, Err: err}
	}
	return settings, nil
}

// Save upserts every setting in one batch.
func (s *Store) Save(ctx context.Context, settings locality.Settings) error {
	values, err := locality.EncodeValues(settings)
	if err != nil {
		return &locality.ConfigError{Path: s.table, Err: err}
	}

	q := fmt.Sprintf(`INSERT INTO %s (key, value, updated_at) VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`, s.ident())

	batch := &pgx.Batch{}
	for _, k := range locality.Keys {
		batch.Queue(q, k, values[k])
	}
	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return &locality.ConfigError{Path: s.table, Err: fmt.Errorf("postgres: save: %w", err)}
	}
	return nil
}
