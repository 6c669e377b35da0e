// Package sqlite implements locality.SettingsStore using pure-Go SQLite.
// Each setting is one row holding its JSON-encoded value. Zero CGO required.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/nevindra/locality"

	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// StoreOption configures a SQLite Store.
type StoreOption func(*Store)

// WithLogger sets a structured logger for the store.
// When set, the store emits debug logs for every operation including
// timing and row counts. If not set, no logs are emitted.
func WithLogger(l *slog.Logger) StoreOption {
	return func(s *Store) { s.logger = l }
}

// Store implements locality.SettingsStore backed by a local SQLite file.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

var _ locality.SettingsStore = (*Store)(nil)

// nopLogger is a logger that discards all output.
var nopLogger = slog.New(discardHandler{})

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// New creates a Store using a local SQLite file at dbPath.
// The pool is limited to one connection so writers serialize.
func New(dbPath string, opts ...StoreOption) *Store {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		// sql.Open only fails when the driver is not registered; with the
		// blank import above that never happens.
		panic(fmt.Sprintf("sqlite: open driver: %v", err))
	}
	db.SetMaxOpenConns(1)
	s := &Store{db: db, path: dbPath, logger: nopLogger}
	for _, o := range opts {
		o(s)
	}
	s.logger.Debug("sqlite: store opened", "path", dbPath)
	return s
}

// Init creates the settings table.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`)
	if err != nil {
		return &locality.ConfigError{Path: s.path, Err: fmt.Errorf("create table: %w", err)}
	}
	s.logger.Debug("sqlite: init completed")
	return nil
}

// Load reads all setting rows. An empty table is seeded with defaults.
func (s *Store) Load(ctx context.Context) (locality.Settings, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		s.logger.Error("sqlite: load failed", "error", err)
		return locality.Settings{}, &locality.ConfigError{Path: s.path, Err: fmt.Errorf("load: %w", err)}
	}
	defer rows.Close()

	values := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return locality.Settings{}, &locality.ConfigError{Path: s.path, Err: fmt.Errorf("scan: %w", err)}
		}
		values[k] = v
	}
	if err := rows.Err(); err != nil {
		return locality.Settings{}, &locality.ConfigError{Path: s.path, Err: err}
	}

	if len(values) == 0 {
		s.logger.Info("sqlite: no settings stored, writing defaults")
		def := locality.DefaultSettings()
		if err := s.Save(ctx, def); err != nil {
			return locality.Settings{}, err
		}
		return def, nil
	}

	settings, err := locality.DecodeValues(values)
	if err != nil {
		return locality.Settings{}, &locality.ConfigError{Path: s.path, Err: err}
	}
	s.logger.Debug("sqlite: load ok", "rows", len(values), "duration", time.Since(start))
	return settings, nil
}

// Save upserts every setting in one transaction.
func (s *Store) Save(ctx context.Context, settings locality.Settings) error {
	start := time.Now()
	values, err := locality.EncodeValues(settings)
	if err != nil {
		return &locality.ConfigError{Path: s.path, Err: err}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &locality.ConfigError{Path: s.path, Err: fmt.Errorf("begin: %w", err)}
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, k := range locality.Keys {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO settings (key, value, updated_at) VALUES (?, ?, ?)`,
			k, values[k], now,
		); err != nil {
			s.logger.Error("sqlite: save failed", "key", k, "error", err)
			return &locality.ConfigError{Path: s.path, Err: fmt.Errorf("save %s: %w", k, err)}
		}
	}
	if err := tx.Commit(); err != nil {
		return &locality.ConfigError{Path: s.path, Err: fmt.Errorf("commit: %w", err)}
	}
	s.logger.Debug("sqlite: save ok", "duration", time.Since(start))
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.logger.Debug("sqlite: closing store")
	err := s.db.Close()
	if err != nil {
		s.logger.Error("sqlite: close failed", "error", err)
	}
	return err
}
