// Package jsonfile implements locality.SettingsStore as a single JSON file.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nevindra/locality"
)

// DefaultPath is the settings file name used when none is configured.
const DefaultPath = "settings.json"

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a structured logger for the store.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Store keeps settings in one JSON object on disk, keys in their
// declared order.
type Store struct {
	path   string
	logger *slog.Logger
}

var _ locality.SettingsStore = (*Store)(nil)

// New creates a Store at path. An empty path uses DefaultPath.
func New(path string, opts ...Option) *Store {
	if path == "" {
		path = DefaultPath
	}
	s := &Store{path: path, logger: slog.New(discardHandler{})}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Path returns the file location.
func (s *Store) Path() string { return s.path }

// Load reads the settings file. When it does not exist, defaults are
// written and returned.
func (s *Store) Load(ctx context.Context) (locality.Settings, error) {
	start := time.Now()
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("jsonfile: no settings file, writing defaults", "path", s.path)
		def := locality.DefaultSettings()
		if err := s.Save(ctx, def); err != nil {
			return locality.Settings{}, err
		}
		return def, nil
	}
	if err != nil {
		return locality.Settings{}, &locality.ConfigError{Path: s.path, Err: err}
	}

	settings, err := locality.DecodeSettings(data)
	if err != nil {
		s.logger.Error("jsonfile: load failed", "path", s.path, "error", err)
		return locality.Settings{}, &locality.ConfigError{Path: s.path, Err: err}
	}
	s.logger.Debug("jsonfile: loaded", "path", s.path, "duration", time.Since(start))
	return settings, nil
}

// Save overwrites the settings file. The write goes to a temp file in the
// same directory that is then renamed over the target.
func (s *Store) Save(_ context.Context, settings locality.Settings) error {
	data, err := json.MarshalIndent(settings, "", "    ")
	if err != nil {
		return &locality.ConfigError{Path: s.path, Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return &locality.ConfigError{Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &locality.ConfigError{Path: s.path, Err: fmt.Errorf("write: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &locality.ConfigError{Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return &locality.ConfigError{Path: s.path, Err: err}
	}
	s.logger.Debug("jsonfile: saved", "path", s.path)
	return nil
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
