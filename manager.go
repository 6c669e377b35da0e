package locality

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// SettingChanged is emitted by the settings panel when a widget changes.
type SettingChanged struct {
	ID    string `json:"id,omitempty"`
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithManagerLogger sets a structured logger for the manager.
func WithManagerLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) { m.logger = l }
}

// Manager owns the live Settings. Changes arrive as SettingChanged messages
// and are applied one at a time, each followed by a synchronous save.
type Manager struct {
	mu     sync.RWMutex
	cur    Settings
	store  SettingsStore
	logger *slog.Logger
}

// OpenManager loads settings from store. A load failure is returned as
// *ConfigError so callers can refuse to start.
func OpenManager(ctx context.Context, store SettingsStore, opts ...ManagerOption) (*Manager, error) {
	m := &Manager{store: store, logger: nopLogger}
	for _, o := range opts {
		o(m)
	}
	s, err := store.Load(ctx)
	if err != nil {
		var ce *ConfigError
		if !errors.As(err, &ce) {
			err = &ConfigError{Err: err}
		}
		return nil, err
	}
	m.cur = s
	m.logger.Debug("settings loaded", "timezone", s.Timezone, "temp_unit", s.TempUnit, "locale", s.Locale)
	return m, nil
}

// Snapshot returns a copy of the current settings.
func (m *Manager) Snapshot() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cur
}

// Apply validates and applies one change, persists the result and returns
// the new settings. On any error the live settings are left untouched.
func (m *Manager) Apply(ctx context.Context, change SettingChanged) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next, err := m.cur.With(change.Key, change.Value)
	if err != nil {
		m.logger.Warn("setting rejected", "id", change.ID, "key", change.Key, "error", err)
		return m.cur, &ConfigError{Err: fmt.Errorf("%w: %w", ErrInvalidSetting, err)}
	}
	if err := m.store.Save(ctx, next); err != nil {
		m.logger.Error("settings save failed", "id", change.ID, "key", change.Key, "error", err)
		return m.cur, err
	}
	m.cur = next
	m.logger.Info("setting changed", "id", change.ID, "key", change.Key, "value", change.Value)
	return next, nil
}
