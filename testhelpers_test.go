package locality

import (
	"context"
	"errors"
	"sync"
	"time"
	_ "time/tzdata"
)

// memStore is an in-memory SettingsStore that records saves.
type memStore struct {
	mu      sync.Mutex
	loaded  Settings
	loadErr error
	saveErr error
	saves   []Settings
}

func (m *memStore) Load(context.Context) (Settings, error) {
	if m.loadErr != nil {
		return Settings{}, m.loadErr
	}
	return m.loaded, nil
}

func (m *memStore) Save(_ context.Context, s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves = append(m.saves, s)
	return nil
}

// fakeLocator returns a fixed result and counts calls.
type fakeLocator struct {
	loc   Location
	err   error
	calls int
}

func (f *fakeLocator) Locate(context.Context) (Location, error) {
	f.calls++
	return f.loc, f.err
}

// fakeWeather returns fixed conditions and counts calls.
type fakeWeather struct {
	cond  Conditions
	err   error
	calls int
	got   Coordinates
}

func (f *fakeWeather) Current(_ context.Context, at Coordinates) (Conditions, error) {
	f.calls++
	f.got = at
	return f.cond, f.err
}

// slowLocator blocks until the context is done.
type slowLocator struct{}

func (slowLocator) Locate(ctx context.Context) (Location, error) {
	<-ctx.Done()
	return Location{}, &LocationError{Err: ctx.Err()}
}

var errBoom = errors.New("boom")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func allOff() Settings {
	s := DefaultSettings()
	s.AddTime = false
	s.AddDate = false
	s.AddTimezone = false
	s.AddLocation = false
	s.AddWeather = false
	return s
}

func berlin() Location {
	return Location{City: "Berlin", Country: "Germany", Coordinates: &Coordinates{Latitude: 52.52, Longitude: 13.41}}
}
