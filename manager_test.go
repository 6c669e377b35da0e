package locality

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestOpenManagerLoads(t *testing.T) {
	want := DefaultSettings()
	want.Timezone = "Europe/Berlin"
	m, err := OpenManager(context.Background(), &memStore{loaded: want})
	if err != nil {
		t.Fatal(err)
	}
	if got := m.Snapshot(); got != want {
		t.Errorf("Snapshot() = %+v, want %+v", got, want)
	}
}

func TestOpenManagerWrapsLoadError(t *testing.T) {
	_, err := OpenManager(context.Background(), &memStore{loadErr: errBoom})
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConfigError, got %T %v", err, err)
	}
	if !errors.Is(err, errBoom) {
		t.Error("ConfigError should wrap the store error")
	}
}

func TestApplyPersistsEachChange(t *testing.T) {
	store := &memStore{loaded: DefaultSettings()}
	m, err := OpenManager(context.Background(), store)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if _, err := m.Apply(ctx, SettingChanged{ID: NewID(), Key: KeyAddWeather, Value: false}); err != nil {
		t.Fatal(err)
	}
	got, err := m.Apply(ctx, SettingChanged{Key: KeyTimezone, Value: "Asia/Tokyo"})
	if err != nil {
		t.Fatal(err)
	}
	if got.AddWeather || got.Timezone != "Asia/Tokyo" {
		t.Errorf("unexpected settings %+v", got)
	}
	if len(store.saves) != 2 {
		t.Fatalf("expected 2 saves, got %d", len(store.saves))
	}
	if store.saves[1] != got {
		t.Errorf("last save %+v differs from returned %+v", store.saves[1], got)
	}
}

func TestApplyRejectsInvalidChange(t *testing.T) {
	store := &memStore{loaded: DefaultSettings()}
	m, _ := OpenManager(context.Background(), store)

	_, err := m.Apply(context.Background(), SettingChanged{Key: KeyTimezone, Value: "Nowhere/Land"})
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
	if !errors.Is(err, ErrInvalidSetting) {
		t.Errorf("expected ErrInvalidSetting, got %v", err)
	}
	if len(store.saves) != 0 {
		t.Error("invalid change should not be saved")
	}
	if m.Snapshot().Timezone != "UTC" {
		t.Error("invalid change should not alter live settings")
	}
}

func TestApplySaveFailureKeepsPrevious(t *testing.T) {
	store := &memStore{loaded: DefaultSettings(), saveErr: errBoom}
	m, _ := OpenManager(context.Background(), store)

	if _, err := m.Apply(context.Background(), SettingChanged{Key: KeyAddTime, Value: false}); !errors.Is(err, errBoom) {
		t.Fatalf("expected save error, got %v", err)
	}
	if !m.Snapshot().AddTime {
		t.Error("failed save should not alter live settings")
	}
}

func TestApplyConcurrent(t *testing.T) {
	store := &memStore{loaded: DefaultSettings()}
	m, _ := OpenManager(context.Background(), store)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m.Apply(context.Background(), SettingChanged{Key: KeyAddDate, Value: i%2 == 0})
			_ = m.Snapshot()
		}(i)
	}
	wg.Wait()
	if len(store.saves) != 20 {
		t.Errorf("expected 20 saves, got %d", len(store.saves))
	}
}
