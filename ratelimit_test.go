package locality

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRateLimitLocator_AllowsWithinLimit(t *testing.T) {
	inner := &fakeLocator{loc: Location{City: "Lima", Country: "Peru"}}
	l := RateLimitLocator(inner, 3)

	for i := 0; i < 3; i++ {
		if _, err := l.Locate(context.Background()); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
	}
	if inner.calls != 3 {
		t.Errorf("expected 3 calls, got %d", inner.calls)
	}
}

func TestRateLimitLocator_BlocksWhenExceeded(t *testing.T) {
	inner := &fakeLocator{loc: Location{City: "Lima", Country: "Peru"}}
	l := RateLimitLocator(inner, 1)

	if _, err := l.Locate(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := l.Locate(ctx)
	var le *LocationError
	if !errors.As(err, &le) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected LocationError wrapping deadline, got %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("blocked lookup should not reach the provider, got %d calls", inner.calls)
	}
}

func TestRateLimitWeather_BlocksWhenExceeded(t *testing.T) {
	inner := &fakeWeather{cond: Conditions{Code: 0, TemperatureC: 20}}
	p := RateLimitWeather(inner, 1)

	if _, err := p.Current(context.Background(), Coordinates{}); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	var we *WeatherError
	if _, err := p.Current(ctx, Coordinates{}); !errors.As(err, &we) {
		t.Fatalf("expected *WeatherError, got %v", err)
	}
}

func TestRateLimitWindowSlides(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	w := &window{rpm: 1, now: func() time.Time { return now }}

	if err := w.wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	now = now.Add(61 * time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := w.wait(ctx); err != nil {
		t.Errorf("budget should be free after a minute: %v", err)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	inner := &fakeLocator{}
	if RateLimitLocator(inner, 0) != Locator(inner) {
		t.Error("rpm 0 should return the locator unchanged")
	}
	w := &fakeWeather{}
	if RateLimitWeather(w, -1) != WeatherProvider(w) {
		t.Error("negative rpm should return the provider unchanged")
	}
}
