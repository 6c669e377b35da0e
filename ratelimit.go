package locality

import (
	"context"
	"sync"
	"time"
)

// window is a per-minute sliding request budget shared by the rate-limited
// lookup wrappers.
type window struct {
	rpm int
	mu  sync.Mutex
	at  []time.Time
	now func() time.Time
}

// wait blocks until the budget allows one more request, then records it.
// Returns ctx.Err() if the context ends first; under a lookup timeout that
// surfaces as the usual placeholder.
func (w *window) wait(ctx context.Context) error {
	if w.rpm <= 0 {
		return nil
	}
	for {
		w.mu.Lock()
		now := w.now()
		w.at = pruneTime(w.at, now.Add(-time.Minute))
		if len(w.at) < w.rpm {
			w.at = append(w.at, now)
			w.mu.Unlock()
			return nil
		}
		wait := w.at[0].Add(time.Minute).Sub(now)
		if wait <= 0 {
			wait = 10 * time.Millisecond
		}
		w.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// pruneTime removes entries older than cutoff from a sorted time slice.
func pruneTime(s []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(s) && s[i].Before(cutoff) {
		i++
	}
	return s[i:]
}

type rateLimitLocator struct {
	inner Locator
	w     *window
}

// RateLimitLocator wraps l so that at most rpm lookups start per minute.
// A lookup that cannot get budget before its context ends fails with
// *LocationError. rpm <= 0 returns l unchanged.
//
//	locator = locality.RateLimitLocator(ipgeo.New(), 45)
func RateLimitLocator(l Locator, rpm int) Locator {
	if rpm <= 0 {
		return l
	}
	return &rateLimitLocator{inner: l, w: &window{rpm: rpm, now: time.Now}}
}

func (r *rateLimitLocator) Locate(ctx context.Context) (Location, error) {
	if err := r.w.wait(ctx); err != nil {
		return Location{}, &LocationError{Err: err}
	}
	return r.inner.Locate(ctx)
}

type rateLimitWeather struct {
	inner WeatherProvider
	w     *window
}

// RateLimitWeather is RateLimitLocator for weather providers. Failures to
// get budget are *WeatherError.
func RateLimitWeather(p WeatherProvider, rpm int) WeatherProvider {
	if rpm <= 0 {
		return p
	}
	return &rateLimitWeather{inner: p, w: &window{rpm: rpm, now: time.Now}}
}

func (r *rateLimitWeather) Current(ctx context.Context, at Coordinates) (Conditions, error) {
	if err := r.w.wait(ctx); err != nil {
		return Conditions{}, &WeatherError{Err: err}
	}
	return r.inner.Current(ctx, at)
}

// compile-time checks
var (
	_ Locator         = (*rateLimitLocator)(nil)
	_ WeatherProvider = (*rateLimitWeather)(nil)
)
