package locality

import (
	"context"
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2026, time.October, 19, 15, 45, 0, 0, time.UTC)

func TestAnnotateAllTogglesOff(t *testing.T) {
	loc := &fakeLocator{loc: berlin()}
	got := Annotate("Hello", allOff(), testNow, func() (Location, error) { return loc.Locate(context.Background()) }, nil)
	if got != "Hello" {
		t.Errorf("got %q, want unchanged text", got)
	}
	if loc.calls != 0 {
		t.Errorf("locator called %d times with location disabled", loc.calls)
	}
}

func TestAnnotateTimezoneOnly(t *testing.T) {
	s := allOff()
	s.AddTimezone = true
	s.Timezone = "UTC"

	got := Annotate("Hello", s, testNow, nil, nil)
	if want := "Hello\n[Timezone: UTC]"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTimeAndDateFormatting(t *testing.T) {
	s := allOff()
	s.AddTime = true
	s.AddDate = true

	got := Fragments(s, testNow, nil, nil)
	want := []string{"Current time: 03:45 PM", "Current date: October 19, 2026"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fragment %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTimeRenderedInConfiguredZone(t *testing.T) {
	s := allOff()
	s.AddTime = true
	s.Timezone = "America/New_York"

	got := Fragments(s, testNow, nil, nil)
	if len(got) != 1 || got[0] != "Current time: 11:45 AM" {
		t.Errorf("got %v, want [Current time: 11:45 AM]", got)
	}
}

func TestFragmentOrderForEverySubset(t *testing.T) {
	labels := []string{"Current time:", "Current date:", "Timezone:", "Location:", "Weather:"}
	locate := func() (Location, error) { return berlin(), nil }
	weather := func(Coordinates) (Conditions, error) { return Conditions{Code: 0, TemperatureC: 20}, nil }

	for mask := 0; mask < 32; mask++ {
		s := allOff()
		s.AddTime = mask&1 != 0
		s.AddDate = mask&2 != 0
		s.AddTimezone = mask&4 != 0
		s.AddLocation = mask&8 != 0
		s.AddWeather = mask&16 != 0

		frags := Fragments(s, testNow, locate, weather)
		last := -1
		for _, f := range frags {
			idx := -1
			for i, l := range labels {
				if strings.HasPrefix(f, l) {
					idx = i
					break
				}
			}
			if idx < 0 {
				t.Fatalf("mask %05b: unexpected fragment %q", mask, f)
			}
			if idx <= last {
				t.Errorf("mask %05b: fragments out of order: %v", mask, frags)
			}
			last = idx
		}
	}
}

func TestWeatherRequiresLocation(t *testing.T) {
	w := &fakeWeather{cond: Conditions{Code: 3, TemperatureC: 12.5}}
	weather := func(at Coordinates) (Conditions, error) { return w.Current(context.Background(), at) }

	s := allOff()
	s.AddWeather = true
	if got := Fragments(s, testNow, func() (Location, error) { return berlin(), nil }, weather); len(got) != 0 {
		t.Errorf("weather without location enabled: got %v", got)
	}

	s.AddLocation = true
	got := Fragments(s, testNow, func() (Location, error) { return Location{}, &LocationError{Err: errBoom} }, weather)
	if len(got) != 1 || got[0] != "Location: Location unavailable, Unknown" {
		t.Errorf("failed location: got %v", got)
	}

	got = Fragments(s, testNow, func() (Location, error) { return Location{City: "Nowhere", Country: "X"}, nil }, weather)
	if len(got) != 1 {
		t.Errorf("location without coordinates should omit weather, got %v", got)
	}
	if w.calls != 0 {
		t.Errorf("weather called %d times, want 0", w.calls)
	}

	got = Fragments(s, testNow, func() (Location, error) { return berlin(), nil }, weather)
	want := []string{"Location: Berlin, Germany", "Weather: Overcast, 12.5°C"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("got %v, want %v", got, want)
	}
	if w.got.Latitude != 52.52 || w.got.Longitude != 13.41 {
		t.Errorf("weather got coordinates %+v", w.got)
	}
}

func TestWeatherFailurePlaceholder(t *testing.T) {
	s := allOff()
	s.AddLocation = true
	s.AddWeather = true

	got := Annotate("Hi", s, testNow,
		func() (Location, error) { return berlin(), nil },
		func(Coordinates) (Conditions, error) { return Conditions{}, &WeatherError{Err: errBoom} },
	)
	if want := "Hi\n[Location: Berlin, Germany | Weather: Weather unavailable]"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestAnnotatorModifyKeepsVisibleText(t *testing.T) {
	loc := &fakeLocator{loc: berlin()}
	w := &fakeWeather{cond: Conditions{Code: 0, TemperatureC: 0}}
	a := NewAnnotator(WithLocator(loc), WithWeather(w), WithClock(fixedClock(testNow)))

	s := DefaultSettings()
	s.TempUnit = Fahrenheit
	text, visible := a.Modify(context.Background(), s, "Hello", "Hello (visible)")

	want := "Hello\n[Current time: 03:45 PM | Current date: October 19, 2026 | Timezone: UTC | Location: Berlin, Germany | Weather: Clear, 32.0°F]"
	if text != want {
		t.Errorf("text = %q\nwant  %q", text, want)
	}
	if visible != "Hello (visible)" {
		t.Errorf("visible text changed: %q", visible)
	}
	if loc.calls != 1 || w.calls != 1 {
		t.Errorf("expected one lookup each, got locate=%d weather=%d", loc.calls, w.calls)
	}
}

func TestAnnotatorLookupTimeout(t *testing.T) {
	a := NewAnnotator(WithLocator(slowLocator{}), WithLookupTimeout(20*time.Millisecond), WithClock(fixedClock(testNow)))
	s := allOff()
	s.AddLocation = true
	s.AddWeather = true

	done := make(chan string, 1)
	go func() {
		text, _ := a.Modify(context.Background(), s, "x", "x")
		done <- text
	}()
	select {
	case got := <-done:
		if want := "x\n[Location: Location unavailable, Unknown]"; got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("lookup was not bounded by the timeout")
	}
}

func TestAnnotatorWithoutLocator(t *testing.T) {
	a := NewAnnotator(WithClock(fixedClock(testNow)))
	s := allOff()
	s.AddLocation = true
	text, _ := a.Modify(context.Background(), s, "x", "x")
	if want := "x\n[Location: Location unavailable, Unknown]"; text != want {
		t.Errorf("got %q, want %q", text, want)
	}
}
